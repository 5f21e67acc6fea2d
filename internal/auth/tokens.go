package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/KentJhon/itrack-backend/internal/clock"
)

// Token kinds carried in the "type" claim so access and refresh tokens
// cannot be swapped for one another.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the verified content of a token.
type Claims struct {
	UserID int64
	Role   string
	Kind   string
}

type tokenClaims struct {
	Role string `json:"role"`
	Kind string `json:"type"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 access/refresh tokens.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clock.Clock
}

func NewManager(secret string, accessTTL, refreshTTL time.Duration, clk clock.Clock) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clock:      clk,
	}
}

// SignAccess mints a short-lived access token for the user.
func (m *Manager) SignAccess(userID int64, role string) (string, time.Time, error) {
	return m.sign(userID, role, KindAccess, m.accessTTL)
}

// SignRefresh mints a refresh token for the user.
func (m *Manager) SignRefresh(userID int64, role string) (string, time.Time, error) {
	return m.sign(userID, role, KindRefresh, m.refreshTTL)
}

func (m *Manager) sign(userID int64, role, kind string, ttl time.Duration) (string, time.Time, error) {
	now := m.clock.Now()
	expires := now.Add(ttl)

	claims := tokenClaims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// Verify parses a token and returns its claims. Expired, malformed, or
// wrongly signed tokens all map to ErrInvalidToken.
func (m *Manager) Verify(token string) (Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: userID, Role: claims.Role, Kind: claims.Kind}, nil
}
