package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/KentJhon/itrack-backend/internal/app"
	"github.com/KentJhon/itrack-backend/internal/auth"
	"github.com/KentJhon/itrack-backend/internal/domain"
)

// Authenticator is the surface auth handlers need.
type Authenticator interface {
	Register(ctx context.Context, in app.RegisterInput) (domain.User, error)
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
	GetUser(ctx context.Context, userID int64) (domain.User, error)
}

// TokenIssuer signs access and refresh tokens and verifies refresh tokens.
type TokenIssuer interface {
	SignAccess(userID int64, role string) (string, time.Time, error)
	SignRefresh(userID int64, role string) (string, time.Time, error)
	Verify(token string) (auth.Claims, error)
}

func HandleRegister(svc Authenticator, activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "username and email are required")
			return
		}

		user, err := svc.Register(r.Context(), app.RegisterInput{
			Username: strings.TrimSpace(req.Username),
			Email:    strings.ToLower(strings.TrimSpace(req.Email)),
			Password: req.Password,
			RoleName: req.Role,
			RoleID:   req.RoleID,
		})
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		activity.Record(r.Context(), actorID(r.Context()), domain.ActionCreate,
			fmt.Sprintf("Registered user %s", user.Username))

		writeJSON(w, http.StatusCreated, newUserResponse(user))
	}
}

// HandleLogin verifies credentials and sets the token pair as HttpOnly
// cookies.
func HandleLogin(svc Authenticator, tokens TokenIssuer, activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		user, err := svc.Authenticate(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		if err := issueTokenCookies(w, tokens, user); err != nil {
			writeDomainError(w, r, err)
			return
		}

		activity.Record(r.Context(), user.ID, domain.ActionLogin,
			fmt.Sprintf("%s logged in", user.Username))

		writeJSON(w, http.StatusOK, newUserResponse(user))
	}
}

// HandleRefresh rotates the token pair if the refresh cookie is valid.
func HandleRefresh(svc Authenticator, tokens TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refreshTokenCookie)
		if err != nil || cookie.Value == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing refresh token")
			return
		}
		claims, err := tokens.Verify(cookie.Value)
		if err != nil || claims.Kind != auth.KindRefresh {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
			return
		}

		user, err := svc.GetUser(r.Context(), claims.UserID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		if err := issueTokenCookies(w, tokens, user); err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newUserResponse(user))
	}
}

// HandleLogout clears both token cookies.
func HandleLogout(activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearCookie(w, accessTokenCookie)
		clearCookie(w, refreshTokenCookie)

		if id := actorID(r.Context()); id != 0 {
			activity.Record(r.Context(), id, domain.ActionLogout, "Logged out")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleMe returns the authenticated user's profile.
func HandleMe(svc Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := actorFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "not authenticated")
			return
		}
		user, err := svc.GetUser(r.Context(), claims.UserID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newUserResponse(user))
	}
}

func issueTokenCookies(w http.ResponseWriter, tokens TokenIssuer, user domain.User) error {
	access, accessExp, err := tokens.SignAccess(user.ID, user.RoleName)
	if err != nil {
		return err
	}
	refresh, refreshExp, err := tokens.SignRefresh(user.ID, user.RoleName)
	if err != nil {
		return err
	}
	setTokenCookie(w, accessTokenCookie, access, accessExp)
	setTokenCookie(w, refreshTokenCookie, refresh, refreshExp)
	return nil
}

func setTokenCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	RoleID   *int64 `json:"role_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
