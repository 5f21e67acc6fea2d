package http

import (
	"context"
	"net/http"

	"github.com/KentJhon/itrack-backend/internal/auth"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

type actorKey struct{}

// TokenVerifier is the minimal interface needed to authenticate requests.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// RequireAuth rejects requests without a valid access token cookie and binds
// the verified claims to the request context.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(accessTokenCookie)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing access token")
				return
			}
			claims, err := tokens.Verify(cookie.Value)
			if err != nil || claims.Kind != auth.KindAccess {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), actorKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// actorFromContext returns the authenticated caller's claims, if any.
func actorFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(actorKey{}).(auth.Claims)
	return claims, ok
}

// actorID returns the authenticated caller's user id, or 0 when the request
// is unauthenticated.
func actorID(ctx context.Context) int64 {
	claims, ok := actorFromContext(ctx)
	if !ok {
		return 0
	}
	return claims.UserID
}
