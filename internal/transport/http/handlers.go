package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

// ActivityRecorder is the minimal interface mutating handlers use to audit
// their calls.
type ActivityRecorder interface {
	Record(ctx context.Context, userID int64, action, description string)
}

// idParam parses the named chi URL parameter as a positive integer id.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q: %w", raw, domain.ErrInvalidID)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter, returning fallback
// when absent or malformed.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
