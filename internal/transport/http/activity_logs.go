package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/KentJhon/itrack-backend/internal/app"
	"github.com/KentJhon/itrack-backend/internal/domain"
)

// ActivityLister is the surface audit-trail handlers need.
type ActivityLister interface {
	List(ctx context.Context, filter domain.ActivityFilter) (app.ActivityPage, error)
	Highlights(ctx context.Context) ([]domain.ActivityLog, error)
}

// HandleListActivityLogs returns the paginated, filterable audit trail.
func HandleListActivityLogs(svc ActivityLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := domain.ActivityFilter{
			Action:   r.URL.Query().Get("action"),
			Search:   r.URL.Query().Get("search"),
			Page:     queryInt(r, "page", 1),
			PageSize: queryInt(r, "page_size", 0),
		}

		if raw := r.URL.Query().Get("user_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidID, "user_id must be an integer")
				return
			}
			filter.UserID = &id
		}
		for _, q := range []struct {
			name string
			dst  **time.Time
		}{
			{"date_from", &filter.DateFrom},
			{"date_to", &filter.DateTo},
		} {
			raw := r.URL.Query().Get(q.name)
			if raw == "" {
				continue
			}
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, q.name+" must be YYYY-MM-DD")
				return
			}
			*q.dst = &t
		}

		page, err := svc.List(r.Context(), filter)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, activityPageResponse{
			Entries: activityLogResponses(page.Entries),
			Total:   page.Total,
		})
	}
}

// HandleActivityHighlights returns recent logins, logouts and inventory
// changes for the dashboard feed.
func HandleActivityHighlights(svc ActivityLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.Highlights(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, activityLogResponses(entries))
	}
}

type activityLogResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type activityPageResponse struct {
	Entries []activityLogResponse `json:"entries"`
	Total   int                   `json:"total"`
}

func activityLogResponses(entries []domain.ActivityLog) []activityLogResponse {
	out := make([]activityLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, activityLogResponse{
			ID:          e.ID,
			UserID:      e.UserID,
			Username:    e.Username,
			Action:      e.Action,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}
