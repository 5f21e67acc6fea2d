package domain

import "time"

// Actions recorded in the activity log.
const (
	ActionCreate = "Create"
	ActionUpdate = "Update"
	ActionDelete = "Delete"
	ActionLogin  = "Login"
	ActionLogout = "Logout"
)

// ActivityLog is one audit-trail entry. UserID 0 means the actor could not
// be resolved (system action or anonymous request).
type ActivityLog struct {
	ID          int64
	UserID      int64
	Username    string
	Action      string
	Description string
	CreatedAt   time.Time
}

// ActivityFilter narrows the paginated log listing; zero values mean no
// filter.
type ActivityFilter struct {
	UserID   *int64
	Action   string
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}
