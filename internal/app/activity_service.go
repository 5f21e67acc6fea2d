package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/KentJhon/itrack-backend/internal/clock"
	"github.com/KentJhon/itrack-backend/internal/domain"
)

type ActivityRepository interface {
	Insert(ctx context.Context, entry domain.ActivityLog) error
	List(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityLog, int, error)
	Highlights(ctx context.Context, limit int) ([]domain.ActivityLog, error)
}

type ActivityService struct {
	repo   ActivityRepository
	clock  clock.Clock
	logger zerolog.Logger
}

func NewActivityService(repo ActivityRepository, clk clock.Clock, logger zerolog.Logger) *ActivityService {
	return &ActivityService{repo: repo, clock: clk, logger: logger}
}

// Record writes an audit entry. Failures are logged and swallowed so that
// audit trouble never fails the operation being audited.
func (s *ActivityService) Record(ctx context.Context, userID int64, action, description string) {
	entry := domain.ActivityLog{
		UserID:      userID,
		Action:      action,
		Description: description,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Int64("user_id", userID).
			Str("action", action).
			Msg("activity log insert failed")
	}
}

type ActivityPage struct {
	Entries []domain.ActivityLog
	Total   int
}

const (
	defaultActivityPageSize = 20
	maxActivityPageSize     = 100
)

func (s *ActivityService) List(ctx context.Context, filter domain.ActivityFilter) (ActivityPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultActivityPageSize
	}
	if filter.PageSize > maxActivityPageSize {
		filter.PageSize = maxActivityPageSize
	}
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return ActivityPage{}, err
	}
	return ActivityPage{Entries: entries, Total: total}, nil
}

const activityHighlightLimit = 10

func (s *ActivityService) Highlights(ctx context.Context) ([]domain.ActivityLog, error) {
	return s.repo.Highlights(ctx, activityHighlightLimit)
}
