package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

type ActivityRepository struct {
	db
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db{pool: pool}}
}

func (r *ActivityRepository) Insert(ctx context.Context, entry domain.ActivityLog) error {
	const stmt = `
INSERT INTO activity_logs (user_id, action, description, created_at)
VALUES ($1, $2, $3, $4)`

	if _, err := r.exec(ctx, stmt, entry.UserID, entry.Action, entry.Description, entry.CreatedAt); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (r *ActivityRepository) List(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityLog, int, error) {
	where := make([]string, 0, 5)
	args := []any{}

	appendWhere := func(cond string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.UserID != nil {
		appendWhere("al.user_id = $%d", *filter.UserID)
	}
	if filter.Action != "" {
		appendWhere("al.action = $%d", filter.Action)
	}
	if filter.Search != "" {
		appendWhere("al.description ILIKE $%d", "%"+filter.Search+"%")
	}
	if filter.DateFrom != nil {
		appendWhere("al.created_at::date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		appendWhere("al.created_at::date <= $%d", *filter.DateTo)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM activity_logs al %s`, whereSQL)
	if err := r.queryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity logs: %w", err)
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	listQuery := fmt.Sprintf(`
SELECT al.id, al.user_id, COALESCE(u.username, ''), al.action, al.description, al.created_at
FROM activity_logs al
LEFT JOIN users u ON u.id = al.user_id
%s
ORDER BY al.created_at DESC, al.id DESC
LIMIT $%d OFFSET $%d`, whereSQL, len(args)-1, len(args))

	rows, err := r.query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.ActivityLog
	for rows.Next() {
		var l domain.ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Username, &l.Action, &l.Description, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan activity log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list activity logs: %w", err)
	}
	return logs, total, nil
}

// Highlights returns the lightweight feed used by dashboard widgets:
// authentication events, inventory changes, and little else.
func (r *ActivityRepository) Highlights(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	const query = `
SELECT al.id, al.user_id, COALESCE(u.username, ''), al.action, al.description, al.created_at
FROM activity_logs al
LEFT JOIN users u ON u.id = al.user_id
WHERE al.action IN ($1, $2)
   OR (al.action = $3 AND al.description LIKE 'Added inventory item%')
   OR (al.action = $4 AND al.description LIKE 'Deleted inventory item%')
   OR (al.action = $5 AND al.description LIKE 'Updated inventory item%')
   OR (al.action = $5 AND al.description LIKE 'Added % units to item%')
ORDER BY al.created_at DESC, al.id DESC
LIMIT $6`

	rows, err := r.query(ctx, query,
		domain.ActionLogin,
		domain.ActionLogout,
		domain.ActionCreate,
		domain.ActionDelete,
		domain.ActionUpdate,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("activity highlights: %w", err)
	}
	defer rows.Close()

	var logs []domain.ActivityLog
	for rows.Next() {
		var l domain.ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Username, &l.Action, &l.Description, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity highlights: %w", err)
	}
	return logs, nil
}
