package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

// ReportRepository serves the read-only listing, report, and dashboard
// queries. Nothing here locks or mutates.
type ReportRepository struct {
	db
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db{pool: pool}}
}

const transactionColumns = `
SELECT o.id, o.receipt_no, o.customer_name, o.total_price, o.completed_at, u.username
FROM orders o
JOIN users u ON u.id = o.user_id`

const hasDeferredLine = `EXISTS (
	SELECT 1
	FROM order_lines ol
	JOIN items i ON i.id = ol.item_id
	WHERE ol.order_id = o.id AND i.category = $1
)`

// ListNormalTransactions returns orders with no deferred-category line.
func (r *ReportRepository) ListNormalTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := transactionColumns + `
WHERE NOT ` + hasDeferredLine + `
ORDER BY o.completed_at DESC NULLS LAST, o.id DESC`

	return r.listTransactions(ctx, query)
}

// ListJobOrderTransactions returns orders with at least one deferred-category line.
func (r *ReportRepository) ListJobOrderTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := transactionColumns + `
WHERE ` + hasDeferredLine + `
ORDER BY o.completed_at DESC NULLS LAST, o.id DESC`

	return r.listTransactions(ctx, query)
}

func (r *ReportRepository) listTransactions(ctx context.Context, query string) ([]domain.Transaction, error) {
	rows, err := r.query(ctx, query, domain.DeferredCategory)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.OrderID, &t.ReceiptNo, &t.CustomerName, &t.TotalPrice, &t.CompletedAt, &t.Username); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// MonthlyNormalReport lists per-line rows of receipt-bearing orders without
// deferred lines, completed within [start, end).
func (r *ReportRepository) MonthlyNormalReport(ctx context.Context, start, end time.Time) ([]domain.ReportRow, error) {
	const query = `
SELECT o.id, o.receipt_no, o.customer_name, o.completed_at, ol.quantity,
       COALESCE(NULLIF(i.unit, ''), 'pcs'), i.name, i.price, ol.quantity * i.price
FROM orders o
JOIN order_lines ol ON ol.order_id = o.id
JOIN items i ON i.id = ol.item_id
WHERE o.completed_at >= $2 AND o.completed_at < $3
  AND o.receipt_no IS NOT NULL
  AND NOT ` + hasDeferredLine + `
ORDER BY o.completed_at, o.id, ol.id`

	return r.reportRows(ctx, query, domain.DeferredCategory, start, end)
}

// MonthlyJobOrderReport lists deferred-category lines of orders that contain
// at least one such line, completed within [start, end).
func (r *ReportRepository) MonthlyJobOrderReport(ctx context.Context, start, end time.Time) ([]domain.ReportRow, error) {
	const query = `
SELECT o.id, '-', o.customer_name, o.completed_at, ol.quantity,
       COALESCE(NULLIF(i.unit, ''), 'pcs'), i.name, i.price, ol.quantity * i.price
FROM orders o
JOIN order_lines ol ON ol.order_id = o.id
JOIN items i ON i.id = ol.item_id
WHERE o.completed_at >= $2 AND o.completed_at < $3
  AND i.category = $1
  AND ` + hasDeferredLine + `
ORDER BY o.completed_at, o.id, ol.id`

	return r.reportRows(ctx, query, domain.DeferredCategory, start, end)
}

// MonthlyCombinedReport lists all categories: regular rows require a real
// receipt, deferred rows never show one.
func (r *ReportRepository) MonthlyCombinedReport(ctx context.Context, start, end time.Time) ([]domain.ReportRow, error) {
	const query = `
SELECT o.id,
       CASE WHEN i.category = $1 THEN '-' ELSE o.receipt_no END,
       o.customer_name, o.completed_at, ol.quantity,
       COALESCE(NULLIF(i.unit, ''), 'pcs'), i.name, i.price, ol.quantity * i.price
FROM orders o
JOIN order_lines ol ON ol.order_id = o.id
JOIN items i ON i.id = ol.item_id
WHERE o.completed_at >= $2 AND o.completed_at < $3
  AND ((o.receipt_no IS NOT NULL AND o.receipt_no <> '-') OR i.category = $1)
ORDER BY o.completed_at, o.id, ol.id`

	return r.reportRows(ctx, query, domain.DeferredCategory, start, end)
}

func (r *ReportRepository) reportRows(ctx context.Context, query string, args ...any) ([]domain.ReportRow, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("monthly report: %w", err)
	}
	defer rows.Close()

	var out []domain.ReportRow
	for rows.Next() {
		var row domain.ReportRow
		err := rows.Scan(
			&row.OrderID,
			&row.ReceiptNo,
			&row.Payer,
			&row.Date,
			&row.QtySold,
			&row.Unit,
			&row.Description,
			&row.UnitCost,
			&row.TotalCost,
		)
		if err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("monthly report: %w", err)
	}
	return out, nil
}

// DashboardStats aggregates over receipt-bearing orders.
func (r *ReportRepository) DashboardStats(ctx context.Context, topLimit int) (domain.DashboardStats, error) {
	var stats domain.DashboardStats

	err := r.queryRow(ctx, `
SELECT COALESCE(SUM(total_price), 0), COUNT(*)
FROM orders
WHERE receipt_no IS NOT NULL`).Scan(&stats.TotalRevenue, &stats.CompletedCount)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("dashboard totals: %w", err)
	}

	rows, err := r.query(ctx, `
SELECT i.id, i.name, SUM(ol.quantity) AS total_sold
FROM order_lines ol
JOIN orders o ON o.id = ol.order_id
JOIN items i ON i.id = ol.item_id
WHERE o.receipt_no IS NOT NULL
GROUP BY i.id, i.name
ORDER BY total_sold DESC, i.id
LIMIT $1`, topLimit)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("dashboard top items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.TopItem
		if err := rows.Scan(&item.ItemID, &item.Name, &item.TotalSold); err != nil {
			return domain.DashboardStats{}, fmt.Errorf("scan top item: %w", err)
		}
		stats.TopItems = append(stats.TopItems, item)
	}
	if err := rows.Err(); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("dashboard top items: %w", err)
	}
	return stats, nil
}

// TopItemsByPeriod returns the best sellers of a year, or of one month when
// month is non-nil.
func (r *ReportRepository) TopItemsByPeriod(ctx context.Context, year int, month *int, limit int) ([]domain.TopItem, error) {
	query := `
SELECT i.id, i.name, SUM(ol.quantity) AS total_sold
FROM order_lines ol
JOIN orders o ON o.id = ol.order_id
JOIN items i ON i.id = ol.item_id
WHERE o.completed_at IS NOT NULL AND EXTRACT(YEAR FROM o.completed_at) = $1`
	args := []any{year, limit}
	if month != nil {
		query += ` AND EXTRACT(MONTH FROM o.completed_at) = $3`
		args = append(args, *month)
	}
	query += `
GROUP BY i.id, i.name
ORDER BY total_sold DESC, i.id
LIMIT $2`

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top items: %w", err)
	}
	defer rows.Close()

	var items []domain.TopItem
	for rows.Next() {
		var item domain.TopItem
		if err := rows.Scan(&item.ItemID, &item.Name, &item.TotalSold); err != nil {
			return nil, fmt.Errorf("scan top item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top items: %w", err)
	}
	return items, nil
}

// MonthlySales returns the per-month totals of a year for months that had
// completed orders; the service fills the gaps.
func (r *ReportRepository) MonthlySales(ctx context.Context, year int) ([]domain.MonthlySale, error) {
	const query = `
SELECT EXTRACT(MONTH FROM completed_at)::int, SUM(total_price)
FROM orders
WHERE completed_at IS NOT NULL AND EXTRACT(YEAR FROM completed_at) = $1
GROUP BY 1
ORDER BY 1`

	rows, err := r.query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.MonthlySale
	for rows.Next() {
		var s domain.MonthlySale
		if err := rows.Scan(&s.Month, &s.Total); err != nil {
			return nil, fmt.Errorf("scan monthly sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}
	return sales, nil
}
