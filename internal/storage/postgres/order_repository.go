package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

// OrderRepository backs the finalization and deletion paths. All locking
// methods are meant to run inside WithTx; the service is responsible for the
// lock order (order row first, then item rows).
type OrderRepository struct {
	db
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db{pool: pool}}
}

func (r *OrderRepository) ReceiptInUse(ctx context.Context, receiptNo string, excludeOrderID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM orders WHERE receipt_no = $1 AND id <> $2)`

	var taken bool
	if err := r.queryRow(ctx, query, receiptNo, excludeOrderID).Scan(&taken); err != nil {
		return false, fmt.Errorf("check receipt: %w", err)
	}
	return taken, nil
}

func (r *OrderRepository) GetOrderForUpdate(ctx context.Context, orderID int64) (domain.Order, error) {
	const query = `
SELECT id, user_id, customer_name, student_ref, course, total_price, receipt_no, status, completed_at, created_at
FROM orders
WHERE id = $1
FOR UPDATE`

	var o domain.Order
	var status string
	err := r.queryRow(ctx, query, orderID).Scan(
		&o.ID,
		&o.UserID,
		&o.CustomerName,
		&o.StudentRef,
		&o.Course,
		&o.TotalPrice,
		&o.ReceiptNo,
		&status,
		&o.CompletedAt,
		&o.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		if isLockNotAvailable(err) {
			return domain.Order{}, domain.ErrLockTimeout
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

// GetStockLinesForUpdate locks the order's lines together with their items
// and returns them in item-id order so concurrent finalizations acquire item
// locks in a consistent sequence.
func (r *OrderRepository) GetStockLinesForUpdate(ctx context.Context, orderID int64) ([]domain.StockLine, error) {
	const query = `
SELECT ol.item_id, ol.quantity, i.stock_quantity, i.category
FROM order_lines ol
JOIN items i ON i.id = ol.item_id
WHERE ol.order_id = $1
ORDER BY ol.item_id
FOR UPDATE`

	rows, err := r.query(ctx, query, orderID)
	if err != nil {
		if isLockNotAvailable(err) {
			return nil, domain.ErrLockTimeout
		}
		return nil, fmt.Errorf("lock order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.StockLine
	for rows.Next() {
		var l domain.StockLine
		if err := rows.Scan(&l.ItemID, &l.Quantity, &l.StockQuantity, &l.Category); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		if isLockNotAvailable(err) {
			return nil, domain.ErrLockTimeout
		}
		return nil, fmt.Errorf("lock order lines: %w", err)
	}
	return lines, nil
}

func (r *OrderRepository) DeductStock(ctx context.Context, itemID int64, quantity int) error {
	const stmt = `UPDATE items SET stock_quantity = stock_quantity - $2 WHERE id = $1`

	if _, err := r.exec(ctx, stmt, itemID, quantity); err != nil {
		return fmt.Errorf("deduct stock: %w", err)
	}
	return nil
}

func (r *OrderRepository) RestoreStock(ctx context.Context, itemID int64, quantity int) error {
	const stmt = `UPDATE items SET stock_quantity = stock_quantity + $2 WHERE id = $1`

	if _, err := r.exec(ctx, stmt, itemID, quantity); err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	return nil
}

// SetReceipt attaches the receipt (nil clears it) and marks the order
// finalized with the given completion time.
func (r *OrderRepository) SetReceipt(ctx context.Context, orderID int64, receiptNo *string, completedAt time.Time) error {
	const stmt = `
UPDATE orders
SET receipt_no = $2, status = $3, completed_at = $4
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID, receiptNo, domain.OrderStatusFinalized, completedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReceipt
		}
		return fmt.Errorf("set receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// MarkCompleted finalizes the order, keeping an earlier completion time if
// one was already set. Safe to re-run.
func (r *OrderRepository) MarkCompleted(ctx context.Context, orderID int64, completedAt time.Time) error {
	const stmt = `
UPDATE orders
SET completed_at = COALESCE(completed_at, $2), status = $3
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID, completedAt, domain.OrderStatusFinalized)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, orderID int64) error {
	const stmt = `DELETE FROM orders WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) GetOrderSummary(ctx context.Context, orderID int64) (domain.OrderSummary, error) {
	const query = `
SELECT o.id, o.receipt_no, o.customer_name, o.total_price, o.status, o.completed_at, u.username
FROM orders o
JOIN users u ON u.id = o.user_id
WHERE o.id = $1`

	var s domain.OrderSummary
	var status string
	err := r.queryRow(ctx, query, orderID).Scan(
		&s.ID,
		&s.ReceiptNo,
		&s.CustomerName,
		&s.TotalPrice,
		&status,
		&s.CompletedAt,
		&s.Username,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.OrderSummary{}, domain.ErrOrderNotFound
		}
		return domain.OrderSummary{}, fmt.Errorf("get order summary: %w", err)
	}
	s.Status = domain.OrderStatus(status)
	return s, nil
}
