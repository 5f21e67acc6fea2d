package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

// SaleRepository backs draft intake and sale reads.
type SaleRepository struct {
	db
}

func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{db: db{pool: pool}}
}

func (r *SaleRepository) GetItemForUpdate(ctx context.Context, itemID int64) (domain.Item, error) {
	const query = `
SELECT id, name, unit, category, price, stock_quantity, reorder_level
FROM items
WHERE id = $1
FOR UPDATE`

	var it domain.Item
	err := r.queryRow(ctx, query, itemID).Scan(
		&it.ID,
		&it.Name,
		&it.Unit,
		&it.Category,
		&it.Price,
		&it.StockQuantity,
		&it.ReorderLevel,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Item{}, domain.ErrItemNotFound
		}
		if isLockNotAvailable(err) {
			return domain.Item{}, domain.ErrLockTimeout
		}
		return domain.Item{}, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (r *SaleRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := r.queryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

// CreateOrder inserts a draft header: no receipt, no completion timestamp.
func (r *SaleRepository) CreateOrder(ctx context.Context, order domain.Order) (int64, error) {
	const stmt = `
INSERT INTO orders (user_id, customer_name, student_ref, course, total_price, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

	var id int64
	err := r.queryRow(ctx, stmt,
		order.UserID,
		order.CustomerName,
		order.StudentRef,
		order.Course,
		order.TotalPrice,
		domain.OrderStatusDraft,
		order.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}
	return id, nil
}

func (r *SaleRepository) CreateOrderLine(ctx context.Context, line domain.OrderLine) error {
	const stmt = `INSERT INTO order_lines (order_id, item_id, quantity) VALUES ($1, $2, $3)`

	if _, err := r.exec(ctx, stmt, line.OrderID, line.ItemID, line.Quantity); err != nil {
		return fmt.Errorf("create order line: %w", err)
	}
	return nil
}

func (r *SaleRepository) GetOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	const query = `
SELECT id, user_id, customer_name, student_ref, course, total_price, receipt_no, status, completed_at, created_at
FROM orders
WHERE id = $1`

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
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *SaleRepository) GetSaleLines(ctx context.Context, orderID int64) ([]domain.SaleLine, error) {
	const query = `
SELECT ol.id, ol.item_id, i.name, i.price, ol.quantity
FROM order_lines ol
JOIN items i ON i.id = ol.item_id
WHERE ol.order_id = $1
ORDER BY ol.id`

	rows, err := r.query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.SaleLine
	for rows.Next() {
		var l domain.SaleLine
		if err := rows.Scan(&l.LineID, &l.ItemID, &l.Name, &l.Price, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	return lines, nil
}
