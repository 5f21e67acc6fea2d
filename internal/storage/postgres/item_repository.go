package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

type ItemRepository struct {
	db
}

func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db{pool: pool}}
}

func (r *ItemRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	const query = `
SELECT id, name, unit, category, price, stock_quantity, reorder_level
FROM items
ORDER BY id`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Unit, &it.Category, &it.Price, &it.StockQuantity, &it.ReorderLevel); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// ListCatalog returns the minimal item list used by POS selects.
func (r *ItemRepository) ListCatalog(ctx context.Context) ([]domain.Item, error) {
	const query = `SELECT id, name, price, stock_quantity FROM items ORDER BY name`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.StockQuantity); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) CreateItem(ctx context.Context, item domain.Item) (int64, error) {
	const stmt = `
INSERT INTO items (name, unit, category, price, stock_quantity, reorder_level)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	var id int64
	err := r.queryRow(ctx, stmt,
		item.Name,
		item.Unit,
		item.Category,
		item.Price,
		item.StockQuantity,
		item.ReorderLevel,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create item: %w", err)
	}
	return id, nil
}

func (r *ItemRepository) UpdateItem(ctx context.Context, item domain.Item) error {
	const stmt = `
UPDATE items
SET name = $2, unit = $3, category = $4, price = $5, stock_quantity = $6, reorder_level = $7
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		item.ID,
		item.Name,
		item.Unit,
		item.Category,
		item.Price,
		item.StockQuantity,
		item.ReorderLevel,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) DeleteItem(ctx context.Context, itemID int64) error {
	const stmt = `DELETE FROM items WHERE id = $1`

	tag, err := r.exec(ctx, stmt, itemID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) GetItemForUpdate(ctx context.Context, itemID int64) (domain.Item, error) {
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

func (r *ItemRepository) SetStock(ctx context.Context, itemID int64, stockQuantity int) error {
	const stmt = `UPDATE items SET stock_quantity = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, itemID, stockQuantity)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
