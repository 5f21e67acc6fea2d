package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KentJhon/itrack-backend/internal/domain"
	"github.com/KentJhon/itrack-backend/internal/testutil"
)

func TestOrderRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewOrderRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetOrderForUpdate returns order or ErrOrderNotFound", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		userID := testutil.InsertUser(t, ctx, pool, "cashier", "cashier@example.com", "secret123")
		orderID := testutil.InsertDraftOrder(t, ctx, pool, userID, 500, nil, nil)

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			order, err := repo.GetOrderForUpdate(txCtx, orderID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if order.ID != orderID || order.Status != domain.OrderStatusDraft {
				t.Fatalf("unexpected order: %+v", order)
			}
			if order.ReceiptNo != nil || order.CompletedAt != nil {
				t.Fatalf("expected a bare draft, got %+v", order)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		err = repo.WithTx(ctx, func(txCtx context.Context) error {
			_, err := repo.GetOrderForUpdate(txCtx, orderID+999)
			if !errors.Is(err, domain.ErrOrderNotFound) {
				t.Fatalf("expected ErrOrderNotFound, got %v", err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}
	})

	t.Run("GetStockLinesForUpdate joins items in item-id order", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		userID := testutil.InsertUser(t, ctx, pool, "cashier", "cashier@example.com", "secret123")
		itemB := testutil.InsertItem(t, ctx, pool, domain.Item{Name: "Mug", Category: domain.DeferredCategory, StockQuantity: 4})
		itemA := testutil.InsertItem(t, ctx, pool, domain.Item{Name: "Shirt", Category: "Uniform", StockQuantity: 7})
		orderID := testutil.InsertDraftOrder(t, ctx, pool, userID, 0, []int64{itemA, itemB}, []int{2, 1})

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			lines, err := repo.GetStockLinesForUpdate(txCtx, orderID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(lines) != 2 {
				t.Fatalf("expected 2 lines, got %d", len(lines))
			}
			if lines[0].ItemID != itemB || lines[1].ItemID != itemA {
				t.Fatalf("expected item-id order, got %+v", lines)
			}
			if lines[0].Category != domain.DeferredCategory || lines[0].StockQuantity != 4 {
				t.Fatalf("unexpected joined line: %+v", lines[0])
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}
	})

	t.Run("SetReceipt finalizes and maps duplicates", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		userID := testutil.InsertUser(t, ctx, pool, "cashier", "cashier@example.com", "secret123")
		first := testutil.InsertDraftOrder(t, ctx, pool, userID, 100, nil, nil)
		second := testutil.InsertDraftOrder(t, ctx, pool, userID, 200, nil, nil)

		now := time.Now().UTC().Truncate(time.Microsecond)
		receipt := "OR-100"

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.SetReceipt(txCtx, first, &receipt, now)
		})
		if err != nil {
			t.Fatalf("set receipt: %v", err)
		}

		summary, err := repo.GetOrderSummary(ctx, first)
		if err != nil {
			t.Fatalf("get summary: %v", err)
		}
		if summary.ReceiptNo == nil || *summary.ReceiptNo != "OR-100" {
			t.Fatalf("expected receipt OR-100, got %v", summary.ReceiptNo)
		}
		if summary.Status != domain.OrderStatusFinalized || summary.CompletedAt == nil {
			t.Fatalf("expected finalized with completion, got %+v", summary)
		}
		if summary.Username != "cashier" {
			t.Fatalf("expected username join, got %q", summary.Username)
		}

		err = repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.SetReceipt(txCtx, second, &receipt, now)
		})
		if !errors.Is(err, domain.ErrDuplicateReceipt) {
			t.Fatalf("expected ErrDuplicateReceipt, got %v", err)
		}

		err = repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.SetReceipt(txCtx, first+999, &receipt, now)
		})
		if !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("MarkCompleted keeps the first completion time", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		userID := testutil.InsertUser(t, ctx, pool, "cashier", "cashier@example.com", "secret123")
		orderID := testutil.InsertDraftOrder(t, ctx, pool, userID, 100, nil, nil)

		first := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		second := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.MarkCompleted(txCtx, orderID, first)
		})
		if err != nil {
			t.Fatalf("first completion: %v", err)
		}
		err = repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.MarkCompleted(txCtx, orderID, second)
		})
		if err != nil {
			t.Fatalf("second completion: %v", err)
		}

		summary, err := repo.GetOrderSummary(ctx, orderID)
		if err != nil {
			t.Fatalf("get summary: %v", err)
		}
		if summary.CompletedAt == nil || !summary.CompletedAt.Equal(first) {
			t.Fatalf("expected original completion %v, got %v", first, summary.CompletedAt)
		}
	})

	t.Run("DeductStock and RestoreStock adjust the balance", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		itemID := testutil.InsertItem(t, ctx, pool, domain.Item{Name: "Shirt", StockQuantity: 10})

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			if err := repo.DeductStock(txCtx, itemID, 4); err != nil {
				return err
			}
			return repo.RestoreStock(txCtx, itemID, 1)
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		var stock int
		if err := pool.QueryRow(ctx, `SELECT stock_quantity FROM items WHERE id = $1`, itemID).Scan(&stock); err != nil {
			t.Fatalf("read stock: %v", err)
		}
		if stock != 7 {
			t.Fatalf("expected stock 7, got %d", stock)
		}
	})

	t.Run("negative stock is rejected by the ledger", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		itemID := testutil.InsertItem(t, ctx, pool, domain.Item{Name: "Shirt", StockQuantity: 2})

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.DeductStock(txCtx, itemID, 3)
		})
		if err == nil {
			t.Fatalf("expected check violation")
		}
	})

	t.Run("DeleteOrder removes order and its lines", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		userID := testutil.InsertUser(t, ctx, pool, "cashier", "cashier@example.com", "secret123")
		itemID := testutil.InsertItem(t, ctx, pool, domain.Item{Name: "Shirt", StockQuantity: 10})
		orderID := testutil.InsertDraftOrder(t, ctx, pool, userID, 100, []int64{itemID}, []int{2})

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.DeleteOrder(txCtx, orderID)
		})
		if err != nil {
			t.Fatalf("delete: %v", err)
		}

		var count int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_lines WHERE order_id = $1`, orderID).Scan(&count); err != nil {
			t.Fatalf("count lines: %v", err)
		}
		if count != 0 {
			t.Fatalf("expected cascade delete, got %d lines", count)
		}

		err = repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.DeleteOrder(txCtx, orderID)
		})
		if !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("ReceiptInUse ignores the excluded order", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		userID := testutil.InsertUser(t, ctx, pool, "cashier", "cashier@example.com", "secret123")
		orderID := testutil.InsertDraftOrder(t, ctx, pool, userID, 100, nil, nil)

		receipt := "OR-200"
		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.SetReceipt(txCtx, orderID, &receipt, time.Now().UTC())
		})
		if err != nil {
			t.Fatalf("set receipt: %v", err)
		}

		taken, err := repo.ReceiptInUse(ctx, "OR-200", orderID)
		if err != nil {
			t.Fatalf("check receipt: %v", err)
		}
		if taken {
			t.Fatalf("expected receipt to be free for its own order")
		}

		taken, err = repo.ReceiptInUse(ctx, "OR-200", orderID+1)
		if err != nil {
			t.Fatalf("check receipt: %v", err)
		}
		if !taken {
			t.Fatalf("expected receipt to be taken for other orders")
		}
	})
}
