package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/KentJhon/itrack-backend/internal/app"
	"github.com/KentJhon/itrack-backend/internal/clock"
	"github.com/KentJhon/itrack-backend/internal/domain"
	"github.com/KentJhon/itrack-backend/internal/testutil"
)

// Two finalizations of the same order race for the order-row lock. The
// loser must observe the finalized status left by the winner and skip
// deduction, so stock moves exactly once no matter the interleaving.
func TestAssignReceiptConcurrent(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewOrderRepository(pool)
	svc := app.NewOrderService(repo, clock.NewSystem())
	testutil.ApplyMigrations(t, context.Background(), pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)
	userID := testutil.InsertUser(t, ctx, pool, "cashier", "cashier@example.com", "secret123")
	itemID := testutil.InsertItem(t, ctx, pool, domain.Item{Name: "Shirt", Category: "Uniform", Price: 250, StockQuantity: 10})
	orderID := testutil.InsertDraftOrder(t, ctx, pool, userID, 1000, []int64{itemID}, []int{4})

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, receipt := range []string{"OR-100", "OR-200"} {
		wg.Add(1)
		go func(receiptNo string) {
			defer wg.Done()
			_, err := svc.AssignReceipt(ctx, app.AssignReceiptInput{OrderID: orderID, ReceiptNo: receiptNo})
			errs <- err
		}(receipt)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("AssignReceipt: %v", err)
		}
	}

	var stock int
	if err := pool.QueryRow(ctx, `SELECT stock_quantity FROM items WHERE id = $1`, itemID).Scan(&stock); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	if stock != 6 {
		t.Fatalf("expected stock deducted exactly once to 6, got %d", stock)
	}

	var status string
	var receiptNo *string
	err := pool.QueryRow(ctx, `SELECT status, receipt_no FROM orders WHERE id = $1`, orderID).Scan(&status, &receiptNo)
	if err != nil {
		t.Fatalf("read order: %v", err)
	}
	if status != string(domain.OrderStatusFinalized) {
		t.Fatalf("expected finalized order, got %q", status)
	}
	if receiptNo == nil || (*receiptNo != "OR-100" && *receiptNo != "OR-200") {
		t.Fatalf("expected one of the two receipts, got %v", receiptNo)
	}
}
