package domain

import "time"

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusFinalized OrderStatus = "finalized"
)

// Order is a sale in one of two states: a draft (validated lines, computed
// total, no stock impact) or finalized (stock deducted for its applicable
// lines, CompletedAt set). ReceiptNo is assigned by the normal finalizer only
// and is unique among non-null values.
type Order struct {
	ID           int64
	UserID       int64
	CustomerName string
	StudentRef   string
	Course       string
	TotalPrice   float64
	ReceiptNo    *string
	Status       OrderStatus
	CompletedAt  *time.Time
	CreatedAt    time.Time
}

// OrderLine is immutable after creation and owned by its order.
type OrderLine struct {
	ID       int64
	OrderID  int64
	ItemID   int64
	Quantity int
}

// StockLine is an order line joined with its item's current ledger state,
// read under row lock inside a finalization transaction.
type StockLine struct {
	ItemID        int64
	Quantity      int
	StockQuantity int
	Category      string
}

func (l StockLine) DeferredFulfillment() bool {
	return l.Category == DeferredCategory
}

// RequiresDeferredPath reports whether an order with these lines must be
// completed through the job-order path. A single deferred-category line is
// enough: such orders are excluded from stock deduction in the normal
// finalizer even when they also contain regular lines, and the job-order
// finalizer deducts only the deferred subset. The regular lines of a mixed
// order are therefore never deducted; this mirrors the two-path split rather
// than papering over it.
func RequiresDeferredPath(lines []StockLine) bool {
	for _, l := range lines {
		if l.DeferredFulfillment() {
			return true
		}
	}
	return false
}

// SaleLine is an order line joined with item name and price, the shape used
// by sale reads.
type SaleLine struct {
	LineID   int64
	ItemID   int64
	Name     string
	Price    float64
	Quantity int
}

// OrderSummary is the finalizer response shape: the order joined with the
// cashier's username.
type OrderSummary struct {
	ID           int64
	ReceiptNo    *string
	CustomerName string
	TotalPrice   float64
	Status       OrderStatus
	CompletedAt  *time.Time
	Username     string
}

// Transaction is one row of the transaction listings.
type Transaction struct {
	OrderID      int64
	ReceiptNo    *string
	CustomerName string
	TotalPrice   float64
	CompletedAt  *time.Time
	Username     string
}
