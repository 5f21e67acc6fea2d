package domain

// DeferredCategory is the catalog category whose orders are completed through
// the job-order path instead of receipt assignment.
const DeferredCategory = "Souvenir"

// Item represents a catalog entry. StockQuantity is the ledger balance
// mutated exclusively by the finalizers; it must never go negative.
type Item struct {
	ID            int64
	Name          string
	Unit          string
	Category      string
	Price         float64
	StockQuantity int
	ReorderLevel  int
}

func (i Item) DeferredFulfillment() bool {
	return i.Category == DeferredCategory
}
