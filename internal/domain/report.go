package domain

import "time"

// ReportRow is one order line of a monthly report. ReceiptNo is "-" for
// deferred-category rows, which never carry a receipt.
type ReportRow struct {
	OrderID     int64
	ReceiptNo   string
	Payer       string
	Date        time.Time
	QtySold     int
	Unit        string
	Description string
	UnitCost    float64
	TotalCost   float64
}

type TopItem struct {
	ItemID    int64
	Name      string
	TotalSold int
}

// DashboardStats aggregates completed (receipt-bearing) orders.
type DashboardStats struct {
	TotalRevenue   float64
	CompletedCount int
	TopItems       []TopItem
}

// MonthlySale is one point of the 12-month sales series.
type MonthlySale struct {
	Month int
	Total float64
}
