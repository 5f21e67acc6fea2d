package http

import (
	"context"
	"net/http"
	"time"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

// ReportService is the surface reporting handlers need.
type ReportService interface {
	NormalTransactions(ctx context.Context) ([]domain.Transaction, error)
	JobOrderTransactions(ctx context.Context) ([]domain.Transaction, error)
	MonthlyReport(ctx context.Context, year, month int) ([]domain.ReportRow, error)
	MonthlyJobOrderReport(ctx context.Context, year, month int) ([]domain.ReportRow, error)
	MonthlyCombinedReport(ctx context.Context, year, month int) ([]domain.ReportRow, error)
}

// HandleTransactions lists finalized normal sales, newest first.
func HandleTransactions(svc ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txs, err := svc.NormalTransactions(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, transactionResponses(txs))
	}
}

// HandleJobOrderTransactions lists orders carrying deferred-category lines.
func HandleJobOrderTransactions(svc ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txs, err := svc.JobOrderTransactions(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, transactionResponses(txs))
	}
}

func HandleMonthlyReport(svc ReportService) http.HandlerFunc {
	return monthlyReportHandler(func(ctx context.Context, year, month int) ([]domain.ReportRow, error) {
		return svc.MonthlyReport(ctx, year, month)
	})
}

func HandleMonthlyJobOrderReport(svc ReportService) http.HandlerFunc {
	return monthlyReportHandler(func(ctx context.Context, year, month int) ([]domain.ReportRow, error) {
		return svc.MonthlyJobOrderReport(ctx, year, month)
	})
}

func HandleMonthlyCombinedReport(svc ReportService) http.HandlerFunc {
	return monthlyReportHandler(func(ctx context.Context, year, month int) ([]domain.ReportRow, error) {
		return svc.MonthlyCombinedReport(ctx, year, month)
	})
}

func monthlyReportHandler(fetch func(ctx context.Context, year, month int) ([]domain.ReportRow, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		year := queryInt(r, "year", now.Year())
		month := queryInt(r, "month", int(now.Month()))

		rows, err := fetch(r.Context(), year, month)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		out := make([]reportRowResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, reportRowResponse{
				OrderID:     row.OrderID,
				ReceiptNo:   row.ReceiptNo,
				Payer:       row.Payer,
				Date:        row.Date,
				QtySold:     row.QtySold,
				Unit:        row.Unit,
				Description: row.Description,
				UnitCost:    row.UnitCost,
				TotalCost:   row.TotalCost,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type transactionResponse struct {
	OrderID      int64      `json:"order_id"`
	ReceiptNo    *string    `json:"receipt_no"`
	CustomerName string     `json:"customer_name"`
	TotalPrice   float64    `json:"total_price"`
	CompletedAt  *time.Time `json:"completed_at"`
	Username     string     `json:"username"`
}

func transactionResponses(txs []domain.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse{
			OrderID:      tx.OrderID,
			ReceiptNo:    tx.ReceiptNo,
			CustomerName: tx.CustomerName,
			TotalPrice:   tx.TotalPrice,
			CompletedAt:  tx.CompletedAt,
			Username:     tx.Username,
		})
	}
	return out
}

type reportRowResponse struct {
	OrderID     int64     `json:"order_id"`
	ReceiptNo   string    `json:"receipt_no"`
	Payer       string    `json:"payer"`
	Date        time.Time `json:"date"`
	QtySold     int       `json:"qty_sold"`
	Unit        string    `json:"unit"`
	Description string    `json:"description"`
	UnitCost    float64   `json:"unit_cost"`
	TotalCost   float64   `json:"total_cost"`
}
