package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

// DashboardService is the surface dashboard handlers need.
type DashboardService interface {
	Dashboard(ctx context.Context) (domain.DashboardStats, error)
	TopItems(ctx context.Context, year int, month *int, limit int) ([]domain.TopItem, error)
	MonthlySales(ctx context.Context, year int) ([]domain.MonthlySale, error)
}

func HandleDashboard(svc DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Dashboard(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, dashboardResponse{
			TotalRevenue:   stats.TotalRevenue,
			CompletedCount: stats.CompletedCount,
			TopItems:       topItemResponses(stats.TopItems),
		})
	}
}

func HandleTopItems(svc DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		year := queryInt(r, "year", now.Year())
		limit := queryInt(r, "limit", 0)

		var month *int
		if raw := r.URL.Query().Get("month"); raw != "" {
			m, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidMonth, "month must be an integer")
				return
			}
			month = &m
		}

		items, err := svc.TopItems(r.Context(), year, month, limit)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, topItemResponses(items))
	}
}

func HandleMonthlySales(svc DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year := queryInt(r, "year", time.Now().Year())

		sales, err := svc.MonthlySales(r.Context(), year)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		out := make([]monthlySaleResponse, 0, len(sales))
		for _, s := range sales {
			out = append(out, monthlySaleResponse{Month: s.Month, Total: s.Total})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type dashboardResponse struct {
	TotalRevenue   float64           `json:"total_revenue"`
	CompletedCount int               `json:"completed_count"`
	TopItems       []topItemResponse `json:"top_items"`
}

type topItemResponse struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name"`
	TotalSold int    `json:"total_sold"`
}

func topItemResponses(items []domain.TopItem) []topItemResponse {
	out := make([]topItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, topItemResponse{ItemID: it.ItemID, Name: it.Name, TotalSold: it.TotalSold})
	}
	return out
}

type monthlySaleResponse struct {
	Month int     `json:"month"`
	Total float64 `json:"total"`
}
