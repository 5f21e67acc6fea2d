package app

import (
	"context"
	"fmt"
	"time"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

// ReportRepository is the read-side storage used for transaction listings,
// monthly reports and dashboard aggregates.
type ReportRepository interface {
	ListNormalTransactions(ctx context.Context) ([]domain.Transaction, error)
	ListJobOrderTransactions(ctx context.Context) ([]domain.Transaction, error)
	MonthlyNormalReport(ctx context.Context, start, end time.Time) ([]domain.ReportRow, error)
	MonthlyJobOrderReport(ctx context.Context, start, end time.Time) ([]domain.ReportRow, error)
	MonthlyCombinedReport(ctx context.Context, start, end time.Time) ([]domain.ReportRow, error)
	DashboardStats(ctx context.Context, topLimit int) (domain.DashboardStats, error)
	TopItemsByPeriod(ctx context.Context, year int, month *int, limit int) ([]domain.TopItem, error)
	MonthlySales(ctx context.Context, year int) ([]domain.MonthlySale, error)
}

type ReportService struct {
	repo ReportRepository
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// monthRange returns the [start, end) bounds of the given calendar month.
func monthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("month %d: %w", month, domain.ErrInvalidMonth)
	}
	if year < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("year %d: %w", year, domain.ErrInvalidMonth)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}

func (s *ReportService) NormalTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.ListNormalTransactions(ctx)
}

func (s *ReportService) JobOrderTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.ListJobOrderTransactions(ctx)
}

func (s *ReportService) MonthlyReport(ctx context.Context, year, month int) ([]domain.ReportRow, error) {
	start, end, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	return s.repo.MonthlyNormalReport(ctx, start, end)
}

func (s *ReportService) MonthlyJobOrderReport(ctx context.Context, year, month int) ([]domain.ReportRow, error) {
	start, end, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	return s.repo.MonthlyJobOrderReport(ctx, start, end)
}

func (s *ReportService) MonthlyCombinedReport(ctx context.Context, year, month int) ([]domain.ReportRow, error) {
	start, end, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	return s.repo.MonthlyCombinedReport(ctx, start, end)
}

const (
	dashboardTopItems = 5
	periodTopItems    = 3
)

func (s *ReportService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	return s.repo.DashboardStats(ctx, dashboardTopItems)
}

func (s *ReportService) TopItems(ctx context.Context, year int, month *int, limit int) ([]domain.TopItem, error) {
	if month != nil && (*month < 1 || *month > 12) {
		return nil, fmt.Errorf("month %d: %w", *month, domain.ErrInvalidMonth)
	}
	if limit <= 0 {
		limit = periodTopItems
	}
	return s.repo.TopItemsByPeriod(ctx, year, month, limit)
}

// MonthlySales returns one entry per calendar month, zero-filled for
// months without finalized sales.
func (s *ReportService) MonthlySales(ctx context.Context, year int) ([]domain.MonthlySale, error) {
	rows, err := s.repo.MonthlySales(ctx, year)
	if err != nil {
		return nil, err
	}
	totals := make(map[int]float64, len(rows))
	for _, r := range rows {
		totals[r.Month] = r.Total
	}
	out := make([]domain.MonthlySale, 12)
	for m := 1; m <= 12; m++ {
		out[m-1] = domain.MonthlySale{Month: m, Total: totals[m]}
	}
	return out, nil
}
