package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KentJhon/itrack-backend/internal/app"
	"github.com/KentJhon/itrack-backend/internal/domain"
)

type stubOrderService struct {
	summary domain.OrderSummary
	err     error

	gotReceipt string
	gotOrderID int64
}

func (s *stubOrderService) AssignReceipt(_ context.Context, in app.AssignReceiptInput) (domain.OrderSummary, error) {
	s.gotOrderID = in.OrderID
	s.gotReceipt = in.ReceiptNo
	return s.summary, s.err
}

func (s *stubOrderService) CompleteJobOrder(_ context.Context, orderID int64) (domain.OrderSummary, error) {
	s.gotOrderID = orderID
	return s.summary, s.err
}

func (s *stubOrderService) DeleteOrder(_ context.Context, orderID int64) error {
	s.gotOrderID = orderID
	return s.err
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, int64, string, string) {}

func orderTestRouter(svc OrderFinalizer) http.Handler {
	r := chi.NewRouter()
	r.Post("/orders/{id}/receipt", HandleAssignReceipt(svc, noopRecorder{}))
	r.Post("/orders/{id}/complete", HandleCompleteJobOrder(svc, noopRecorder{}))
	r.Delete("/orders/{id}", HandleDeleteOrder(svc, noopRecorder{}))
	return r
}

func TestHandleAssignReceipt(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	receipt := "OR-100"
	summary := domain.OrderSummary{
		ID:           1,
		ReceiptNo:    &receipt,
		CustomerName: "Juan",
		TotalPrice:   650,
		Status:       domain.OrderStatusFinalized,
		CompletedAt:  &now,
		Username:     "cashier",
	}

	tests := []struct {
		name           string
		path           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "finalized",
			path:           "/orders/1/receipt",
			body:           `{"receipt_no":"OR-100"}`,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"receipt_no":"OR-100"`,
		},
		{
			name:           "invalid id",
			path:           "/orders/abc/receipt",
			body:           `{"receipt_no":"OR-100"}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_id"`,
		},
		{
			name:           "invalid body",
			path:           "/orders/1/receipt",
			body:           `{"receipt_no":`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_request_body"`,
		},
		{
			name:           "order not found",
			path:           "/orders/1/receipt",
			body:           `{"receipt_no":"OR-100"}`,
			serviceErr:     domain.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: `"code":"order_not_found"`,
		},
		{
			name:           "duplicate receipt",
			path:           "/orders/1/receipt",
			body:           `{"receipt_no":"OR-100"}`,
			serviceErr:     domain.ErrDuplicateReceipt,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"duplicate_receipt"`,
		},
		{
			name:           "insufficient stock",
			path:           "/orders/1/receipt",
			body:           `{"receipt_no":"OR-100"}`,
			serviceErr:     domain.ErrInsufficientStock,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"insufficient_stock"`,
		},
		{
			name:           "lock timeout",
			path:           "/orders/1/receipt",
			body:           `{"receipt_no":"OR-100"}`,
			serviceErr:     domain.ErrLockTimeout,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"lock_timeout"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubOrderService{summary: summary, err: tc.serviceErr}
			router := orderTestRouter(svc)

			req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.expectedStatus, rec.Code, rec.Body.String())
			}
			if tc.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tc.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %s", tc.expectedSubstr, rec.Body.String())
			}
		})
	}

	t.Run("trims receipt whitespace", func(t *testing.T) {
		svc := &stubOrderService{summary: summary}
		router := orderTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/orders/7/receipt", strings.NewReader(`{"receipt_no":"  OR-9  "}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if svc.gotOrderID != 7 || svc.gotReceipt != "OR-9" {
			t.Fatalf("unexpected input: id=%d receipt=%q", svc.gotOrderID, svc.gotReceipt)
		}
	})
}

func TestHandleCompleteJobOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	summary := domain.OrderSummary{
		ID:          2,
		Status:      domain.OrderStatusFinalized,
		CompletedAt: &now,
		Username:    "cashier",
	}

	t.Run("completed", func(t *testing.T) {
		svc := &stubOrderService{summary: summary}
		router := orderTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/orders/2/complete", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"receipt_no":null`) {
			t.Fatalf("expected null receipt, got %s", rec.Body.String())
		}
	})

	t.Run("not a job order", func(t *testing.T) {
		svc := &stubOrderService{err: domain.ErrNotJobOrder}
		router := orderTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/orders/2/complete", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"code":"not_job_order"`) {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})
}

func TestHandleDeleteOrder(t *testing.T) {
	t.Parallel()

	t.Run("deleted", func(t *testing.T) {
		svc := &stubOrderService{}
		router := orderTestRouter(svc)

		req := httptest.NewRequest(http.MethodDelete, "/orders/3", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if svc.gotOrderID != 3 {
			t.Fatalf("expected order 3, got %d", svc.gotOrderID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &stubOrderService{err: domain.ErrOrderNotFound}
		router := orderTestRouter(svc)

		req := httptest.NewRequest(http.MethodDelete, "/orders/3", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
