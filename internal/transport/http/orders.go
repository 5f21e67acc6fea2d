package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/KentJhon/itrack-backend/internal/app"
	"github.com/KentJhon/itrack-backend/internal/domain"
)

// OrderFinalizer is the surface finalization handlers need.
type OrderFinalizer interface {
	AssignReceipt(ctx context.Context, in app.AssignReceiptInput) (domain.OrderSummary, error)
	CompleteJobOrder(ctx context.Context, orderID int64) (domain.OrderSummary, error)
	DeleteOrder(ctx context.Context, orderID int64) error
}

// HandleAssignReceipt returns an HTTP handler for the normal finalizer:
// attach a receipt number and deduct stock when the order is still a draft.
func HandleAssignReceipt(svc OrderFinalizer, activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := idParam(r, "id")
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		var req assignReceiptRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		summary, err := svc.AssignReceipt(r.Context(), app.AssignReceiptInput{
			OrderID:   orderID,
			ReceiptNo: strings.TrimSpace(req.ReceiptNo),
		})
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		activity.Record(r.Context(), actorID(r.Context()), domain.ActionUpdate,
			fmt.Sprintf("Assigned OR %s to order #%d", req.ReceiptNo, orderID))

		writeJSON(w, http.StatusOK, orderSummaryResponse(summary))
	}
}

// HandleCompleteJobOrder returns an HTTP handler for the job-order finalizer:
// stamp the completion date and deduct the deferred-category lines.
func HandleCompleteJobOrder(svc OrderFinalizer, activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := idParam(r, "id")
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		summary, err := svc.CompleteJobOrder(r.Context(), orderID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		activity.Record(r.Context(), actorID(r.Context()), domain.ActionUpdate,
			fmt.Sprintf("Completed job order #%d", orderID))

		writeJSON(w, http.StatusOK, orderSummaryResponse(summary))
	}
}

// HandleDeleteOrder returns an HTTP handler for order deletion. Whether
// deletion restores deducted stock is the service's policy, not the caller's.
func HandleDeleteOrder(svc OrderFinalizer, activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := idParam(r, "id")
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		if err := svc.DeleteOrder(r.Context(), orderID); err != nil {
			writeDomainError(w, r, err)
			return
		}

		activity.Record(r.Context(), actorID(r.Context()), domain.ActionDelete,
			fmt.Sprintf("Deleted order #%d", orderID))

		w.WriteHeader(http.StatusNoContent)
	}
}

type assignReceiptRequest struct {
	ReceiptNo string `json:"receipt_no"`
}

type summaryResponse struct {
	OrderID      int64      `json:"order_id"`
	ReceiptNo    *string    `json:"receipt_no"`
	CustomerName string     `json:"customer_name"`
	TotalPrice   float64    `json:"total_price"`
	Status       string     `json:"status"`
	CompletedAt  *time.Time `json:"completed_at"`
	Username     string     `json:"username"`
}

func orderSummaryResponse(s domain.OrderSummary) summaryResponse {
	return summaryResponse{
		OrderID:      s.ID,
		ReceiptNo:    s.ReceiptNo,
		CustomerName: s.CustomerName,
		TotalPrice:   s.TotalPrice,
		Status:       string(s.Status),
		CompletedAt:  s.CompletedAt,
		Username:     s.Username,
	}
}
