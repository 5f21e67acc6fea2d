package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/KentJhon/itrack-backend/internal/app"
	"github.com/KentJhon/itrack-backend/internal/domain"
)

// SaleService is the surface sales handlers need.
type SaleService interface {
	CreateSale(ctx context.Context, in app.CreateSaleInput) (app.CreateSaleResult, error)
	GetSale(ctx context.Context, orderID int64) (app.SaleDetail, error)
}

// HandleCreateSale returns an HTTP handler for draft order intake. The
// request is validated against current stock but nothing is deducted; receipt
// numbers are assigned by the finalizer, never here.
func HandleCreateSale(svc SaleService, activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSaleRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		userID := req.UserID
		if userID == 0 {
			userID = actorID(r.Context())
		}

		items := make([]app.SaleItemInput, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, app.SaleItemInput{ItemID: it.ItemID, Quantity: it.Quantity})
		}

		res, err := svc.CreateSale(r.Context(), app.CreateSaleInput{
			UserID:       userID,
			CustomerName: req.CustomerName,
			StudentRef:   req.StudentID,
			Course:       req.Course,
			Items:        items,
		})
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		activity.Record(r.Context(), actorID(r.Context()), domain.ActionCreate,
			fmt.Sprintf("Created sale #%d for %s", res.OrderID, req.CustomerName))

		respItems := make([]saleItemResponse, 0, len(res.Items))
		for _, it := range res.Items {
			respItems = append(respItems, saleItemResponse{ItemID: it.ItemID, Quantity: it.Quantity})
		}
		writeJSON(w, http.StatusCreated, createSaleResponse{
			OrderID:    res.OrderID,
			TotalPrice: res.TotalPrice,
			Items:      respItems,
		})
	}
}

// HandleGetSale returns an HTTP handler for reading one draft or finalized
// sale with its lines.
func HandleGetSale(svc SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := idParam(r, "id")
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		detail, err := svc.GetSale(r.Context(), orderID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		lines := make([]saleLineResponse, 0, len(detail.Lines))
		for _, l := range detail.Lines {
			lines = append(lines, saleLineResponse{
				LineID:   l.LineID,
				ItemID:   l.ItemID,
				Name:     l.Name,
				Price:    l.Price,
				Quantity: l.Quantity,
			})
		}
		writeJSON(w, http.StatusOK, saleResponse{
			OrderID:      detail.Order.ID,
			CustomerName: detail.Order.CustomerName,
			StudentID:    detail.Order.StudentRef,
			Course:       detail.Order.Course,
			TotalPrice:   detail.Order.TotalPrice,
			ReceiptNo:    detail.Order.ReceiptNo,
			Status:       string(detail.Order.Status),
			CompletedAt:  detail.Order.CompletedAt,
			CreatedAt:    detail.Order.CreatedAt,
			Lines:        lines,
		})
	}
}

type createSaleRequest struct {
	UserID       int64             `json:"user_id"`
	CustomerName string            `json:"customer_name"`
	StudentID    string            `json:"student_id"`
	Course       string            `json:"course"`
	// ReceiptNo is accepted for compatibility with POS clients that send it
	// at intake, but the draft is created receipt-null regardless; receipts
	// are assigned by the finalizer.
	ReceiptNo string            `json:"receipt_no"`
	Items     []saleItemRequest `json:"items"`
}

type saleItemRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type saleItemResponse struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type createSaleResponse struct {
	OrderID    int64              `json:"order_id"`
	TotalPrice float64            `json:"total_price"`
	Items      []saleItemResponse `json:"items"`
}

type saleLineResponse struct {
	LineID   int64   `json:"line_id"`
	ItemID   int64   `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type saleResponse struct {
	OrderID      int64              `json:"order_id"`
	CustomerName string             `json:"customer_name"`
	StudentID    string             `json:"student_id"`
	Course       string             `json:"course"`
	TotalPrice   float64            `json:"total_price"`
	ReceiptNo    *string            `json:"receipt_no"`
	Status       string             `json:"status"`
	CompletedAt  *time.Time         `json:"completed_at"`
	CreatedAt    time.Time          `json:"created_at"`
	Lines        []saleLineResponse `json:"lines"`
}
