package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/KentJhon/itrack-backend/internal/app"
	"github.com/KentJhon/itrack-backend/internal/domain"
)

// ItemService is the surface inventory handlers need.
type ItemService interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	ListCatalog(ctx context.Context) ([]domain.Item, error)
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item) error
	DeleteItem(ctx context.Context, itemID int64) error
	AddStock(ctx context.Context, itemID int64, addedQty int) (app.AddStockResult, error)
}

func HandleListItems(svc ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListItems(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		out := make([]itemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, newItemResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// HandleListCatalog returns the slim item list the POS sale form uses.
func HandleListCatalog(svc ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListCatalog(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		out := make([]catalogItemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, catalogItemResponse{
				ID:            it.ID,
				Name:          it.Name,
				Price:         it.Price,
				StockQuantity: it.StockQuantity,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func HandleCreateItem(svc ItemService, activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, err.Error())
			return
		}

		item, err := svc.CreateItem(r.Context(), req.toDomain(0))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		activity.Record(r.Context(), actorID(r.Context()), domain.ActionCreate,
			fmt.Sprintf("Added inventory item %s", item.Name))

		writeJSON(w, http.StatusCreated, newItemResponse(item))
	}
}

func HandleUpdateItem(svc ItemService, activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := idParam(r, "id")
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		var req itemRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, err.Error())
			return
		}

		if err := svc.UpdateItem(r.Context(), req.toDomain(itemID)); err != nil {
			writeDomainError(w, r, err)
			return
		}

		activity.Record(r.Context(), actorID(r.Context()), domain.ActionUpdate,
			fmt.Sprintf("Updated inventory item %s", req.Name))

		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleDeleteItem(svc ItemService, activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := idParam(r, "id")
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), itemID); err != nil {
			writeDomainError(w, r, err)
			return
		}

		activity.Record(r.Context(), actorID(r.Context()), domain.ActionDelete,
			fmt.Sprintf("Deleted inventory item #%d", itemID))

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleAddStock returns an HTTP handler for stock adjustments, done under
// the item's row lock.
func HandleAddStock(svc ItemService, activity ActivityRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := idParam(r, "id")
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		var req addStockRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.AddStock(r.Context(), itemID, req.Quantity)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		activity.Record(r.Context(), actorID(r.Context()), domain.ActionUpdate,
			fmt.Sprintf("Added %d units to item %s (%d to %d)", req.Quantity, res.Item.Name, res.OldStock, res.NewStock))

		writeJSON(w, http.StatusOK, addStockResponse{
			ItemID:   res.Item.ID,
			Name:     res.Item.Name,
			OldStock: res.OldStock,
			NewStock: res.NewStock,
		})
	}
}

type itemRequest struct {
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	ReorderLevel  int     `json:"reorder_level"`
}

func (r itemRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if r.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if r.StockQuantity < 0 {
		return fmt.Errorf("stock_quantity must not be negative")
	}
	return nil
}

func (r itemRequest) toDomain(id int64) domain.Item {
	return domain.Item{
		ID:            id,
		Name:          strings.TrimSpace(r.Name),
		Unit:          strings.TrimSpace(r.Unit),
		Category:      strings.TrimSpace(r.Category),
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		ReorderLevel:  r.ReorderLevel,
	}
}

type itemResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	ReorderLevel  int     `json:"reorder_level"`
}

func newItemResponse(it domain.Item) itemResponse {
	return itemResponse{
		ID:            it.ID,
		Name:          it.Name,
		Unit:          it.Unit,
		Category:      it.Category,
		Price:         it.Price,
		StockQuantity: it.StockQuantity,
		ReorderLevel:  it.ReorderLevel,
	}
}

type catalogItemResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
}

type addStockRequest struct {
	Quantity int `json:"quantity"`
}

type addStockResponse struct {
	ItemID   int64  `json:"item_id"`
	Name     string `json:"name"`
	OldStock int    `json:"old_stock"`
	NewStock int    `json:"new_stock"`
}
