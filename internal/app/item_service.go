package app

import (
	"context"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

type ItemRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	ListItems(ctx context.Context) ([]domain.Item, error)
	ListCatalog(ctx context.Context) ([]domain.Item, error)
	CreateItem(ctx context.Context, item domain.Item) (int64, error)
	UpdateItem(ctx context.Context, item domain.Item) error
	DeleteItem(ctx context.Context, itemID int64) error
	GetItemForUpdate(ctx context.Context, itemID int64) (domain.Item, error)
	SetStock(ctx context.Context, itemID int64, stockQuantity int) error
}

// ItemService is the inventory CRUD surface. It never participates in
// finalization; stock changes here are manual adjustments (deliveries,
// corrections), not sales.
type ItemService struct {
	repo ItemRepository
}

func NewItemService(repo ItemRepository) *ItemService {
	return &ItemService{repo: repo}
}

func (s *ItemService) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *ItemService) ListCatalog(ctx context.Context) ([]domain.Item, error) {
	return s.repo.ListCatalog(ctx)
}

func (s *ItemService) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	id, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return domain.Item{}, err
	}
	item.ID = id
	return item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, item domain.Item) error {
	return s.repo.UpdateItem(ctx, item)
}

func (s *ItemService) DeleteItem(ctx context.Context, itemID int64) error {
	return s.repo.DeleteItem(ctx, itemID)
}

type AddStockResult struct {
	Item     domain.Item
	OldStock int
	NewStock int
}

// AddStock increments an item's stock under its row lock so a concurrent
// finalization cannot interleave with the adjustment.
func (s *ItemService) AddStock(ctx context.Context, itemID int64, addedQty int) (AddStockResult, error) {
	if addedQty <= 0 {
		return AddStockResult{}, domain.ErrInvalidQuantity
	}

	var result AddStockResult
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		item, err := s.repo.GetItemForUpdate(txCtx, itemID)
		if err != nil {
			return err
		}
		newStock := item.StockQuantity + addedQty
		if err := s.repo.SetStock(txCtx, itemID, newStock); err != nil {
			return err
		}
		result = AddStockResult{Item: item, OldStock: item.StockQuantity, NewStock: newStock}
		return nil
	})
	if err != nil {
		return AddStockResult{}, err
	}
	return result, nil
}
