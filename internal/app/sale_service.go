package app

import (
	"context"

	"github.com/KentJhon/itrack-backend/internal/clock"
	"github.com/KentJhon/itrack-backend/internal/domain"
)

type SaleRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetItemForUpdate(ctx context.Context, itemID int64) (domain.Item, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	CreateOrder(ctx context.Context, order domain.Order) (int64, error)
	CreateOrderLine(ctx context.Context, line domain.OrderLine) error
	GetOrder(ctx context.Context, orderID int64) (domain.Order, error)
	GetSaleLines(ctx context.Context, orderID int64) ([]domain.SaleLine, error)
}

// SaleService creates draft orders. Intake validates requested quantities
// against current stock under item-row locks but never deducts; the draft
// stays reversible until one of the finalizers commits it.
type SaleService struct {
	repo  SaleRepository
	clock clock.Clock
}

func NewSaleService(repo SaleRepository, clk clock.Clock) *SaleService {
	return &SaleService{
		repo:  repo,
		clock: clk,
	}
}

type SaleItemInput struct {
	ItemID   int64
	Quantity int
}

type CreateSaleInput struct {
	UserID       int64
	CustomerName string
	StudentRef   string
	Course       string
	Items        []SaleItemInput
}

type CreateSaleResult struct {
	OrderID    int64
	TotalPrice float64
	Items      []SaleItemInput
}

func (s *SaleService) CreateSale(ctx context.Context, in CreateSaleInput) (CreateSaleResult, error) {
	if len(in.Items) == 0 {
		return CreateSaleResult{}, domain.ErrNoItems
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return CreateSaleResult{}, domain.ErrInvalidQuantity
		}
	}

	now := s.clock.Now()
	var result CreateSaleResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		var total float64
		for _, line := range in.Items {
			item, err := s.repo.GetItemForUpdate(txCtx, line.ItemID)
			if err != nil {
				return err
			}
			if item.StockQuantity < line.Quantity {
				return insufficientStock(item.ID)
			}
			total += item.Price * float64(line.Quantity)
		}

		exists, err := s.repo.UserExists(txCtx, in.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrUserNotFound
		}

		orderID, err := s.repo.CreateOrder(txCtx, domain.Order{
			UserID:       in.UserID,
			CustomerName: in.CustomerName,
			StudentRef:   in.StudentRef,
			Course:       in.Course,
			TotalPrice:   total,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}

		for _, line := range in.Items {
			err := s.repo.CreateOrderLine(txCtx, domain.OrderLine{
				OrderID:  orderID,
				ItemID:   line.ItemID,
				Quantity: line.Quantity,
			})
			if err != nil {
				return err
			}
		}

		result = CreateSaleResult{
			OrderID:    orderID,
			TotalPrice: total,
			Items:      in.Items,
		}
		return nil
	})
	if err != nil {
		return CreateSaleResult{}, err
	}
	return result, nil
}

type SaleDetail struct {
	Order domain.Order
	Lines []domain.SaleLine
}

func (s *SaleService) GetSale(ctx context.Context, orderID int64) (SaleDetail, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return SaleDetail{}, err
	}
	lines, err := s.repo.GetSaleLines(ctx, orderID)
	if err != nil {
		return SaleDetail{}, err
	}
	return SaleDetail{Order: order, Lines: lines}, nil
}
