package app

import (
	"context"
	"fmt"
	"time"

	"github.com/KentJhon/itrack-backend/internal/clock"
	"github.com/KentJhon/itrack-backend/internal/domain"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	ReceiptInUse(ctx context.Context, receiptNo string, excludeOrderID int64) (bool, error)
	GetOrderForUpdate(ctx context.Context, orderID int64) (domain.Order, error)
	GetStockLinesForUpdate(ctx context.Context, orderID int64) ([]domain.StockLine, error)
	DeductStock(ctx context.Context, itemID int64, quantity int) error
	RestoreStock(ctx context.Context, itemID int64, quantity int) error
	SetReceipt(ctx context.Context, orderID int64, receiptNo *string, completedAt time.Time) error
	MarkCompleted(ctx context.Context, orderID int64, completedAt time.Time) error
	DeleteOrder(ctx context.Context, orderID int64) error
	GetOrderSummary(ctx context.Context, orderID int64) (domain.OrderSummary, error)
}

// OrderService owns finalization and deletion. Stock for an order is
// deducted exactly once: both finalizers read the order's status under the
// order-row lock before touching item rows, so a retry or a concurrent call
// observes the finalized status and skips deduction.
type OrderService struct {
	repo                 OrderRepository
	clock                clock.Clock
	restoreStockOnDelete bool
}

func NewOrderService(repo OrderRepository, clk clock.Clock, opts ...OrderServiceOption) *OrderService {
	svc := &OrderService{
		repo:  repo,
		clock: clk,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type OrderServiceOption func(*OrderService)

// WithRestoreStockOnDelete re-credits the stock of a finalized order's
// applicable lines when the order is deleted. Off by default: the original
// system never restored stock on deletion, and restoration assumes the order
// was finalized through the path matching its classification.
func WithRestoreStockOnDelete(restore bool) OrderServiceOption {
	return func(s *OrderService) {
		s.restoreStockOnDelete = restore
	}
}

func insufficientStock(itemID int64) error {
	return fmt.Errorf("item %d: %w", itemID, domain.ErrInsufficientStock)
}

type AssignReceiptInput struct {
	OrderID   int64
	ReceiptNo string
}

// AssignReceipt is the normal POS finalizer. It attaches the receipt number
// and, when the order is still a draft and contains no deferred-category
// line, validates and deducts stock for every line. Orders with a deferred
// line are completed here without any deduction; their deferred lines belong
// to the job-order path.
func (s *OrderService) AssignReceipt(ctx context.Context, in AssignReceiptInput) (domain.OrderSummary, error) {
	now := s.clock.Now()
	var result domain.OrderSummary

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if in.ReceiptNo != "" {
			taken, err := s.repo.ReceiptInUse(txCtx, in.ReceiptNo, in.OrderID)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrDuplicateReceipt
			}
		}

		order, err := s.repo.GetOrderForUpdate(txCtx, in.OrderID)
		if err != nil {
			return err
		}

		lines, err := s.repo.GetStockLinesForUpdate(txCtx, in.OrderID)
		if err != nil {
			return err
		}

		if order.Status == domain.OrderStatusDraft && !domain.RequiresDeferredPath(lines) {
			for _, line := range lines {
				if line.StockQuantity < line.Quantity {
					return insufficientStock(line.ItemID)
				}
			}
			for _, line := range lines {
				if err := s.repo.DeductStock(txCtx, line.ItemID, line.Quantity); err != nil {
					return err
				}
			}
		}

		var receipt *string
		if in.ReceiptNo != "" {
			receipt = &in.ReceiptNo
		}
		if err := s.repo.SetReceipt(txCtx, in.OrderID, receipt, now); err != nil {
			return err
		}

		result, err = s.repo.GetOrderSummary(txCtx, in.OrderID)
		return err
	})
	if err != nil {
		return domain.OrderSummary{}, err
	}
	return result, nil
}

// CompleteJobOrder finalizes an order through the job-order path: no receipt
// involved, completion time set once, and stock deducted for the
// deferred-category lines only, on the first completion.
func (s *OrderService) CompleteJobOrder(ctx context.Context, orderID int64) (domain.OrderSummary, error) {
	now := s.clock.Now()
	var result domain.OrderSummary

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}

		lines, err := s.repo.GetStockLinesForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if !domain.RequiresDeferredPath(lines) {
			return domain.ErrNotJobOrder
		}

		if order.Status == domain.OrderStatusDraft {
			for _, line := range lines {
				if line.DeferredFulfillment() && line.StockQuantity < line.Quantity {
					return insufficientStock(line.ItemID)
				}
			}
			for _, line := range lines {
				if !line.DeferredFulfillment() {
					continue
				}
				if err := s.repo.DeductStock(txCtx, line.ItemID, line.Quantity); err != nil {
					return err
				}
			}
		}

		if err := s.repo.MarkCompleted(txCtx, orderID, now); err != nil {
			return err
		}

		result, err = s.repo.GetOrderSummary(txCtx, orderID)
		return err
	})
	if err != nil {
		return domain.OrderSummary{}, err
	}
	return result, nil
}

// DeleteOrder removes the order and its lines. Stock restoration only
// happens when the service was configured for it and the order had been
// finalized; the applicable lines mirror what finalization would have
// deducted.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}

		if s.restoreStockOnDelete && order.Status == domain.OrderStatusFinalized {
			lines, err := s.repo.GetStockLinesForUpdate(txCtx, orderID)
			if err != nil {
				return err
			}
			deferred := domain.RequiresDeferredPath(lines)
			for _, line := range lines {
				if deferred && !line.DeferredFulfillment() {
					continue
				}
				if err := s.repo.RestoreStock(txCtx, line.ItemID, line.Quantity); err != nil {
					return err
				}
			}
		}

		return s.repo.DeleteOrder(txCtx, orderID)
	})
}
