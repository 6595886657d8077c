package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/store"
	"github.com/shopcore/minishop/pkg/idx"
	"github.com/shopcore/minishop/pkg/slogx"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyOrder         = errors.New("an order needs at least one item")
	ErrInvalidQty         = errors.New("item quantity must be positive")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrProductUnavailable = errors.New("product is not available")
)

// OrderService records orders against the catalog. Item prices are a
// snapshot of the product price at order time; later catalog edits never
// rewrite an existing order.
type OrderService struct {
	Store store.Store
}

type OrderItemParams struct {
	ProductID string
	Qty       int64
}

// CreateOrder places an order for ownerID. A non-staff caller always orders
// as themselves; the handler passes the authenticated user id here and only
// staff roles may supply a different owner.
func (s *OrderService) CreateOrder(ctx context.Context, ownerID string, items []OrderItemParams) (domain.Order, error) {
	log := slogx.FromContext(ctx)

	if len(items) == 0 {
		return domain.Order{}, ErrEmptyOrder
	}
	for _, it := range items {
		if it.Qty <= 0 {
			return domain.Order{}, ErrInvalidQty
		}
	}

	order := domain.Order{
		ID:     idx.New().String(),
		UserID: ownerID,
		Status: domain.OrderPending,
	}

	// Price lookup and insert run in one transaction so the snapshot and
	// the order row agree even under concurrent catalog edits.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, ownerID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		for _, it := range items {
			product, err := tx.Products().GetProductByID(ctx, it.ProductID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrProductUnavailable
				}
				return err
			}
			if !product.IsActive {
				return ErrProductUnavailable
			}

			order.Items = append(order.Items, domain.OrderItem{
				ID:         idx.New().String(),
				OrderID:    order.ID,
				ProductID:  product.ID,
				Qty:        it.Qty,
				PriceCents: product.PriceCents,
			})
		}

		return tx.Orders().CreateOrder(ctx, order)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrProductUnavailable), errors.Is(err, ErrUserNotFound):
			log.Warn("order rejected", slog.String("user_id", ownerID), slog.Any("reason", err))
		default:
			log.Error("failed to create order", slog.Any("error", err))
		}
		return domain.Order{}, err
	}

	log.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", ownerID),
		slog.Int("items", len(order.Items)),
	)

	return s.GetOrder(ctx, order.ID)
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.Store.Orders().GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, err
	}
	return order, nil
}

// ListOrders returns every order newest-first.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.Store.Orders().ListOrders(ctx)
}

// UpdateOrderStatus moves an order through pending/paid/cancelled.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, statusName string) (domain.Order, error) {
	log := slogx.FromContext(ctx)

	status, ok := domain.ParseOrderStatus(statusName)
	if !ok {
		return domain.Order{}, ErrInvalidOrderStatus
	}

	if err := s.Store.Orders().UpdateOrderStatus(ctx, id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}
		log.Error("failed to update order status", slog.Any("error", err))
		return domain.Order{}, err
	}

	log.Info("order status updated",
		slog.String("order_id", id),
		slog.String("status", string(status)),
	)

	return s.GetOrder(ctx, id)
}

// ReplaceOrderItems swaps an order's line items for a fresh set, snapshotting
// current product prices the same way CreateOrder does.
func (s *OrderService) ReplaceOrderItems(ctx context.Context, id string, items []OrderItemParams) (domain.Order, error) {
	log := slogx.FromContext(ctx)

	if len(items) == 0 {
		return domain.Order{}, ErrEmptyOrder
	}
	for _, it := range items {
		if it.Qty <= 0 {
			return domain.Order{}, ErrInvalidQty
		}
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		order, err := tx.Orders().GetOrderByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		replacement := make([]domain.OrderItem, 0, len(items))
		for _, it := range items {
			product, err := tx.Products().GetProductByID(ctx, it.ProductID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrProductUnavailable
				}
				return err
			}
			if !product.IsActive {
				return ErrProductUnavailable
			}

			replacement = append(replacement, domain.OrderItem{
				ID:         idx.New().String(),
				OrderID:    order.ID,
				ProductID:  product.ID,
				Qty:        it.Qty,
				PriceCents: product.PriceCents,
			})
		}

		return tx.Orders().ReplaceOrderItems(ctx, order.ID, replacement)
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrProductUnavailable) {
			return domain.Order{}, err
		}
		log.Error("failed to replace order items", slog.Any("error", err))
		return domain.Order{}, err
	}

	return s.GetOrder(ctx, id)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	err := s.Store.Orders().DeleteOrder(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrOrderNotFound
	}
	return err
}
