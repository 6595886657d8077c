package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/store"
	"github.com/shopcore/minishop/pkg/idx"
	"github.com/shopcore/minishop/pkg/slogx"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrSKUTaken         = errors.New("sku is already in use")
	ErrInvalidProduct   = errors.New("invalid product")
	ErrActiveZeroPrice  = errors.New("an active product must not have a zero price")
	ErrNegativeQuantity = errors.New("price and stock must not be negative")
	ErrProductInOrders  = errors.New("product is referenced by existing orders")
)

// ProductService manages the catalog.
type ProductService struct {
	Store store.Store
}

type ProductParams struct {
	Name       string
	SKU        string
	PriceCents int64
	Stock      int64
	IsActive   bool
}

func validateProduct(p ProductParams) error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.SKU) == "" {
		return ErrInvalidProduct
	}
	if p.PriceCents < 0 || p.Stock < 0 {
		return ErrNegativeQuantity
	}
	if p.IsActive && p.PriceCents == 0 {
		return ErrActiveZeroPrice
	}
	return nil
}

func (s *ProductService) CreateProduct(ctx context.Context, p ProductParams) (domain.Product, error) {
	log := slogx.FromContext(ctx)

	if err := validateProduct(p); err != nil {
		return domain.Product{}, err
	}

	product := domain.Product{
		ID:         idx.New().String(),
		Name:       strings.TrimSpace(p.Name),
		SKU:        strings.TrimSpace(p.SKU),
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
		IsActive:   p.IsActive,
	}

	if err := s.Store.Products().CreateProduct(ctx, product); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Product{}, ErrSKUTaken
		}
		log.Error("failed to create product", slog.Any("error", err))
		return domain.Product{}, err
	}

	log.Info("product created",
		slog.String("product_id", product.ID),
		slog.String("sku", product.SKU),
	)

	return s.GetProduct(ctx, product.ID)
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, p ProductParams) (domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return domain.Product{}, err
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	product.Name = strings.TrimSpace(p.Name)
	product.SKU = strings.TrimSpace(p.SKU)
	product.PriceCents = p.PriceCents
	product.Stock = p.Stock
	product.IsActive = p.IsActive

	if err := s.Store.Products().UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Product{}, ErrSKUTaken
		}
		if errors.Is(err, store.ErrNotFound) {
			return domain.Product{}, ErrProductNotFound
		}
		return domain.Product{}, err
	}

	return s.GetProduct(ctx, id)
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.Store.Products().GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Product{}, ErrProductNotFound
		}
		return domain.Product{}, err
	}
	return product, nil
}

// ListProducts returns the catalog filtered by an optional name/SKU search
// term and sorted by the requested ordering.
func (s *ProductService) ListProducts(ctx context.Context, search, ordering string) ([]domain.Product, error) {
	return s.Store.Products().ListProducts(ctx, search, ordering)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	err := s.Store.Products().DeleteProduct(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrProductNotFound
	case errors.Is(err, store.ErrReferenced):
		return ErrProductInOrders
	}
	return err
}
