package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/store"
)

type productsRepo struct {
	q querier
}

const productColumns = `id, name, sku, price_cents, stock, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SKU, &p.PriceCents, &p.Stock, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, mapNotFound(err)
	}
	return p, nil
}

func (r *productsRepo) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	return scanProduct(r.q.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id))
}

func (r *productsRepo) GetProductBySKU(ctx context.Context, sku string) (domain.Product, error) {
	return scanProduct(r.q.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE sku = ?`, sku))
}

// orderingClause whitelists the caller-supplied ordering field. Anything not
// in the map falls back to newest-first.
func orderingClause(ordering string) string {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	col, ok := map[string]string{
		"created_at": "created_at",
		"price":      "price_cents",
		"stock":      "stock",
	}[field]
	if !ok {
		return ` ORDER BY created_at DESC, id DESC`
	}
	if desc {
		return ` ORDER BY ` + col + ` DESC, id DESC`
	}
	return ` ORDER BY ` + col + ` ASC, id ASC`
}

func (r *productsRepo) ListProducts(ctx context.Context, search, ordering string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if search != "" {
		query += ` WHERE name LIKE ?1 OR sku LIKE ?1`
		args = append(args, "%"+search+"%")
	}
	query += orderingClause(ordering)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productsRepo) CreateProduct(ctx context.Context, p domain.Product) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO products (id, name, sku, price_cents, stock, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.SKU, p.PriceCents, p.Stock, p.IsActive, now, now,
	)
	return mapConstraint(err)
}

func (r *productsRepo) UpdateProduct(ctx context.Context, p domain.Product) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET name = ?, sku = ?, price_cents = ?, stock = ?, is_active = ?,
			updated_at = ?
		 WHERE id = ?`,
		p.Name, p.SKU, p.PriceCents, p.Stock, p.IsActive, time.Now().UTC(), p.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *productsRepo) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		// order_items carries ON DELETE RESTRICT; a referenced product
		// cannot be removed.
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrReferenced
		}
		return err
	}
	return requireRowAffected(res)
}
