package sqlite

import (
	"context"
	"time"

	"github.com/shopcore/minishop/internal/shop/domain"
)

type ordersRepo struct {
	q querier
}

func (r *ordersRepo) CreateOrder(ctx context.Context, o domain.Order) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.UserID, string(o.Status), now, now,
	)
	if err != nil {
		return mapConstraint(err)
	}

	for _, item := range o.Items {
		if err := r.insertItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *ordersRepo) insertItem(ctx context.Context, item domain.OrderItem) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO order_items (id, order_id, product_id, qty, price_cents)
		 VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.OrderID, item.ProductID, item.Qty, item.PriceCents,
	)
	return mapConstraint(err)
}

func (r *ordersRepo) GetOrderByID(ctx context.Context, id string) (domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, status, created_at, updated_at FROM orders WHERE id = ?`,
		id).Scan(&o.ID, &o.UserID, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, mapNotFound(err)
	}
	o.Status = domain.OrderStatus(status)

	items, err := r.itemsForOrder(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *ordersRepo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, status, created_at, updated_at FROM orders ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			o      domain.Order
			status string
		)
		if err := rows.Scan(&o.ID, &o.UserID, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Status = domain.OrderStatus(status)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.itemsForOrder(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *ordersRepo) itemsForOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, order_id, product_id, qty, price_cents FROM order_items
		 WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Qty, &item.PriceCents); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ordersRepo) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *ordersRepo) ReplaceOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM order_items WHERE order_id = ?`, orderID); err != nil {
		return err
	}

	for _, item := range items {
		if err := r.insertItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *ordersRepo) DeleteOrder(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
