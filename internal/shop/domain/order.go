package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus validates a request-supplied status string.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderPending, OrderPaid, OrderCancelled:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

type Order struct {
	ID        string
	UserID    string
	Status    OrderStatus
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem records a line in an order. PriceCents is a snapshot of the
// product price at order time; later catalog changes don't rewrite history.
type OrderItem struct {
	ID         string
	OrderID    string
	ProductID  string
	Qty        int64
	PriceCents int64
}
