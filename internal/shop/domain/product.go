package domain

import "time"

// Product is a catalog entry. Prices are integer cents; money never touches
// floating point.
type Product struct {
	ID         string
	Name       string
	SKU        string
	PriceCents int64
	Stock      int64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
