package domain

import "time"

// Product is a catalog item. Value is money with two-decimal precision and
// must never be negative.
type Product struct {
	ID        string
	Name      string
	Value     float64
	Active    bool
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
