package domain

import "time"

// Product prices are integers in the smallest currency unit.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       int64
	Stock       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
