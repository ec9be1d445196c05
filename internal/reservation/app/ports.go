package app

import "context"

type Product struct {
	ID    string
	Name  string
	Price int64
	Stock int64
}

type StockStore interface {
	GetProduct(ctx context.Context, productID string) (Product, error)

	// AdjustStock applies stock += delta atomically. With requireNonNegative
	// set, it fails instead of driving the counter below zero.
	AdjustStock(ctx context.Context, productID string, delta int64, requireNonNegative bool) error
}
