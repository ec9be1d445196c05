package app

import (
	"context"

	"github.com/dwikikusuma/order-service/internal/catalog/domain"
)

type ProductRepo interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)

	// AdjustStock applies stock += delta as one atomic read-modify-write.
	// With requireNonNegative set, an adjustment that would drive stock
	// below zero is rejected with ErrInsufficientStock and the counter is
	// left untouched.
	AdjustStock(ctx context.Context, id string, delta int64, requireNonNegative bool) (domain.Product, error)
}
