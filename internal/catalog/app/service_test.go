package app

import (
	"context"
	"testing"

	"github.com/dwikikusuma/order-service/internal/catalog/domain"
)

type fakeRepo struct{}

func (fakeRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) { return p, nil }
func (fakeRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	return domain.Product{}, nil
}
func (fakeRepo) List(ctx context.Context) ([]domain.Product, error) { return nil, nil }
func (fakeRepo) AdjustStock(ctx context.Context, id string, delta int64, requireNonNegative bool) (domain.Product, error) {
	return domain.Product{}, nil
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(fakeRepo{})

	t.Run("empty name -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), "   ", "x", 100, 10)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative price -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), "Keyboard", "x", -1, 10)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative stock -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), "Keyboard", "x", 100, -1)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("zero price and stock -> ok", func(t *testing.T) {
		if _, err := svc.CreateProduct(context.Background(), "Sticker", "x", 0, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestAdjustStockValidation(t *testing.T) {
	svc := NewService(fakeRepo{})

	t.Run("blank id -> invalid", func(t *testing.T) {
		_, err := svc.AdjustStock(context.Background(), "  ", 1, false)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
