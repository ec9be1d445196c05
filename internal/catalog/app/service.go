package app

import (
	"context"
	"errors"
	"strings"

	"github.com/dwikikusuma/order-service/internal/catalog/domain"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateProduct(ctx context.Context, name, desc string, price, stock int64) (domain.Product, error) {
	name = strings.TrimSpace(name)

	if name == "" || price < 0 || stock < 0 {
		return domain.Product{}, ErrInvalidInput
	}

	p := domain.Product{
		Name:        name,
		Description: desc,
		Price:       price,
		Stock:       stock,
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// AdjustStock moves a product's stock counter by delta. Reservations pass
// requireNonNegative=true so the counter can never be driven below zero;
// releases pass false because they only ever add.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int64, requireNonNegative bool) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.AdjustStock(ctx, id, delta, requireNonNegative)
}
