package adapter

import (
	"context"

	catalogapp "github.com/dwikikusuma/order-service/internal/catalog/app"
	reservationapp "github.com/dwikikusuma/order-service/internal/reservation/app"
)

type CatalogStockStore struct {
	svc *catalogapp.Service
}

func NewCatalogStockStore(svc *catalogapp.Service) *CatalogStockStore {
	return &CatalogStockStore{svc: svc}
}

func (a *CatalogStockStore) GetProduct(ctx context.Context, productID string) (reservationapp.Product, error) {
	p, err := a.svc.GetProduct(ctx, productID)
	if err != nil {
		return reservationapp.Product{}, err
	}

	return reservationapp.Product{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Stock: p.Stock,
	}, nil
}

func (a *CatalogStockStore) AdjustStock(ctx context.Context, productID string, delta int64, requireNonNegative bool) error {
	_, err := a.svc.AdjustStock(ctx, productID, delta, requireNonNegative)
	return err
}
