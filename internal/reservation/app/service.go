package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrReservationConflict = errors.New("reservation conflict")
)

type ItemRequest struct {
	ProductID string
	Quantity  int64
}

// PricedItem is an order line with its purchase-time unit price snapshotted.
type PricedItem struct {
	ProductID string
	Name      string
	Quantity  int64
	UnitPrice int64
	LineTotal int64
}

type Engine struct {
	store StockStore
	log   *slog.Logger

	maxConcurrent int
}

func NewEngine(store StockStore, log *slog.Logger, maxConcurrent int) *Engine {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Engine{
		store:         store,
		log:           log,
		maxConcurrent: maxConcurrent,
	}
}

// PriceAndValidate resolves every requested item against the store, checks
// that stock covers the requested quantity, and snapshots unit prices. The
// stock check is point-in-time only: nothing is held between validation and
// Reserve, so a concurrent order can still win the race. Reserve handles
// that case.
func (e *Engine) PriceAndValidate(ctx context.Context, items []ItemRequest) ([]PricedItem, int64, error) {
	priced := make([]PricedItem, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrent)

	for idx := range items {
		g.Go(func() error {
			it := items[idx]
			if it.Quantity <= 0 {
				return fmt.Errorf("product %s: quantity must be positive, got %d", it.ProductID, it.Quantity)
			}

			product, err := e.store.GetProduct(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("product %s: %w", it.ProductID, ErrProductNotFound)
			}

			if it.Quantity > product.Stock {
				return fmt.Errorf("product %s: requested %d, available %d: %w",
					it.ProductID, it.Quantity, product.Stock, ErrInsufficientStock)
			}

			priced[idx] = PricedItem{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  it.Quantity,
				UnitPrice: product.Price,
				LineTotal: product.Price * it.Quantity,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var total int64
	for _, line := range priced {
		total += line.LineTotal
	}

	return priced, total, nil
}

// Reserve decrements stock per item. There is no cross-product transaction,
// so a failure partway through is unwound by re-incrementing every item that
// was already taken, in reverse order, before the error is returned. Callers
// never observe a half-reserved state.
func (e *Engine) Reserve(ctx context.Context, items []PricedItem) error {
	for i, it := range items {
		err := e.store.AdjustStock(ctx, it.ProductID, -it.Quantity, true)
		if err == nil {
			continue
		}

		for j := i - 1; j >= 0; j-- {
			undo := items[j]
			if rerr := e.store.AdjustStock(ctx, undo.ProductID, undo.Quantity, false); rerr != nil {
				e.log.Error("reservation rollback failed",
					slog.String("product_id", undo.ProductID),
					slog.Int64("quantity", undo.Quantity),
					slog.Any("err", rerr))
			}
		}

		return fmt.Errorf("product %s: %w", it.ProductID, ErrReservationConflict)
	}

	return nil
}

// Release gives reserved stock back. It is purely additive and never fails
// the caller: a product that has gone missing is logged as a bookkeeping
// inconsistency and skipped.
func (e *Engine) Release(ctx context.Context, items []PricedItem) {
	for _, it := range items {
		if err := e.store.AdjustStock(ctx, it.ProductID, it.Quantity, false); err != nil {
			e.log.Warn("stock release skipped",
				slog.String("product_id", it.ProductID),
				slog.Int64("quantity", it.Quantity),
				slog.Any("err", err))
		}
	}
}
