package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu       sync.Mutex
	products map[string]*Product

	// failDecrement forces the next decrement of a product to fail, as if
	// a concurrent order had won the race since validation.
	failDecrement map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:      make(map[string]*Product),
		failDecrement: make(map[string]error),
	}
}

func (f *fakeStore) add(id string, price, stock int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[id] = &Product{ID: id, Name: "p-" + id, Price: price, Stock: stock}
}

func (f *fakeStore) stock(id string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

func (f *fakeStore) GetProduct(ctx context.Context, productID string) (Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return Product{}, fmt.Errorf("no such product %s", productID)
	}
	return *p, nil
}

func (f *fakeStore) AdjustStock(ctx context.Context, productID string, delta int64, requireNonNegative bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[productID]
	if !ok {
		return fmt.Errorf("no such product %s", productID)
	}
	if delta < 0 {
		if err, ok := f.failDecrement[productID]; ok {
			return err
		}
	}
	if requireNonNegative && p.Stock+delta < 0 {
		return fmt.Errorf("stock floor hit for %s", productID)
	}
	p.Stock += delta
	return nil
}

func newEngine(store StockStore) *Engine {
	return NewEngine(store, slog.New(slog.NewTextHandler(io.Discard, nil)), 4)
}

func TestPriceAndValidate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.add("a", 1000, 5)
	store.add("b", 250, 10)
	engine := newEngine(store)

	t.Run("prices items and sums total", func(t *testing.T) {
		priced, total, err := engine.PriceAndValidate(ctx, []ItemRequest{
			{ProductID: "a", Quantity: 2},
			{ProductID: "b", Quantity: 4},
		})
		require.NoError(t, err)
		require.Len(t, priced, 2)

		assert.Equal(t, int64(1000), priced[0].UnitPrice)
		assert.Equal(t, int64(2000), priced[0].LineTotal)
		assert.Equal(t, int64(1000), priced[1].LineTotal)
		assert.Equal(t, int64(3000), total)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, _, err := engine.PriceAndValidate(ctx, []ItemRequest{
			{ProductID: "a", Quantity: 1},
			{ProductID: "ghost", Quantity: 1},
		})
		require.ErrorIs(t, err, ErrProductNotFound)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("insufficient stock names the product", func(t *testing.T) {
		_, _, err := engine.PriceAndValidate(ctx, []ItemRequest{
			{ProductID: "a", Quantity: 6},
		})
		require.ErrorIs(t, err, ErrInsufficientStock)
		assert.Contains(t, err.Error(), "a")
	})

	t.Run("validation does not touch stock", func(t *testing.T) {
		assert.Equal(t, int64(5), store.stock("a"))
		assert.Equal(t, int64(10), store.stock("b"))
	})
}

func TestReserveAndRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("reserve decrements every item", func(t *testing.T) {
		store := newFakeStore()
		store.add("a", 100, 5)
		store.add("b", 100, 5)
		engine := newEngine(store)

		priced, _, err := engine.PriceAndValidate(ctx, []ItemRequest{
			{ProductID: "a", Quantity: 2},
			{ProductID: "b", Quantity: 3},
		})
		require.NoError(t, err)
		require.NoError(t, engine.Reserve(ctx, priced))

		assert.Equal(t, int64(3), store.stock("a"))
		assert.Equal(t, int64(2), store.stock("b"))
	})

	t.Run("reserve then release restores stock exactly", func(t *testing.T) {
		store := newFakeStore()
		store.add("a", 100, 7)
		engine := newEngine(store)

		priced, _, err := engine.PriceAndValidate(ctx, []ItemRequest{{ProductID: "a", Quantity: 4}})
		require.NoError(t, err)
		require.NoError(t, engine.Reserve(ctx, priced))
		engine.Release(ctx, priced)

		assert.Equal(t, int64(7), store.stock("a"))
	})

	t.Run("partial failure rolls back earlier items", func(t *testing.T) {
		store := newFakeStore()
		store.add("a", 100, 5)
		store.add("b", 100, 5)
		store.add("c", 100, 5)
		engine := newEngine(store)

		priced, _, err := engine.PriceAndValidate(ctx, []ItemRequest{
			{ProductID: "a", Quantity: 2},
			{ProductID: "b", Quantity: 2},
			{ProductID: "c", Quantity: 2},
		})
		require.NoError(t, err)

		store.failDecrement["c"] = fmt.Errorf("raced out")

		err = engine.Reserve(ctx, priced)
		require.ErrorIs(t, err, ErrReservationConflict)
		assert.Contains(t, err.Error(), "c")

		// a and b were decremented before c failed; both must be back.
		assert.Equal(t, int64(5), store.stock("a"))
		assert.Equal(t, int64(5), store.stock("b"))
		assert.Equal(t, int64(5), store.stock("c"))
	})

	t.Run("release of a vanished product is non-fatal", func(t *testing.T) {
		store := newFakeStore()
		store.add("a", 100, 5)
		engine := newEngine(store)

		items := []PricedItem{
			{ProductID: "ghost", Quantity: 1, UnitPrice: 100, LineTotal: 100},
			{ProductID: "a", Quantity: 2, UnitPrice: 100, LineTotal: 200},
		}
		engine.Release(ctx, items)

		// The surviving product still gets its stock back.
		assert.Equal(t, int64(7), store.stock("a"))
	})
}
