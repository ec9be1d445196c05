package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/dwikikusuma/order-service/internal/catalog/app"
	"github.com/dwikikusuma/order-service/internal/catalog/domain"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustCreate(t *testing.T, repo *ProductRepo, stock int64) domain.Product {
	t.Helper()
	p, err := repo.Create(context.Background(), domain.Product{Name: "Keyboard", Price: 1000, Stock: stock})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return p
}

func TestAdjustStockFloor(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepo()
	p := mustCreate(t, repo, 5)

	t.Run("decrement within stock", func(t *testing.T) {
		got, err := repo.AdjustStock(ctx, p.ID, -3, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Stock != 2 {
			t.Fatalf("expected stock 2, got %d", got.Stock)
		}
	})

	t.Run("decrement below floor rejected, stock untouched", func(t *testing.T) {
		_, err := repo.AdjustStock(ctx, p.ID, -3, true)
		if !errors.Is(err, app.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		got, _ := repo.Get(ctx, p.ID)
		if got.Stock != 2 {
			t.Fatalf("expected stock 2 after rejection, got %d", got.Stock)
		}
	})

	t.Run("increment ignores floor flag", func(t *testing.T) {
		got, err := repo.AdjustStock(ctx, p.ID, 3, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Stock != 5 {
			t.Fatalf("expected stock 5, got %d", got.Stock)
		}
	})

	t.Run("unknown id -> not found", func(t *testing.T) {
		_, err := repo.AdjustStock(ctx, "nope", 1, false)
		if !errors.Is(err, app.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

// Many goroutines race single-unit decrements against stock S; exactly S
// may win, and the counter must end at zero, never below.
func TestAdjustStockConcurrentNoOversell(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepo()

	const stock = 50
	const workers = 200

	p := mustCreate(t, repo, stock)

	var wins atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, err := repo.AdjustStock(ctx, p.ID, -1, true)
			if err == nil {
				wins.Add(1)
				return nil
			}
			if errors.Is(err, app.ErrInsufficientStock) {
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent adjust failed: %v", err)
	}

	if got := wins.Load(); got != stock {
		t.Fatalf("expected exactly %d successful decrements, got %d", stock, got)
	}
	final, _ := repo.Get(ctx, p.ID)
	if final.Stock != 0 {
		t.Fatalf("expected final stock 0, got %d", final.Stock)
	}
}
