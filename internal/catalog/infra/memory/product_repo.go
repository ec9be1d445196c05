package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dwikikusuma/order-service/internal/catalog/app"
	"github.com/dwikikusuma/order-service/internal/catalog/domain"
	"github.com/google/uuid"
)

// record keeps the stock counter separate from the immutable product
// fields so adjustments can race freely without touching the map lock.
type record struct {
	id          string
	name        string
	description string
	price       int64
	createdAt   time.Time

	stock     atomic.Int64
	updatedAt atomic.Int64 // unix nanos
}

func (r *record) snapshot() domain.Product {
	return domain.Product{
		ID:          r.id,
		Name:        r.name,
		Description: r.description,
		Price:       r.price,
		Stock:       r.stock.Load(),
		CreatedAt:   r.createdAt,
		UpdatedAt:   time.Unix(0, r.updatedAt.Load()).UTC(),
	}
}

type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]*record
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: make(map[string]*record)}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	now := time.Now().UTC()
	rec := &record{
		id:          uuid.NewString(),
		name:        p.Name,
		description: p.Description,
		price:       p.Price,
		createdAt:   now,
	}
	rec.stock.Store(p.Stock)
	rec.updatedAt.Store(now.UnixNano())

	r.mu.Lock()
	r.products[rec.id] = rec
	r.mu.Unlock()

	return rec.snapshot(), nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	rec, ok := r.products[id]
	r.mu.RUnlock()

	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return rec.snapshot(), nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.products))
	for _, rec := range r.products {
		out = append(out, rec.snapshot())
	}
	return out, nil
}

// AdjustStock is a CAS loop on the product's own counter. Concurrent
// adjustments on the same product serialize through the compare-and-swap;
// unrelated products never contend.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta int64, requireNonNegative bool) (domain.Product, error) {
	r.mu.RLock()
	rec, ok := r.products[id]
	r.mu.RUnlock()

	if !ok {
		return domain.Product{}, app.ErrNotFound
	}

	for {
		cur := rec.stock.Load()
		next := cur + delta
		if requireNonNegative && next < 0 {
			return domain.Product{}, app.ErrInsufficientStock
		}
		if rec.stock.CompareAndSwap(cur, next) {
			rec.updatedAt.Store(time.Now().UTC().UnixNano())
			return rec.snapshot(), nil
		}
	}
}
