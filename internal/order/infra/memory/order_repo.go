package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dwikikusuma/order-service/internal/order/app"
	"github.com/dwikikusuma/order-service/internal/order/domain"
	"github.com/google/uuid"
)

type OrderRepo struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{orders: make(map[string]domain.Order)}
}

func (r *OrderRepo) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Items = cloneItems(order.Items)

	r.mu.Lock()
	r.orders[order.ID] = order
	r.mu.Unlock()

	return order, nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	order, ok := r.orders[id]
	r.mu.RUnlock()

	if !ok {
		return domain.Order{}, app.ErrNotFound
	}
	order.Items = cloneItems(order.Items)
	return order, nil
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Order, 0)
	for _, order := range r.orders {
		if order.CustomerID != customerID {
			continue
		}
		order.Items = cloneItems(order.Items)
		out = append(out, order)
	}
	return out, nil
}

func (r *OrderRepo) Update(ctx context.Context, order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return domain.Order{}, app.ErrNotFound
	}

	order.Items = cloneItems(order.Items)
	r.orders[order.ID] = order
	return order, nil
}

// cloneItems keeps stored orders isolated from caller mutations.
func cloneItems(items []domain.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	copy(out, items)
	return out
}
