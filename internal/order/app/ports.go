package app

import (
	"context"

	"github.com/dwikikusuma/order-service/internal/order/domain"
	reservationapp "github.com/dwikikusuma/order-service/internal/reservation/app"
)

type OrderRepo interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	Update(ctx context.Context, order domain.Order) (domain.Order, error)
}

type Reservations interface {
	PriceAndValidate(ctx context.Context, items []reservationapp.ItemRequest) ([]reservationapp.PricedItem, int64, error)
	Reserve(ctx context.Context, items []reservationapp.PricedItem) error
	Release(ctx context.Context, items []reservationapp.PricedItem)
}

// EventPublisher receives lifecycle events after the order write has
// committed. Publish failures must not fail the operation.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type Event struct {
	Type       string `json:"type"`
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
	Total      int64  `json:"total_amount,omitempty"`
}

const (
	EventOrderCreated       = "order.created"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)
