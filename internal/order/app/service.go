package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dwikikusuma/order-service/internal/order/domain"
	reservationapp "github.com/dwikikusuma/order-service/internal/reservation/app"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

const deliveryEstimate = 5 * 24 * time.Hour

type ItemRequest struct {
	ProductID string
	Quantity  int64
}

type StatusInfo struct {
	Status            domain.Status
	EstimatedDelivery time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Service struct {
	repo         OrderRepo
	reservations Reservations
	events       EventPublisher
	log          *slog.Logger
}

// NewService wires the lifecycle manager. events may be nil when no
// publisher is configured.
func NewService(repo OrderRepo, reservations Reservations, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		reservations: reservations,
		events:       events,
		log:          log,
	}
}

// CreateOrder prices and reserves stock for every item, then persists the
// order in state confirmed. An order record only ever exists if the whole
// reservation succeeded; any failure after stock was taken releases it
// again before returning.
func (s *Service) CreateOrder(ctx context.Context, customerID string, items []ItemRequest, shippingAddress string) (domain.Order, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return domain.Order{}, fmt.Errorf("customer id is required: %w", ErrInvalidInput)
	}
	if len(items) == 0 {
		return domain.Order{}, fmt.Errorf("order needs at least one item: %w", ErrInvalidInput)
	}

	requests := make([]reservationapp.ItemRequest, 0, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return domain.Order{}, fmt.Errorf("item %d: product id is required: %w", i, ErrInvalidInput)
		}
		if it.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("item %d: quantity must be positive, got %d: %w", i, it.Quantity, ErrInvalidInput)
		}
		requests = append(requests, reservationapp.ItemRequest{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	priced, total, err := s.reservations.PriceAndValidate(ctx, requests)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.reservations.Reserve(ctx, priced); err != nil {
		return domain.Order{}, err
	}

	now := time.Now().UTC()
	order := domain.Order{
		CustomerID:        customerID,
		Status:            domain.StatusConfirmed,
		TotalAmount:       total,
		ShippingAddress:   strings.TrimSpace(shippingAddress),
		Items:             toOrderItems(priced),
		EstimatedDelivery: now.Add(deliveryEstimate),
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		// Stock was already taken; give it back so a storage failure
		// cannot leak inventory.
		s.reservations.Release(ctx, priced)
		return domain.Order{}, err
	}

	s.publish(ctx, Event{
		Type:       EventOrderCreated,
		OrderID:    created.ID,
		CustomerID: created.CustomerID,
		Status:     string(created.Status),
		Total:      created.TotalAmount,
	})

	return created, nil
}

// CancelOrder releases the order's stock and moves it to cancelled. Release
// problems are bookkeeping inconsistencies, not reasons to strand the order,
// so the transition happens regardless.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (domain.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if !order.Status.Cancellable() {
		return domain.Order{}, fmt.Errorf("order %s is %s: %w", order.ID, order.Status, ErrInvalidTransition)
	}

	s.reservations.Release(ctx, toPricedItems(order.Items))

	order.Status = domain.StatusCancelled
	order.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}

	s.publish(ctx, Event{
		Type:       EventOrderCancelled,
		OrderID:    updated.ID,
		CustomerID: updated.CustomerID,
		Status:     string(updated.Status),
	})

	return updated, nil
}

func (s *Service) UpdateShippingAddress(ctx context.Context, orderID, address string) (domain.Order, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Order{}, fmt.Errorf("shipping address is required: %w", ErrInvalidInput)
	}

	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if !order.Status.AddressMutable() {
		return domain.Order{}, fmt.Errorf("order %s is %s: %w", order.ID, order.Status, ErrInvalidTransition)
	}

	order.ShippingAddress = address
	order.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, order)
}

// SetStatus is an administrative override: it does not consult the
// transition table. Every call is logged so overrides leave a trail.
// Cancellation must go through CancelOrder, which handles stock.
func (s *Service) SetStatus(ctx context.Context, orderID string, status domain.Status) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("unknown status %q: %w", status, ErrInvalidInput)
	}

	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	s.log.Warn("status override",
		slog.String("order_id", order.ID),
		slog.String("from", string(order.Status)),
		slog.String("to", string(status)))

	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}

	s.publish(ctx, Event{
		Type:       EventOrderStatusChanged,
		OrderID:    updated.ID,
		CustomerID: updated.CustomerID,
		Status:     string(updated.Status),
	})

	return updated, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	return s.repo.Get(ctx, orderID)
}

func (s *Service) ListOrdersForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("customer id is required: %w", ErrInvalidInput)
	}
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) GetStatus(ctx context.Context, orderID string) (StatusInfo, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return StatusInfo{}, err
	}

	return StatusInfo{
		Status:            order.Status,
		EstimatedDelivery: order.EstimatedDelivery,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}, nil
}

func (s *Service) publish(ctx context.Context, event Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("event publish failed",
			slog.String("type", event.Type),
			slog.String("order_id", event.OrderID),
			slog.Any("err", err))
	}
}

func toOrderItems(priced []reservationapp.PricedItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(priced))
	for _, p := range priced {
		out = append(out, domain.OrderItem{
			ProductID:       p.ProductID,
			Name:            p.Name,
			Quantity:        p.Quantity,
			PriceAtPurchase: p.UnitPrice,
			LineTotal:       p.LineTotal,
		})
	}
	return out
}

func toPricedItems(items []domain.OrderItem) []reservationapp.PricedItem {
	out := make([]reservationapp.PricedItem, 0, len(items))
	for _, it := range items {
		out = append(out, reservationapp.PricedItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.PriceAtPurchase,
			LineTotal: it.LineTotal,
		})
	}
	return out
}
