package domain

import "time"

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// transitions is the forward edge set of the lifecycle. cancelled is
// reachable from pending and confirmed only; delivered and cancelled
// have no outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in this status may still be
// cancelled. Once shipped the order is on its way and cancellation is
// blocked; terminal states are immutable.
func (s Status) Cancellable() bool {
	return s.CanTransition(StatusCancelled)
}

// AddressMutable reports whether the shipping address may still change.
func (s Status) AddressMutable() bool {
	switch s {
	case StatusShipped, StatusOutForDelivery, StatusDelivered:
		return false
	}
	return true
}

// OrderItem carries an immutable copy of the product data relevant at
// purchase time. PriceAtPurchase never changes, even if the catalog
// price does.
type OrderItem struct {
	ProductID       string
	Name            string
	Quantity        int64
	PriceAtPurchase int64
	LineTotal       int64
}

type Order struct {
	ID                string
	CustomerID        string
	Status            Status
	TotalAmount       int64
	ShippingAddress   string
	Items             []OrderItem
	EstimatedDelivery time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
