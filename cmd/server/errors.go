package main

import (
	"errors"
	"net/http"

	catalogapp "github.com/dwikikusuma/order-service/internal/catalog/app"
	orderapp "github.com/dwikikusuma/order-service/internal/order/app"
	reservationapp "github.com/dwikikusuma/order-service/internal/reservation/app"
)

// httpStatusFromError maps app-layer failure kinds onto HTTP. A bad product
// reference inside a create-order body is a 400, not a 404: the order
// resource itself was addressed fine, its payload wasn't.
func httpStatusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, reservationapp.ErrReservationConflict):
		return http.StatusConflict, "RESERVATION_CONFLICT"
	case errors.Is(err, reservationapp.ErrProductNotFound):
		return http.StatusBadRequest, "PRODUCT_NOT_FOUND"
	case errors.Is(err, reservationapp.ErrInsufficientStock),
		errors.Is(err, catalogapp.ErrInsufficientStock):
		return http.StatusBadRequest, "INSUFFICIENT_STOCK"
	case errors.Is(err, orderapp.ErrInvalidTransition):
		return http.StatusBadRequest, "INVALID_TRANSITION"
	case errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, orderapp.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, catalogapp.ErrNotFound),
		errors.Is(err, orderapp.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
