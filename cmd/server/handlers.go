package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	catalogapp "github.com/dwikikusuma/order-service/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/order-service/internal/catalog/domain"
	orderapp "github.com/dwikikusuma/order-service/internal/order/app"
	orderdomain "github.com/dwikikusuma/order-service/internal/order/domain"
)

type api struct {
	products *catalogapp.Service
	orders   *orderapp.Service
	log      *slog.Logger
}

func (a *api) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/products", a.createProduct)
	mux.HandleFunc("GET /api/products", a.listProducts)
	mux.HandleFunc("GET /api/products/{id}", a.getProduct)

	mux.HandleFunc("POST /api/orders", a.createOrder)
	mux.HandleFunc("GET /api/orders", a.listOrders)
	mux.HandleFunc("GET /api/orders/{id}", a.getOrder)
	mux.HandleFunc("POST /api/orders/{id}/cancel", a.cancelOrder)
	mux.HandleFunc("PATCH /api/orders/{id}/address", a.updateAddress)
	mux.HandleFunc("PUT /api/orders/{id}/status", a.setStatus)
	mux.HandleFunc("GET /api/orders/{id}/status", a.getStatus)

	mux.HandleFunc("POST /api/seed", a.seed)
}

type productJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
}

type orderItemJSON struct {
	ProductID       string `json:"product_id"`
	Name            string `json:"name"`
	Quantity        int64  `json:"quantity"`
	PriceAtPurchase int64  `json:"price_at_purchase"`
	LineTotal       int64  `json:"line_total"`
}

type orderJSON struct {
	ID                string          `json:"id"`
	CustomerID        string          `json:"customer_id"`
	Status            string          `json:"status"`
	TotalAmount       int64           `json:"total_amount"`
	ShippingAddress   string          `json:"shipping_address,omitempty"`
	Items             []orderItemJSON `json:"items"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (a *api) createProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Price       int64  `json:"price"`
		Stock       int64  `json:"stock"`
	}
	if !a.readJSON(w, r, &req) {
		return
	}

	p, err := a.products.CreateProduct(r.Context(), req.Name, req.Description, req.Price, req.Stock)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, toProductJSON(p))
}

func (a *api) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.products.ListProducts(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}

	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toProductJSON(p))
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"products": out})
}

func (a *api) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := a.products.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toProductJSON(p))
}

func (a *api) createOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID      string `json:"customer_id"`
		ShippingAddress string `json:"shipping_address"`
		Items           []struct {
			ProductID string `json:"product_id"`
			Quantity  int64  `json:"quantity"`
		} `json:"items"`
	}
	if !a.readJSON(w, r, &req) {
		return
	}

	items := make([]orderapp.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, orderapp.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := a.orders.CreateOrder(r.Context(), req.CustomerID, items, req.ShippingAddress)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, map[string]any{
		"order_id":     order.ID,
		"status":       string(order.Status),
		"total_amount": order.TotalAmount,
	})
}

func (a *api) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orders.ListOrdersForCustomer(r.Context(), r.URL.Query().Get("customer_id"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	out := make([]orderJSON, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderJSON(o))
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"orders": out})
}

func (a *api) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := a.orders.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toOrderJSON(order))
}

func (a *api) cancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := a.orders.CancelOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toOrderJSON(order))
}

func (a *api) updateAddress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShippingAddress string `json:"shipping_address"`
	}
	if !a.readJSON(w, r, &req) {
		return
	}

	order, err := a.orders.UpdateShippingAddress(r.Context(), r.PathValue("id"), req.ShippingAddress)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toOrderJSON(order))
}

func (a *api) setStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !a.readJSON(w, r, &req) {
		return
	}

	order, err := a.orders.SetStatus(r.Context(), r.PathValue("id"), orderdomain.Status(req.Status))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toOrderJSON(order))
}

func (a *api) getStatus(w http.ResponseWriter, r *http.Request) {
	info, err := a.orders.GetStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{
		"status":             string(info.Status),
		"estimated_delivery": info.EstimatedDelivery,
		"created_at":         info.CreatedAt,
		"updated_at":         info.UpdatedAt,
	})
}

// seed loads a handful of demo products so the API is usable out of the box.
func (a *api) seed(w http.ResponseWriter, r *http.Request) {
	demo := []struct {
		name, desc   string
		price, stock int64
	}{
		{"Mechanical Keyboard", "Hot-swappable 75% board", 129900, 25},
		{"Wireless Mouse", "Low-latency 2.4GHz mouse", 49900, 40},
		{"USB-C Dock", "Dual display, 100W passthrough", 89900, 15},
	}

	created := make([]productJSON, 0, len(demo))
	for _, d := range demo {
		p, err := a.products.CreateProduct(r.Context(), d.name, d.desc, d.price, d.stock)
		if err != nil {
			a.writeError(w, err)
			return
		}
		created = append(created, toProductJSON(p))
	}
	a.writeJSON(w, http.StatusCreated, map[string]any{"products": created})
}

func (a *api) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]any{
			"code":    "INVALID_BODY",
			"message": "request body is not valid JSON",
		})
		return false
	}
	return true
}

func (a *api) writeError(w http.ResponseWriter, err error) {
	status, code := httpStatusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		a.log.Error("request failed", slog.Any("err", err))
		msg = "internal error"
	}
	a.writeJSON(w, status, map[string]any{"code": code, "message": msg})
}

func (a *api) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		a.log.Error("response encode failed", slog.Any("err", err))
	}
}

func toProductJSON(p catalogdomain.Product) productJSON {
	return productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
	}
}

func toOrderJSON(o orderdomain.Order) orderJSON {
	items := make([]orderItemJSON, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemJSON{
			ProductID:       it.ProductID,
			Name:            it.Name,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
			LineTotal:       it.LineTotal,
		})
	}

	return orderJSON{
		ID:                o.ID,
		CustomerID:        o.CustomerID,
		Status:            string(o.Status),
		TotalAmount:       o.TotalAmount,
		ShippingAddress:   o.ShippingAddress,
		Items:             items,
		EstimatedDelivery: o.EstimatedDelivery,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}
