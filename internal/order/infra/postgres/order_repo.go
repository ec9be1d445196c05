package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwikikusuma/order-service/internal/order/app"
	"github.com/dwikikusuma/order-service/internal/order/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

func (r *OrderRepo) execTX(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

// Create inserts the order and its line items in one transaction, so a
// half-written order can never be read back.
func (r *OrderRepo) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	var created domain.Order

	err := r.execTX(ctx, func(tx pgx.Tx) error {
		const insertOrder = `
			INSERT INTO orders (id, customer_id, status, total_amount, shipping_address, estimated_delivery)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, customer_id, status, total_amount, shipping_address,
			          estimated_delivery, created_at, updated_at`

		row := tx.QueryRow(ctx, insertOrder,
			uuid.NewString(), order.CustomerID, string(order.Status),
			order.TotalAmount, order.ShippingAddress, order.EstimatedDelivery)

		o, err := scanOrder(row)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		const insertItem = `
			INSERT INTO order_items (id, order_id, product_id, name, quantity, price_at_purchase, line_total, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

		for i, it := range order.Items {
			if it.LineTotal != it.PriceAtPurchase*it.Quantity {
				return fmt.Errorf("item %d: line total mismatch", i)
			}
			_, err := tx.Exec(ctx, insertItem,
				uuid.NewString(), o.ID, it.ProductID, it.Name,
				it.Quantity, it.PriceAtPurchase, it.LineTotal, i)
			if err != nil {
				return fmt.Errorf("insert item %d: %w", i, err)
			}
		}

		o.Items = cloneItems(order.Items)
		created = o
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Order{}, app.ErrNotFound
	}

	const q = `
		SELECT id, customer_id, status, total_amount, shipping_address,
		       estimated_delivery, created_at, updated_at
		FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	order.Items, err = r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	const q = `
		SELECT id, customer_id, status, total_amount, shipping_address,
		       estimated_delivery, created_at, updated_at
		FROM orders WHERE customer_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Items, err = r.loadItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Update rewrites mutable order fields. Line items are immutable after
// creation and are not touched.
func (r *OrderRepo) Update(ctx context.Context, order domain.Order) (domain.Order, error) {
	const q = `
		UPDATE orders
		SET status = $2, shipping_address = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, customer_id, status, total_amount, shipping_address,
		          estimated_delivery, created_at, updated_at`

	updated, err := scanOrder(r.pool.QueryRow(ctx, q, order.ID, string(order.Status), order.ShippingAddress))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	updated.Items, err = r.loadItems(ctx, updated.ID)
	if err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
		SELECT product_id, name, quantity, price_at_purchase, line_total
		FROM order_items WHERE order_id = $1 ORDER BY position`

	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Quantity, &it.PriceAtPurchase, &it.LineTotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := row.Scan(&o.ID, &o.CustomerID, &status, &o.TotalAmount, &o.ShippingAddress,
		&o.EstimatedDelivery, &o.CreatedAt, &o.UpdatedAt)
	o.Status = domain.Status(status)
	return o, err
}

func cloneItems(items []domain.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	copy(out, items)
	return out
}
