package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwikikusuma/order-service/internal/catalog/app"
	"github.com/dwikikusuma/order-service/internal/catalog/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	const q = `
		INSERT INTO products (id, name, description, price, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, price, stock, created_at, updated_at`

	row := r.pool.QueryRow(ctx, q, uuid.NewString(), p.Name, p.Description, p.Price, p.Stock)
	return scanProduct(row)
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	const q = `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	return p, err
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products ORDER BY created_at`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AdjustStock is a single conditional UPDATE, so the floor check and the
// write land in one statement and concurrent adjustments cannot interleave.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta int64, requireNonNegative bool) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	const q = `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND ($3 = false OR stock + $2 >= 0)
		RETURNING id, name, description, price, stock, created_at, updated_at`

	p, err := scanProduct(r.pool.QueryRow(ctx, q, id, delta, requireNonNegative))
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the product is missing or the floor check rejected the
		// delta; a second lookup tells them apart.
		if _, gerr := r.Get(ctx, id); gerr != nil {
			return domain.Product{}, gerr
		}
		return domain.Product{}, app.ErrInsufficientStock
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("adjust stock for %s: %w", id, err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
