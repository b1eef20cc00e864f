package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
	"github.com/shopspring/decimal"
)

const productColumns = `id, sku, name, description, featured_image, requires_deposit, price`

// Seed inserts or updates products, keeping the order given for listings.
func (s *Store) Seed(ctx context.Context, products ...product.Product) error {
	return s.withTx(ctx, func(q querier) error {
		var next int
		if err := q.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), -1) + 1 FROM products").Scan(&next); err != nil {
			return err
		}
		for _, p := range products {
			if p.ID == "" {
				return errors.New("sqlite: product id is required")
			}
			_, err := q.ExecContext(ctx, `
				INSERT INTO products (id, sku, name, description, featured_image, requires_deposit, price, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					sku = excluded.sku,
					name = excluded.name,
					description = excluded.description,
					featured_image = excluded.featured_image,
					requires_deposit = excluded.requires_deposit,
					price = excluded.price
			`, p.ID, p.SKU, p.Name, p.Description, p.FeaturedImage, p.RequiresDeposit, p.Price.String(), next)
			if err != nil {
				return fmt.Errorf("seed product %s: %w", p.ID, err)
			}
			next++
		}
		return nil
	})
}

func (s *Store) List(ctx context.Context) ([]product.Product, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (*product.Product, error) {
	return getProduct(ctx, s.db, id)
}

func getProduct(ctx context.Context, q querier, id string) (*product.Product, error) {
	row := q.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(sc scanner) (product.Product, error) {
	var (
		p     product.Product
		price string
	)
	if err := sc.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.FeaturedImage, &p.RequiresDeposit, &price); err != nil {
		return product.Product{}, err
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return product.Product{}, fmt.Errorf("product %s: invalid price %q: %w", p.ID, price, err)
	}
	p.Price = amount
	return p, nil
}
