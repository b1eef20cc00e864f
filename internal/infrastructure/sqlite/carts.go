package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/cart"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
	"github.com/shopspring/decimal"
)

const timeLayout = time.RFC3339Nano

// Carts returns the cart side of the store. Store cannot implement both repositories
// directly because their Get methods collide.
func (s *Store) Carts() *CartRepository {
	return &CartRepository{s: s}
}

// CartRepository implements cart.Repository. Each mutation loads, changes and
// rewrites the cart inside one transaction.
type CartRepository struct {
	s *Store
}

func (r *CartRepository) Create(ctx context.Context) (*domain.Cart, error) {
	cartID := r.s.ids.NewID()
	if cartID == "" {
		return nil, errors.New("cart repository: id is required")
	}
	c := domain.New(cartID)
	_, err := r.s.db.ExecContext(ctx,
		"INSERT INTO carts (id, email, checked_out_at, created_at, updated_at) VALUES (?, '', NULL, ?, ?)",
		c.ID, c.CreatedAt.Format(timeLayout), c.UpdatedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("cart repository: create: %w", err)
	}
	return c, nil
}

func (r *CartRepository) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	return loadCart(ctx, r.s.db, cartID)
}

func (r *CartRepository) AddItem(ctx context.Context, cartID string, p product.Product) (*domain.Cart, error) {
	return r.mutate(ctx, cartID, func(c *domain.Cart) error { return c.Add(p) })
}

func (r *CartRepository) SetQuantity(ctx context.Context, cartID, productID string, qty int) (*domain.Cart, error) {
	return r.mutate(ctx, cartID, func(c *domain.Cart) error { return c.SetQuantity(productID, qty) })
}

func (r *CartRepository) RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	return r.mutate(ctx, cartID, func(c *domain.Cart) error { return c.Remove(productID) })
}

func (r *CartRepository) Checkout(ctx context.Context, cartID, email string) (*domain.Cart, error) {
	return r.mutate(ctx, cartID, func(c *domain.Cart) error { return c.Checkout(email) })
}

func (r *CartRepository) mutate(ctx context.Context, cartID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	var out *domain.Cart
	err := r.s.withTx(ctx, func(q querier) error {
		c, err := loadCart(ctx, q, cartID)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if err := saveCart(ctx, q, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadCart(ctx context.Context, q querier, cartID string) (*domain.Cart, error) {
	var (
		email                  string
		checkedOutAt           sql.NullString
		createdRaw, updatedRaw string
	)
	err := q.QueryRowContext(ctx,
		"SELECT email, checked_out_at, created_at, updated_at FROM carts WHERE id = ?", cartID,
	).Scan(&email, &checkedOutAt, &createdRaw, &updatedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(timeLayout, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("cart %s: created_at: %w", cartID, err)
	}
	updatedAt, err := time.Parse(timeLayout, updatedRaw)
	if err != nil {
		return nil, fmt.Errorf("cart %s: updated_at: %w", cartID, err)
	}
	var doneAt time.Time
	if checkedOutAt.Valid && checkedOutAt.String != "" {
		if doneAt, err = time.Parse(timeLayout, checkedOutAt.String); err != nil {
			return nil, fmt.Errorf("cart %s: checked_out_at: %w", cartID, err)
		}
	}

	items, err := loadItems(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	return domain.Restore(cartID, items, email, doneAt, createdAt, updatedAt), nil
}

func loadItems(ctx context.Context, q querier, cartID string) ([]domain.LineItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT p.id, p.sku, p.name, p.description, p.featured_image, p.requires_deposit, ci.unit_price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = ?
		ORDER BY ci.position
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var (
			li    domain.LineItem
			price string
		)
		p := &li.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.FeaturedImage, &p.RequiresDeposit, &price, &li.Quantity); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("cart %s: item %s: invalid price %q: %w", cartID, p.ID, price, err)
		}
		items = append(items, li)
	}
	return items, rows.Err()
}

func saveCart(ctx context.Context, q querier, c *domain.Cart) error {
	var checkedOutAt any
	if !c.CheckedOutAt.IsZero() {
		checkedOutAt = c.CheckedOutAt.Format(timeLayout)
	}
	if _, err := q.ExecContext(ctx,
		"UPDATE carts SET email = ?, checked_out_at = ?, updated_at = ? WHERE id = ?",
		c.Email, checkedOutAt, c.UpdatedAt.Format(timeLayout), c.ID,
	); err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = ?", c.ID); err != nil {
		return err
	}
	for i, li := range c.Items {
		if _, err := q.ExecContext(ctx,
			"INSERT INTO cart_items (cart_id, product_id, quantity, unit_price, position) VALUES (?, ?, ?, ?, ?)",
			c.ID, li.Product.ID, li.Quantity, li.Product.Price.String(), i,
		); err != nil {
			return fmt.Errorf("cart %s: item %s: %w", c.ID, li.Product.ID, err)
		}
	}
	return nil
}
