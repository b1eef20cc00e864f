package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/cart"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/id"
)

// CartRepository keeps carts in a map. Each mutation runs under the write lock so
// updates to one cart are atomic.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
	ids   id.Generator
}

func NewCartRepository(ids id.Generator) *CartRepository {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &CartRepository{
		carts: make(map[string]*domain.Cart),
		ids:   ids,
	}
}

func (r *CartRepository) Create(ctx context.Context) (*domain.Cart, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	cartID := r.ids.NewID()
	if cartID == "" {
		return nil, fmt.Errorf("cart repository: id is required")
	}
	if _, exists := r.carts[cartID]; exists {
		return nil, fmt.Errorf("cart repository: duplicate id %q", cartID)
	}
	c := domain.New(cartID)
	r.carts[cartID] = c
	return c.Clone(), nil
}

func (r *CartRepository) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.carts[cartID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c.Clone(), nil
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

// mutate applies fn to a copy and only stores it when fn succeeds.
func (r *CartRepository) mutate(ctx context.Context, cartID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.carts[cartID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	r.carts[cartID] = next
	return next.Clone(), nil
}
