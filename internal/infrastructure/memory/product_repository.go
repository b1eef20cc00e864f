package memory

import (
	"context"
	"sync"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
)

type ProductRepository struct {
	mu       sync.RWMutex
	order    []string
	products map[string]product.Product
}

func NewProductRepository(seed ...product.Product) *ProductRepository {
	r := &ProductRepository{
		products: make(map[string]product.Product, len(seed)),
	}
	for _, p := range seed {
		r.Put(p)
	}
	return r
}

// Put inserts or replaces a product, keeping insertion order for listings.
func (r *ProductRepository) Put(p product.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.products[p.ID] = p
}

func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]product.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*product.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}
