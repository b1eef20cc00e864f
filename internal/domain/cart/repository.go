package cart

import (
	"context"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
)

// Repository is the cart side of the data store gateway. Every mutation is applied
// atomically per cart. Get returns ErrNotFound for unknown ids; checked-out carts are
// still returned so callers can tell them apart.
type Repository interface {
	Create(ctx context.Context) (*Cart, error)
	Get(ctx context.Context, id string) (*Cart, error)
	AddItem(ctx context.Context, cartID string, p product.Product) (*Cart, error)
	SetQuantity(ctx context.Context, cartID, productID string, qty int) (*Cart, error)
	RemoveItem(ctx context.Context, cartID, productID string) (*Cart, error)
	// Checkout marks the cart checked out and returns the finalized snapshot.
	Checkout(ctx context.Context, cartID, email string) (*Cart, error)
}
