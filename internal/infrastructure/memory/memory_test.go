package memory

import (
	"context"
	"sync"
	"testing"

	domain "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/cart"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(DefaultProducts()...)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(DefaultProducts()))
	assert.Equal(t, DefaultProducts()[0].ID, all[0].ID)

	p, err := repo.Get(ctx, all[1].ID)
	require.NoError(t, err)
	assert.Equal(t, all[1].SKU, p.SKU)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestCartRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	products := DefaultProducts()
	repo := NewCartRepository(nil)

	c, err := repo.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)

	_, err = repo.AddItem(ctx, c.ID, products[0])
	require.NoError(t, err)
	c, err = repo.AddItem(ctx, c.ID, products[0])
	require.NoError(t, err)
	assert.Equal(t, 2, c.Items[0].Quantity)

	_, err = repo.SetQuantity(ctx, c.ID, "ghost", 3)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	stored, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Items[0].Quantity, "failed mutation must not be stored")

	snapshot, err := repo.Checkout(ctx, c.ID, "ninja@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedOut, snapshot.Status())

	_, err = repo.AddItem(ctx, c.ID, products[1])
	assert.ErrorIs(t, err, domain.ErrCheckedOut)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.RemoveItem(ctx, "missing", products[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(nil)
	c, err := repo.Create(ctx)
	require.NoError(t, err)

	c, err = repo.AddItem(ctx, c.ID, DefaultProducts()[0])
	require.NoError(t, err)
	c.Items[0].Quantity = 99

	stored, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Quantity)
}

func TestCartRepositoryConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(nil)
	c, err := repo.Create(ctx)
	require.NoError(t, err)
	p := DefaultProducts()[2]

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.AddItem(ctx, c.ID, p)
		}()
	}
	wg.Wait()

	stored, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 50, stored.Items[0].Quantity)
}
