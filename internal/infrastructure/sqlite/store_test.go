package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	domain "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/cart"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "shop.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Seed(context.Background(), memory.DefaultProducts()...))
	return s
}

func TestMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shop.db")

	s, err := Open(ctx, path, nil)
	require.NoError(t, err)
	v, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, nil)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Ping(ctx))
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestProductsListInSeedOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// reseeding updates in place
	require.NoError(t, s.Seed(ctx, memory.DefaultProducts()...))

	got, err := s.List(ctx)
	require.NoError(t, err)
	want := memory.DefaultProducts()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.True(t, want[i].Price.Equal(got[i].Price))
		assert.Equal(t, want[i].RequiresDeposit, got[i].RequiresDeposit)
	}

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestCartLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	carts := s.Carts()
	products := memory.DefaultProducts()

	c, err := carts.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEmpty, c.Status())

	_, err = carts.AddItem(ctx, c.ID, products[0])
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, c.ID, products[1])
	require.NoError(t, err)
	c, err = carts.AddItem(ctx, c.ID, products[0])
	require.NoError(t, err)

	loaded, err := carts.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, products[0].ID, loaded.Items[0].Product.ID)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.True(t, loaded.Total().Equal(c.Total()))
	assert.True(t, loaded.RequiresDeposit())

	_, err = carts.SetQuantity(ctx, c.ID, "missing", 3)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = carts.RemoveItem(ctx, c.ID, products[1].ID)
	require.NoError(t, err)

	done, err := carts.Checkout(ctx, c.ID, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedOut, done.Status())

	loaded, err = carts.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, loaded.CheckedOut())
	assert.Equal(t, "buyer@example.com", loaded.Email)
	assert.Equal(t, "498", loaded.Total().String())

	_, err = carts.AddItem(ctx, c.ID, products[2])
	assert.ErrorIs(t, err, domain.ErrCheckedOut)

	_, err = carts.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartItemKeepsPriceAtTimeOfAdd(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	carts := s.Carts()
	p := memory.DefaultProducts()[0]

	c, err := carts.Create(ctx)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, c.ID, p)
	require.NoError(t, err)

	p.Price = decimal.RequireFromString("999.99")
	require.NoError(t, s.Seed(ctx, p))

	loaded, err := carts.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "249", loaded.Items[0].Product.Price.String())
}

func TestConcurrentAddsAreNotLost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	carts := s.Carts()
	p := memory.DefaultProducts()[0]

	c, err := carts.Create(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := carts.AddItem(ctx, c.ID, p)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	loaded, err := carts.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 10, loaded.Items[0].Quantity)
}
