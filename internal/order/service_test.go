package order

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
)

func newSessionService(t *testing.T) (*Service, cart.Registry) {
	t.Helper()
	carts, err := cart.NewSessionRegistry(catalog.NewSeeded(), 8, nil)
	require.NoError(t, err)
	return NewService(NewMemStore(0), carts, nil), carts
}

func TestCheckoutPlacesOrder(t *testing.T) {
	svc, carts := newSessionService(t)
	placedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return placedAt }

	_, err := carts.Cart("s_a").Add("1", 2)
	require.NoError(t, err)
	_, err = carts.Cart("s_a").Add("3", 1)
	require.NoError(t, err)

	o, err := svc.Checkout(context.Background(), "s_a")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(o.ID, "o_"))
	assert.Equal(t, "s_a", o.SessionID)
	assert.Equal(t, 3, o.Count)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("1599.97")))
	assert.Equal(t, placedAt, o.PlacedAt)
	assert.Equal(t, 0, carts.Cart("s_a").Count())

	got, ok, err := svc.Get(context.Background(), "s_a", o.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, o.ID, got.ID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _ := newSessionService(t)

	_, err := svc.Checkout(context.Background(), "s_a")
	require.ErrorIs(t, err, cart.ErrEmptyCart)
}

func TestGetScopesBySession(t *testing.T) {
	svc, carts := newSessionService(t)

	_, err := carts.Cart("s_a").Add("2", 1)
	require.NoError(t, err)
	o, err := svc.Checkout(context.Background(), "s_a")
	require.NoError(t, err)

	_, ok, err := svc.Get(context.Background(), "s_b", o.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.Get(context.Background(), "s_a", "o_missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingStore struct{}

func (failingStore) Create(context.Context, Order) error { return errors.New("disk full") }
func (failingStore) Get(context.Context, string) (Order, bool, error) {
	return Order{}, false, errors.New("disk full")
}

func TestCheckoutStoreFailure(t *testing.T) {
	carts := cart.NewSharedRegistry(cart.NewStore(catalog.NewSeeded()))
	svc := NewService(failingStore{}, carts, nil)

	_, err := carts.Cart("").Add("1", 1)
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), "")
	require.Error(t, err)

	_, _, err = svc.Get(context.Background(), "", "o_1")
	require.Error(t, err)
}
