package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"Storefront/internal/cart"
)

// Order is the confirmation of a checkout: the cart as it was when bought.
type Order struct {
	ID        string
	SessionID string
	Items     []cart.Line
	Count     int
	Total     decimal.Decimal
	PlacedAt  time.Time
}

type Store interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, bool, error)
}
