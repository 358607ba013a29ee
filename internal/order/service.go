package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"Storefront/internal/cart"
)

type Service struct {
	store Store
	carts cart.Registry
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store Store, carts cart.Registry, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store: store,
		carts: carts,
		log:   log,
		now:   time.Now,
	}
}

// Checkout empties the session's cart into a new order confirmation.
func (s *Service) Checkout(ctx context.Context, sessionID string) (Order, error) {
	c, err := cart.For(s.carts, sessionID).Checkout()
	if err != nil {
		return Order{}, err
	}

	o := Order{
		ID:        "o_" + uuid.NewString(),
		SessionID: sessionID,
		Items:     c.Items,
		Count:     c.Count,
		Total:     c.Total,
		PlacedAt:  s.now().UTC(),
	}

	if err := s.store.Create(ctx, o); err != nil {
		// The cart is already empty at this point; the order only lives in the log.
		s.log.Error("store order failed",
			zap.Error(err),
			zap.String("order_id", o.ID),
			zap.Int("count", o.Count),
			zap.String("total", o.Total.String()),
		)
		return Order{}, errors.Wrap(err, "store order")
	}

	s.log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.Int("count", o.Count),
		zap.String("total", o.Total.String()),
	)
	return o, nil
}

// Get returns an order placed by the given session. Orders of other sessions
// are reported as absent.
func (s *Service) Get(ctx context.Context, sessionID, id string) (Order, bool, error) {
	o, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return Order{}, false, errors.Wrap(err, "get order")
	}
	if !ok || o.SessionID != sessionID {
		return Order{}, false, nil
	}
	return o, true, nil
}
