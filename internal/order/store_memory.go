package order

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCapacity = 10000

// MemStore keeps the most recent confirmations for the lifetime of the
// process. Once capacity is reached the oldest order is dropped.
type MemStore struct {
	orders *lru.Cache[string, Order]
}

// NewMemStore holds at most capacity orders; capacity < 1 means
// DefaultCapacity.
func NewMemStore(capacity int) *MemStore {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	// lru.New only fails for a non-positive size.
	orders, _ := lru.New[string, Order](capacity)
	return &MemStore{orders: orders}
}

func (s *MemStore) Create(_ context.Context, o Order) error {
	s.orders.Add(o.ID, o)
	return nil
}

func (s *MemStore) Get(_ context.Context, id string) (Order, bool, error) {
	o, ok := s.orders.Peek(id)
	return o, ok, nil
}

func (s *MemStore) Len() int { return s.orders.Len() }
