package cart

import (
	"sync"

	"github.com/go-faster/errors"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"
)

// Registry hands out the cart a request operates on. Cart creates the
// session's cart when it has none; Peek never does.
type Registry interface {
	Cart(session string) *Store
	Peek(session string) (*Store, bool)
}

// Handle is a registry bound to one session. Only Add brings a cart into
// existence, so reads from unknown sessions cannot evict held carts.
type Handle struct {
	carts   Registry
	session string
}

func For(carts Registry, session string) Handle {
	return Handle{carts: carts, session: session}
}

func (h Handle) Add(productID string, quantity int) (Line, error) {
	return h.carts.Cart(h.session).Add(productID, quantity)
}

func (h Handle) Remove(itemID string) bool {
	if s, ok := h.carts.Peek(h.session); ok {
		return s.Remove(itemID)
	}
	return true
}

func (h Handle) Clear() bool {
	if s, ok := h.carts.Peek(h.session); ok {
		return s.Clear()
	}
	return true
}

func (h Handle) Snapshot() (Cart, error) {
	if s, ok := h.carts.Peek(h.session); ok {
		return s.Snapshot()
	}
	return Cart{Items: []Line{}, Total: decimal.Zero}, nil
}

func (h Handle) Count() int {
	if s, ok := h.carts.Peek(h.session); ok {
		return s.Count()
	}
	return 0
}

func (h Handle) Checkout() (Cart, error) {
	if s, ok := h.carts.Peek(h.session); ok {
		return s.Checkout()
	}
	return Cart{}, ErrEmptyCart
}

// SharedRegistry returns the same cart to every caller.
type SharedRegistry struct {
	store *Store
}

func NewSharedRegistry(s *Store) *SharedRegistry {
	return &SharedRegistry{store: s}
}

func (r *SharedRegistry) Cart(string) *Store { return r.store }

func (r *SharedRegistry) Peek(string) (*Store, bool) { return r.store, true }

// SessionRegistry keeps one cart per session id. At most max carts are held;
// the least recently used one is dropped to make room.
type SessionRegistry struct {
	products ProductLookup
	opts     []Option
	metrics  *Metrics

	mu    sync.Mutex
	carts *lru.Cache[string, *Store]
}

func NewSessionRegistry(products ProductLookup, max int, metrics *Metrics, opts ...Option) (*SessionRegistry, error) {
	if max < 1 {
		return nil, errors.Errorf("max sessions must be positive, got %d", max)
	}

	r := &SessionRegistry{
		products: products,
		opts:     append([]Option{WithMetrics(metrics)}, opts...),
		metrics:  metrics,
	}

	carts, err := lru.New[string, *Store](max)
	if err != nil {
		return nil, errors.Wrap(err, "create session cache")
	}
	r.carts = carts
	return r, nil
}

func (r *SessionRegistry) Cart(session string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.carts.Get(session); ok {
		return s
	}

	s := NewStore(r.products, r.opts...)
	r.carts.Add(session, s)
	r.metrics.setSessions(r.carts.Len())
	return s
}

// Peek returns the session's cart without creating one. A hit counts as use.
func (r *SessionRegistry) Peek(session string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.carts.Get(session)
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.carts.Len()
}
