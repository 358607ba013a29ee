package cart

import (
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"Storefront/internal/catalog"
)

const (
	opAdd      = "add"
	opRemove   = "remove"
	opClear    = "clear"
	opCheckout = "checkout"
)

// ProductLookup resolves product ids. *catalog.Catalog implements it.
type ProductLookup interface {
	Get(id string) (catalog.Product, bool)
}

type Item struct {
	ID        string
	ProductID string
	Quantity  int
}

// Line is an item joined with its product.
type Line struct {
	Item
	Product catalog.Product
}

// Cart is a point-in-time view; Count and Total are derived from Items.
type Cart struct {
	Items []Line
	Count int
	Total decimal.Decimal
}

type Option func(*Store)

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Store holds one cart. All methods are safe for concurrent use; each
// mutation is a single critical section.
type Store struct {
	catalog ProductLookup
	newID   func() string
	metrics *Metrics

	mu    sync.Mutex
	items []Item
}

func NewStore(products ProductLookup, opts ...Option) *Store {
	s := &Store{
		catalog: products,
		newID:   func() string { return "ci_" + uuid.NewString() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Add puts quantity units of a product in the cart. A product already in the
// cart has its line incremented in place; otherwise a new line is appended.
func (s *Store) Add(productID string, quantity int) (line Line, err error) {
	defer func() { s.metrics.observe(opAdd, err) }()

	if quantity < 1 {
		return Line{}, &InvalidQuantityError{Quantity: quantity}
	}

	p, ok := s.catalog.Get(productID)
	if !ok {
		return Line{}, &ProductNotFoundError{ProductID: productID}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		it := &s.items[i]
		if it.ProductID != productID {
			continue
		}
		if it.Quantity > math.MaxInt32-quantity {
			return Line{}, &InvalidQuantityError{Quantity: quantity}
		}
		it.Quantity += quantity
		return Line{Item: *it, Product: p}, nil
	}

	if quantity > math.MaxInt32 {
		return Line{}, &InvalidQuantityError{Quantity: quantity}
	}

	it := Item{ID: s.newID(), ProductID: productID, Quantity: quantity}
	s.items = append(s.items, it)
	return Line{Item: it, Product: p}, nil
}

// Remove deletes the whole line with the given item id. It reports true even
// when no such line exists, so callers cannot tell a removal from a no-op.
func (s *Store) Remove(itemID string) bool {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.metrics.observe(opRemove, nil)
	return true
}

func (s *Store) Clear() bool {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.metrics.observe(opClear, nil)
	return true
}

// Snapshot returns the current lines with count and total computed from
// current catalog prices.
func (s *Store) Snapshot() (Cart, error) {
	s.mu.Lock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()

	return s.assemble(items)
}

// Count is the sum of quantities, without joining products.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Checkout returns the cart contents and empties it in one step. An empty
// cart, or one that fails to assemble, is left untouched.
func (s *Store) Checkout() (c Cart, err error) {
	defer func() { s.metrics.observeCheckout(c, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return Cart{}, ErrEmptyCart
	}

	// Catalog reads take no lock, so joining under mu cannot deadlock.
	c, err = s.assemble(s.items)
	if err != nil {
		return Cart{}, err
	}
	s.items = nil
	return c, nil
}

// ResolveProduct joins an item with its catalog product.
func (s *Store) ResolveProduct(it Item) (catalog.Product, error) {
	p, ok := s.catalog.Get(it.ProductID)
	if !ok {
		return catalog.Product{}, &DanglingItemError{ItemID: it.ID, ProductID: it.ProductID}
	}
	return p, nil
}

func (s *Store) assemble(items []Item) (Cart, error) {
	c := Cart{
		Items: make([]Line, 0, len(items)),
		Total: decimal.Zero,
	}

	for _, it := range items {
		p, err := s.ResolveProduct(it)
		if err != nil {
			return Cart{}, err
		}
		c.Items = append(c.Items, Line{Item: it, Product: p})
		c.Count += it.Quantity
		c.Total = c.Total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	return c, nil
}
