package catalog

import (
	"context"
	"math"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

const maxRating = 5

type Product struct {
	ID               string
	Name             string
	ShortDescription string
	LongDescription  string
	Price            decimal.Decimal
	ImageURL         string
	Rating           float64
}

// Source yields the product list the catalog is built from. It is read once
// at startup; Ping backs the readiness probe.
type Source interface {
	Load(ctx context.Context) ([]Product, error)
	Ping(ctx context.Context) error
}

// Catalog is the read-only product set for the lifetime of the process.
// It is safe for concurrent use without locking.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New validates products and indexes them by id. Order is preserved.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}

	for _, p := range products {
		if err := validate(p); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, errors.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

// Load builds a catalog from src.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	products, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load products")
	}
	return New(products)
}

func validate(p Product) error {
	switch {
	case p.ID == "":
		return errors.New("product id is empty")
	case p.Price.IsNegative():
		return errors.Errorf("product %q: negative price %s", p.ID, p.Price)
	case math.IsNaN(p.Rating) || p.Rating < 0 || p.Rating > maxRating:
		return errors.Errorf("product %q: rating %v outside [0,%d]", p.ID, p.Rating, maxRating)
	}
	return nil
}

// List returns every product in catalog order. The slice is a copy.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by id. A miss is not an error.
func (c *Catalog) Get(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Len() int { return len(c.products) }
