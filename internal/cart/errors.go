package cart

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Error kinds. Every failure returned by a Store matches exactly one of them
// under errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvariant       = errors.New("invariant violation")
)

// ErrEmptyCart is returned by Checkout when there is nothing to buy.
var ErrEmptyCart error = &kindError{msg: "cart is empty", kind: ErrInvalidArgument}

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// ProductNotFoundError reports a productId that does not resolve in the catalog.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %q not found", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidQuantityError reports a quantity below one, or one that would
// overflow the line it is added to.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1, got %d", e.Quantity)
}

func (e *InvalidQuantityError) Is(target error) bool { return target == ErrInvalidArgument }

// DanglingItemError reports a cart item whose product is no longer in the
// catalog.
type DanglingItemError struct {
	ItemID    string
	ProductID string
}

func (e *DanglingItemError) Error() string {
	return fmt.Sprintf("cart item %q references unknown product %q", e.ItemID, e.ProductID)
}

func (e *DanglingItemError) Is(target error) bool { return target == ErrInvariant }
