package graph

import (
	"github.com/go-faster/errors"

	"Storefront/internal/cart"
)

const (
	codeNotFound     = "NOT_FOUND"
	codeBadUserInput = "BAD_USER_INPUT"
	codeInternal     = "INTERNAL_SERVER_ERROR"
)

// codedError surfaces a machine-readable code in the GraphQL error
// extensions.
type codedError struct {
	err  error
	code string
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func (e *codedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	code := codeInternal
	switch {
	case errors.Is(err, cart.ErrNotFound):
		code = codeNotFound
	case errors.Is(err, cart.ErrInvalidArgument):
		code = codeBadUserInput
	}
	return &codedError{err: err, code: code}
}
