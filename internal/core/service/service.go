package service

import (
	"context"
	"errors"

	"github.com/niksmo/custom-tee/internal/core/port"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout is in progress")
	ErrCheckoutCanceled   = errors.New("checkout is canceled")
	ErrCheckoutClosed     = errors.New("checkout is closed")
	ErrNothingToRetry     = errors.New("no failed checkout to retry")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrIncompleteMessage  = errors.New("name and message are required")
	ErrProductNotFound    = errors.New("product not found")
)

// load returns the named record or def when the record cannot be loaded.
func load[T any](
	ctx context.Context, p port.Persister, record string, def T,
) T {
	var v T
	if !p.LoadInto(ctx, record, &v) {
		return def
	}
	return v
}
