package order

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOrder        = errors.New("order has no lines")
	ErrOrderNotFound     = errors.New("order not found")
	ErrDuplicateRequest  = errors.New("duplicate request")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrConflict          = errors.New("concurrent order update conflict") // retryable: re-read and resubmit
	ErrPersistenceFailed = errors.New("order persistence failed")
	ErrGatewayTimeout    = errors.New("persistence gateway timeout")
)

// LineRejectedError reports which requested line could not be reserved and
// why. Unwrap exposes the underlying inventory error.
type LineRejectedError struct {
	ProductID string
	Reason    error
}

func (e *LineRejectedError) Error() string {
	return fmt.Sprintf("order line rejected for product %s: %v", e.ProductID, e.Reason)
}

func (e *LineRejectedError) Unwrap() error {
	return e.Reason
}
