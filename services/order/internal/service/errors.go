package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
)

var (
	ErrValidation        = errors.New("validation")                               // 400
	ErrNotFound          = errors.New("not found")                                // 404
	ErrInsufficientStock = errors.New("insufficient stock")                       // 409
	ErrForbidden         = errors.New("forbidden")                                // 403
	ErrInvalidState      = errors.New("invalid order state")                      // 400
	ErrPaymentFailed     = errors.New("payment failed. order has been cancelled") // 402
	ErrInternal          = errors.New("internal error")                           // 500
)

type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

type InvalidStateError struct {
	Status models.OrderStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot ship order with status %q. only %s orders can be shipped",
		e.Status, models.OrderStatusPaid)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}

type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindNotFound          Kind = "NOT_FOUND"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindForbidden         Kind = "FORBIDDEN"
	KindInvalidState      Kind = "INVALID_STATE"
	KindPaymentFailed     Kind = "PAYMENT_FAILED"
	KindInternal          Kind = "INTERNAL"
)

// KindOf classifies err. Anything outside the client kinds is INTERNAL.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInternal):
		return KindInternal
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrPaymentFailed):
		return KindPaymentFailed
	default:
		return KindInternal
	}
}
