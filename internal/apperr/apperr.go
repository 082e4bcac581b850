package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a business failure. The set is closed: every error the
// service hands to its boundary carries exactly one of these.
type Kind string

const (
	// KindNotFound - a referenced user, product or order does not exist.
	KindNotFound Kind = "NOT_FOUND"
	// KindInvalidOrder - illegal transition, unauthorized access, or an
	// operation attempted in the wrong status.
	KindInvalidOrder Kind = "INVALID_ORDER"
	// KindInsufficientStock - requested quantity exceeds available stock.
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	// KindPaymentFailed - amount mismatch, gateway rejection, or a failure
	// during the payment/inventory-commit sequence.
	KindPaymentFailed Kind = "PAYMENT_FAILED"
	// KindUnavailable - a remote call could not complete at the transport
	// level, distinct from a business answer returned by that call.
	KindUnavailable Kind = "SERVICE_UNAVAILABLE"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind: errors.Is(err, &Error{Kind: KindNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause. The cause is kept for logs; boundary responses only
// expose the kind and message.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(resource string, field string, value any) *Error {
	return New(KindNotFound, "%s not found with %s: %v", resource, field, value)
}

func InvalidOrder(format string, args ...any) *Error {
	return New(KindInvalidOrder, format, args...)
}

func InsufficientStock(productID int64, quantity int) *Error {
	return New(KindInsufficientStock,
		"insufficient stock for product %d, requested quantity: %d", productID, quantity)
}

func PaymentFailed(format string, args ...any) *Error {
	return New(KindPaymentFailed, format, args...)
}

// KindOf extracts the kind from err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
