package order

import "ordersvc/internal/apperr"

// validNext encodes the legal status edges. DELIVERED and CANCELLED are
// terminal; PENDING is the only initial state.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// ValidateTransition returns an InvalidOrder error naming both statuses when
// the edge is illegal.
func ValidateTransition(from, to OrderStatus) error {
	if !CanTransition(from, to) {
		return apperr.InvalidOrder("invalid status transition from %s to %s", from, to)
	}
	return nil
}

// ParseStatus validates a status literal coming from the boundary.
func ParseStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	switch status {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return status, nil
	}
	return "", apperr.InvalidOrder("unknown order status: %s", s)
}
