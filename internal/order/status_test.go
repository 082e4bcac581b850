package order

import (
	"testing"

	"ordersvc/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []OrderStatus{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

	legal := map[OrderStatus][]OrderStatus{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusShipped, StatusCancelled},
		StatusShipped:   {StatusDelivered},
		StatusDelivered: {},
		StatusCancelled: {},
	}

	for _, from := range all {
		allowed := map[OrderStatus]bool{}
		for _, to := range legal[from] {
			allowed[to] = true
		}
		for _, to := range all {
			got := CanTransition(from, to)
			assert.Equal(t, allowed[to], got, "transition %s -> %s", from, to)
		}
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(OrderStatus("UNKNOWN"), StatusPending))
	assert.False(t, CanTransition(StatusPending, OrderStatus("UNKNOWN")))
}

func TestValidateTransition(t *testing.T) {
	t.Run("Legal", func(t *testing.T) {
		assert.NoError(t, ValidateTransition(StatusPending, StatusConfirmed))
	})

	t.Run("IllegalNamesBothStatuses", func(t *testing.T) {
		err := ValidateTransition(StatusPending, StatusShipped)
		assert.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidOrder))
		assert.Contains(t, err.Error(), "PENDING")
		assert.Contains(t, err.Error(), "SHIPPED")
	})

	t.Run("TerminalStates", func(t *testing.T) {
		for _, from := range []OrderStatus{StatusDelivered, StatusCancelled} {
			for _, to := range []OrderStatus{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled} {
				assert.Error(t, ValidateTransition(from, to), "from %s to %s", from, to)
			}
		}
	})
}

func TestParseStatus(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		status, err := ParseStatus("SHIPPED")
		assert.NoError(t, err)
		assert.Equal(t, StatusShipped, status)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseStatus("SHIPPING")
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidOrder))
	})
}
