package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order is one customer purchase. The order owns its items; an item never
// outlives its order and is never shared between orders.
type Order struct {
	ID          int64
	UserID      int64
	Items       []OrderItem
	TotalAmount decimal.Decimal
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem is a priced line within an order. Price and ProductName are
// snapshots taken at order-creation time and never refreshed afterwards.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	CreatedAt   time.Time
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CalculateTotalAmount recomputes the total from the items. Invariant:
// TotalAmount equals the sum of item subtotals whenever the order is
// persisted.
func (o *Order) CalculateTotalAmount() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	o.TotalAmount = total
}

// CanBeCancelled reports whether the order is still cancellable. Shipped
// and terminal orders are not.
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}
