package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response is the order projection handed to the boundary layer.
type Response struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	OrderItems  []ItemResponse  `json:"orderItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ItemResponse struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"orderId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	CreatedAt   time.Time       `json:"createdAt"`
}
