package payment

import (
	"context"

	"ordersvc/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Request carries the payment details supplied by the caller. Amount must
// exactly match the order total; the orchestrator enforces that before the
// gateway is ever invoked.
type Request struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
}

// Gateway takes the payment decision. It does not move inventory or touch
// the order; the orchestrator reconciles its answer with the rest of the
// payment sequence.
type Gateway interface {
	Charge(ctx context.Context, orderID int64, req Request) (bool, error)
}

type simulatedGateway struct{}

// NewSimulatedGateway returns a gateway that approves every charge. There is
// no real payment provider behind this service; the decision is a stubbed
// boolean taken as a given signal.
func NewSimulatedGateway() Gateway {
	return simulatedGateway{}
}

func (simulatedGateway) Charge(ctx context.Context, orderID int64, req Request) (bool, error) {
	logger.FromCtx(ctx).Info("processing payment with gateway",
		zap.Int64("order_id", orderID),
		zap.String("payment_method", req.PaymentMethod),
		zap.String("amount", req.Amount.String()),
	)
	return true, nil
}
