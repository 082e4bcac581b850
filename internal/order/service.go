package order

import (
	"context"

	"ordersvc/internal/apperr"
	"ordersvc/internal/logger"
	"ordersvc/internal/metrics"
	"ordersvc/internal/payment"
	"ordersvc/internal/product"
	"ordersvc/internal/user"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateItemInput is one requested line of a new order.
type CreateItemInput struct {
	ProductID int64
	Quantity  int
}

// Service orchestrates the order lifecycle across the order store, the
// product directory and the user directory. Every remote effect happens
// inline in the use case; there is no reservation, lock or version token
// between a stock check at creation and the reduction at payment time, so
// two concurrent orders can both pass the check and race at the directory's
// own quantity floor.
type Service interface {
	CreateOrder(ctx context.Context, userID int64, items []CreateItemInput) (*Order, error)
	GetOrderByID(ctx context.Context, orderID, userID int64) (*Order, error)
	GetUserOrders(ctx context.Context, userID int64) ([]*Order, error)
	GetAllOrders(ctx context.Context) ([]*Order, error)
	GetOrdersByStatus(ctx context.Context, status OrderStatus) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status OrderStatus) (*Order, error)
	CancelOrder(ctx context.Context, orderID, userID int64) (*Order, error)
	ProcessPayment(ctx context.Context, orderID int64, req payment.Request) (*Order, error)
}

type service struct {
	repo     Repository
	products product.Client
	users    user.Client
	gateway  payment.Gateway
	metrics  *metrics.Metrics
}

func NewService(
	repo Repository,
	products product.Client,
	users user.Client,
	gateway payment.Gateway,
	m *metrics.Metrics,
) Service {
	return &service{
		repo:     repo,
		products: products,
		users:    users,
		gateway:  gateway,
		metrics:  m,
	}
}

// CreateOrder validates the caller against the user directory, snapshots
// price and name for every requested product, checks (but does not reserve)
// stock, and persists the order as PENDING. Inventory is only committed
// later, at payment time.
func (s *service) CreateOrder(ctx context.Context, userID int64, items []CreateItemInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("user_id", userID),
		zap.Int("item_count", len(items)),
	)
	log.Info("creating order")

	if len(items) == 0 {
		return nil, apperr.InvalidOrder("order must contain at least one item")
	}
	for _, item := range items {
		if item.ProductID <= 0 {
			return nil, apperr.InvalidOrder("order item is missing a product id")
		}
		if item.Quantity < 1 {
			return nil, apperr.InvalidOrder("order item quantity must be at least 1")
		}
	}

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		log.Warn("user validation failed", zap.Error(err))
		return nil, err
	}

	orderItems := make([]OrderItem, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		p, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			log.Warn("product lookup failed",
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)
			return nil, err
		}

		available, err := s.products.CheckStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !available {
			log.Warn("insufficient stock",
				zap.Int64("product_id", p.ID),
				zap.String("product_name", p.Name),
				zap.Int("quantity", item.Quantity),
			)
			return nil, apperr.InsufficientStock(p.ID, item.Quantity)
		}

		orderItem := OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			Price:       p.Price,
		}
		orderItems = append(orderItems, orderItem)
		total = total.Add(orderItem.Subtotal())
	}

	o := &Order{
		UserID:      userID,
		Items:       orderItems,
		TotalAmount: total,
		Status:      StatusPending,
	}

	if err := s.repo.Save(ctx, o); err != nil {
		log.Error("failed to persist order", zap.Error(err))
		return nil, err
	}

	s.metrics.OrdersCreated.Inc()
	log.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("total_amount", o.TotalAmount.String()),
	)
	return o, nil
}

// GetOrderByID returns the order after verifying the caller owns it.
func (s *service) GetOrderByID(ctx context.Context, orderID, userID int64) (*Order, error) {
	o, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.UserID != userID {
		logger.FromCtx(ctx).Warn("unauthorized order access",
			zap.Int64("order_id", orderID),
			zap.Int64("user_id", userID),
			zap.Int64("owner_id", o.UserID),
		)
		return nil, apperr.InvalidOrder("you are not authorized to access this order")
	}
	return o, nil
}

func (s *service) GetUserOrders(ctx context.Context, userID int64) ([]*Order, error) {
	return s.repo.FindByUserIDWithItems(ctx, userID)
}

// GetAllOrders returns the full order set. Authorization for this admin
// operation is delegated to the boundary layer.
func (s *service) GetAllOrders(ctx context.Context) ([]*Order, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) GetOrdersByStatus(ctx context.Context, status OrderStatus) ([]*Order, error) {
	return s.repo.FindByStatus(ctx, status)
}

// UpdateOrderStatus applies a transition after the state machine validates
// it. Transitioning into CANCELLED here performs no inventory restoration;
// only CancelOrder compensates. That asymmetry is carried over from the
// system this service fronts.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID int64, status OrderStatus) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("order_id", orderID),
		zap.String("new_status", string(status)),
	)

	o, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(o.Status, status); err != nil {
		log.Warn("illegal status transition", zap.String("current_status", string(o.Status)))
		return nil, err
	}

	o.Status = status
	if err := s.repo.Save(ctx, o); err != nil {
		log.Error("failed to persist status update", zap.Error(err))
		return nil, err
	}

	log.Info("order status updated")
	return o, nil
}

// CancelOrder cancels a PENDING or CONFIRMED order owned by the caller. For
// CONFIRMED orders (inventory already committed by payment) it issues one
// restore call per item; each restore is best effort, a failure is logged
// and swallowed so the cancellation itself always completes.
func (s *service) CancelOrder(ctx context.Context, orderID, userID int64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("order_id", orderID),
		zap.Int64("user_id", userID),
	)
	log.Info("cancelling order")

	o, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.UserID != userID {
		log.Warn("unauthorized cancellation attempt", zap.Int64("owner_id", o.UserID))
		return nil, apperr.InvalidOrder("you are not authorized to cancel this order")
	}

	if !o.CanBeCancelled() {
		log.Warn("order not cancellable", zap.String("status", string(o.Status)))
		return nil, apperr.InvalidOrder("order cannot be cancelled in current status: %s", o.Status)
	}

	if o.Status == StatusConfirmed {
		for _, item := range o.Items {
			if err := s.products.RestoreInventory(ctx, item.ProductID, item.Quantity); err != nil {
				s.metrics.RestoreFailures.Inc()
				log.Error("failed to restore inventory",
					zap.Int64("product_id", item.ProductID),
					zap.Int("quantity", item.Quantity),
					zap.Error(err),
				)
				continue
			}
			log.Info("inventory restored",
				zap.Int64("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
			)
		}
	}

	o.Status = StatusCancelled
	if err := s.repo.Save(ctx, o); err != nil {
		log.Error("failed to persist cancellation", zap.Error(err))
		return nil, err
	}

	s.metrics.OrdersCancelled.Inc()
	log.Info("order cancelled")
	return o, nil
}

// ProcessPayment takes payment for a PENDING order. The amount must exactly
// equal the order total. On a positive gateway decision the stock that was
// only checked at creation is committed: one reduce call per item. A failure
// partway through the reduction loop fails the payment but does not roll
// back reductions already applied.
func (s *service) ProcessPayment(ctx context.Context, orderID int64, req payment.Request) (*Order, error) {
	log := logger.FromCtx(ctx).With(zap.Int64("order_id", orderID))
	log.Info("processing payment")

	o, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Status != StatusPending {
		log.Warn("payment attempted in wrong status", zap.String("status", string(o.Status)))
		return nil, apperr.InvalidOrder("order must be in PENDING status to process payment")
	}

	if !req.Amount.Equal(o.TotalAmount) {
		log.Warn("payment amount mismatch",
			zap.String("expected", o.TotalAmount.String()),
			zap.String("received", req.Amount.String()),
		)
		s.metrics.PaymentsFailed.Inc()
		return nil, apperr.PaymentFailed("payment amount does not match order total")
	}

	approved, err := s.gateway.Charge(ctx, orderID, req)
	if err != nil {
		log.Error("payment gateway call failed", zap.Error(err))
		s.metrics.PaymentsFailed.Inc()
		return nil, apperr.Wrap(apperr.KindPaymentFailed, err, "payment processing failed")
	}
	if !approved {
		log.Warn("payment declined by gateway")
		s.metrics.PaymentsFailed.Inc()
		return nil, apperr.PaymentFailed("payment processing failed")
	}

	for _, item := range o.Items {
		if err := s.products.ReduceInventory(ctx, item.ProductID, item.Quantity); err != nil {
			log.Error("failed to reduce inventory",
				zap.Int64("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err),
			)
			s.metrics.PaymentsFailed.Inc()
			return nil, apperr.Wrap(apperr.KindPaymentFailed, err, "payment processing failed")
		}
		log.Info("inventory reduced",
			zap.Int64("product_id", item.ProductID),
			zap.Int("quantity", item.Quantity),
		)
	}

	o.Status = StatusConfirmed
	if err := s.repo.Save(ctx, o); err != nil {
		log.Error("failed to persist payment confirmation", zap.Error(err))
		s.metrics.PaymentsFailed.Inc()
		return nil, apperr.Wrap(apperr.KindPaymentFailed, err, "payment processing failed")
	}

	s.metrics.PaymentsProcessed.Inc()
	log.Info("payment processed")
	return o, nil
}

func (s *service) loadOrder(ctx context.Context, orderID int64) (*Order, error) {
	o, err := s.repo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("Order", "id", orderID)
	}
	return o, nil
}
