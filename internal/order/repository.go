package order

import (
	"context"
	"database/sql"
	"errors"

	"ordersvc/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Repository is the durable order store. Finders return (nil, nil) when the
// order does not exist; the orchestrator decides what that means to the
// caller. The repository is the sole writer of generated ids and timestamps.
type Repository interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id int64) (*Order, error)
	FindByIDWithItems(ctx context.Context, id int64) (*Order, error)
	FindByUserID(ctx context.Context, userID int64) ([]*Order, error)
	FindByUserIDWithItems(ctx context.Context, userID int64) ([]*Order, error)
	FindByStatus(ctx context.Context, status OrderStatus) ([]*Order, error)
	FindAll(ctx context.Context) ([]*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Save inserts a new order together with its items as one transaction, or
// persists status/total changes for an existing one. Ids and timestamps come
// back from the database.
func (r *repository) Save(ctx context.Context, o *Order) error {
	if o.ID == 0 {
		return r.insert(ctx, o)
	}
	return r.update(ctx, o)
}

func (r *repository) insert(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.Int64("user_id", o.UserID),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin order transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback order transaction", zap.Error(rbErr))
			}
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total_amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, o.UserID, o.TotalAmount, o.Status).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, o.ID, item.ProductID, item.ProductName, item.Quantity, item.Price).
			Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order persisted", zap.Int64("order_id", o.ID))
	return nil
}

func (r *repository) update(ctx context.Context, o *Order) error {
	// Items are immutable after creation; only status and total move.
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $1, total_amount = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`, o.Status, o.TotalAmount, o.ID).Scan(&o.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return sql.ErrNoRows
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update order",
			zap.Int64("order_id", o.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

const orderColumns = `id, user_id, total_amount, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) FindByIDWithItems(ctx context.Context, id int64) (*Order, error) {
	o, err := r.FindByID(ctx, id)
	if err != nil || o == nil {
		return o, err
	}

	items, err := r.loadItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID int64) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY id
	`, userID)
}

func (r *repository) FindByUserIDWithItems(ctx context.Context, userID int64) ([]*Order, error) {
	orders, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.attachItems(ctx, orders)
}

func (r *repository) FindByStatus(ctx context.Context, status OrderStatus) ([]*Order, error) {
	orders, err := r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = $1
		ORDER BY id
	`, status)
	if err != nil {
		return nil, err
	}
	return r.attachItems(ctx, orders)
}

func (r *repository) FindAll(ctx context.Context) ([]*Order, error) {
	orders, err := r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return r.attachItems(ctx, orders)
}

func (r *repository) queryOrders(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			logger.FromCtx(ctx).Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) attachItems(ctx context.Context, orders []*Order) ([]*Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}
	return orders, nil
}

// loadItems fetches line items for a batch of orders in one round trip.
// Items come back in creation order within each order.
func (r *repository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, price, created_at
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(orderIDs))
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := make(map[int64][]OrderItem)
	for rows.Next() {
		var item OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.Price,
			&item.CreatedAt,
		)
		if err != nil {
			logger.FromCtx(ctx).Error("failed to scan order item row", zap.Error(err))
			return nil, err
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
