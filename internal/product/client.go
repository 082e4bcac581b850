package product

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ordersvc/internal/apperr"
	"ordersvc/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Product is a snapshot of a product directory record. The orchestrator only
// reads id, name, price and quantity from it.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	SKU      string          `json:"sku,omitempty"`
	Category string          `json:"category,omitempty"`
}

// Client is the remote product directory capability. A test double can
// substitute an in-memory fake; the orchestrator never sees the transport.
type Client interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CheckStock(ctx context.Context, id int64, quantity int) (bool, error)
	ReduceInventory(ctx context.Context, id int64, quantity int) error
	RestoreInventory(ctx context.Context, id int64, quantity int) error
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) Client {
	if baseURL == "" {
		logger.L().Warn("product service base URL is empty")
	}
	return &httpClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *httpClient) GetProduct(ctx context.Context, id int64) (*Product, error) {
	log := logger.FromCtx(ctx).With(zap.Int64("product_id", id))

	endpoint := fmt.Sprintf("%s/api/products/%d", c.baseURL, id)
	body, err := c.do(ctx, http.MethodGet, endpoint, "Product", id)
	if err != nil {
		return nil, err
	}

	var p Product
	if err := json.Unmarshal(body, &p); err != nil {
		log.Error("failed decoding product response", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindUnavailable, err, "invalid response from product service")
	}

	log.Debug("product fetched",
		zap.String("name", p.Name),
		zap.String("price", p.Price.String()),
		zap.Int("quantity", p.Quantity),
	)
	return &p, nil
}

func (c *httpClient) CheckStock(ctx context.Context, id int64, quantity int) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("product_id", id),
		zap.Int("quantity", quantity),
	)

	endpoint := fmt.Sprintf("%s/api/products/%d/check-stock?quantity=%s",
		c.baseURL, id, url.QueryEscape(strconv.Itoa(quantity)))

	body, err := c.do(ctx, http.MethodGet, endpoint, "Product", id)
	if err != nil {
		return false, err
	}

	var available bool
	if err := json.Unmarshal(body, &available); err != nil {
		log.Error("failed decoding stock check response", zap.Error(err))
		return false, apperr.Wrap(apperr.KindUnavailable, err, "invalid response from product service")
	}

	log.Debug("stock checked", zap.Bool("available", available))
	return available, nil
}

func (c *httpClient) ReduceInventory(ctx context.Context, id int64, quantity int) error {
	endpoint := fmt.Sprintf("%s/api/products/%d/reduce-inventory?amount=%d", c.baseURL, id, quantity)
	_, err := c.do(ctx, http.MethodPatch, endpoint, "Product", id)
	return err
}

func (c *httpClient) RestoreInventory(ctx context.Context, id int64, quantity int) error {
	endpoint := fmt.Sprintf("%s/api/products/%d/restore-inventory?quantity=%d", c.baseURL, id, quantity)
	_, err := c.do(ctx, http.MethodPut, endpoint, "Product", id)
	return err
}

// do issues the request and maps the answer: 404 becomes NotFound, 409
// becomes InsufficientStock (the directory's own quantity floor), transport
// failures become ServiceUnavailable. Callers see error kinds, never raw
// HTTP statuses.
func (c *httpClient) do(ctx context.Context, method, endpoint, resource string, id int64) ([]byte, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	)

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		log.Error("failed building product service request", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindUnavailable, err, "failed to build product service request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error("product service request failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindUnavailable, err, "failed to communicate with product service")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed reading product service response", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindUnavailable, err, "failed to read product service response")
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperr.NotFound(resource, "id", id)
	case resp.StatusCode == http.StatusConflict:
		return nil, apperr.New(apperr.KindInsufficientStock,
			"product service rejected inventory change for product %d", id)
	default:
		log.Error("product service returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		return nil, apperr.New(apperr.KindUnavailable,
			"product service returned status %d", resp.StatusCode)
	}
}
