package user

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ordersvc/internal/apperr"
	"ordersvc/internal/logger"

	"go.uber.org/zap"
)

// User is a user directory record. The orchestrator only uses it for
// existence validation.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Client is the remote user directory capability.
type Client interface {
	GetUser(ctx context.Context, id int64) (*User, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) Client {
	if baseURL == "" {
		logger.L().Warn("user service base URL is empty")
	}
	return &httpClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *httpClient) GetUser(ctx context.Context, id int64) (*User, error) {
	log := logger.FromCtx(ctx).With(zap.Int64("user_id", id))

	endpoint := fmt.Sprintf("%s/api/users/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Error("failed building user service request", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindUnavailable, err, "failed to build user service request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error("user service request failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindUnavailable, err, "failed to communicate with user service")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed reading user service response", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindUnavailable, err, "failed to read user service response")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperr.NotFound("User", "id", id)
	default:
		log.Error("user service returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		return nil, apperr.New(apperr.KindUnavailable,
			"user service returned status %d", resp.StatusCode)
	}

	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		log.Error("failed decoding user response", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindUnavailable, err, "invalid response from user service")
	}

	return &u, nil
}
