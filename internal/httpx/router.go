package httpx

import (
	"net/http"

	"ordersvc/internal/logger"
	"ordersvc/internal/metrics"
	"ordersvc/internal/middleware"
	"ordersvc/internal/order"

	"github.com/go-chi/chi/v5"
)

// NewRouter assembles the HTTP surface: request-id and access logging,
// metrics, identity resolution, rate limiting, then the order routes.
func NewRouter(svc order.Service, m *metrics.Metrics, jwtSecret []byte) *chi.Mux {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(m.Middleware)
	r.Use(middleware.AuthMiddleware(jwtSecret))
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	NewOrdersHandler(svc).Register(r)

	return r
}
