package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the order lifecycle counters and HTTP instrumentation.
// Tests register against their own prometheus.NewRegistry().
type Metrics struct {
	registry *prometheus.Registry

	OrdersCreated     prometheus.Counter
	OrdersCancelled   prometheus.Counter
	PaymentsProcessed prometheus.Counter
	PaymentsFailed    prometheus.Counter
	RestoreFailures   prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ordersvc",
			Name:      "orders_created_total",
			Help:      "Total number of orders created.",
		}),
		OrdersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ordersvc",
			Name:      "orders_cancelled_total",
			Help:      "Total number of orders cancelled.",
		}),
		PaymentsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ordersvc",
			Name:      "payments_processed_total",
			Help:      "Total number of successfully processed payments.",
		}),
		PaymentsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ordersvc",
			Name:      "payments_failed_total",
			Help:      "Total number of failed payment attempts.",
		}),
		RestoreFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ordersvc",
			Name:      "inventory_restore_failures_total",
			Help:      "Total number of swallowed inventory restore failures during cancellation.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ordersvc",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"path", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ordersvc",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"path"}),
	}

	registry.MustRegister(
		m.OrdersCreated,
		m.OrdersCancelled,
		m.PaymentsProcessed,
		m.PaymentsFailed,
		m.RestoreFailures,
		m.httpRequests,
		m.httpLatency,
	)
	return m
}

// Handler serves this registry at /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency per route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		m.httpRequests.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
		m.httpLatency.WithLabelValues(r.URL.Path).
			Observe(float64(time.Since(start).Milliseconds()))
	})
}
