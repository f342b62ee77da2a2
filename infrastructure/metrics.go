package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DepositsTotal counts successful deposits.
	DepositsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pool_engine_deposits_total",
		Help: "Total number of deposits accepted",
	})

	// WithdrawalsTotal counts successful withdrawals.
	WithdrawalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pool_engine_withdrawals_total",
		Help: "Total number of withdrawals processed",
	})

	// DrawsTotal counts executed draws, partitioned by outcome.
	DrawsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pool_engine_draws_total",
		Help: "Total number of draws executed",
	}, []string{"outcome"})

	// DrawSelectionLatency tracks how long winner selection takes to run.
	DrawSelectionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pool_engine_draw_selection_latency_seconds",
		Help:    "Time spent walking the cumulative ticket range to pick a winner",
		Buckets: prometheus.DefBuckets,
	})

	// TotalTickets tracks the current outstanding ticket count, partitioned
	// by pool.
	TotalTickets = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pool_engine_total_tickets",
		Help: "Outstanding tickets for a pool",
	}, []string{"pool_id"})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pool_engine_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pool_engine_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})

	// LenderSlippageRejections counts lender calls rejected by the slippage
	// guard.
	LenderSlippageRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pool_engine_lender_slippage_rejections_total",
		Help: "Lender operations rejected for exceeding the slippage guard",
	})
)

// MetricsHandler returns the Prometheus scrape handler for /metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// MetricsMiddleware records request counts and latency for every HTTP
// route it wraps.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
