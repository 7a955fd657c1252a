// Package metrics is the Prometheus surface of the app: HTTP middleware,
// the /metrics handler, and the shop's own counters (orders, payment
// failures, orphaned charges, queue jobs, cache).
//
// Wiring in internal/server:
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultRegistry holds every metric the app exports. It is a private
// registry rather than prometheus.DefaultRegisterer so tests can re-import
// the package without duplicate-registration panics from the global state.
var DefaultRegistry = prometheus.NewRegistry()

var factory = promauto.With(DefaultRegistry)

func init() {
	DefaultRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Register adds a collector to the app registry.
func Register(c prometheus.Collector) error { return DefaultRegistry.Register(c) }

// MustRegister panics on a registration conflict.
func MustRegister(c ...prometheus.Collector) { DefaultRegistry.MustRegister(c...) }

// ─── HTTP ─────────────────────────────────────────────────────────────────────

var (
	// RequestDuration observes request latency per method, path, status.
	RequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bazario", Subsystem: "http",
		Name:    "request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// RequestTotal counts requests with the same labels.
	RequestTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bazario", Subsystem: "http",
		Name: "requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	// RequestInFlight gauges concurrently served requests.
	RequestInFlight = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "bazario", Subsystem: "http",
		Name: "requests_in_flight",
		Help: "Number of HTTP requests currently being served.",
	})
)

// ─── Checkout ─────────────────────────────────────────────────────────────────

var (
	// OrdersCreated counts orders that made it into the database.
	OrdersCreated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "bazario", Subsystem: "checkout",
		Name: "orders_created_total",
		Help: "Total orders created.",
	})

	// PaymentFailures counts failed gateway calls by stage, "charge" or
	// "token".
	PaymentFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bazario", Subsystem: "checkout",
		Name: "payment_failures_total",
		Help: "Total failed payment gateway calls.",
	}, []string{"stage"})

	// PaymentOrphaned counts captured charges whose order insert failed.
	// Anything above zero is money waiting on reconciliation.
	PaymentOrphaned = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "bazario", Subsystem: "checkout",
		Name: "payment_orphaned_total",
		Help: "Captured charges with no persisted order.",
	})

	// ChargeAmount observes successful charge totals in currency units.
	ChargeAmount = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bazario", Subsystem: "checkout",
		Name:    "charge_amount",
		Help:    "Distribution of successful charge amounts.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	})
)

// ─── Queue and cache ──────────────────────────────────────────────────────────

var (
	// QueueJobsProcessed counts finished jobs, status "success" or "failed".
	QueueJobsProcessed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bazario", Subsystem: "queue",
		Name: "jobs_processed_total",
		Help: "Total queue jobs processed.",
	}, []string{"status"})

	// QueueJobDuration observes per-type job runtime.
	QueueJobDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bazario", Subsystem: "queue",
		Name:    "job_duration_seconds",
		Help:    "Duration of queue job processing in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job_type"})

	// CacheHits and CacheMisses track cache effectiveness per key.
	CacheHits = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bazario", Subsystem: "cache",
		Name: "hits_total",
		Help: "Total cache hits.",
	}, []string{"key"})

	CacheMisses = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bazario", Subsystem: "cache",
		Name: "misses_total",
		Help: "Total cache misses.",
	}, []string{"key"})
)

// RecordQueueJob stamps one finished queue job.
func RecordQueueJob(jobType, status string, start time.Time) {
	QueueJobsProcessed.WithLabelValues(status).Inc()
	QueueJobDuration.WithLabelValues(jobType).Observe(time.Since(start).Seconds())
}

// ─── HTTP plumbing ────────────────────────────────────────────────────────────

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Middleware feeds the three HTTP metrics for every request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			// Raw paths are fine at this API's cardinality.
			status := strconv.Itoa(sw.status)
			RequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		})
	}
}

// Handler serves the scrape endpoint for the app registry.
func Handler() http.HandlerFunc {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}).ServeHTTP
}
