package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the booking engine and HTTP layer report to.
type Recorder interface {
	BookingCreated(resourceID string)
	BookingRejected(reason string)
	BookingCancelled()
	ObserveOperation(operation string, outcome string, elapsed time.Duration)
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
	TransactionRetried(sqlState string)
}

type Metrics struct {
	registry        *prometheus.Registry
	bookingsCreated *prometheus.CounterVec
	bookingsFailed  *prometheus.CounterVec
	bookingsCancel  prometheus.Counter
	operationTime   *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	txRetries       *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings committed, by resource.",
		}, []string{"resource_id"}),
		bookingsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_rejected_total",
			Help:      "Booking attempts rejected, by error kind.",
		}, []string{"reason"}),
		bookingsCancel: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled by their owner.",
		}),
		operationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engine_operation_duration_seconds",
			Help:      "Latency of booking engine operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		txRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_retries_total",
			Help:      "Serializable transactions retried, by SQLSTATE.",
		}, []string{"sqlstate"}),
	}

	m.registry.MustRegister(
		m.bookingsCreated,
		m.bookingsFailed,
		m.bookingsCancel,
		m.operationTime,
		m.httpRequests,
		m.httpDuration,
		m.txRetries,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) BookingCreated(resourceID string) {
	m.bookingsCreated.WithLabelValues(resourceID).Inc()
}

func (m *Metrics) BookingRejected(reason string) {
	m.bookingsFailed.WithLabelValues(reason).Inc()
}

func (m *Metrics) BookingCancelled() {
	m.bookingsCancel.Inc()
}

func (m *Metrics) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	m.operationTime.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) TransactionRetried(sqlState string) {
	m.txRetries.WithLabelValues(sqlState).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Nop discards everything. Used when METRICS_ENABLED=false and in tests.
type Nop struct{}

func (Nop) BookingCreated(string) {}
func (Nop) BookingRejected(string) {}
func (Nop) BookingCancelled() {}
func (Nop) ObserveOperation(string, string, time.Duration) {}
func (Nop) ObserveHTTP(string, string, int, time.Duration) {}
func (Nop) TransactionRetried(string) {}
