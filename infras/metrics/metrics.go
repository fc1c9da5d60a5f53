package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
)

const namespace = "cowork"

const (
	AvailabilityInterval = "interval"
	AvailabilityInstant  = "instant"
)

// Metrics records booking outcomes and HTTP traffic.
type Metrics interface {
	BookingAdmitted()
	BookingRejected(reason string)
	BookingCancelled()
	AvailabilityQueried(kind string, available int)
	ObserveRequest(ctx context.Context, method, route string, status int, elapsed time.Duration)
	Handler() http.Handler
}

type prometheusMetrics struct {
	registry          *prometheus.Registry
	bookingsAdmitted  prometheus.Counter
	bookingsRejected  *prometheus.CounterVec
	bookingsCancelled prometheus.Counter
	availability      *prometheus.CounterVec
	availableResult   *prometheus.HistogramVec
	requestDuration   *prometheus.HistogramVec
}

func New() Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &prometheusMetrics{
		registry: reg,
		bookingsAdmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_admitted_total",
			Help:      "Total number of bookings admitted and persisted.",
		}),
		bookingsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_rejected_total",
			Help:      "Total number of booking requests rejected, by reason.",
		}, []string{"reason"}),
		bookingsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "Total number of bookings cancelled.",
		}),
		availability: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_queries_total",
			Help:      "Total number of availability queries, by kind.",
		}, []string{"kind"}),
		availableResult: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "availability_result_size",
			Help:      "Number of workspaces returned by availability queries.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}, []string{"kind"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *prometheusMetrics) BookingAdmitted() {
	m.bookingsAdmitted.Inc()
}

func (m *prometheusMetrics) BookingRejected(reason string) {
	m.bookingsRejected.WithLabelValues(reason).Inc()
}

func (m *prometheusMetrics) BookingCancelled() {
	m.bookingsCancelled.Inc()
}

func (m *prometheusMetrics) AvailabilityQueried(kind string, available int) {
	m.availability.WithLabelValues(kind).Inc()
	m.availableResult.WithLabelValues(kind).Observe(float64(available))
}

// ObserveRequest attaches the trace id as an exemplar when the span is sampled.
func (m *prometheusMetrics) ObserveRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	observer := m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status))

	span := trace.SpanContextFromContext(ctx)
	if exemplar, ok := observer.(prometheus.ExemplarObserver); ok && span.IsSampled() {
		exemplar.ObserveWithExemplar(elapsed.Seconds(), prometheus.Labels{"traceID": span.TraceID().String()})

		return
	}

	observer.Observe(elapsed.Seconds())
}

func (m *prometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
