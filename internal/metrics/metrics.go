package metrics

import (
	"net/http"
	"time"

	"catalog-be/internal/result"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalog"

/* ---------- HTTP ---------- */

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route", "method"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

/* ---------- ORDERS ---------- */

type OrderMetrics struct {
	Transitions *prometheus.CounterVec
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Order commands by transition and outcome.",
	}, []string{"transition", "result"})

	reg.MustRegister(transitions)
	return &OrderMetrics{Transitions: transitions}
}

// Observe records one order command. A nil receiver is a no-op.
func (m *OrderMetrics) Observe(transition string, err error) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(transition, Outcome(err)).Inc()
}

/* ---------- IDEMPOTENCY ---------- */

type IdempotencyMetrics struct {
	Events *prometheus.CounterVec
}

func NewIdempotencyMetrics(reg prometheus.Registerer) *IdempotencyMetrics {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_events_total",
		Help:      "Idempotency-Key handling by event (stored, replayed, in_flight, mismatch, released).",
	}, []string{"event"})

	reg.MustRegister(events)
	return &IdempotencyMetrics{Events: events}
}

func (m *IdempotencyMetrics) Observe(event string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(event).Inc()
}

// Outcome turns an error into a low-cardinality label value.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind, ok := result.KindOf(err); ok {
		return string(kind)
	}
	return "error"
}

/* ---------- TIMER ---------- */

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

func (t *Timer) Milliseconds() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
