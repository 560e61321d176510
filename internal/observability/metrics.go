package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the ledger service.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	postingsTotal   *prometheus.CounterVec
	postingFailures prometheus.Counter
	imbalanceTotal  prometheus.Counter
}

// NewMetrics initialises the registry and base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "firmbooks_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "firmbooks_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	postings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "firmbooks_postings_total",
		Help: "Ledger postings written, by voucher type.",
	}, []string{"voucher_type"})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "firmbooks_posting_failures_total",
		Help: "Posting attempts rejected by validation.",
	})
	imbalance := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "firmbooks_ledger_imbalance_total",
		Help: "Tenants found unbalanced by the integrity scan.",
	})
	registry.MustRegister(requests, duration, postings, failures, imbalance)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		postingsTotal:   postings,
		postingFailures: failures,
		imbalanceTotal:  imbalance,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// PostingWritten counts a successful posting write.
func (m *Metrics) PostingWritten(voucherType string) {
	if m == nil {
		return
	}
	m.postingsTotal.WithLabelValues(voucherType).Inc()
}

// PostingRejected counts a validation rejection.
func (m *Metrics) PostingRejected() {
	if m == nil {
		return
	}
	m.postingFailures.Inc()
}

// ImbalanceDetected counts a tenant whose ledger failed the integrity scan.
func (m *Metrics) ImbalanceDetected() {
	if m == nil {
		return
	}
	m.imbalanceTotal.Inc()
}

// Registerer exposes the registry for registering custom metrics.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
