package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	chatRequests *prometheus.CounterVec
	chatLatency  *prometheus.HistogramVec
	chatSnippets prometheus.Histogram

	leadSubmissions *prometheus.CounterVec
	rateLimitBlocks *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_api_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "site_api_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "site_api_inflight_requests",
			Help: "HTTP requests currently being served.",
		}),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_chat_requests_total",
			Help: "Chat turns by outcome.",
		}, []string{"outcome"}),
		chatLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "site_chat_backend_duration_seconds",
			Help:    "Language-model call latency by outcome.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60, 120},
		}, []string{"outcome"}),
		chatSnippets: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "site_chat_snippets_used",
			Help:    "Knowledge snippets injected per chat turn.",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 8, 10},
		}),
		leadSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_lead_submissions_total",
			Help: "Contact and quote submissions by kind and outcome.",
		}, []string{"kind", "outcome"}),
		rateLimitBlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_rate_limit_blocks_total",
			Help: "Requests rejected by the rate limiter.",
		}, []string{"route"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.chatRequests, m.chatLatency, m.chatSnippets,
		m.leadSubmissions, m.rateLimitBlocks,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

// ObserveChat implements chat.Observer.
func (m *Metrics) ObserveChat(outcome string, latency time.Duration, snippetCount int) {
	if m == nil {
		return
	}
	m.chatRequests.WithLabelValues(outcome).Inc()
	m.chatLatency.WithLabelValues(outcome).Observe(latency.Seconds())
	m.chatSnippets.Observe(float64(snippetCount))
}

// ObserveLead implements services.LeadObserver.
func (m *Metrics) ObserveLead(kind, outcome string) {
	if m == nil {
		return
	}
	m.leadSubmissions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveRateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimitBlocks.WithLabelValues(route).Inc()
}
