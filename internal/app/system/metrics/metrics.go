package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes recorded by IncLogin.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginError   = "error"
)

type ServerMetrics struct {
	reg      *prometheus.Registry
	handler  http.Handler
	inflight prometheus.Gauge
	reqTotal *prometheus.CounterVec
	reqDur   *prometheus.HistogramVec

	errorsTotal *prometheus.CounterVec

	// content and auth
	loginsTotal    *prometheus.CounterVec
	publishesTotal prometheus.Counter
	draftsTotal    prometheus.Counter
	sessionsPurged prometheus.Counter
}

// New returns a fresh registry with the standard Go/process collectors,
// HTTP request metrics and the content counters.
// HTTP labels are method, route pattern and status only.
func New() *ServerMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &ServerMetrics{
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests",
		}),
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total 5xx HTTP server errors by method and route",
		}, []string{"method", "route"}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_logins_total",
			Help: "Admin login attempts by result",
		}, []string{"result"}),
		publishesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "content_publishes_total",
			Help: "Total number of successful content publishes",
		}),
		draftsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "content_drafts_created_total",
			Help: "Total number of content drafts created",
		}),
		sessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admin_sessions_purged_total",
			Help: "Total number of expired admin sessions removed by the purge job",
		}),
	}
	reg.MustRegister(
		m.inflight,
		m.reqTotal,
		m.reqDur,
		m.errorsTotal,
		m.loginsTotal,
		m.publishesTotal,
		m.draftsTotal,
		m.sessionsPurged,
	)

	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	m.reg = reg
	return m
}

func (m *ServerMetrics) Handler() http.Handler {
	return m.handler
}

// The recorders below accept a nil receiver so callers built without
// metrics can use them unconditionally.

func (m *ServerMetrics) IncLogin(result string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(result).Inc()
}

func (m *ServerMetrics) IncPublish() {
	if m == nil {
		return
	}
	m.publishesTotal.Inc()
}

func (m *ServerMetrics) IncDraft() {
	if m == nil {
		return
	}
	m.draftsTotal.Inc()
}

func (m *ServerMetrics) AddSessionsPurged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.sessionsPurged.Add(float64(n))
}
