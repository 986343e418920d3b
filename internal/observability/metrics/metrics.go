package metrics

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus instruments for the HTTP API and auth flows.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	loginAttempts *prometheus.CounterVec
	tokensIssued  *prometheus.CounterVec
	tokensRevoked prometheus.Counter
	auditEntries  *prometheus.CounterVec
}

// New registers and returns the application metrics.
func New() *Metrics {
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orghub_http_requests_total",
		Help: "Counts HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orghub_http_request_duration_seconds",
		Help:    "HTTP request latency per method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	loginAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orghub_login_attempts_total",
		Help: "Counts login attempts by result.",
	}, []string{"result"})

	tokensIssued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orghub_tokens_issued_total",
		Help: "Counts issued tokens by type.",
	}, []string{"type"})

	tokensRevoked := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orghub_tokens_revoked_total",
		Help: "Counts revoked tokens.",
	})

	auditEntries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orghub_audit_entries_total",
		Help: "Counts audit log writes by result.",
	}, []string{"result"})

	prometheus.MustRegister(
		httpRequests,
		httpDuration,
		loginAttempts,
		tokensIssued,
		tokensRevoked,
		auditEntries,
	)

	return &Metrics{
		httpRequests:  httpRequests,
		httpDuration:  httpDuration,
		loginAttempts: loginAttempts,
		tokensIssued:  tokensIssued,
		tokensRevoked: tokensRevoked,
		auditEntries:  auditEntries,
	}
}

// ObserveRequest records an HTTP request with its latency.
func (m *Metrics) ObserveRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	routeLabel := sanitizeLabel(route)
	m.httpRequests.WithLabelValues(method, routeLabel, status).Inc()
	m.httpDuration.WithLabelValues(method, routeLabel).Observe(duration.Seconds())
}

// ObserveLogin records a login attempt outcome.
func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(sanitizeLabel(result)).Inc()
}

// ObserveTokenIssued records an issued token by type.
func (m *Metrics) ObserveTokenIssued(tokenType string) {
	if m == nil {
		return
	}
	m.tokensIssued.WithLabelValues(sanitizeLabel(tokenType)).Inc()
}

// ObserveTokenRevoked records a token revocation.
func (m *Metrics) ObserveTokenRevoked() {
	if m == nil {
		return
	}
	m.tokensRevoked.Inc()
}

// ObserveAuditEntry records an audit log write.
func (m *Metrics) ObserveAuditEntry(result string) {
	if m == nil {
		return
	}
	m.auditEntries.WithLabelValues(sanitizeLabel(result)).Inc()
}

// GinMiddleware instruments each request with count and latency.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.ObserveRequest(
			c.Request.Method,
			route,
			statusLabel(c.Writer.Status()),
			time.Since(start),
		)
	}
}

func statusLabel(status int) string {
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

func sanitizeLabel(val string) string {
	if strings.TrimSpace(val) == "" {
		return "unknown"
	}
	return val
}
