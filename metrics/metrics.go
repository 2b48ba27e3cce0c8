package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_submissions_total",
		Help: "Contact form submissions by outcome.",
	}, []string{"outcome"})

	rateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limited_total",
		Help: "Requests rejected by a rate limiter, by scope.",
	}, []string{"scope"})

	auditEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_events_total",
		Help: "Audit trail events recorded, by event type.",
	}, []string{"event_type"})

	retentionDeletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retention_deleted_total",
		Help: "Rows removed by retention cleanup, by table.",
	}, []string{"table"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route, method and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)

// Submission outcomes for ObserveSubmission
const (
	OutcomeAccepted    = "accepted"
	OutcomeRejected    = "rejected"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// Rate limiter scopes for ObserveRateLimited
const (
	ScopeSubmission = "submission"
	ScopeAPI        = "api"
)

// ObserveSubmission counts one processed contact form submission
func ObserveSubmission(outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRateLimited counts one rate limiter rejection
func ObserveRateLimited(scope string) {
	rateLimitedTotal.WithLabelValues(scope).Inc()
}

// ObserveAuditEvent counts one recorded audit event
func ObserveAuditEvent(eventType string) {
	auditEventsTotal.WithLabelValues(eventType).Inc()
}

// ObserveRetentionDeleted counts rows removed by a cleanup pass
func ObserveRetentionDeleted(table string, count int64) {
	if count > 0 {
		retentionDeletedTotal.WithLabelValues(table).Add(float64(count))
	}
}

// Handler serves the Prometheus exposition endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request latency per chi route pattern. The pattern is
// resolved after the handler runs so parameterized routes collapse into one
// label value instead of one per ID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
