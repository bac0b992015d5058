// Package metrics exports the outcome and latency of authorization requests
// to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/kaoden/goidc-authorize/pkg/goidc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the authorization endpoint.
type Metrics struct {
	// Outcomes by grant and outcome, e.g. "issued" or an error kind.
	Outcomes *prometheus.CounterVec

	// Latency of the authorization endpoint by HTTP method.
	RequestLatency *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "goidc_authorize_outcomes_total",
			Help: "Total authorization requests by grant and outcome",
		}, []string{"grant", "outcome"}),

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "goidc_authorize_request_duration_seconds",
			Help:    "Duration of requests to the authorization endpoint",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method"}),
	}
}

// RecordOutcome counts the outcome of an authorization request. Requests whose
// response type maps to no grant are counted under "unsupported".
func (m *Metrics) RecordOutcome(grant goidc.GrantType, outcome string) {
	if m == nil {
		return
	}

	label := string(grant)
	if grant == goidc.GrantUnsupported {
		label = "unsupported"
	}
	m.Outcomes.WithLabelValues(label, outcome).Inc()
}

// Middleware observes the latency of the requests served by next.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		m.RequestLatency.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
