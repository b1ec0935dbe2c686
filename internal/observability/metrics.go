// Package observability holds logging and the Prometheus metrics for
// the portal service. Metrics register with the default registry via
// promauto; expose them through the /metrics endpoint.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// RequestsTotal counts handled HTTP requests.
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"path", "method", "status"},
)

// RequestDuration measures request latency end-to-end.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"path", "method"},
)

// ErrorsTotal counts requests that resolved to a domain error.
var ErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "Total number of requests that failed, by error code.",
	},
	[]string{"path", "method", "code"},
)

// GateDecisions counts access gate evaluations.
// Labels:
//   - capability: required capability of the route (public/client/admin)
//   - outcome: authorized, denied_login, denied_admin_login
var GateDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of access gate evaluations, by outcome.",
	},
	[]string{"capability", "outcome"},
)

// EmailsSentTotal counts relay attempts against the email provider.
// Labels:
//   - kind: contact_admin, contact_confirmation, ticket_notification,
//     invoice_notification, password_reset
//   - result: "ok" or "error"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of relay emails attempted, by kind and result.",
	},
	[]string{"kind", "result"},
)

// ContactSubmissionsTotal counts contact form outcomes.
// Label:
//   - result: "accepted", "invalid", "rate_limited", "relay_failed"
var ContactSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_submissions_total",
		Help:      "Total number of contact form submissions, by result.",
	},
	[]string{"result"},
)
