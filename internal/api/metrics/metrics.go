// Package metrics defines all custom Prometheus metrics for the library API.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry via
// promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "user_inactive",
//     "tenant_inactive", or "tenant_not_found"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts signed tokens handed out.
// Label:
//   - type: "access" or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of JWT tokens issued, by token type.",
	},
	[]string{"type"},
)

// AuthRejectionsTotal counts requests rejected at the auth middleware.
// Label:
//   - reason: "missing_header", "invalid_token", "user_not_found",
//     "user_inactive", or "tenant_inactive"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected during identity resolution.",
	},
	[]string{"reason"},
)

// ── Tenant metrics ────────────────────────────────────────────────────────────

// TenantsRegisteredTotal counts successful tenant registrations.
var TenantsRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tenants_registered_total",
		Help:      "Total number of tenants registered.",
	},
)
