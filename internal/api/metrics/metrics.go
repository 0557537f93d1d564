// Package metrics defines and registers all custom Prometheus metrics for the
// obituary API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at init time;
// the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "obituary"

// ObituariesCreatedTotal counts successfully created records.
var ObituariesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_created_total",
		Help:      "Total number of obituary records created.",
	},
)

// UploadsRejectedTotal counts rejected photo uploads.
// Label:
//   - reason: "too_large" or "unsupported_format"
var UploadsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_rejected_total",
		Help:      "Total number of photo uploads rejected by validation.",
	},
	[]string{"reason"},
)

// PhotoCleanupFailuresTotal counts best-effort photo file removals that
// failed. Cleanup failures never abort the enclosing record mutation, so this
// counter is the only place they surface besides the log.
var PhotoCleanupFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photo_cleanup_failures_total",
		Help:      "Total number of failed best-effort photo file removals.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
