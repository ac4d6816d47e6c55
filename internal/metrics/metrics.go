// Package metrics provides Prometheus metrics for the choremander service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "choremander"

// Custom registry to avoid default Go metrics.
var registry = prometheus.NewRegistry()

var (
	commandsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total number of ledger commands by command name and outcome",
		},
		[]string{"command", "status"},
	)

	httpRequests = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method and status code",
		},
		[]string{"method", "status_code"},
	)

	snapshotRefreshes = promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_refreshes_total",
			Help:      "Total number of state snapshot rebuilds",
		},
	)

	snapshotLastUnix = promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_last_unix",
			Help:      "Unix timestamp of the last published state snapshot",
		},
	)

	pendingApprovals = promauto.With(registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_approvals",
			Help:      "Number of records currently awaiting parent review",
		},
		[]string{"kind"},
	)

	websocketClients = promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Number of connected websocket clients",
		},
	)
)

// RecordCommand records a ledger command outcome. status is "ok" or an
// error category such as "not_found" or "conflict".
func RecordCommand(command, status string) {
	commandsTotal.WithLabelValues(command, status).Inc()
}

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method string, statusCode int) {
	httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
}

// RecordSnapshot records a snapshot rebuild and its pending queue sizes.
func RecordSnapshot(at int64, pendingCompletions, pendingClaims int) {
	snapshotRefreshes.Inc()
	snapshotLastUnix.Set(float64(at))
	pendingApprovals.WithLabelValues("completion").Set(float64(pendingCompletions))
	pendingApprovals.WithLabelValues("claim").Set(float64(pendingClaims))
}

// SetWebsocketClients sets the connected client count.
func SetWebsocketClients(count int) {
	websocketClients.Set(float64(count))
}

// Handler serves the metrics registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
