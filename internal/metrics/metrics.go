// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// WatchEvents counts debounced filesystem events by operation.
	WatchEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdgraph_watch_events_total",
			Help: "Debounced filesystem events processed, by operation",
		},
		[]string{"op"},
	)

	// WatchErrors counts events skipped because handling failed.
	WatchErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mdgraph_watch_errors_total",
			Help: "Filesystem events skipped due to handler errors",
		},
	)

	// DeltasEmitted counts non-empty deltas published to consumers.
	DeltasEmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mdgraph_deltas_emitted_total",
			Help: "Non-empty graph deltas emitted to consumers",
		},
	)

	// ClientsConnected tracks currently connected websocket clients.
	ClientsConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mdgraph_ws_clients",
			Help: "Currently connected websocket clients",
		},
	)
)

func init() {
	prometheus.MustRegister(WatchEvents)
	prometheus.MustRegister(WatchErrors)
	prometheus.MustRegister(DeltasEmitted)
	prometheus.MustRegister(ClientsConnected)
}
