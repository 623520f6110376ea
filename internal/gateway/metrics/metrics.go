package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the fan-out gateway.
type Metrics struct {
	ConnectionsActive  prometheus.Gauge
	ConnectionsDropped prometheus.Counter
	EventsBroadcast    prometheus.Counter
	ClientRequests     prometheus.Counter
}

// New creates a Metrics instance with all gateway metrics registered.
func New() *Metrics {
	return &Metrics{
		ConnectionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rollcall_gateway_connections_active",
			Help: "Number of currently connected websocket clients",
		}),
		ConnectionsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_gateway_connections_dropped_total",
			Help: "Total connections dropped for falling behind the broadcast stream",
		}),
		EventsBroadcast: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_gateway_events_broadcast_total",
			Help: "Total events broadcast to all connected clients",
		}),
		ClientRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_gateway_client_requests_total",
			Help: "Total read requests received over the push channel",
		}),
	}
}
