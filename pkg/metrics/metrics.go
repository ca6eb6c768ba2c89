package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsActive counts live websocket connections.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "focustroop_ws_connections_active",
		Help: "Currently open websocket connections.",
	})

	// RoomsActive counts rooms currently held in the registry.
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "focustroop_rooms_active",
		Help: "Rooms with at least one member.",
	})

	// EventsTotal counts processed room events by wire event name.
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focustroop_room_events_total",
		Help: "Inbound room events processed, by event name.",
	}, []string{"event"})

	// FramesDropped counts inbound frames discarded at decode time.
	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "focustroop_ws_frames_dropped_total",
		Help: "Inbound frames dropped as malformed or unknown.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
