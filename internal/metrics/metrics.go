package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "studio_relay_active_connections",
		Help: "Number of active signaling WebSocket connections",
	})

	ConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studio_relay_connections_total",
		Help: "Total number of accepted signaling connections",
	})

	DisconnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studio_relay_disconnections_total",
		Help: "Total number of closed signaling connections",
	})

	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "studio_relay_active_rooms",
		Help: "Number of rooms with at least one member",
	})

	RoomsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studio_relay_rooms_created_total",
		Help: "Total number of rooms created",
	})

	RoomsDestroyedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studio_relay_rooms_destroyed_total",
		Help: "Total number of rooms removed after their last member left",
	})

	JoinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studio_relay_joins_total",
		Help: "Total number of successful room joins",
	})

	SignalingMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_relay_signaling_messages_total",
		Help: "Total signaling envelopes",
	}, []string{"type", "direction"}) // direction: "in" | "out"

	EnvelopesDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_relay_envelopes_dropped_total",
		Help: "Total relayed envelopes dropped without delivery",
	}, []string{"reason"}) // "target_gone" | "transport_closed" | "not_joined" | "write_failed"

	MalformedFramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studio_relay_malformed_frames_total",
		Help: "Total inbound frames that could not be parsed",
	})

	ConfigReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studio_relay_config_reloads_total",
		Help: "Number of configuration reloads",
	})

	StartTime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "studio_relay_start_time_seconds",
		Help: "Server start time in Unix seconds",
	})
)
