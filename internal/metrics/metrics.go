// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skillswap"

var (
	RelayConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "connections",
		Help:      "Open relay WebSocket connections.",
	})

	RelayOnlineUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "online_users",
		Help:      "Distinct users announced as online.",
	})

	RelayRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "rooms",
		Help:      "Rooms with at least one subscriber.",
	})

	RelayInboundEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "inbound_events_total",
		Help:      "Inbound relay events accepted, by event name.",
	}, []string{"event"})

	RelayRejectedFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "rejected_frames_total",
		Help:      "Inbound frames dropped before dispatch, by reason.",
	}, []string{"reason"})

	RelayDroppedDeliveries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "dropped_deliveries_total",
		Help:      "Outbound events dropped because a peer's send buffer was full.",
	})

	RelayNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "notifications_total",
		Help:      "Direct user notifications, by event name and whether the user was online.",
	}, []string{"event", "result"})

	MatchScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "match",
		Name:      "compatibility_score",
		Help:      "Compatibility scores frozen into created matches.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	FeedCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "match",
		Name:      "feed_cache_lookups_total",
		Help:      "Discovery feed cache lookups, by result.",
	}, []string{"result"})
)

const (
	CacheHit  = "hit"
	CacheMiss = "miss"

	RejectDecode    = "decode"
	RejectUnknown   = "unknown_event"
	RejectInvalid   = "invalid_payload"
	RejectRateLimit = "rate_limited"

	NotifyDelivered = "delivered"
	NotifyOffline   = "offline"
)
