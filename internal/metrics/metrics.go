// Package metrics exposes Prometheus counters for update handling and the
// daily broadcast.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Broadcast outcome labels.
const (
	BroadcastSent         = "sent"
	BroadcastFailed       = "failed"
	BroadcastUnsubscribed = "unsubscribed"
)

var (
	updatesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_updates_handled_total",
		Help: "Inbound Telegram updates handled, by kind.",
	}, []string{"kind"})

	broadcastResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_broadcast_results_total",
		Help: "Daily broadcast send outcomes.",
	}, []string{"outcome"})
)

// UpdateHandled records one handled inbound update of the given kind
// (command, text, callback, inline).
func UpdateHandled(kind string) {
	updatesHandled.WithLabelValues(kind).Inc()
}

// BroadcastResult records one broadcast send outcome.
func BroadcastResult(outcome string) {
	broadcastResults.WithLabelValues(outcome).Inc()
}
