// Package metrics exposes Prometheus collectors for the simulator daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dome_build_info",
			Help: "Build information of the dome simulator",
		},
		[]string{"version"},
	)

	IndexerSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dome_indexer_sync_total",
			Help: "Total number of indexer sync passes",
		},
		[]string{"status"},
	)

	EventsJournaled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dome_events_journaled_total",
			Help: "Total number of protocol events persisted to the journal",
		},
		[]string{"type"},
	)

	WithdrawalsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dome_withdrawals_processed_total",
			Help: "Total number of queued withdrawal processing attempts",
		},
		[]string{"status"},
	)

	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dome_withdrawal_queue_depth",
			Help: "Number of withdrawals currently queued per dome",
		},
		[]string{"dome"},
	)

	BufferReserve = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dome_buffer_reserve",
			Help: "Donation buffer reserve per dome in underlying base units",
		},
		[]string{"dome"},
	)
)
