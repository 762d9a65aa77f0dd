// Package metrics exports Prometheus instrumentation for the risk engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PositionsOpened counts successful opens.
var PositionsOpened = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "riskengine",
		Subsystem: "engine",
		Name:      "positions_opened_total",
		Help:      "Positions opened, by instrument and side",
	},
	[]string{"instrument", "side"},
)

// PositionsClosed counts transitions out of the open state, by the
// reason that drove them.
var PositionsClosed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "riskengine",
		Subsystem: "engine",
		Name:      "positions_closed_total",
		Help:      "Positions closed or liquidated, by close reason",
	},
	[]string{"reason"},
)

// OpensRejected counts opens refused at validation, by cause.
var OpensRejected = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "riskengine",
		Subsystem: "engine",
		Name:      "opens_rejected_total",
		Help:      "Open requests rejected before any mutation, by cause",
	},
	[]string{"cause"},
)

// TickEvaluation observes how long one evaluation pass over all open
// positions takes.
var TickEvaluation = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "riskengine",
		Subsystem: "engine",
		Name:      "tick_evaluation_seconds",
		Help:      "Duration of a single price-tick evaluation pass",
		Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 8),
	},
)
