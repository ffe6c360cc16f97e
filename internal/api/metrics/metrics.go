// Package metrics defines and registers all custom Prometheus metrics for the
// land registry API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "registry"

// TransactionsRecordedTotal counts successfully recorded sale transactions.
var TransactionsRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_recorded_total",
		Help:      "Total number of sale transactions successfully recorded.",
	},
)

// TransactionErrorsTotal counts failed recording attempts.
// Label:
//   - reason: short failure description (e.g. "already_sold", "disputed", "not_found", "invalid_input")
var TransactionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transaction_errors_total",
		Help:      "Total number of transaction recording attempts that failed.",
	},
	[]string{"reason"},
)

// PlotsRegisteredTotal counts newly registered land plots.
// Label:
//   - size_unit: "ACRES", "HECTARES", or "SQ_METERS"
var PlotsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plots_registered_total",
		Help:      "Total number of land plots registered, by size unit.",
	},
	[]string{"size_unit"},
)

// ReceiptsGeneratedTotal counts receipts written by the background workers.
// Label:
//   - result: "success" or "failure"
var ReceiptsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "receipts_generated_total",
		Help:      "Total number of receipt generation attempts, by result.",
	},
	[]string{"result"},
)

// RecordDuration measures how long recording a transaction takes end-to-end,
// including the plot status transition.
var RecordDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transaction_record_duration_seconds",
		Help:      "Duration of transaction recording from validation to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
