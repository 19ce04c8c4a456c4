package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AIOracleMetrics holds all Prometheus metrics for the AI oracle module
type AIOracleMetrics struct {
	// Ledger metrics
	RequestsCreated *prometheus.CounterVec
	LatestStage     prometheus.Gauge
	PendingStages   prometheus.Gauge

	// Checkpoint metrics
	RootsRegistered    prometheus.Counter
	Checkpoint         prometheus.Gauge
	CheckpointAdvances prometheus.Counter
	CheckpointLagging  prometheus.Counter

	// Settlement metrics
	ClaimsSettled    prometheus.Counter
	PayoutsTotal     *prometheus.CounterVec
	ProofFailures    prometheus.Counter
	FundsWithdrawn   *prometheus.CounterVec
	ContractFeesPaid *prometheus.CounterVec

	// Registry metrics
	ExecutorCount     prometheus.Gauge
	ExecutorRotations prometheus.Counter

	// Command metrics
	CommandFailures *prometheus.CounterVec
	CommandLatency  *prometheus.HistogramVec
}

var (
	aiOracleMetricsOnce sync.Once
	aiOracleMetrics     *AIOracleMetrics
)

// NewAIOracleMetrics creates and registers AI oracle metrics (singleton pattern)
func NewAIOracleMetrics() *AIOracleMetrics {
	aiOracleMetricsOnce.Do(func() {
		aiOracleMetrics = &AIOracleMetrics{
			RequestsCreated: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "requests_created_total",
					Help:      "Total data requests accepted by service",
				},
				[]string{"service"},
			),
			LatestStage: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "latest_stage",
					Help:      "Highest allocated stage",
				},
			),
			PendingStages: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "pending_stages",
					Help:      "Unresolved stages at or after the checkpoint",
				},
			),

			RootsRegistered: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "merkle_roots_registered_total",
					Help:      "Total merkle roots registered",
				},
			),
			Checkpoint: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "checkpoint",
					Help:      "Current checkpoint watermark",
				},
			),
			CheckpointAdvances: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "checkpoint_advances_total",
					Help:      "Registrations that moved the checkpoint",
				},
			),
			CheckpointLagging: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "checkpoint_lagging_total",
					Help:      "Requests admitted while the pending window exceeded the checkpoint threshold",
				},
			),

			ClaimsSettled: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "claims_settled_total",
					Help:      "Total reward claims settled",
				},
			),
			PayoutsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "payouts_total",
					Help:      "Reward transfers executed by denom",
				},
				[]string{"denom"},
			),
			ProofFailures: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "proof_failures_total",
					Help:      "Claims rejected because the report did not fold to the root",
				},
			),
			FundsWithdrawn: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "protocol_fee_withdrawals_total",
					Help:      "Protocol fee withdrawals by denom",
				},
				[]string{"denom"},
			),
			ContractFeesPaid: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "contract_fees_total",
					Help:      "Requests that paid a contract fee by denom",
				},
				[]string{"denom"},
			),

			ExecutorCount: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "executor_count",
					Help:      "Members of the active executor set",
				},
			),
			ExecutorRotations: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "executor_rotations_total",
					Help:      "Executor registry versions written",
				},
			),

			CommandFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "command_failures_total",
					Help:      "Rejected commands by type",
				},
				[]string{"command"},
			),
			CommandLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "paw",
					Subsystem: "aioracle",
					Name:      "command_duration_seconds",
					Help:      "Time spent executing commands",
					Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
				},
				[]string{"command"},
			),
		}
	})
	return aiOracleMetrics
}
