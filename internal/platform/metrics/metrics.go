package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the lifecycle engine.
type Metrics struct {
	PurgedRecords    *prometheus.CounterVec
	PurgeRuns        *prometheus.CounterVec
	PurgeSkipped     prometheus.Counter
	ComplianceRuns   prometheus.Counter
	Anomalies        *prometheus.CounterVec
	IntegrityChecks  *prometheus.CounterVec
	SoftDeleteErrors prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		PurgedRecords: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kitaguard_purged_records_total",
			Help: "Records permanently removed by the purge engine, by entity kind",
		}, []string{"kind"}),
		PurgeRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kitaguard_purge_runs_total",
			Help: "Purge engine runs by outcome",
		}, []string{"outcome"}),
		PurgeSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kitaguard_purge_triggers_skipped_total",
			Help: "Scheduled purge triggers skipped because a run was still in flight",
		}),
		ComplianceRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kitaguard_compliance_reports_total",
			Help: "Compliance reports generated",
		}),
		Anomalies: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kitaguard_anomalies_detected_total",
			Help: "Anomalies flagged by the detector, by type",
		}, []string{"type"}),
		IntegrityChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kitaguard_integrity_checks_total",
			Help: "Integrity verifier runs by outcome",
		}, []string{"outcome"}),
		SoftDeleteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kitaguard_soft_delete_errors_total",
			Help: "Soft-delete transactions that failed and rolled back",
		}),
	}
}
