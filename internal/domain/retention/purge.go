package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kitaguard/internal/domain/audit"
	"kitaguard/internal/domain/auth"
	"kitaguard/internal/domain/lifecycle"
	"kitaguard/internal/platform/metrics"
)

const (
	// DefaultRetentionMonths is the purge horizon when the caller does
	// not pass one.
	DefaultRetentionMonths = 12
	// daysPerMonth is a flat approximation, not calendar arithmetic.
	// Downstream expectations depend on the flat conversion, so it
	// stays this way on purpose.
	daysPerMonth = 30

	purgeScanPageSize = 200
)

// Engine finds soft-deleted records past their retention cutoff and
// permanently removes them.
type Engine struct {
	store    StoreAPI
	audits   *audit.Service
	policies *PolicyTable
	metrics  *metrics.Metrics
}

func NewEngine(store StoreAPI, audits *audit.Service, policies *PolicyTable, m *metrics.Metrics) *Engine {
	return &Engine{store: store, audits: audits, policies: policies, metrics: m}
}

func (e *Engine) Policies() *PolicyTable {
	return e.policies
}

// Purge removes every record whose soft-deletion is older than
// retentionMonths flat 30-day months.
func (e *Engine) Purge(ctx context.Context, retentionMonths int) (Result, error) {
	return e.PurgeAt(ctx, retentionMonths, time.Now().UTC())
}

// PurgeAt is Purge with an explicit reference time.
func (e *Engine) PurgeAt(ctx context.Context, retentionMonths int, now time.Time) (Result, error) {
	if retentionMonths <= 0 {
		retentionMonths = DefaultRetentionMonths
	}
	cutoff := now.Add(-time.Duration(retentionMonths*daysPerMonth) * 24 * time.Hour)

	result := Result{
		PurgedCounts:    make(map[lifecycle.Kind]int),
		RetentionMonths: retentionMonths,
	}

	for _, kind := range e.policies.Kinds() {
		purged, failed, err := e.purgeKind(ctx, kind, cutoff)
		if err != nil {
			// A kind-level scan failure skips the kind, not the run.
			slog.Warn("purge scan failed", "kind", string(kind), "err", err)
			result.FailedCount++
			continue
		}
		if purged > 0 {
			result.PurgedCounts[kind] = purged
			result.TotalPurged += purged
		}
		result.FailedCount += failed
	}

	if result.TotalPurged > 0 {
		details := fmt.Sprintf("purged %d records across %d kinds (retention %d months)",
			result.TotalPurged, len(result.PurgedCounts), retentionMonths)
		e.audits.RecordBestEffort(ctx, audit.ActorSystem, audit.ActionPurgeCompleted, "", "", details, nil)
	}

	slog.Info("purge run finished",
		"totalPurged", result.TotalPurged,
		"failed", result.FailedCount,
		"retentionMonths", retentionMonths)
	return result, nil
}

func (e *Engine) purgeKind(ctx context.Context, kind lifecycle.Kind, cutoff time.Time) (purged, failed int, err error) {
	afterID := ""
	for {
		records, err := e.store.ListExpired(ctx, kind, cutoff, afterID, purgeScanPageSize)
		if err != nil {
			return purged, failed, err
		}
		if len(records) == 0 {
			return purged, failed, nil
		}

		for _, record := range records {
			if kind == lifecycle.KindUser && auth.Role(record.Role) == auth.RoleSuperAdmin {
				continue
			}

			var entry *audit.Entry
			if kind != lifecycle.KindActivityLog {
				e := audit.NewEntry(audit.ActorSystem, audit.ActionPurgeEntity, string(kind), record.ID,
					fmt.Sprintf("retention period elapsed, cutoff %s", cutoff.Format(time.RFC3339)), nil)
				entry = &e
			}

			if err := e.store.PurgeRecord(ctx, kind, record.ID, entry); err != nil {
				slog.Warn("purge record failed", "kind", string(kind), "id", record.ID, "err", err)
				failed++
				continue
			}
			purged++
			if e.metrics != nil {
				e.metrics.PurgedRecords.WithLabelValues(string(kind)).Inc()
			}
		}

		if len(records) < purgeScanPageSize {
			return purged, failed, nil
		}
		afterID = records[len(records)-1].ID
	}
}
