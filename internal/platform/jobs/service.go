package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"kitaguard/internal/domain/retention"
	"kitaguard/internal/platform/config"
	"kitaguard/internal/platform/metrics"
)

// ErrRunInProgress rejects a manual purge while a run is executing.
var ErrRunInProgress = errors.New("purge run already in progress")

type Purger interface {
	Purge(ctx context.Context, retentionMonths int) (retention.Result, error)
}

type RunStore interface {
	CreatePurgeRun(ctx context.Context) (string, error)
	CompletePurgeRun(ctx context.Context, runID, status string, detailsJSON []byte) error
}

// Service drives the purge engine once per day at a fixed local time.
// Overlapping triggers are skipped, never queued.
type Service struct {
	engine  Purger
	runs    RunStore
	cfg     config.Config
	metrics *metrics.Metrics
	running atomic.Bool
}

func New(engine Purger, runs RunStore, cfg config.Config, m *metrics.Metrics) *Service {
	return &Service{engine: engine, runs: runs, cfg: cfg, metrics: m}
}

// Start launches the daily schedule. It returns an error only when the
// configured timezone cannot be loaded.
func (s *Service) Start(ctx context.Context) error {
	loc, err := time.LoadLocation(s.cfg.PurgeTimezone)
	if err != nil {
		return fmt.Errorf("load purge timezone %q: %w", s.cfg.PurgeTimezone, err)
	}
	go s.loop(ctx, loc)
	slog.Info("purge scheduler started",
		"timezone", s.cfg.PurgeTimezone,
		"hour", s.cfg.PurgeHour,
		"minute", s.cfg.PurgeMinute)
	return nil
}

func (s *Service) loop(ctx context.Context, loc *time.Location) {
	for {
		next := NextRunAt(time.Now().In(loc), s.cfg.PurgeHour, s.cfg.PurgeMinute)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.trigger(ctx)
		}
	}
}

// NextRunAt computes the next occurrence of hour:minute strictly after
// now, in now's location.
func NextRunAt(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// trigger starts a purge run in the background. When the previous run
// is still executing the trigger is dropped and logged.
func (s *Service) trigger(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("previous purge run still executing, skipping trigger")
		if s.metrics != nil {
			s.metrics.PurgeSkipped.Inc()
		}
		return
	}
	go func() {
		defer s.running.Store(false)
		s.runPurge(ctx)
	}()
}

// RunNow executes a purge synchronously on behalf of an operator.
func (s *Service) RunNow(ctx context.Context, retentionMonths int) (retention.Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return retention.Result{}, ErrRunInProgress
	}
	defer s.running.Store(false)

	if retentionMonths <= 0 {
		retentionMonths = s.cfg.RetentionMonths
	}
	return s.run(ctx, retentionMonths)
}

// runPurge is the scheduler boundary: every failure is caught and
// logged so the host process keeps running.
func (s *Service) runPurge(ctx context.Context) {
	defer func() {
		if recovered := recover(); recovered != nil {
			slog.Error("purge run panicked", "panic", fmt.Sprintf("%v", recovered))
			if s.metrics != nil {
				s.metrics.PurgeRuns.WithLabelValues("failed").Inc()
			}
		}
	}()

	if _, err := s.run(ctx, s.cfg.RetentionMonths); err != nil {
		slog.Warn("scheduled purge run failed", "err", err)
	}
}

func (s *Service) run(ctx context.Context, retentionMonths int) (retention.Result, error) {
	runID, err := s.runs.CreatePurgeRun(ctx)
	if err != nil {
		slog.Warn("purge run insert failed", "err", err)
	}

	result, runErr := s.engine.Purge(ctx, retentionMonths)

	status := retention.RunStatusCompleted
	outcome := "completed"
	if runErr != nil {
		status = retention.RunStatusFailed
		outcome = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		slog.Warn("purge run details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if updErr := s.runs.CompletePurgeRun(ctx, runID, status, detailsJSON); updErr != nil {
			slog.Warn("purge run update failed", "err", updErr)
		}
	}
	if s.metrics != nil {
		s.metrics.PurgeRuns.WithLabelValues(outcome).Inc()
	}
	return result, runErr
}
