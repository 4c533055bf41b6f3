package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gorhill/cronexpr"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hansard-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driving.WatchService = (*Watcher)(nil)

// Watcher runs ingestion, and optionally reconciliation, on a cron schedule.
// Ticks never overlap: the next fire time is computed after a tick finishes.
type Watcher struct {
	ingest    driving.IngestService
	reconcile driving.ReconcileService
	now       func() time.Time
	wait      func(ctx context.Context, d time.Duration) error
}

// NewWatcher creates a watcher. reconcile may be nil when passes are never
// requested.
func NewWatcher(ingest driving.IngestService, reconcile driving.ReconcileService) *Watcher {
	return &Watcher{
		ingest:    ingest,
		reconcile: reconcile,
		now:       time.Now,
		wait:      sleep,
	}
}

// ParseSchedule validates a cron expression.
func ParseSchedule(schedule string) (*cronexpr.Expression, error) {
	expr, err := cronexpr.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrInvalidSchedule, schedule, err)
	}
	return expr, nil
}

// Watch blocks until ctx is done or opts.MaxRuns ticks have run. A failed
// tick is logged and the loop carries on.
func (w *Watcher) Watch(ctx context.Context, opts driving.WatchOptions) error {
	if w.ingest == nil {
		return fmt.Errorf("watch: ingest service not configured")
	}
	if opts.Reconcile && w.reconcile == nil {
		return fmt.Errorf("watch: reconcile service not configured")
	}
	expr, err := ParseSchedule(opts.Schedule)
	if err != nil {
		return err
	}

	ingestOpts := opts.Ingest
	ingestOpts.Date = ""

	runs := 0
	done := func() bool { return opts.MaxRuns > 0 && runs >= opts.MaxRuns }

	if opts.Immediate {
		w.tick(ctx, ingestOpts, opts.Reconcile)
		runs++
	}

	for !done() {
		now := w.now()
		next := expr.Next(now)
		if next.IsZero() {
			return fmt.Errorf("%w: %q has no future runs", domain.ErrInvalidSchedule, opts.Schedule)
		}
		logger.Info("Next ingestion at %s", next.Format(time.RFC3339))

		if err := w.wait(ctx, next.Sub(now)); err != nil {
			return err
		}
		w.tick(ctx, ingestOpts, opts.Reconcile)
		runs++
	}
	return nil
}

func (w *Watcher) tick(ctx context.Context, opts driving.IngestOptions, reconcile bool) {
	result, err := w.ingest.Ingest(ctx, opts)
	if err != nil {
		logger.Error("scheduled ingestion failed: %v", err)
		return
	}
	logger.Info("Scheduled ingestion %s: %d records for %s", result.RunID, len(result.Records), result.Date)

	if !reconcile {
		return
	}
	report, err := w.reconcile.Reconcile(ctx)
	if err != nil {
		logger.Error("scheduled reconciliation failed: %v", err)
		return
	}
	logger.Info("Scheduled reconciliation: %d names, %d candidates saved", report.Names, report.Persisted)
}
