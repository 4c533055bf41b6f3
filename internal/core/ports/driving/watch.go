package driving

import "context"

// WatchService runs ingestion repeatedly on a cron schedule.
type WatchService interface {
	// Watch blocks, running a tick at every scheduled time until ctx is done
	// or opts.MaxRuns ticks have completed.
	Watch(ctx context.Context, opts WatchOptions) error
}

// WatchOptions controls a watch loop.
type WatchOptions struct {
	// Schedule is a cron expression ("0 18 * * 1-5", "@hourly", ...).
	Schedule string

	// Ingest is passed to every ingestion run. Date is ignored; each tick
	// resolves the last sitting date afresh.
	Ingest IngestOptions

	// Reconcile runs a reconciliation pass after each successful ingestion.
	Reconcile bool

	// Immediate runs one tick before waiting for the first scheduled time.
	Immediate bool

	// MaxRuns stops the loop after this many ticks. Zero means unlimited.
	MaxRuns int
}
