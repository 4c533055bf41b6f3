package driving

import (
	"context"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
)

// IngestService runs ingestion of proceedings for a sitting day.
type IngestService interface {
	// Ingest crawls, enriches and stores proceedings.
	Ingest(ctx context.Context, opts IngestOptions) (*IngestResult, error)
}

// IngestOptions controls one ingestion run.
type IngestOptions struct {
	// Date is the sitting date (YYYY-MM-DD). Empty resolves the last sitting date.
	Date string

	// Chamber restricts the run to one chamber. ChamberAny crawls both.
	Chamber domain.Chamber

	// RewindDays is the maximum number of days tried when a date has no proceedings.
	// Zero uses the configured default.
	RewindDays int

	// SkipExisting filters out records already present in the store.
	SkipExisting bool
}

// IngestResult summarises an ingestion run.
type IngestResult struct {
	RunID   string
	Date    string
	Leaves  int
	Skipped int
	Failed  int
	Records []domain.ProceedingRecord
}

// SittingDateService resolves the most recent sitting date.
type SittingDateService interface {
	// LastSittingDate returns the last sitting date for a chamber,
	// or the later of both chambers for ChamberAny.
	LastSittingDate(ctx context.Context, chamber domain.Chamber) (string, error)
}
