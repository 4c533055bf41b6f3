package driven

import (
	"context"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
)

// SittingDateCache stores resolved sitting dates.
// Freshness is judged by the caller from SittingDateEntry.FetchedAt.
type SittingDateCache interface {
	// Get returns the entry for key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (*domain.SittingDateEntry, error)

	// Put stores or replaces an entry.
	Put(ctx context.Context, entry domain.SittingDateEntry) error
}

// CandidateStore persists the reconciliation candidate map as one document.
type CandidateStore interface {
	// Load returns the stored map, or an empty map when none exists.
	Load(ctx context.Context) (domain.CandidateMap, error)

	// Save replaces the stored map with candidates.
	Save(ctx context.Context, candidates domain.CandidateMap) error
}
