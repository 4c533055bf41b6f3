package driven

import (
	"context"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
)

// MemberRegistry is the persistent store of canonical member identities.
type MemberRegistry interface {
	// QueryMembersByID returns the members matching ids. Unknown ids are omitted.
	QueryMembersByID(ctx context.Context, ids []int) ([]domain.MemberRecord, error)

	// UpsertMember stores or replaces a member.
	UpsertMember(ctx context.Context, member domain.MemberRecord) error

	// DistinctSpeakerNames lists every speaker name stored by previous ingestion runs.
	DistinctSpeakerNames(ctx context.Context) ([]string, error)
}

// ProceedingStore persists enriched proceedings.
type ProceedingStore interface {
	// Save stores or replaces records by external identifier.
	Save(ctx context.Context, records []domain.ProceedingRecord) error

	// Get retrieves a record by external identifier.
	Get(ctx context.Context, externalID string) (*domain.ProceedingRecord, error)

	// ExistingIDs returns the subset of ids that are already stored.
	ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error)
}
