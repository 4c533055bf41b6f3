package driven

import (
	"context"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
)

// MaxSearchPageSize is the largest page the member search accepts.
const MaxSearchPageSize = 50

// Upstream is the read-only legislative-record service.
type Upstream interface {
	// LastSittingDate returns the latest date with proceedings for a chamber.
	LastSittingDate(ctx context.Context, chamber domain.Chamber) (string, error)

	// SectionsForDay lists the section names available for a date and chamber.
	SectionsForDay(ctx context.Context, date string, chamber domain.Chamber) ([]string, error)

	// SectionTree returns the section forest for one section.
	// A payload that is not a list yields domain.ErrMalformedResponse.
	SectionTree(ctx context.Context, date string, chamber domain.Chamber, section string) ([]domain.SectionNode, error)

	// Record fetches the full body of a proceeding.
	Record(ctx context.Context, externalID string) (*domain.RawRecord, error)

	// Speakers fetches the raw speaker list of a proceeding.
	Speakers(ctx context.Context, externalID string) ([]domain.RawSpeaker, error)

	// SearchMembers runs a paginated member search. take is capped at MaxSearchPageSize.
	// Returns the page of results and the total number of matches.
	SearchMembers(ctx context.Context, query string, skip, take int) ([]domain.MemberSearchResult, int, error)
}
