package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
)

// Ensure MemberRegistry implements the interface.
var _ driven.MemberRegistry = (*MemberRegistry)(nil)

// MemberRegistry is an in-memory implementation of driven.MemberRegistry.
// Speaker names are read from the attached proceeding store, if any.
type MemberRegistry struct {
	mu          sync.RWMutex
	members     map[int]domain.MemberRecord
	proceedings *ProceedingStore
}

// NewMemberRegistry creates a registry. proceedings may be nil.
func NewMemberRegistry(proceedings *ProceedingStore) *MemberRegistry {
	return &MemberRegistry{
		members:     make(map[int]domain.MemberRecord),
		proceedings: proceedings,
	}
}

// QueryMembersByID returns the members matching ids, in ids order.
func (r *MemberRegistry) QueryMembersByID(_ context.Context, ids []int) ([]domain.MemberRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found []domain.MemberRecord
	for _, id := range ids {
		if m, ok := r.members[id]; ok {
			found = append(found, m)
		}
	}
	return found, nil
}

// UpsertMember stores or replaces a member.
func (r *MemberRegistry) UpsertMember(_ context.Context, member domain.MemberRecord) error {
	if member.ID == 0 {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[member.ID] = member
	return nil
}

// DistinctSpeakerNames returns the speaker names stored in the proceeding store.
func (r *MemberRegistry) DistinctSpeakerNames(_ context.Context) ([]string, error) {
	if r.proceedings == nil {
		return nil, nil
	}
	return r.proceedings.SpeakerNames(), nil
}
