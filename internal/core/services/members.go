package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/hansard-cli/internal/attribution"
	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
)

// MemberResolver looks up members the attribution parser could not identify.
type MemberResolver struct {
	registry driven.MemberRegistry
}

// NewMemberResolver creates a resolver over registry.
func NewMemberResolver(registry driven.MemberRegistry) *MemberResolver {
	return &MemberResolver{registry: registry}
}

// ResolveMembers fetches ids from the registry in a single query.
// Ids with no registry match are absent from the result.
func (r *MemberResolver) ResolveMembers(ctx context.Context, ids []int) (map[int]domain.MemberRecord, error) {
	unique := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	resolved := make(map[int]domain.MemberRecord, len(unique))
	if len(unique) == 0 {
		return resolved, nil
	}
	if r == nil || r.registry == nil {
		return resolved, domain.ErrRegistryUnavailable
	}

	members, err := r.registry.QueryMembersByID(ctx, unique)
	if err != nil {
		return resolved, fmt.Errorf("%w: %w", domain.ErrRegistryUnavailable, err)
	}

	for _, m := range members {
		if !seen[m.ID] {
			continue
		}
		m.Affiliation = attribution.NormalizeAffiliation(m.Affiliation)
		resolved[m.ID] = m
	}
	return resolved, nil
}
