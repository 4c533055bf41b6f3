package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
)

// Ensure CandidateStore implements the interface.
var _ driven.CandidateStore = (*CandidateStore)(nil)

// CandidateStore is an in-memory implementation of driven.CandidateStore.
type CandidateStore struct {
	mu         sync.Mutex
	candidates domain.CandidateMap
	saves      int
}

// NewCandidateStore creates an empty candidate store.
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{candidates: make(domain.CandidateMap)}
}

// Load returns a copy of the stored map.
func (s *CandidateStore) Load(_ context.Context) (domain.CandidateMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.candidates), nil
}

// Save replaces the stored map with a copy of candidates.
func (s *CandidateStore) Save(_ context.Context, candidates domain.CandidateMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = maps.Clone(candidates)
	s.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (s *CandidateStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
