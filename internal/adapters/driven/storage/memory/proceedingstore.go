package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
)

// Ensure ProceedingStore implements the interface.
var _ driven.ProceedingStore = (*ProceedingStore)(nil)

// ProceedingStore is an in-memory implementation of driven.ProceedingStore.
type ProceedingStore struct {
	mu      sync.RWMutex
	records map[string]domain.ProceedingRecord
}

// NewProceedingStore creates a new in-memory proceeding store.
func NewProceedingStore() *ProceedingStore {
	return &ProceedingStore{
		records: make(map[string]domain.ProceedingRecord),
	}
}

// Save stores or replaces records by external identifier.
func (s *ProceedingStore) Save(_ context.Context, records []domain.ProceedingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if !rec.Valid() {
			return domain.ErrInvalidRecord
		}
		s.records[rec.ExternalID] = rec
	}
	return nil
}

// Get retrieves a record by external identifier.
func (s *ProceedingStore) Get(_ context.Context, externalID string) (*domain.ProceedingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[externalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// ExistingIDs returns the subset of ids already stored.
func (s *ProceedingStore) ExistingIDs(_ context.Context, ids []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	existing := make(map[string]bool)
	for _, id := range ids {
		if _, ok := s.records[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

// Count returns the number of stored records.
func (s *ProceedingStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// SpeakerNames returns the sorted distinct entry names across all records.
func (s *ProceedingStore) SpeakerNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var collect func(rec domain.ProceedingRecord)
	collect = func(rec domain.ProceedingRecord) {
		for _, entry := range rec.Entries {
			if entry.Name != "" {
				seen[entry.Name] = true
			}
		}
		for _, child := range rec.Children {
			collect(child)
		}
	}
	for _, rec := range s.records {
		collect(rec)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
