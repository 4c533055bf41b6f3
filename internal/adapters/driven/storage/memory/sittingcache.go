package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
)

// Ensure SittingDateCache implements the interface.
var _ driven.SittingDateCache = (*SittingDateCache)(nil)

// SittingDateCache is an in-memory implementation of driven.SittingDateCache.
type SittingDateCache struct {
	mu      sync.RWMutex
	entries map[string]domain.SittingDateEntry
}

// NewSittingDateCache creates a new in-memory sitting date cache.
func NewSittingDateCache() *SittingDateCache {
	return &SittingDateCache{
		entries: make(map[string]domain.SittingDateEntry),
	}
}

// Put stores or replaces an entry.
func (c *SittingDateCache) Put(_ context.Context, entry domain.SittingDateEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.Key] = entry
	return nil
}

// Get retrieves the entry for key.
func (c *SittingDateCache) Get(_ context.Context, key string) (*domain.SittingDateEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}
