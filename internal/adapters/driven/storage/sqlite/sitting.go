package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
)

// sittingDateCache implements driven.SittingDateCache.
type sittingDateCache struct {
	store *Store
}

var _ driven.SittingDateCache = (*sittingDateCache)(nil)

// Get returns the entry for key, or domain.ErrNotFound.
func (c *sittingDateCache) Get(ctx context.Context, key string) (*domain.SittingDateEntry, error) {
	var date, fetchedAt string
	err := c.store.db.QueryRowContext(ctx,
		"SELECT date, fetched_at FROM sitting_dates WHERE key = ?", key,
	).Scan(&date, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying sitting date %s: %w", key, err)
	}

	t, err := time.Parse(timeLayout, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing fetched_at for %s: %w", key, err)
	}
	return &domain.SittingDateEntry{Key: key, Date: date, FetchedAt: t}, nil
}

// Put stores or replaces an entry.
func (c *sittingDateCache) Put(ctx context.Context, entry domain.SittingDateEntry) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO sitting_dates (key, date, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET date = excluded.date, fetched_at = excluded.fetched_at
	`, entry.Key, entry.Date, entry.FetchedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("saving sitting date %s: %w", entry.Key, err)
	}
	return nil
}
