package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hansard-cli/internal/logger"
)

// Ensure SittingDateResolver implements the interface.
var _ driving.SittingDateService = (*SittingDateResolver)(nil)

// SittingDateResolver finds the most recent sitting date, caching results
// for domain.SittingDateTTL.
type SittingDateResolver struct {
	upstream driven.Upstream
	cache    driven.SittingDateCache
	now      func() time.Time
}

// NewSittingDateResolver creates a resolver backed by cache.
func NewSittingDateResolver(upstream driven.Upstream, cache driven.SittingDateCache) *SittingDateResolver {
	return &SittingDateResolver{
		upstream: upstream,
		cache:    cache,
		now:      time.Now,
	}
}

// LastSittingDate returns the last sitting date for chamber. For
// domain.ChamberAny both chambers are resolved concurrently and the later
// date is returned; on a tie the first chamber in domain.Chambers wins.
func (r *SittingDateResolver) LastSittingDate(ctx context.Context, chamber domain.Chamber) (string, error) {
	if r.upstream == nil {
		return "", domain.ErrUpstreamUnavailable
	}
	if chamber != domain.ChamberAny {
		return r.cached(ctx, string(chamber), func(ctx context.Context) (string, error) {
			return r.upstream.LastSittingDate(ctx, chamber)
		})
	}
	return r.cached(ctx, domain.LatestSittingKey, r.latest)
}

func (r *SittingDateResolver) latest(ctx context.Context) (string, error) {
	dates := make([]time.Time, len(domain.Chambers))
	g, gctx := errgroup.WithContext(ctx)
	for i, chamber := range domain.Chambers {
		g.Go(func() error {
			raw, err := r.LastSittingDate(gctx, chamber)
			if err != nil {
				return err
			}
			t, err := domain.ParseSittingDate(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", chamber, err)
			}
			dates[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	best := dates[0]
	for _, t := range dates[1:] {
		if t.After(best) {
			best = t
		}
	}
	return best.Format(domain.DateLayout), nil
}

func (r *SittingDateResolver) cached(
	ctx context.Context, key string, fetch func(context.Context) (string, error),
) (string, error) {
	now := r.now()

	if r.cache != nil {
		entry, err := r.cache.Get(ctx, key)
		switch {
		case err == nil && entry.Fresh(now):
			logger.Debug("Sitting date cache hit for %s: %s", key, entry.Date)
			return entry.Date, nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			logger.Warn("Sitting date cache read for %s failed: %v", key, err)
		}
	}

	date, err := fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve last sitting date (%s): %w", key, err)
	}

	if r.cache != nil {
		entry := domain.SittingDateEntry{Key: key, Date: date, FetchedAt: now}
		if err := r.cache.Put(ctx, entry); err != nil {
			logger.Warn("Sitting date cache write for %s failed: %v", key, err)
		}
	}
	return date, nil
}
