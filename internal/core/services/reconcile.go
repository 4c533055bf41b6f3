package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hansard-cli/internal/logger"
)

const (
	// DefaultReconcileDelay separates consecutive member searches.
	DefaultReconcileDelay = time.Second

	// DefaultSearchTake is the page size requested per member search.
	DefaultSearchTake = 20
)

// Ensure Reconciler implements the interface.
var _ driving.ReconcileService = (*Reconciler)(nil)

// ReconcilerConfig tunes a reconciliation pass.
type ReconcilerConfig struct {
	// Delay is the pause between consecutive name lookups.
	Delay time.Duration
	// SearchTake is the member search page size, capped at driven.MaxSearchPageSize.
	SearchTake int
}

// DefaultReconcilerConfig returns the production settings.
func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{Delay: DefaultReconcileDelay, SearchTake: DefaultSearchTake}
}

// Reconciler matches stored speaker names against registry search results
// and records likely corrections.
type Reconciler struct {
	registry driven.MemberRegistry
	upstream driven.Upstream
	store    driven.CandidateStore
	take     int
	pacer    *rate.Limiter
	now      func() time.Time

	// saveMu serialises candidate map writes.
	saveMu sync.Mutex
}

// NewReconciler creates a reconciler.
func NewReconciler(
	registry driven.MemberRegistry,
	upstream driven.Upstream,
	store driven.CandidateStore,
	cfg ReconcilerConfig,
) *Reconciler {
	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}
	take := cfg.SearchTake
	if take <= 0 || take > driven.MaxSearchPageSize {
		take = driven.MaxSearchPageSize
	}
	return &Reconciler{
		registry: registry,
		upstream: upstream,
		store:    store,
		take:     take,
		pacer:    rate.NewLimiter(limit, 1),
		now:      time.Now,
	}
}

// Reconcile runs one pass over every distinct stored speaker name. The
// candidate map is written after every new candidate so an interrupted pass
// keeps all completed work. Failures for a single name are logged and skipped.
func (r *Reconciler) Reconcile(ctx context.Context) (*driving.ReconcileReport, error) {
	if r.registry == nil {
		return nil, domain.ErrRegistryUnavailable
	}
	if r.upstream == nil {
		return nil, domain.ErrUpstreamUnavailable
	}

	names, err := r.registry.DistinctSpeakerNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speaker names: %w", err)
	}

	candidates, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	if candidates == nil {
		candidates = make(domain.CandidateMap)
	}

	logger.Section("Reconcile")
	logger.Info("Reconciling %d speaker names", len(names))

	report := &driving.ReconcileReport{Names: len(names)}
	for _, name := range names {
		if err := r.pacer.Wait(ctx); err != nil {
			return report, err
		}

		best, score, found, err := r.bestMatch(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			logger.Error("Reconcile %q: %v", name, err)
			report.Failed++
			continue
		}
		if !found || best.Name == name {
			continue
		}

		report.Discrepancies++
		logger.Info("Speaker %q: registry has %q (score %.3f)", name, best.Name, score)
		if score < domain.MatchThreshold {
			continue
		}

		candidate := domain.MatchCandidate{
			ObservedName:  name,
			SuggestedName: best.Name,
			Score:         score,
			Result:        best.Raw,
			DiscoveredAt:  r.now(),
		}
		if !candidates.Offer(candidate) {
			continue
		}
		if err := r.persist(ctx, candidates); err != nil {
			return report, fmt.Errorf("save candidates: %w", err)
		}
		report.Persisted++
	}

	logger.Info("Reconcile complete: %d names, %d discrepancies, %d persisted, %d failed",
		report.Names, report.Discrepancies, report.Persisted, report.Failed)
	return report, nil
}

// bestMatch returns the highest scoring search result for name. The first
// result wins ties.
func (r *Reconciler) bestMatch(ctx context.Context, name string) (domain.MemberSearchResult, float64, bool, error) {
	results, _, err := r.upstream.SearchMembers(ctx, name, 0, r.take)
	if err != nil {
		return domain.MemberSearchResult{}, 0, false, err
	}

	observed := comparableName(name)
	var (
		best      domain.MemberSearchResult
		bestScore = -1.0
	)
	for _, result := range results {
		score := Similarity(observed, comparableName(result.Name))
		if score > bestScore {
			best, bestScore = result, score
		}
	}
	if bestScore < 0 {
		return domain.MemberSearchResult{}, 0, false, nil
	}
	return best, bestScore, true, nil
}

func (r *Reconciler) persist(ctx context.Context, candidates domain.CandidateMap) error {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()
	return r.store.Save(ctx, candidates)
}
