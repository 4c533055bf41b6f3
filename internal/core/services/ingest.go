package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hansard-cli/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// Ingestor runs the ingestion pipeline for one sitting day.
type Ingestor struct {
	sitting  driving.SittingDateService
	upstream driven.Upstream
	members  *MemberResolver
	store    driven.ProceedingStore
	crawler  *Crawler
	config   PipelineConfig
}

// NewIngestor creates an ingestor. store may be nil, in which case records
// are returned but not persisted.
func NewIngestor(
	sitting driving.SittingDateService,
	upstream driven.Upstream,
	members *MemberResolver,
	store driven.ProceedingStore,
	cfg PipelineConfig,
) *Ingestor {
	cfg = cfg.withDefaults()
	return &Ingestor{
		sitting:  sitting,
		upstream: upstream,
		members:  members,
		store:    store,
		crawler:  NewCrawler(upstream, cfg),
		config:   cfg,
	}
}

// Ingest crawls, enriches and stores the proceedings of one sitting day.
// Each call owns a fresh debate cache.
func (i *Ingestor) Ingest(ctx context.Context, opts driving.IngestOptions) (*driving.IngestResult, error) {
	runID := uuid.NewString()
	logger.Section("Ingest " + runID)

	chambers := domain.Chambers
	if opts.Chamber != domain.ChamberAny {
		chambers = []domain.Chamber{opts.Chamber}
	}

	date, err := i.startDate(ctx, opts)
	if err != nil {
		return nil, err
	}

	day, leaves, err := i.crawler.CrawlWithRewind(ctx, date, chambers, opts.RewindDays)
	if err != nil {
		return nil, fmt.Errorf("crawl %s: %w", date, err)
	}

	result := &driving.IngestResult{RunID: runID, Date: day, Leaves: len(leaves)}
	if len(leaves) == 0 {
		logger.Info("No proceedings found from %s", date)
		return result, nil
	}

	if opts.SkipExisting {
		leaves, result.Skipped = i.filterExisting(ctx, leaves)
	}

	enricher := NewEnricher(i.upstream, i.members, NewDebateCache(), i.config)
	records, failed, err := enricher.EnrichAll(ctx, leaves)
	if err != nil {
		return nil, fmt.Errorf("enrich %s: %w", day, err)
	}
	result.Records = records
	result.Failed = failed

	if i.store != nil && len(records) > 0 {
		if err := i.store.Save(ctx, records); err != nil {
			return nil, fmt.Errorf("save records: %w", err)
		}
	}

	logger.Info("Ingest %s complete: %d records, %d skipped, %d failed",
		runID, len(records), result.Skipped, result.Failed)
	return result, nil
}

func (i *Ingestor) startDate(ctx context.Context, opts driving.IngestOptions) (string, error) {
	if opts.Date != "" {
		return domain.NormalizeSittingDate(opts.Date)
	}
	if i.sitting == nil {
		return "", fmt.Errorf("no date given: %w", domain.ErrUpstreamUnavailable)
	}
	return i.sitting.LastSittingDate(ctx, opts.Chamber)
}

// filterExisting drops leaves already in the store. When the store cannot
// be queried every leaf is kept.
func (i *Ingestor) filterExisting(ctx context.Context, leaves []domain.LeafRef) ([]domain.LeafRef, int) {
	if i.store == nil {
		return leaves, 0
	}

	ids := make([]string, len(leaves))
	for n, leaf := range leaves {
		ids[n] = leaf.ExternalID
	}
	existing, err := i.store.ExistingIDs(ctx, ids)
	if err != nil {
		logger.Warn("Could not check existing records, ingesting unfiltered: %v", err)
		return leaves, 0
	}

	fresh := make([]domain.LeafRef, 0, len(leaves))
	for _, leaf := range leaves {
		if !existing[leaf.ExternalID] {
			fresh = append(fresh, leaf)
		}
	}
	return fresh, len(leaves) - len(fresh)
}
