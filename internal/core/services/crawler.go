package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hansard-cli/internal/logger"
)

// Crawler expands a sitting day's section trees into leaf references.
type Crawler struct {
	upstream   driven.Upstream
	batchSize  int
	batchDelay time.Duration
	rewindDays int
}

// NewCrawler creates a crawler using cfg's batching settings.
func NewCrawler(upstream driven.Upstream, cfg PipelineConfig) *Crawler {
	cfg = cfg.withDefaults()
	return &Crawler{
		upstream:   upstream,
		batchSize:  cfg.BatchSize,
		batchDelay: cfg.BatchDelay,
		rewindDays: cfg.RewindDays,
	}
}

// Crawl returns every leaf reachable from the section trees of date and
// chamber, in section order then tree order. A section whose tree cannot
// be fetched or is malformed contributes no leaves, and a malformed section
// list yields no leaves at all. Other section list failures are returned.
func (c *Crawler) Crawl(ctx context.Context, date string, chamber domain.Chamber) ([]domain.LeafRef, error) {
	if c.upstream == nil {
		return nil, domain.ErrUpstreamUnavailable
	}

	sections, err := c.upstream.SectionsForDay(ctx, date, chamber)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedResponse) {
			logger.Warn("Section list (%s %s) is not a list, treating as empty", chamber, date)
			return []domain.LeafRef{}, nil
		}
		return nil, fmt.Errorf("list sections: %w", err)
	}
	logger.Debug("Crawling %d sections for %s %s", len(sections), chamber, date)

	perSection := make([][]domain.LeafRef, len(sections))
	err = forEachBatch(ctx, len(sections), c.batchSize, c.batchDelay, func(ctx context.Context, i int) error {
		perSection[i] = c.crawlSection(ctx, date, chamber, sections[i])
		return nil
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var leaves []domain.LeafRef
	for _, refs := range perSection {
		for _, ref := range refs {
			if seen[ref.ExternalID] {
				continue
			}
			seen[ref.ExternalID] = true
			leaves = append(leaves, ref)
		}
	}
	return leaves, nil
}

func (c *Crawler) crawlSection(ctx context.Context, date string, chamber domain.Chamber, section string) []domain.LeafRef {
	forest, err := c.upstream.SectionTree(ctx, date, chamber, section)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedResponse) {
			logger.Warn("Section %q (%s %s) is not a list, treating as empty", section, chamber, date)
		} else {
			logger.Warn("Section %q (%s %s) could not be fetched: %v", section, chamber, date, err)
		}
		return nil
	}

	base := domain.LeafRef{Date: date, Chamber: chamber, Section: section}
	var leaves []domain.LeafRef
	collectLeaves(forest, "", base, &leaves)
	return leaves
}

// collectLeaves walks nodes depth-first. Group titles flow down to their
// descendants as ParentTitle; an untitled group keeps its parent's title.
func collectLeaves(nodes []domain.SectionNode, parentTitle string, base domain.LeafRef, out *[]domain.LeafRef) {
	for _, node := range nodes {
		if node.IsLeaf() {
			ref := base
			ref.ExternalID = node.ExternalID
			ref.Title = node.Title
			ref.ParentTitle = parentTitle
			*out = append(*out, ref)
			continue
		}

		title := parentTitle
		if node.Title != "" {
			title = node.Title
		}
		collectLeaves(node.Children, title, base, out)
	}
}

// CrawlWithRewind crawls date for every chamber, stepping back one day at a
// time until some chamber yields a leaf or maxDays days have been tried.
// maxDays of zero or less uses the crawler's configured rewind.
// It returns the date that produced leaves, or an empty result when none did.
func (c *Crawler) CrawlWithRewind(
	ctx context.Context, date string, chambers []domain.Chamber, maxDays int,
) (string, []domain.LeafRef, error) {
	start, err := domain.ParseSittingDate(date)
	if err != nil {
		return "", nil, err
	}
	if maxDays <= 0 {
		maxDays = c.rewindDays
	}

	var errs []error
	attempts := 0
	for day := 0; day < maxDays; day++ {
		current := start.AddDate(0, 0, -day).Format(domain.DateLayout)

		var leaves []domain.LeafRef
		for _, chamber := range chambers {
			attempts++
			found, err := c.Crawl(ctx, current, chamber)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return "", nil, ctxErr
				}
				logger.Warn("Crawl %s %s failed: %v", chamber, current, err)
				errs = append(errs, fmt.Errorf("%s %s: %w", chamber, current, err))
				continue
			}
			leaves = append(leaves, found...)
		}

		if len(leaves) > 0 {
			logger.Info("Found %d leaves for %s", len(leaves), current)
			return current, leaves, nil
		}
		logger.Info("No proceedings for %s, rewinding", current)
	}

	if attempts > 0 && len(errs) == attempts {
		return "", nil, errors.Join(errs...)
	}
	return "", nil, nil
}
