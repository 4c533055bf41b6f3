package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/hansard-cli/internal/attribution"
	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hansard-cli/internal/logger"
)

// DebateCache holds assembled records for the lifetime of one ingestion run.
type DebateCache struct {
	mu      sync.RWMutex
	records map[string]domain.ProceedingRecord
}

// NewDebateCache creates an empty cache.
func NewDebateCache() *DebateCache {
	return &DebateCache{records: make(map[string]domain.ProceedingRecord)}
}

// Get returns the cached record for id.
func (c *DebateCache) Get(id string) (domain.ProceedingRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[id]
	return rec, ok
}

// Put caches rec under its external identifier.
func (c *DebateCache) Put(rec domain.ProceedingRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[rec.ExternalID] = rec
}

// Len returns the number of cached records.
func (c *DebateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Enricher turns leaf references into fully assembled proceeding records.
type Enricher struct {
	upstream   driven.Upstream
	members    *MemberResolver
	cache      *DebateCache
	batchSize  int
	batchDelay time.Duration
}

// NewEnricher creates an enricher. cache may be nil, in which case a new one is created.
func NewEnricher(upstream driven.Upstream, members *MemberResolver, cache *DebateCache, cfg PipelineConfig) *Enricher {
	cfg = cfg.withDefaults()
	if cache == nil {
		cache = NewDebateCache()
	}
	return &Enricher{
		upstream:   upstream,
		members:    members,
		cache:      cache,
		batchSize:  cfg.BatchSize,
		batchDelay: cfg.BatchDelay,
	}
}

// Cache returns the enricher's debate cache.
func (e *Enricher) Cache() *DebateCache {
	return e.cache
}

// Enrich fetches and assembles the record behind leaf. A record already in
// the debate cache is returned without any network call.
func (e *Enricher) Enrich(ctx context.Context, leaf domain.LeafRef) (*domain.ProceedingRecord, error) {
	if rec, ok := e.cache.Get(leaf.ExternalID); ok {
		return &rec, nil
	}
	if e.upstream == nil {
		return nil, domain.ErrUpstreamUnavailable
	}

	var (
		raw      *domain.RawRecord
		speakers []domain.RawSpeaker
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = e.upstream.Record(gctx, leaf.ExternalID)
		return err
	})
	g.Go(func() error {
		var err error
		speakers, err = e.upstream.Speakers(gctx, leaf.ExternalID)
		if err != nil && gctx.Err() == nil {
			logger.Debug("Speakers for %s unavailable: %v", leaf.ExternalID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty body for %q", domain.ErrMalformedResponse, leaf.ExternalID)
	}

	rec := assemble(*raw, leaf, speakerAttributions(speakers))
	if !rec.Valid() {
		return nil, fmt.Errorf("%w: leaf %q", domain.ErrInvalidRecord, leaf.ExternalID)
	}

	e.backfill(ctx, &rec)
	finalize(&rec)

	e.cache.Put(rec)
	return &rec, nil
}

// EnrichAll enriches leaves in batches, preserving input order. Leaves that
// fail are logged and left out; the number of failures is returned.
func (e *Enricher) EnrichAll(ctx context.Context, leaves []domain.LeafRef) ([]domain.ProceedingRecord, int, error) {
	results := make([]*domain.ProceedingRecord, len(leaves))
	err := forEachBatch(ctx, len(leaves), e.batchSize, e.batchDelay, func(ctx context.Context, i int) error {
		rec, err := e.Enrich(ctx, leaves[i])
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("Enrich %s (%s): %v", leaves[i].ExternalID, leaves[i].Title, err)
			return nil
		}
		results[i] = rec
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	records := make([]domain.ProceedingRecord, 0, len(leaves))
	failed := 0
	for _, rec := range results {
		if rec == nil {
			failed++
			continue
		}
		records = append(records, *rec)
	}
	return records, failed, nil
}

// speakerAttributions indexes speaker list attribution text by member id.
func speakerAttributions(speakers []domain.RawSpeaker) map[int]string {
	byID := make(map[int]string, len(speakers))
	for _, s := range speakers {
		if s.MemberID == 0 {
			continue
		}
		text := s.AttributedTo
		if text == "" {
			text = s.Name
		}
		if text != "" {
			byID[s.MemberID] = text
		}
	}
	return byID
}

// assemble builds a record from its raw body, parsing every attribution.
func assemble(raw domain.RawRecord, leaf domain.LeafRef, speakers map[int]string) domain.ProceedingRecord {
	rec := domain.ProceedingRecord{
		ExternalID:  firstNonEmpty(raw.ExternalID, leaf.ExternalID),
		Title:       firstNonEmpty(raw.Title, leaf.Title),
		ParentTitle: leaf.ParentTitle,
		Date:        leaf.Date,
		Chamber:     leaf.Chamber,
		Section:     leaf.Section,
		Overview: domain.Overview{
			Location:   raw.Location,
			HRSTag:     raw.HRSTag,
			SourceURL:  raw.SourceURL,
			NextID:     raw.NextID,
			PreviousID: raw.PreviousID,
			RecordType: domain.DeriveRecordType(leaf.Section, raw.HRSTag),
		},
	}

	rec.Entries = make([]domain.AttributionEntry, 0, len(raw.Items))
	for _, item := range raw.Items {
		rec.Entries = append(rec.Entries, parseItem(item, speakers))
	}

	for _, child := range raw.Children {
		childLeaf := leaf
		childLeaf.ExternalID = child.ExternalID
		childLeaf.Title = child.Title
		childLeaf.ParentTitle = rec.Title
		childRec := assemble(child, childLeaf, speakers)
		if !childRec.Valid() {
			logger.Debug("Dropping child of %s without identifier or title", rec.ExternalID)
			continue
		}
		rec.Children = append(rec.Children, childRec)
	}
	return rec
}

func parseItem(item domain.RawItem, speakers map[int]string) domain.AttributionEntry {
	entry := domain.AttributionEntry{
		MemberID:    item.MemberID,
		Value:       attribution.StripTags(item.Value),
		Timecode:    item.Timecode,
		Attribution: strings.TrimSpace(item.AttributedTo),
	}
	if entry.Attribution == "" && item.MemberID != 0 {
		entry.Attribution = speakers[item.MemberID]
	}
	if entry.Attribution == "" {
		return entry
	}

	id := attribution.Parse(entry.Attribution)
	if id.Empty() {
		logger.Debug("Unrecognised attribution %q", entry.Attribution)
		return entry
	}
	entry.Name = id.Name
	entry.Role = id.Role
	entry.Constituency = id.Constituency
	entry.Affiliation = id.Affiliation
	return entry
}

// backfill resolves every entry that has a member id but no name or role.
// Ids are collected across the whole record tree so repeated speakers share
// one registry query; the result map serves as the per-record member cache.
func (e *Enricher) backfill(ctx context.Context, rec *domain.ProceedingRecord) {
	var outstanding []int
	walkEntries(rec, func(entry *domain.AttributionEntry) {
		if entry.MemberID != 0 && !entry.Identified() {
			outstanding = append(outstanding, entry.MemberID)
		}
	})
	if len(outstanding) == 0 {
		return
	}

	members, err := e.members.ResolveMembers(ctx, outstanding)
	if err != nil {
		logger.Warn("Record %s: member lookup failed, leaving entries unresolved: %v", rec.ExternalID, err)
		return
	}

	walkEntries(rec, func(entry *domain.AttributionEntry) {
		if entry.MemberID == 0 || entry.Identified() {
			return
		}
		if m, ok := members[entry.MemberID]; ok {
			entry.Backfill(m)
		}
	})
}

// finalize applies the raw-name fallback and drops bare timecode stamps.
func finalize(rec *domain.ProceedingRecord) {
	kept := rec.Entries[:0]
	for _, entry := range rec.Entries {
		if !entry.Identified() && entry.Attribution != "" {
			entry.Name = attribution.RawName(entry.Attribution)
		}
		if entry.MemberID == 0 && !entry.Identified() && attribution.IsTimecode(entry.Value) {
			continue
		}
		kept = append(kept, entry)
	}
	rec.Entries = kept

	for i := range rec.Children {
		finalize(&rec.Children[i])
	}
}

func walkEntries(rec *domain.ProceedingRecord, fn func(*domain.AttributionEntry)) {
	for i := range rec.Entries {
		fn(&rec.Entries[i])
	}
	for i := range rec.Children {
		walkEntries(&rec.Children[i], fn)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
