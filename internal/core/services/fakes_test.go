package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
)

var errUpstream = errors.New("upstream failure")

// fakeUpstream is a scriptable driven.Upstream. Keys for per-day maps are
// "<chamber>|<date>" and for section trees "<chamber>|<date>|<section>".
type fakeUpstream struct {
	mu sync.Mutex

	lastSitting    map[domain.Chamber]string
	lastSittingErr error
	sections       map[string][]string
	sectionsErr    map[string]error
	trees          map[string][]domain.SectionNode
	treeErr        map[string]error
	records        map[string]*domain.RawRecord
	recordErr      map[string]error
	speakers       map[string][]domain.RawSpeaker
	speakersErr    error
	search         map[string][]domain.MemberSearchResult
	searchErr      map[string]error

	lastSittingCalls int
	sectionCalls     int
	recordCalls      map[string]int
	searchCalls      []string
	searchTakes      []int
	treeStarts       []time.Time
}

var _ driven.Upstream = (*fakeUpstream)(nil)

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		lastSitting: make(map[domain.Chamber]string),
		sections:    make(map[string][]string),
		sectionsErr: make(map[string]error),
		trees:       make(map[string][]domain.SectionNode),
		treeErr:     make(map[string]error),
		records:     make(map[string]*domain.RawRecord),
		recordErr:   make(map[string]error),
		speakers:    make(map[string][]domain.RawSpeaker),
		search:      make(map[string][]domain.MemberSearchResult),
		searchErr:   make(map[string]error),
		recordCalls: make(map[string]int),
	}
}

func dayKey(chamber domain.Chamber, date string) string {
	return string(chamber) + "|" + date
}

func treeKey(chamber domain.Chamber, date, section string) string {
	return dayKey(chamber, date) + "|" + section
}

func (f *fakeUpstream) LastSittingDate(_ context.Context, chamber domain.Chamber) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSittingCalls++
	if f.lastSittingErr != nil {
		return "", f.lastSittingErr
	}
	date, ok := f.lastSitting[chamber]
	if !ok {
		return "", domain.ErrNotFound
	}
	return date, nil
}

func (f *fakeUpstream) SectionsForDay(_ context.Context, date string, chamber domain.Chamber) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sectionCalls++
	if err := f.sectionsErr[dayKey(chamber, date)]; err != nil {
		return nil, err
	}
	return f.sections[dayKey(chamber, date)], nil
}

func (f *fakeUpstream) SectionTree(_ context.Context, date string, chamber domain.Chamber, section string) ([]domain.SectionNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.treeStarts = append(f.treeStarts, time.Now())
	key := treeKey(chamber, date, section)
	if err := f.treeErr[key]; err != nil {
		return nil, err
	}
	return f.trees[key], nil
}

func (f *fakeUpstream) Record(_ context.Context, externalID string) (*domain.RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordCalls[externalID]++
	if err := f.recordErr[externalID]; err != nil {
		return nil, err
	}
	rec, ok := f.records[externalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (f *fakeUpstream) Speakers(_ context.Context, externalID string) ([]domain.RawSpeaker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.speakersErr != nil {
		return nil, f.speakersErr
	}
	return f.speakers[externalID], nil
}

func (f *fakeUpstream) SearchMembers(_ context.Context, query string, _, take int) ([]domain.MemberSearchResult, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, query)
	f.searchTakes = append(f.searchTakes, take)
	if err := f.searchErr[query]; err != nil {
		return nil, 0, err
	}
	results := f.search[query]
	return results, len(results), nil
}

func (f *fakeUpstream) recordCallCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recordCalls[id]
}

// fakeRegistry counts queries and can be made to fail.
type fakeRegistry struct {
	mu      sync.Mutex
	members map[int]domain.MemberRecord
	names   []string
	err     error
	queries [][]int
}

var _ driven.MemberRegistry = (*fakeRegistry)(nil)

func (r *fakeRegistry) QueryMembersByID(_ context.Context, ids []int) ([]domain.MemberRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, append([]int(nil), ids...))
	if r.err != nil {
		return nil, r.err
	}
	var found []domain.MemberRecord
	for _, id := range ids {
		if m, ok := r.members[id]; ok {
			found = append(found, m)
		}
	}
	return found, nil
}

func (r *fakeRegistry) UpsertMember(_ context.Context, m domain.MemberRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members == nil {
		r.members = make(map[int]domain.MemberRecord)
	}
	r.members[m.ID] = m
	return nil
}

func (r *fakeRegistry) DistinctSpeakerNames(_ context.Context) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.names, nil
}

// failingSittingCache fails every operation.
type failingSittingCache struct{}

func (failingSittingCache) Get(context.Context, string) (*domain.SittingDateEntry, error) {
	return nil, errors.New("cache offline")
}

func (failingSittingCache) Put(context.Context, domain.SittingDateEntry) error {
	return errors.New("cache offline")
}

// noDelay disables batch pacing in tests that do not measure it.
var noDelay = PipelineConfig{BatchSize: DefaultBatchSize, BatchDelay: 0, RewindDays: DefaultRewindDays}

func leaf(id, title string) domain.SectionNode {
	return domain.SectionNode{ExternalID: id, Title: title}
}

func group(title string, children ...domain.SectionNode) domain.SectionNode {
	return domain.SectionNode{Title: title, Children: children}
}
