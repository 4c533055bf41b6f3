package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
)

const crawlDate = "2024-03-14"

func TestCrawler_FlattensTreesInOrder(t *testing.T) {
	up := newFakeUpstream()
	up.sections[dayKey(domain.ChamberCommons, crawlDate)] = []string{"Main Chamber", "Westminster Hall"}
	up.trees[treeKey(domain.ChamberCommons, crawlDate, "Main Chamber")] = []domain.SectionNode{
		group("Oral Answers",
			group("Treasury", leaf("A1", "Inflation"), leaf("A2", "Growth")),
			group("", leaf("A3", "Topical Questions")),
		),
		leaf("A4", "Point of Order"),
	}
	up.trees[treeKey(domain.ChamberCommons, crawlDate, "Westminster Hall")] = []domain.SectionNode{
		group("Bus Services", leaf("B1", "Rural Bus Services")),
	}

	leaves, err := NewCrawler(up, noDelay).Crawl(context.Background(), crawlDate, domain.ChamberCommons)

	require.NoError(t, err)
	require.Len(t, leaves, 5)
	ids := make([]string, len(leaves))
	for i, l := range leaves {
		ids[i] = l.ExternalID
	}
	assert.Equal(t, []string{"A1", "A2", "A3", "A4", "B1"}, ids)

	assert.Equal(t, "Treasury", leaves[0].ParentTitle)
	assert.Equal(t, "Oral Answers", leaves[2].ParentTitle, "untitled group inherits its parent's title")
	assert.Empty(t, leaves[3].ParentTitle)
	assert.Equal(t, domain.LeafRef{
		ExternalID:  "B1",
		Title:       "Rural Bus Services",
		ParentTitle: "Bus Services",
		Date:        crawlDate,
		Chamber:     domain.ChamberCommons,
		Section:     "Westminster Hall",
	}, leaves[4])
}

func TestCrawler_SkipsFailedAndMalformedSections(t *testing.T) {
	up := newFakeUpstream()
	up.sections[dayKey(domain.ChamberLords, crawlDate)] = []string{"Broken", "Scalar", "Good"}
	up.treeErr[treeKey(domain.ChamberLords, crawlDate, "Broken")] = errUpstream
	up.treeErr[treeKey(domain.ChamberLords, crawlDate, "Scalar")] = domain.ErrMalformedResponse
	up.trees[treeKey(domain.ChamberLords, crawlDate, "Good")] = []domain.SectionNode{leaf("G1", "Good Leaf")}

	leaves, err := NewCrawler(up, noDelay).Crawl(context.Background(), crawlDate, domain.ChamberLords)

	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, "G1", leaves[0].ExternalID)
}

func TestCrawler_SectionListFailure(t *testing.T) {
	up := newFakeUpstream()
	up.sectionsErr[dayKey(domain.ChamberCommons, crawlDate)] = errUpstream

	_, err := NewCrawler(up, noDelay).Crawl(context.Background(), crawlDate, domain.ChamberCommons)

	assert.ErrorIs(t, err, errUpstream)
}

func TestCrawler_MalformedSectionListIsEmpty(t *testing.T) {
	up := newFakeUpstream()
	up.sectionsErr[dayKey(domain.ChamberCommons, crawlDate)] = fmt.Errorf("sections: %w", domain.ErrMalformedResponse)

	leaves, err := NewCrawler(up, noDelay).Crawl(context.Background(), crawlDate, domain.ChamberCommons)

	require.NoError(t, err)
	assert.NotNil(t, leaves)
	assert.Empty(t, leaves)
	assert.Empty(t, up.treeStarts)
}

func TestCrawler_CrawlWithRewindSkipsMalformedDay(t *testing.T) {
	up := newFakeUpstream()
	up.sectionsErr[dayKey(domain.ChamberCommons, crawlDate)] = domain.ErrMalformedResponse
	up.sections[dayKey(domain.ChamberCommons, "2024-03-13")] = []string{"Main Chamber"}
	up.trees[treeKey(domain.ChamberCommons, "2024-03-13", "Main Chamber")] = []domain.SectionNode{leaf("C1", "Earlier")}

	day, leaves, err := NewCrawler(up, noDelay).CrawlWithRewind(
		context.Background(), crawlDate, []domain.Chamber{domain.ChamberCommons}, 3)

	require.NoError(t, err)
	assert.Equal(t, "2024-03-13", day)
	require.Len(t, leaves, 1)
	assert.Equal(t, "C1", leaves[0].ExternalID)
}

func TestCrawler_DeduplicatesLeaves(t *testing.T) {
	up := newFakeUpstream()
	up.sections[dayKey(domain.ChamberCommons, crawlDate)] = []string{"One", "Two"}
	up.trees[treeKey(domain.ChamberCommons, crawlDate, "One")] = []domain.SectionNode{leaf("X", "Shared")}
	up.trees[treeKey(domain.ChamberCommons, crawlDate, "Two")] = []domain.SectionNode{leaf("X", "Shared"), leaf("Y", "Own")}

	leaves, err := NewCrawler(up, noDelay).Crawl(context.Background(), crawlDate, domain.ChamberCommons)

	require.NoError(t, err)
	require.Len(t, leaves, 2)
	assert.Equal(t, "One", leaves[0].Section)
	assert.Equal(t, "Y", leaves[1].ExternalID)
}

func TestCrawler_PacesBatches(t *testing.T) {
	up := newFakeUpstream()
	sections := make([]string, 7)
	for i := range sections {
		sections[i] = fmt.Sprintf("S%d", i)
		up.trees[treeKey(domain.ChamberCommons, crawlDate, sections[i])] = []domain.SectionNode{leaf(sections[i], "Leaf")}
	}
	up.sections[dayKey(domain.ChamberCommons, crawlDate)] = sections

	delay := 50 * time.Millisecond
	crawler := NewCrawler(up, PipelineConfig{BatchSize: 5, BatchDelay: delay})

	start := time.Now()
	leaves, err := crawler.Crawl(context.Background(), crawlDate, domain.ChamberCommons)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, leaves, 7)
	assert.GreaterOrEqual(t, elapsed, delay, "one pause between the two batches")
	assert.Less(t, elapsed, 2*delay+40*time.Millisecond, "no pause after the last batch")
	assert.Len(t, up.treeStarts, 7)
}

func TestCrawler_CrawlWithRewind(t *testing.T) {
	up := newFakeUpstream()
	up.sections[dayKey(domain.ChamberLords, "2024-03-12")] = []string{"Lords Chamber"}
	up.trees[treeKey(domain.ChamberLords, "2024-03-12", "Lords Chamber")] = []domain.SectionNode{leaf("L1", "Found")}

	day, leaves, err := NewCrawler(up, noDelay).CrawlWithRewind(
		context.Background(), crawlDate, domain.Chambers, 5)

	require.NoError(t, err)
	assert.Equal(t, "2024-03-12", day)
	require.Len(t, leaves, 1)
	assert.Equal(t, domain.ChamberLords, leaves[0].Chamber)
	assert.Equal(t, 6, up.sectionCalls, "three days across two chambers")
}

func TestCrawler_CrawlWithRewindExhausted(t *testing.T) {
	up := newFakeUpstream()

	day, leaves, err := NewCrawler(up, noDelay).CrawlWithRewind(
		context.Background(), crawlDate, []domain.Chamber{domain.ChamberCommons}, 3)

	require.NoError(t, err)
	assert.Empty(t, day)
	assert.Empty(t, leaves)
	assert.Equal(t, 3, up.sectionCalls)
}

func TestCrawler_CrawlWithRewindDefaultDays(t *testing.T) {
	up := newFakeUpstream()

	_, _, err := NewCrawler(up, noDelay).CrawlWithRewind(
		context.Background(), crawlDate, []domain.Chamber{domain.ChamberCommons}, 0)

	require.NoError(t, err)
	assert.Equal(t, DefaultRewindDays, up.sectionCalls)
}

func TestCrawler_CrawlWithRewindAllFailed(t *testing.T) {
	up := newFakeUpstream()
	for day := 14; day > 12; day-- {
		up.sectionsErr[dayKey(domain.ChamberCommons, fmt.Sprintf("2024-03-%02d", day))] = errUpstream
	}

	_, _, err := NewCrawler(up, noDelay).CrawlWithRewind(
		context.Background(), crawlDate, []domain.Chamber{domain.ChamberCommons}, 2)

	assert.ErrorIs(t, err, errUpstream)
}

func TestCrawler_CrawlWithRewindInvalidDate(t *testing.T) {
	_, _, err := NewCrawler(newFakeUpstream(), noDelay).CrawlWithRewind(
		context.Background(), "14/03/2024", domain.Chambers, 1)

	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestCrawler_NoUpstream(t *testing.T) {
	_, err := NewCrawler(nil, noDelay).Crawl(context.Background(), crawlDate, domain.ChamberCommons)

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
