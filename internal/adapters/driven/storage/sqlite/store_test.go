package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func testRecord(id string, entries ...domain.AttributionEntry) domain.ProceedingRecord {
	return domain.ProceedingRecord{
		ExternalID: id,
		Title:      "Debate " + id,
		Date:       "2024-03-14",
		Chamber:    domain.ChamberCommons,
		Section:    "Main Chamber",
		Entries:    entries,
		Overview:   domain.Overview{RecordType: domain.RecordTypeDebate},
	}
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "hansard.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "nested", "path", "to", "db")

	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	for _, table := range []string{"members", "proceedings", "attribution_entries", "sitting_dates"} {
		var exists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&exists)
		require.NoError(t, err)
		assert.Equal(t, 1, exists, "table %s should exist", table)
	}
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store := setupTestStore(t)

	var fkEnabled int
	require.NoError(t, store.db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled))
	assert.Equal(t, 1, fkEnabled)
}

func TestStore_WALMode(t *testing.T) {
	store := setupTestStore(t)

	var journalMode string
	require.NoError(t, store.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)
}

func TestStore_MigrationIdempotency(t *testing.T) {
	tempDir := t.TempDir()

	store1, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store1.Close())

	store2, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store2.Close()

	var count int
	require.NoError(t, store2.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStore_Close(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.Error(t, store.db.Ping())
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

// ==================== MemberRegistry Tests ====================

func TestMemberRegistry_UpsertAndQuery(t *testing.T) {
	store := setupTestStore(t)
	registry := store.MemberRegistry()
	ctx := context.Background()

	require.NoError(t, registry.UpsertMember(ctx, domain.MemberRecord{ID: 4321, Name: "Jane Doe", Constituency: "Anytown", Affiliation: "Labour"}))
	require.NoError(t, registry.UpsertMember(ctx, domain.MemberRecord{ID: 17, Name: "John Roe", Role: "Secretary of State"}))

	members, err := registry.QueryMembersByID(ctx, []int{4321, 17, 99})
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, 17, members[0].ID)
	assert.Equal(t, "Secretary of State", members[0].Role)
	assert.Equal(t, "Anytown", members[1].Constituency)
}

func TestMemberRegistry_UpsertReplaces(t *testing.T) {
	store := setupTestStore(t)
	registry := store.MemberRegistry()
	ctx := context.Background()

	require.NoError(t, registry.UpsertMember(ctx, domain.MemberRecord{ID: 1, Name: "Jane Doe", Affiliation: "Labour"}))
	require.NoError(t, registry.UpsertMember(ctx, domain.MemberRecord{ID: 1, Name: "Jane Doe", Affiliation: "Independent"}))

	members, err := registry.QueryMembersByID(ctx, []int{1})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Independent", members[0].Affiliation)
}

func TestMemberRegistry_UpsertRejectsZeroID(t *testing.T) {
	store := setupTestStore(t)

	err := store.MemberRegistry().UpsertMember(context.Background(), domain.MemberRecord{Name: "Nobody"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMemberRegistry_QueryManyIDs(t *testing.T) {
	store := setupTestStore(t)
	registry := store.MemberRegistry()
	ctx := context.Background()

	ids := make([]int, 0, maxQueryParams+10)
	for i := 1; i <= maxQueryParams+10; i++ {
		ids = append(ids, i)
	}
	require.NoError(t, registry.UpsertMember(ctx, domain.MemberRecord{ID: 3, Name: "Early"}))
	require.NoError(t, registry.UpsertMember(ctx, domain.MemberRecord{ID: maxQueryParams + 5, Name: "Late"}))

	members, err := registry.QueryMembersByID(ctx, ids)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestMemberRegistry_QueryEmpty(t *testing.T) {
	store := setupTestStore(t)

	members, err := store.MemberRegistry().QueryMembersByID(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestMemberRegistry_DistinctSpeakerNames(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	parent := testRecord("A",
		domain.AttributionEntry{Name: "Jane Doe", Value: "one"},
		domain.AttributionEntry{Role: "Speaker", Value: "Order."},
	)
	parent.Children = []domain.ProceedingRecord{testRecord("A1",
		domain.AttributionEntry{Name: "Zed Child", Value: "two"},
		domain.AttributionEntry{Name: "Jane Doe", Value: "three"},
	)}
	require.NoError(t, store.ProceedingStore().Save(ctx, []domain.ProceedingRecord{parent}))

	names, err := store.MemberRegistry().DistinctSpeakerNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe", "Zed Child"}, names)
}

func TestMemberRegistry_ContextCancellation(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.MemberRegistry().QueryMembersByID(ctx, []int{1})
	assert.Error(t, err)
}

// ==================== ProceedingStore Tests ====================

func TestProceedingStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	proceedings := store.ProceedingStore()
	ctx := context.Background()

	rec := testRecord("ABC123", domain.AttributionEntry{
		MemberID: 4321, Name: "Jane Doe", Constituency: "Anytown", Affiliation: "Labour", Value: "I beg to move.",
	})
	rec.ParentTitle = "Business"
	require.NoError(t, proceedings.Save(ctx, []domain.ProceedingRecord{rec}))

	got, err := proceedings.Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)
}

func TestProceedingStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.ProceedingStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProceedingStore_SaveReplacesEntries(t *testing.T) {
	store := setupTestStore(t)
	proceedings := store.ProceedingStore()
	ctx := context.Background()

	require.NoError(t, proceedings.Save(ctx, []domain.ProceedingRecord{testRecord("A",
		domain.AttributionEntry{Name: "Old Name", Value: "x"},
		domain.AttributionEntry{Name: "Other", Value: "y"},
	)}))
	require.NoError(t, proceedings.Save(ctx, []domain.ProceedingRecord{testRecord("A",
		domain.AttributionEntry{Name: "New Name", Value: "x"},
	)}))

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM attribution_entries WHERE proceeding_id = 'A'").Scan(&count))
	assert.Equal(t, 1, count)

	names, err := store.MemberRegistry().DistinctSpeakerNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"New Name"}, names)
}

func TestProceedingStore_RejectsInvalid(t *testing.T) {
	store := setupTestStore(t)

	err := store.ProceedingStore().Save(context.Background(), []domain.ProceedingRecord{
		testRecord("good"),
		{ExternalID: "no-title"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)

	_, err = store.ProceedingStore().Get(context.Background(), "good")
	assert.ErrorIs(t, err, domain.ErrNotFound, "nothing is written when any record is invalid")
}

func TestProceedingStore_ExistingIDs(t *testing.T) {
	store := setupTestStore(t)
	proceedings := store.ProceedingStore()
	ctx := context.Background()

	require.NoError(t, proceedings.Save(ctx, []domain.ProceedingRecord{testRecord("A"), testRecord("B")}))

	existing, err := proceedings.ExistingIDs(ctx, []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"A": true, "B": true}, existing)

	existing, err = proceedings.ExistingIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, existing)
}

// ==================== SittingDateCache Tests ====================

func TestSittingDateCache_PutAndGet(t *testing.T) {
	store := setupTestStore(t)
	cache := store.SittingDateCache()
	ctx := context.Background()

	fetched := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, cache.Put(ctx, domain.SittingDateEntry{Key: "commons", Date: "2024-03-14", FetchedAt: fetched}))

	got, err := cache.Get(ctx, "commons")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-14", got.Date)
	assert.True(t, fetched.Equal(got.FetchedAt))
}

func TestSittingDateCache_PutOverwrites(t *testing.T) {
	store := setupTestStore(t)
	cache := store.SittingDateCache()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, cache.Put(ctx, domain.SittingDateEntry{Key: domain.LatestSittingKey, Date: "2024-03-13", FetchedAt: now}))
	require.NoError(t, cache.Put(ctx, domain.SittingDateEntry{Key: domain.LatestSittingKey, Date: "2024-03-14", FetchedAt: now}))

	got, err := cache.Get(ctx, domain.LatestSittingKey)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-14", got.Date)
}

func TestSittingDateCache_Miss(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.SittingDateCache().Get(context.Background(), "lords")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	store1, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store1.ProceedingStore().Save(ctx, []domain.ProceedingRecord{testRecord("A")}))
	require.NoError(t, store1.Close())

	store2, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store2.Close()

	_, err = store2.ProceedingStore().Get(ctx, "A")
	assert.NoError(t, err)

	_, statErr := os.Stat(store2.Path())
	assert.NoError(t, statErr)
}
