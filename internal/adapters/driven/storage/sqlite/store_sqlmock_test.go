package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
)

var errDriver = errors.New("driver failure")

// setupMockStore returns a Store over a sqlmock connection. Migrations are
// not run; each test declares the statements it expects.
func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fixed := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	return &Store{db: db, path: "mock.db", now: func() time.Time { return fixed }}, mock
}

func TestMemberRegistry_QueryError(t *testing.T) {
	store, mock := setupMockStore(t)
	mock.ExpectQuery(`SELECT id, name, constituency, affiliation, role\s+FROM members`).
		WillReturnError(errDriver)

	_, err := store.MemberRegistry().QueryMembersByID(context.Background(), []int{1, 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDriver)
	assert.Contains(t, err.Error(), "querying members")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRegistry_QueryChunksLargeIDLists(t *testing.T) {
	store, mock := setupMockStore(t)
	columns := []string{"id", "name", "constituency", "affiliation", "role"}
	mock.ExpectQuery(`FROM members WHERE id IN`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "Ann Smith", "Ayr", "Labour", ""))
	mock.ExpectQuery(`FROM members WHERE id IN`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(501, "Bob Jones", "Bath", "Conservative", ""))

	ids := make([]int, maxQueryParams+1)
	for i := range ids {
		ids[i] = i + 1
	}
	members, err := store.MemberRegistry().QueryMembersByID(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, 501, members[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRegistry_DistinctSpeakerNamesRowError(t *testing.T) {
	store, mock := setupMockStore(t)
	rows := sqlmock.NewRows([]string{"name"}).
		AddRow("Ann Smith").
		AddRow("Bob Jones").
		RowError(1, errDriver)
	mock.ExpectQuery(`SELECT DISTINCT name FROM attribution_entries`).WillReturnRows(rows)

	_, err := store.MemberRegistry().DistinctSpeakerNames(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errDriver)
	assert.Contains(t, err.Error(), "iterating speaker names")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRegistry_UpsertError(t *testing.T) {
	store, mock := setupMockStore(t)
	mock.ExpectExec(`INSERT INTO members`).
		WithArgs(7, "Ann Smith", "Ayr", "Labour", "", "2024-03-14T12:00:00Z").
		WillReturnError(errDriver)

	err := store.MemberRegistry().UpsertMember(context.Background(),
		domain.MemberRecord{ID: 7, Name: "Ann Smith", Constituency: "Ayr", Affiliation: "Labour"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upserting member 7")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProceedingStore_SaveRollsBackOnEntryFailure(t *testing.T) {
	store, mock := setupMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO proceedings`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`DELETE FROM attribution_entries`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT OR REPLACE INTO attribution_entries`).WillReturnError(errDriver)
	mock.ExpectRollback()

	rec := testRecord("rec-1", domain.AttributionEntry{Name: "Ann Smith", Value: "I beg to move."})
	err := store.ProceedingStore().Save(context.Background(), []domain.ProceedingRecord{rec})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDriver)
	assert.Contains(t, err.Error(), "saving entry 0 of rec-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProceedingStore_SaveClearFailure(t *testing.T) {
	store, mock := setupMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO proceedings`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`DELETE FROM attribution_entries`).WillReturnError(errDriver)
	mock.ExpectRollback()

	err := store.ProceedingStore().Save(context.Background(), []domain.ProceedingRecord{testRecord("rec-1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clearing entries for rec-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProceedingStore_SaveBeginFailure(t *testing.T) {
	store, mock := setupMockStore(t)
	mock.ExpectBegin().WillReturnError(errDriver)

	err := store.ProceedingStore().Save(context.Background(), []domain.ProceedingRecord{testRecord("rec-1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beginning transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProceedingStore_SaveCommitFailure(t *testing.T) {
	store, mock := setupMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO proceedings`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`DELETE FROM attribution_entries`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errDriver)

	err := store.ProceedingStore().Save(context.Background(), []domain.ProceedingRecord{testRecord("rec-1")})
	assert.ErrorIs(t, err, errDriver)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProceedingStore_GetCorruptJSON(t *testing.T) {
	store, mock := setupMockStore(t)
	mock.ExpectQuery(`SELECT record_json FROM proceedings`).
		WithArgs("rec-1").
		WillReturnRows(sqlmock.NewRows([]string{"record_json"}).AddRow("{not json"))

	_, err := store.ProceedingStore().Get(context.Background(), "rec-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshalling record rec-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSittingDateCache_CorruptTimestamp(t *testing.T) {
	store, mock := setupMockStore(t)
	mock.ExpectQuery(`SELECT date, fetched_at FROM sitting_dates`).
		WithArgs(domain.LatestSittingKey).
		WillReturnRows(sqlmock.NewRows([]string{"date", "fetched_at"}).AddRow("2024-03-14", "yesterday"))

	_, err := store.SittingDateCache().Get(context.Background(), domain.LatestSittingKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "parsing fetched_at")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSittingDateCache_PutError(t *testing.T) {
	store, mock := setupMockStore(t)
	fetched := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO sitting_dates`).
		WithArgs("Lords", "2024-03-13", "2024-03-14T09:00:00Z").
		WillReturnError(errDriver)

	err := store.SittingDateCache().Put(context.Background(),
		domain.SittingDateEntry{Key: "Lords", Date: "2024-03-13", FetchedAt: fetched})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving sitting date Lords")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigration_RollsBackOnFailure(t *testing.T) {
	store, mock := setupMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE broken`).WillReturnError(errDriver)
	mock.ExpectRollback()

	err := store.applyMigration(9, "CREATE TABLE broken (")
	assert.ErrorIs(t, err, errDriver)
	assert.NoError(t, mock.ExpectationsWereMet())
}
