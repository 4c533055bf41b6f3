package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
)

// proceedingStore implements driven.ProceedingStore.
type proceedingStore struct {
	store *Store
}

var _ driven.ProceedingStore = (*proceedingStore)(nil)

// Save stores or replaces records. The full record is kept as JSON and its
// entries, children included, are flattened into attribution_entries.
func (s *proceedingStore) Save(ctx context.Context, records []domain.ProceedingRecord) error {
	for _, rec := range records {
		if !rec.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidRecord, rec.ExternalID)
		}
	}

	updatedAt := s.store.now().UTC().Format(timeLayout)
	return s.store.withTx(ctx, func(tx *sql.Tx) error {
		for _, rec := range records {
			if err := saveProceeding(ctx, tx, rec, updatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveProceeding(ctx context.Context, tx *sql.Tx, rec domain.ProceedingRecord, updatedAt string) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling record %s: %w", rec.ExternalID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO proceedings (external_id, title, parent_title, date, chamber, section, record_type, record_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			title = excluded.title,
			parent_title = excluded.parent_title,
			date = excluded.date,
			chamber = excluded.chamber,
			section = excluded.section,
			record_type = excluded.record_type,
			record_json = excluded.record_json,
			updated_at = excluded.updated_at
	`, rec.ExternalID, rec.Title, rec.ParentTitle, rec.Date, string(rec.Chamber), rec.Section,
		string(rec.Overview.RecordType), string(recordJSON), updatedAt)
	if err != nil {
		return fmt.Errorf("saving record %s: %w", rec.ExternalID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM attribution_entries WHERE proceeding_id = ?", rec.ExternalID); err != nil {
		return fmt.Errorf("clearing entries for %s: %w", rec.ExternalID, err)
	}
	return saveEntries(ctx, tx, rec.ExternalID, rec)
}

func saveEntries(ctx context.Context, tx *sql.Tx, proceedingID string, rec domain.ProceedingRecord) error {
	for i, e := range rec.Entries {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO attribution_entries
				(proceeding_id, record_id, position, member_id, name, role, constituency, affiliation, value, timecode)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, proceedingID, rec.ExternalID, i, e.MemberID, e.Name, e.Role, e.Constituency, e.Affiliation, e.Value, e.Timecode)
		if err != nil {
			return fmt.Errorf("saving entry %d of %s: %w", i, rec.ExternalID, err)
		}
	}
	for _, child := range rec.Children {
		if err := saveEntries(ctx, tx, proceedingID, child); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a record by external identifier.
func (s *proceedingStore) Get(ctx context.Context, externalID string) (*domain.ProceedingRecord, error) {
	var recordJSON string
	err := s.store.db.QueryRowContext(ctx,
		"SELECT record_json FROM proceedings WHERE external_id = ?", externalID,
	).Scan(&recordJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying record %s: %w", externalID, err)
	}

	var rec domain.ProceedingRecord
	if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling record %s: %w", externalID, err)
	}
	return &rec, nil
}

// ExistingIDs returns the subset of ids already stored.
func (s *proceedingStore) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	for start := 0; start < len(ids); start += maxQueryParams {
		chunk := ids[start:min(start+maxQueryParams, len(ids))]

		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		rows, err := s.store.db.QueryContext(ctx,
			"SELECT external_id FROM proceedings WHERE external_id IN ("+placeholders(len(chunk))+")", args...)
		if err != nil {
			return nil, fmt.Errorf("querying existing records: %w", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning record id: %w", err)
			}
			existing[id] = true
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("iterating record ids: %w", err)
		}
	}
	return existing, nil
}
