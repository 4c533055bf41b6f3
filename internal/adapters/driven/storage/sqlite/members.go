package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
)

// maxQueryParams keeps IN lists below SQLite's host parameter limit.
const maxQueryParams = 500

// memberRegistry implements driven.MemberRegistry.
type memberRegistry struct {
	store *Store
}

var _ driven.MemberRegistry = (*memberRegistry)(nil)

// QueryMembersByID returns the members matching ids. Unknown ids are omitted.
func (r *memberRegistry) QueryMembersByID(ctx context.Context, ids []int) ([]domain.MemberRecord, error) {
	var members []domain.MemberRecord
	for start := 0; start < len(ids); start += maxQueryParams {
		chunk := ids[start:min(start+maxQueryParams, len(ids))]

		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		rows, err := r.store.db.QueryContext(ctx, `
			SELECT id, name, constituency, affiliation, role
			FROM members WHERE id IN (`+placeholders(len(chunk))+`)
			ORDER BY id
		`, args...)
		if err != nil {
			return nil, fmt.Errorf("querying members: %w", err)
		}

		for rows.Next() {
			var m domain.MemberRecord
			if err := rows.Scan(&m.ID, &m.Name, &m.Constituency, &m.Affiliation, &m.Role); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning member: %w", err)
			}
			members = append(members, m)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("iterating members: %w", err)
		}
	}
	return members, nil
}

// UpsertMember stores or replaces a member.
func (r *memberRegistry) UpsertMember(ctx context.Context, member domain.MemberRecord) error {
	if member.ID == 0 {
		return domain.ErrInvalidInput
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO members (id, name, constituency, affiliation, role, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			constituency = excluded.constituency,
			affiliation = excluded.affiliation,
			role = excluded.role,
			updated_at = excluded.updated_at
	`, member.ID, member.Name, member.Constituency, member.Affiliation, member.Role,
		r.store.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upserting member %d: %w", member.ID, err)
	}
	return nil
}

// DistinctSpeakerNames lists every non-empty entry name, sorted.
func (r *memberRegistry) DistinctSpeakerNames(ctx context.Context) ([]string, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT DISTINCT name FROM attribution_entries
		WHERE name != ''
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying speaker names: %w", err)
	}
	defer rows.Close()

	var names []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning speaker name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating speaker names: %w", err)
	}
	return names, nil
}
