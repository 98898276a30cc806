package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rashidmajid/docuflow/internal/core/domain"
	"github.com/rashidmajid/docuflow/internal/core/merge"
)

// ProfileRepository stores merged profile fields with per-field
// provenance rows.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) EnsureProfile(ctx context.Context, profileID string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO profiles (id, created_at, updated_at)
VALUES ($1, $2, $2)
ON CONFLICT (id) DO NOTHING
`, profileID, now)
	if err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetFields(ctx context.Context, profileID string) (map[string]any, map[string]domain.FieldSource, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT name, value, document_id, extracted_at, manually_edited
FROM profile_fields
WHERE profile_id = $1
`, profileID)
	if err != nil {
		return nil, nil, fmt.Errorf("query profile fields: %w", err)
	}
	defer rows.Close()

	return scanFieldRows(rows)
}

// MergeFields applies extracted candidate fields under the
// manual-edit veto. The current rows are read FOR UPDATE so two
// workers merging into one profile serialize on it.
func (r *ProfileRepository) MergeFields(ctx context.Context, profileID string, newFields map[string]any, documentID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin merge tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, `
SELECT name, value, document_id, extracted_at, manually_edited
FROM profile_fields
WHERE profile_id = $1
FOR UPDATE
`, profileID)
	if err != nil {
		return false, fmt.Errorf("lock profile fields: %w", err)
	}
	existing, sources, err := scanFieldRows(rows)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	updated, updatedSources, changed := merge.ToProfile(existing, sources, newFields, documentID, now)
	if !changed {
		return false, tx.Commit()
	}

	for name, value := range updated {
		src := updatedSources[name]
		if src.DocumentID != documentID || !src.ExtractedAt.Equal(now) {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return false, fmt.Errorf("marshal field %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO profile_fields (profile_id, name, value, document_id, extracted_at, manually_edited)
VALUES ($1, $2, $3, $4, $5, FALSE)
ON CONFLICT (profile_id, name) DO UPDATE
SET value = EXCLUDED.value, document_id = EXCLUDED.document_id, extracted_at = EXCLUDED.extracted_at
`, profileID, name, raw, documentID, now); err != nil {
			return false, fmt.Errorf("upsert field %s: %w", name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE profiles SET updated_at = $2 WHERE id = $1`, profileID, now); err != nil {
		return false, fmt.Errorf("touch profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit merge tx: %w", err)
	}
	return true, nil
}

// SetManualField records a human correction. The manually_edited mark
// makes the value immune to later document merges.
func (r *ProfileRepository) SetManualField(ctx context.Context, profileID, name string, value any, editedBy string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal field %s: %w", name, err)
	}
	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
INSERT INTO profile_fields (profile_id, name, value, document_id, extracted_at, manually_edited)
VALUES ($1, $2, $3, $4, $5, TRUE)
ON CONFLICT (profile_id, name) DO UPDATE
SET value = EXCLUDED.value, document_id = EXCLUDED.document_id, extracted_at = EXCLUDED.extracted_at, manually_edited = TRUE
`, profileID, name, raw, "manual:"+editedBy, now)
	if err != nil {
		return fmt.Errorf("set manual field: %w", err)
	}
	return nil
}

func scanFieldRows(rows *sql.Rows) (map[string]any, map[string]domain.FieldSource, error) {
	fields := make(map[string]any)
	sources := make(map[string]domain.FieldSource)

	for rows.Next() {
		var name string
		var raw []byte
		var src domain.FieldSource
		if err := rows.Scan(&name, &raw, &src.DocumentID, &src.ExtractedAt, &src.ManuallyEdited); err != nil {
			return nil, nil, fmt.Errorf("scan profile field: %w", err)
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, nil, fmt.Errorf("unmarshal field %s: %w", name, err)
		}
		fields[name] = value
		sources[name] = src
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate profile fields: %w", err)
	}
	return fields, sources, nil
}
