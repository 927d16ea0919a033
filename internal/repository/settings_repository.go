package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medtrain/cert-registry-api/internal/models"
)

// SettingsRepository persists officer settings entries.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// ListOfficerKeys returns all rows whose key carries the officer prefix.
func (r *SettingsRepository) ListOfficerKeys(ctx context.Context) ([]models.SettingRow, error) {
	const query = `SELECT key, value, updated_at FROM settings WHERE key LIKE 'off%' ORDER BY key ASC`
	var rows []models.SettingRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return rows, nil
}

// BulkUpsert writes the whole settings object inside one transaction so
// partial key updates are never observable.
func (r *SettingsRepository) BulkUpsert(ctx context.Context, rows []models.SettingRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings tx: %w", err)
	}
	const query = `INSERT INTO settings (key, value, updated_at)
VALUES (:key, :value, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	for i := range rows {
		rows[i].UpdatedAt = time.Now().UTC()
		if _, err := tx.NamedExecContext(ctx, query, rows[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert setting %s: %w", rows[i].Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings tx: %w", err)
	}
	return nil
}
