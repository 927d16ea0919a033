package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medtrain/cert-registry-api/internal/models"
)

// DraftRepository persists per-user form drafts.
type DraftRepository struct {
	db *sqlx.DB
}

// NewDraftRepository constructs the repository.
func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// Get returns the draft for a user.
func (r *DraftRepository) Get(ctx context.Context, userID int64) (*models.Draft, error) {
	const query = `SELECT user_id, payload, updated_at FROM drafts WHERE user_id = $1 LIMIT 1`
	var draft models.Draft
	if err := r.db.GetContext(ctx, &draft, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return &draft, nil
}

// Upsert stores the draft payload for a user.
func (r *DraftRepository) Upsert(ctx context.Context, draft *models.Draft) error {
	draft.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO drafts (user_id, payload, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, draft.UserID, draft.Payload, draft.UpdatedAt); err != nil {
		return fmt.Errorf("upsert draft: %w", err)
	}
	return nil
}

// Delete clears the draft for a user.
func (r *DraftRepository) Delete(ctx context.Context, userID int64) error {
	const query = `DELETE FROM drafts WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
