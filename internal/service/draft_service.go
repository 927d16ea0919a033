package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/medtrain/cert-registry-api/internal/models"
	appErrors "github.com/medtrain/cert-registry-api/pkg/errors"
)

// maxDraftBytes bounds the opaque draft blob so a runaway client cannot
// grow rows without limit.
const maxDraftBytes = 256 << 10

type draftRepository interface {
	Get(ctx context.Context, userID int64) (*models.Draft, error)
	Upsert(ctx context.Context, draft *models.Draft) error
	Delete(ctx context.Context, userID int64) error
}

// DraftService stores one in-progress form payload per user. The
// payload is an opaque JSON document; the server validates shape and
// size only, never field content, so drafts may hold half-filled rows
// that would fail record validation.
type DraftService struct {
	repo   draftRepository
	logger *zap.Logger
}

// NewDraftService constructs a DraftService.
func NewDraftService(repo draftRepository, logger *zap.Logger) *DraftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{repo: repo, logger: logger}
}

// Get returns the caller's saved draft, or nil when none exists.
func (s *DraftService) Get(ctx context.Context, userID int64) (*models.Draft, error) {
	draft, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}
	return draft, nil
}

// Save replaces the caller's draft with the given payload.
func (s *DraftService) Save(ctx context.Context, userID int64, payload json.RawMessage) (*models.Draft, error) {
	if len(payload) == 0 || !json.Valid(payload) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "draft payload must be valid JSON")
	}
	if len(payload) > maxDraftBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "draft payload is too large")
	}

	draft := &models.Draft{UserID: userID, Payload: payload}
	if err := s.repo.Upsert(ctx, draft); err != nil {
		s.logger.Error("failed to save draft", zap.Int64("user_id", userID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save draft")
	}
	return draft, nil
}

// Clear removes the caller's draft. Clearing a missing draft succeeds.
func (s *DraftService) Clear(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear draft")
	}
	return nil
}
