package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/medtrain/cert-registry-api/internal/dto"
	"github.com/medtrain/cert-registry-api/internal/models"
	appErrors "github.com/medtrain/cert-registry-api/pkg/errors"
)

type settingsRepository interface {
	ListOfficerKeys(ctx context.Context) ([]models.SettingRow, error)
	BulkUpsert(ctx context.Context, rows []models.SettingRow) error
}

// SettingsService manages the typed officer settings object. Unknown
// keys are rejected at this boundary rather than filtered downstream.
type SettingsService struct {
	repo   settingsRepository
	audit  auditLogger
	logger *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo settingsRepository, audit auditLogger, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, audit: audit, logger: logger}
}

// Get returns the current officer settings.
func (s *SettingsService) Get(ctx context.Context) (*models.OfficerSettings, error) {
	rows, err := s.repo.ListOfficerKeys(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	settings := &models.OfficerSettings{}
	settings.FromRows(rows)
	return settings, nil
}

// Update upserts the whole settings object transactionally. Any
// unrecognized key fails the request, listing the offending keys.
func (s *SettingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest, actor *models.AuthClaims) (*models.OfficerSettings, error) {
	if len(req) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no settings provided")
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	var invalid []string
	for key, value := range req {
		if !current.Set(key, strings.TrimSpace(value)) {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		details := make([]string, 0, len(invalid))
		for _, key := range invalid {
			details = append(details, fmt.Sprintf("%s is not a recognized setting", key))
		}
		return nil, appErrors.Validation(details)
	}

	if err := s.repo.BulkUpsert(ctx, current.Rows()); err != nil {
		s.logger.Error("failed to save settings", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}

	s.emitAudit(ctx, actor, req)

	return current, nil
}

func (s *SettingsService) emitAudit(ctx context.Context, actor *models.AuthClaims, req dto.UpdateSettingsRequest) {
	if s.audit == nil || actor == nil {
		return
	}
	// The signature payload is large and sensitive; record keys only.
	keys := make([]string, 0, len(req))
	for key := range req {
		keys = append(keys, key)
	}
	payload, _ := json.Marshal(map[string][]string{"keys": keys})
	resource := "settings"
	log := &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionSettingsUpdate,
		Resource:   resource,
		ResourceID: &resource,
		NewValues:  payload,
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record settings audit log", zap.Error(err))
	}
}
