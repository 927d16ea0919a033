package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrain/cert-registry-api/internal/dto"
	"github.com/medtrain/cert-registry-api/internal/models"
	appErrors "github.com/medtrain/cert-registry-api/pkg/errors"
)

type settingsRepoStub struct {
	rows []models.SettingRow
	err  error
}

func (s *settingsRepoStub) ListOfficerKeys(ctx context.Context) ([]models.SettingRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func (s *settingsRepoStub) BulkUpsert(ctx context.Context, rows []models.SettingRow) error {
	if s.err != nil {
		return s.err
	}
	s.rows = rows
	return nil
}

func TestSettingsServiceUpdatePersistsWholeObject(t *testing.T) {
	repo := &settingsRepoStub{rows: []models.SettingRow{
		{Key: "off1_name", Value: "Old Name"},
		{Key: "off2_name", Value: "Kept Name"},
	}}
	audit := &auditLoggerStub{}
	svc := NewSettingsService(repo, audit, nil)

	settings, err := svc.Update(context.Background(), dto.UpdateSettingsRequest{
		"off1_name": "  Dr. Reyes  ",
	}, &models.AuthClaims{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Reyes", settings.Off1Name)
	assert.Equal(t, "Kept Name", settings.Off2Name)

	// The whole object is flattened back, one row per recognized key.
	require.Len(t, repo.rows, len(models.SettingKeys))
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionSettingsUpdate, audit.logs[0].Action)
}

func TestSettingsServiceUpdateRejectsUnknownKeys(t *testing.T) {
	svc := NewSettingsService(&settingsRepoStub{}, &auditLoggerStub{}, nil)

	_, err := svc.Update(context.Background(), dto.UpdateSettingsRequest{
		"off1_name": "Dr. Reyes",
		"off9_name": "Sneaky",
	}, nil)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Details, "off9_name is not a recognized setting")
}

func TestSettingsServiceUpdateEmptyPayload(t *testing.T) {
	svc := NewSettingsService(&settingsRepoStub{}, &auditLoggerStub{}, nil)

	_, err := svc.Update(context.Background(), dto.UpdateSettingsRequest{}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSettingsServiceGetIgnoresStrayRows(t *testing.T) {
	repo := &settingsRepoStub{rows: []models.SettingRow{
		{Key: "off1_name", Value: "Dr. Reyes"},
		{Key: "offbeat_key", Value: "ignored"},
	}}
	svc := NewSettingsService(repo, &auditLoggerStub{}, nil)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dr. Reyes", settings.Off1Name)
	_, known := settings.Get("offbeat_key")
	assert.False(t, known)
}
