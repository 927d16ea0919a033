package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/medtrain/cert-registry-api/internal/models"
)

func TestSettingsRepositoryListOfficerKeys(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value, updated_at FROM settings")).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).
			AddRow("off1_name", "Dr. Reyes", now).
			AddRow("off1_position", "Training Director", now))

	rows, err := repo.ListOfficerKeys(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "off1_name", rows[0].Key)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryBulkUpsertCommits(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rows := []models.SettingRow{
		{Key: "off1_name", Value: "Dr. Reyes"},
		{Key: "off1_position", Value: "Training Director"},
	}
	require.NoError(t, repo.BulkUpsert(context.Background(), rows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryBulkUpsertRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	rows := []models.SettingRow{
		{Key: "off1_name", Value: "Dr. Reyes"},
		{Key: "off_signature", Value: "data:image/png;base64,AAAA"},
	}
	require.Error(t, repo.BulkUpsert(context.Background(), rows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryBulkUpsertEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	require.NoError(t, repo.BulkUpsert(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
