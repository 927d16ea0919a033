package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/medtrain/cert-registry-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func certificateRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "participant_name", "training_type", "training_date", "venue", "facility", "position", "participant_type", "age", "created_at", "updated_at"})
}

func strPtr(s string) *string { return &s }

func TestCertificateRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCertificateRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO certificates")).
		WithArgs("Juan Dela Cruz", "BLS", "January 21-23, 2026", nil, nil, nil, "Healthcare Provider", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	rec := &models.CertificateRecord{
		ParticipantName: "Juan Dela Cruz",
		TrainingType:    strPtr("BLS"),
		TrainingDate:    strPtr("January 21-23, 2026"),
		ParticipantType: strPtr("Healthcare Provider"),
	}
	require.NoError(t, repo.Create(context.Background(), rec))
	require.Equal(t, int64(7), rec.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositorySearchEmptyNeedleReturnsAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCertificateRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, participant_name")).
		WillReturnRows(certificateRows().
			AddRow(1, "Ana", "BLS", "January 21-23, 2026", nil, nil, nil, nil, nil, now, now).
			AddRow(2, "Ben", "BLS", "January 21-23, 2026", nil, nil, nil, nil, nil, now, now))

	records, err := repo.Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, int64(1), records[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositorySearchWithNeedle(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCertificateRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("participant_name ILIKE")).
		WithArgs("ana").
		WillReturnRows(certificateRows().
			AddRow(1, "Ana", nil, nil, nil, nil, nil, nil, nil, now, now))

	records, err := repo.Search(context.Background(), "ana")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryUpdateMissingReturnsNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCertificateRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE certificates")).
		WillReturnError(sql.ErrNoRows)

	err := repo.Update(context.Background(), &models.CertificateRecord{ID: 99, ParticipantName: "Ghost"})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryDeleteMissingReturnsNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCertificateRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM certificates")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 42)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCertificateRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM certificates")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}
