package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/medtrain/cert-registry-api/internal/models"
)

const certificateColumns = `id, participant_name, training_type, training_date, venue, facility, position, participant_type, age, created_at, updated_at`

// CertificateRepository provides database access for certificate records.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository creates a new instance of CertificateRepository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// Create inserts a record and fills in the server-assigned fields.
func (r *CertificateRepository) Create(ctx context.Context, rec *models.CertificateRecord) error {
	const query = `INSERT INTO certificates (participant_name, training_type, training_date, venue, facility, position, participant_type, age)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query,
		rec.ParticipantName, rec.TrainingType, rec.TrainingDate, rec.Venue,
		rec.Facility, rec.Position, rec.ParticipantType, rec.Age)
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return fmt.Errorf("create certificate: %w", err)
	}
	return nil
}

// List returns all records, newest first.
func (r *CertificateRepository) List(ctx context.Context) ([]models.CertificateRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM certificates ORDER BY created_at DESC, id DESC`, certificateColumns)
	var records []models.CertificateRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return records, nil
}

// ListByDate returns records whose training_date contains the needle or
// whose created date (YYYY-MM-DD) matches it exactly.
func (r *CertificateRepository) ListByDate(ctx context.Context, date string) ([]models.CertificateRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM certificates
WHERE training_date ILIKE '%%' || $1 || '%%' OR to_char(created_at, 'YYYY-MM-DD') = $1
ORDER BY created_at DESC, id DESC`, certificateColumns)
	var records []models.CertificateRecord
	if err := r.db.SelectContext(ctx, &records, query, date); err != nil {
		return nil, fmt.Errorf("list certificates by date: %w", err)
	}
	return records, nil
}

// Search returns records matching a free-text needle over name, date,
// venue and facility, in entry order. An empty needle returns everything.
func (r *CertificateRepository) Search(ctx context.Context, needle string) ([]models.CertificateRecord, error) {
	var records []models.CertificateRecord
	if needle == "" {
		query := fmt.Sprintf(`SELECT %s FROM certificates ORDER BY id ASC`, certificateColumns)
		if err := r.db.SelectContext(ctx, &records, query); err != nil {
			return nil, fmt.Errorf("search certificates: %w", err)
		}
		return records, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM certificates
WHERE participant_name ILIKE '%%' || $1 || '%%'
   OR training_date ILIKE '%%' || $1 || '%%'
   OR venue ILIKE '%%' || $1 || '%%'
   OR facility ILIKE '%%' || $1 || '%%'
ORDER BY id ASC`, certificateColumns)
	if err := r.db.SelectContext(ctx, &records, query, needle); err != nil {
		return nil, fmt.Errorf("search certificates: %w", err)
	}
	return records, nil
}

// FindByID returns a record by identifier.
func (r *CertificateRepository) FindByID(ctx context.Context, id int64) (*models.CertificateRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM certificates WHERE id = $1 LIMIT 1`, certificateColumns)
	var rec models.CertificateRecord
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find certificate by id: %w", err)
	}
	return &rec, nil
}

// Update replaces all mutable fields of a record. Returns sql.ErrNoRows
// when the id does not exist.
func (r *CertificateRepository) Update(ctx context.Context, rec *models.CertificateRecord) error {
	const query = `UPDATE certificates
SET participant_name = $2, training_type = $3, training_date = $4, venue = $5,
    facility = $6, position = $7, participant_type = $8, age = $9, updated_at = NOW()
WHERE id = $1
RETURNING updated_at`
	row := r.db.QueryRowxContext(ctx, query,
		rec.ID, rec.ParticipantName, rec.TrainingType, rec.TrainingDate,
		rec.Venue, rec.Facility, rec.Position, rec.ParticipantType, rec.Age)
	if err := row.Scan(&rec.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update certificate: %w", err)
	}
	return nil
}

// Delete removes a record. Returns sql.ErrNoRows when nothing matched.
func (r *CertificateRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM certificates WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete certificate rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
