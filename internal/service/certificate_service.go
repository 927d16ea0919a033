package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medtrain/cert-registry-api/internal/dto"
	"github.com/medtrain/cert-registry-api/internal/models"
	appErrors "github.com/medtrain/cert-registry-api/pkg/errors"
)

const (
	minAge = 0
	maxAge = 120

	certificateListCacheKey = "certificates:list"
	certificateCachePattern = "certificates:*"
	batchCachePattern       = "batches:*"
)

type certificateRepository interface {
	Create(ctx context.Context, rec *models.CertificateRecord) error
	List(ctx context.Context) ([]models.CertificateRecord, error)
	ListByDate(ctx context.Context, date string) ([]models.CertificateRecord, error)
	FindByID(ctx context.Context, id int64) (*models.CertificateRecord, error)
	Update(ctx context.Context, rec *models.CertificateRecord) error
	Delete(ctx context.Context, id int64) error
}

type listingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CertificateServiceConfig tunes caching of read listings.
type CertificateServiceConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// CertificateService validates, sanitizes and persists trainee records.
type CertificateService struct {
	repo   certificateRepository
	audit  auditLogger
	cache  listingCache
	logger *zap.Logger
	cfg    CertificateServiceConfig
}

// NewCertificateService constructs a CertificateService.
func NewCertificateService(repo certificateRepository, audit auditLogger, cache listingCache, logger *zap.Logger, cfg CertificateServiceConfig) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{repo: repo, audit: audit, cache: cache, logger: logger, cfg: cfg}
}

// SanitizeRecord normalizes a raw submission into persistable fields.
// Output never carries a field outside the request's 8-field allow-list;
// free-text fields are trimmed, enumerated fields checked against the
// fixed value sets, age parsed and range-checked. On failure the full
// list of violated constraints is returned.
func SanitizeRecord(req dto.CertificateRequest) (*models.CertificateRecord, []string) {
	var details []string
	rec := &models.CertificateRecord{}

	rec.ParticipantName = strings.TrimSpace(req.ParticipantName)
	if rec.ParticipantName == "" {
		details = append(details, "participant_name is required")
	}

	if trainingType := strings.TrimSpace(req.TrainingType); trainingType != "" {
		if !models.TrainingType(trainingType).Valid() {
			details = append(details, fmt.Sprintf("training_type must be one of %s", joinTrainingTypes()))
		} else {
			rec.TrainingType = &trainingType
		}
	}

	rec.TrainingDate = optionalText(req.TrainingDate)
	rec.Venue = optionalText(req.Venue)
	rec.Facility = optionalText(req.Facility)
	rec.Position = optionalText(req.Position)

	if participantType := strings.TrimSpace(req.ParticipantType); participantType != "" {
		if !models.ParticipantType(participantType).Valid() {
			details = append(details, fmt.Sprintf("participant_type must be one of %s", joinParticipantTypes()))
		} else {
			rec.ParticipantType = &participantType
		}
	}

	age, ok := parseAge(req.Age)
	if !ok {
		details = append(details, "age must be an integer")
	} else if age != nil {
		if *age < minAge || *age > maxAge {
			details = append(details, fmt.Sprintf("age must be between %d and %d", minAge, maxAge))
		} else {
			rec.Age = age
		}
	}

	if len(details) > 0 {
		return nil, details
	}
	return rec, nil
}

// Create sanitizes and persists a new record.
func (s *CertificateService) Create(ctx context.Context, req dto.CertificateRequest) (*models.CertificateRecord, error) {
	rec, details := SanitizeRecord(req)
	if details != nil {
		return nil, appErrors.Validation(details)
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error("failed to create certificate", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create record")
	}

	s.invalidateListings(ctx)
	return rec, nil
}

// Update fully replaces the mutable fields of an existing record.
// Repeated identical updates are idempotent.
func (s *CertificateService) Update(ctx context.Context, id int64, req dto.CertificateRequest) (*models.CertificateRecord, error) {
	rec, details := SanitizeRecord(req)
	if details != nil {
		return nil, appErrors.Validation(details)
	}
	rec.ID = id

	if err := s.repo.Update(ctx, rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}
		// Backend error text stays server-side; the client gets a
		// generic message only.
		s.logger.Error("failed to update certificate", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update record")
	}

	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to reload certificate", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
	}

	s.invalidateListings(ctx)
	return stored, nil
}

// List returns all records, newest first.
func (s *CertificateService) List(ctx context.Context) ([]models.CertificateRecord, error) {
	if s.cacheEnabled() {
		var cached []models.CertificateRecord
		if err := s.cache.Get(ctx, certificateListCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list records")
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, certificateListCacheKey, records, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache certificate listing", zap.Error(err))
		}
	}
	return records, nil
}

// ListByDate returns records matching a date needle.
func (s *CertificateService) ListByDate(ctx context.Context, date string) ([]models.CertificateRecord, error) {
	records, err := s.repo.ListByDate(ctx, strings.TrimSpace(date))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list records")
	}
	return records, nil
}

// FindByID returns a single record.
func (s *CertificateService) FindByID(ctx context.Context, id int64) (*models.CertificateRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
	}
	return rec, nil
}

// Delete removes a record.
func (s *CertificateService) Delete(ctx context.Context, id int64, actor *models.AuthClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}
		s.logger.Error("failed to delete certificate", zap.Int64("id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete record")
	}

	if s.audit != nil && actor != nil {
		resourceID := strconv.FormatInt(id, 10)
		log := &models.AuditLog{
			UserID:     &actor.UserID,
			Action:     models.AuditActionRecordDelete,
			Resource:   "certificate",
			ResourceID: &resourceID,
		}
		if err := s.audit.CreateAuditLog(ctx, log); err != nil {
			s.logger.Warn("failed to record delete audit log", zap.Error(err))
		}
	}

	s.invalidateListings(ctx)
	return nil
}

func (s *CertificateService) cacheEnabled() bool {
	return s.cfg.CacheEnabled && s.cache != nil
}

func (s *CertificateService) invalidateListings(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	for _, pattern := range []string{certificateCachePattern, batchCachePattern} {
		if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("failed to invalidate cache", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func optionalText(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// parseAge settles the loosely typed age into an integer or null.
// Accepts JSON numbers and numeric strings; empty means absent.
func parseAge(raw interface{}) (*int, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, true
	case float64:
		if v != float64(int(v)) {
			return nil, false
		}
		age := int(v)
		return &age, true
	case int:
		age := v
		return &age, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, true
		}
		age, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, false
		}
		return &age, true
	default:
		return nil, false
	}
}

func joinTrainingTypes() string {
	names := make([]string, len(models.TrainingTypes))
	for i, t := range models.TrainingTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func joinParticipantTypes() string {
	names := make([]string, len(models.ParticipantTypes))
	for i, p := range models.ParticipantTypes {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
