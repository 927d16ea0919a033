package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/medtrain/cert-registry-api/internal/models"
	appErrors "github.com/medtrain/cert-registry-api/pkg/errors"
)

const (
	batchKeyNoDate      = "NODATE"
	batchKeyUnspecified = "UNSPECIFIED"
)

type batchRecordSource interface {
	Search(ctx context.Context, needle string) ([]models.CertificateRecord, error)
}

// BatchService groups flat certificate records into training batches
// keyed by normalized date + training type. Batches are ephemeral,
// request-scoped views recomputed from the record collection on every
// read.
type BatchService struct {
	records batchRecordSource
	cache   listingCache
	logger  *zap.Logger
	cfg     CertificateServiceConfig
}

// NewBatchService constructs a BatchService.
func NewBatchService(records batchRecordSource, cache listingCache, logger *zap.Logger, cfg CertificateServiceConfig) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{records: records, cache: cache, logger: logger, cfg: cfg}
}

// List returns batches built from records matching the search needle,
// sorted ascending by best-effort display date.
func (s *BatchService) List(ctx context.Context, search string) ([]models.Batch, error) {
	search = strings.TrimSpace(search)

	cacheKey := fmt.Sprintf("batches:list:%s", strings.ToLower(search))
	if s.cacheEnabled() {
		var cached []models.Batch
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	records, err := s.records.Search(ctx, search)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
	}
	batches := BuildBatches(records)

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, cacheKey, batches, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache batch listing", zap.Error(err))
		}
	}
	return batches, nil
}

// Get returns the batch with the given key, rebuilt from the current
// record collection.
func (s *BatchService) Get(ctx context.Context, key string) (*models.Batch, error) {
	records, err := s.records.Search(ctx, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
	}
	for _, batch := range BuildBatches(records) {
		if batch.Key == key {
			b := batch
			return &b, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
}

// BuildBatches groups records under a normalized date+type key,
// preserving insertion order of members, and sorts the batches ascending
// by the heuristic date extracted from the display date.
func BuildBatches(records []models.CertificateRecord) []models.Batch {
	index := make(map[string]int)
	batches := make([]models.Batch, 0)

	for _, rec := range records {
		displayDate := strings.TrimSpace(deref(rec.TrainingDate))
		displayType := strings.TrimSpace(deref(rec.TrainingType))

		key := normalizeBatchPart(displayDate, batchKeyNoDate) + "_" + normalizeBatchPart(displayType, batchKeyUnspecified)

		pos, ok := index[key]
		if !ok {
			pos = len(batches)
			index[key] = pos
			batches = append(batches, models.Batch{
				Key:                 key,
				DisplayDate:         displayDate,
				DisplayTrainingType: displayType,
			})
		}
		batches[pos].Records = append(batches[pos].Records, rec)
	}

	sort.SliceStable(batches, func(i, j int) bool {
		ti, tj := batchSortTime(batches[i].DisplayDate), batchSortTime(batches[j].DisplayDate)
		if ti.Equal(tj) {
			return batches[i].Key < batches[j].Key
		}
		return ti.Before(tj)
	})

	return batches
}

// normalizeBatchPart uppercases and strips all whitespace so case and
// spacing variants of the same date or type land in the same batch.
func normalizeBatchPart(raw, fallback string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, raw)
	if cleaned == "" {
		return fallback
	}
	return cleaned
}

// BatchSortTime exposes the heuristic sort key for tests and handlers.
func BatchSortTime(display string) time.Time {
	return batchSortTime(display)
}

func (s *BatchService) cacheEnabled() bool {
	return s.cfg.CacheEnabled && s.cache != nil
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
