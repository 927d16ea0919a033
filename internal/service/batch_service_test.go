package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrain/cert-registry-api/internal/models"
	appErrors "github.com/medtrain/cert-registry-api/pkg/errors"
)

func record(id int64, name, trainingType, trainingDate string) models.CertificateRecord {
	rec := models.CertificateRecord{ID: id, ParticipantName: name}
	if trainingType != "" {
		rec.TrainingType = &trainingType
	}
	if trainingDate != "" {
		rec.TrainingDate = &trainingDate
	}
	return rec
}

func TestBuildBatchesGroupsByNormalizedKey(t *testing.T) {
	records := []models.CertificateRecord{
		record(1, "Ana", "BLS", "January 21-23, 2026"),
		record(2, "Ben", "bls", "JANUARY 21-23, 2026"),
		record(3, "Carla", "BLS", " January 21-23,  2026 "),
	}

	batches := BuildBatches(records)
	require.Len(t, batches, 1)
	assert.Equal(t, "JANUARY21-23,2026_BLS", batches[0].Key)
	require.Len(t, batches[0].Records, 3)
	// Members keep insertion order.
	assert.Equal(t, int64(1), batches[0].Records[0].ID)
	assert.Equal(t, int64(3), batches[0].Records[2].ID)
	// Display strings come from the first member seen.
	assert.Equal(t, "January 21-23, 2026", batches[0].DisplayDate)
}

func TestBuildBatchesFallbackKeys(t *testing.T) {
	records := []models.CertificateRecord{
		record(1, "Ana", "", ""),
		record(2, "Ben", "BLS", ""),
		record(3, "Carla", "", "January 5, 2026"),
	}

	batches := BuildBatches(records)
	require.Len(t, batches, 3)

	keys := make([]string, 0, len(batches))
	for _, b := range batches {
		keys = append(keys, b.Key)
	}
	assert.Contains(t, keys, "NODATE_UNSPECIFIED")
	assert.Contains(t, keys, "NODATE_BLS")
	assert.Contains(t, keys, "JANUARY5,2026_UNSPECIFIED")
}

func TestBuildBatchesSortsByHeuristicDate(t *testing.T) {
	records := []models.CertificateRecord{
		record(1, "Ana", "BLS", "March 5, 2026"),
		record(2, "Ben", "BLS", "January 21-23, 2026"),
		record(3, "Carla", "BLS", "TBD"),
	}

	batches := BuildBatches(records)
	require.Len(t, batches, 3)
	// Unparsable dates sort oldest.
	assert.Equal(t, "TBD", batches[0].DisplayDate)
	assert.Equal(t, "January 21-23, 2026", batches[1].DisplayDate)
	assert.Equal(t, "March 5, 2026", batches[2].DisplayDate)
}

type batchSourceStub struct {
	records []models.CertificateRecord
	err     error
	needles []string
}

func (s *batchSourceStub) Search(ctx context.Context, needle string) ([]models.CertificateRecord, error) {
	s.needles = append(s.needles, needle)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func TestBatchServiceListTrimsSearch(t *testing.T) {
	source := &batchSourceStub{records: []models.CertificateRecord{record(1, "Ana", "BLS", "January 5, 2026")}}
	svc := NewBatchService(source, nil, nil, CertificateServiceConfig{})

	batches, err := svc.List(context.Background(), "  ana  ")
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Equal(t, []string{"ana"}, source.needles)
}

func TestBatchServiceGet(t *testing.T) {
	source := &batchSourceStub{records: []models.CertificateRecord{record(1, "Ana", "BLS", "January 5, 2026")}}
	svc := NewBatchService(source, nil, nil, CertificateServiceConfig{})

	batch, err := svc.Get(context.Background(), "JANUARY5,2026_BLS")
	require.NoError(t, err)
	assert.Equal(t, "January 5, 2026", batch.DisplayDate)

	_, err = svc.Get(context.Background(), "NOPE_NOPE")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
