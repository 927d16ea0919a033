package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrain/cert-registry-api/internal/models"
	"github.com/medtrain/cert-registry-api/pkg/render"
)

type documentSourceStub struct {
	records []models.CertificateRecord
}

func (s *documentSourceStub) FindByID(ctx context.Context, id int64) (*models.CertificateRecord, error) {
	for _, rec := range s.records {
		if rec.ID == id {
			r := rec
			return &r, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *documentSourceStub) Search(ctx context.Context, needle string) ([]models.CertificateRecord, error) {
	return s.records, nil
}

type settingsSourceStub struct {
	settings models.OfficerSettings
}

func (s *settingsSourceStub) Get(ctx context.Context) (*models.OfficerSettings, error) {
	copied := s.settings
	return &copied, nil
}

func newDocumentService(records []models.CertificateRecord, settings models.OfficerSettings) *DocumentService {
	return NewDocumentService(
		&documentSourceStub{records: records},
		&settingsSourceStub{settings: settings},
		nil,
		DocumentServiceConfig{OrganizationName: "Life Support Training Center", OrganizationCode: "LSTC", CardsPerPage: 8},
	)
}

func fullRecord(id int64, name string) models.CertificateRecord {
	trainingType := "BLS+SFA"
	trainingDate := "January 21-23, 2026"
	participantType := "Healthcare Provider"
	return models.CertificateRecord{
		ID:              id,
		ParticipantName: name,
		TrainingType:    &trainingType,
		TrainingDate:    &trainingDate,
		ParticipantType: &participantType,
	}
}

func TestCertificateCodeDeterministic(t *testing.T) {
	svc := newDocumentService(nil, models.OfficerSettings{})
	rec := fullRecord(123, "Juan Dela Cruz")

	code := svc.CertificateCode(rec)
	assert.Equal(t, "LSTC-BLSSFA-HCP-2026-123", code)
	assert.Equal(t, code, svc.CertificateCode(rec))
}

func TestCertificateCodeFallbackAcronyms(t *testing.T) {
	svc := newDocumentService(nil, models.OfficerSettings{})
	rec := models.CertificateRecord{ID: 9, ParticipantName: "Juan"}

	assert.Equal(t, "LSTC-TRNG-PART-2026-9", svc.CertificateCode(rec))
}

func TestTrainingAcronyms(t *testing.T) {
	assert.Equal(t, "BLS", TrainingAcronym("BLS"))
	assert.Equal(t, "BLSSFA", TrainingAcronym("BLS+SFA"))
	assert.Equal(t, "BLSTOT", TrainingAcronym("BLS-ToT"))
	assert.Equal(t, "SFATOT", TrainingAcronym("SFA-ToT"))
	assert.Equal(t, "TRNG", TrainingAcronym("Zumba"))
}

func TestRegistrationNumber(t *testing.T) {
	assert.Equal(t, "HCP260042", RegistrationNumber(fullRecord(42, "Juan")))

	lay := fullRecord(7, "Ana")
	participantType := "Lay Rescuer"
	lay.ParticipantType = &participantType
	assert.Equal(t, "LR260007", RegistrationNumber(lay))
}

func TestRegistrationNumberDefaultsToLayRescuer(t *testing.T) {
	missing := fullRecord(42, "Juan")
	missing.ParticipantType = nil
	assert.Equal(t, "LR260042", RegistrationNumber(missing))

	other := fullRecord(42, "Juan")
	unknown := "Observer"
	other.ParticipantType = &unknown
	assert.Equal(t, "LR260042", RegistrationNumber(other))
}

func TestIssuedLine(t *testing.T) {
	assert.Equal(t, "Issued this 23rd day of January 2026", IssuedLine("January 21-23, 2026"))
	assert.Equal(t, "Issued in the year 2026", IssuedLine("TBD"))
}

func TestNameFontSizeSteps(t *testing.T) {
	assert.Equal(t, float64(32), NameFontSize("Juan Dela Cruz"))
	assert.Equal(t, float64(26), NameFontSize(strings.Repeat("a", 25)))
	assert.Equal(t, float64(22), NameFontSize(strings.Repeat("a", 35)))
	assert.Equal(t, float64(18), NameFontSize(strings.Repeat("a", 50)))
}

func TestSignatureUsable(t *testing.T) {
	assert.False(t, SignatureUsable(""))
	assert.False(t, SignatureUsable("data:image/png;base64,AAA"))
	assert.False(t, SignatureUsable(strings.Repeat("x", 200)))
	assert.True(t, SignatureUsable("data:image/png;base64,"+strings.Repeat("A", 200)))
}

func TestDecodeSignature(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))

	sig, err := decodeSignature("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "PNG", sig.Format)
	assert.Equal(t, []byte("fake-png-bytes"), sig.Data)

	sig, err = decodeSignature("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "JPG", sig.Format)

	_, err = decodeSignature("data:image/png;base64")
	require.Error(t, err)
	_, err = decodeSignature("data:image/png;base64,not-base64!!!")
	require.Error(t, err)
}

func TestChunkCards(t *testing.T) {
	cards := make([]render.IDCard, 17)
	chunks := chunkCards(cards, 8)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 8)
	assert.Len(t, chunks[1], 8)
	assert.Len(t, chunks[2], 1)

	assert.Empty(t, chunkCards(nil, 8))
}

func TestRenderableRecordsFiltersIncomplete(t *testing.T) {
	records := []models.CertificateRecord{
		fullRecord(1, "Ana"),
		{ID: 2, ParticipantName: "   "},
		{ID: 0, ParticipantName: "Ghost"},
		fullRecord(3, "Ben"),
	}
	kept := renderableRecords(records)
	require.Len(t, kept, 2)
	assert.Equal(t, int64(1), kept[0].ID)
	assert.Equal(t, int64(3), kept[1].ID)
}

func TestRenderCertificateProducesPDF(t *testing.T) {
	svc := newDocumentService([]models.CertificateRecord{fullRecord(1, "Juan Dela Cruz")}, models.OfficerSettings{
		Off1Name:     "Dr. Reyes",
		Off1Position: "Training Director",
	})

	filename, payload, err := svc.RenderCertificate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "certificate-juan-dela-cruz.pdf", filename)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestRenderCertificateMissingRecordReturnsErrorPage(t *testing.T) {
	svc := newDocumentService(nil, models.OfficerSettings{})

	filename, payload, err := svc.RenderCertificate(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, "document-error.pdf", filename)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestRenderBatchIDCardsChunksAndFilename(t *testing.T) {
	records := make([]models.CertificateRecord, 0, 17)
	for i := int64(1); i <= 17; i++ {
		records = append(records, fullRecord(i, "Trainee"))
	}
	svc := newDocumentService(records, models.OfficerSettings{Off1Name: "Dr. Reyes"})

	key := "JANUARY21-23,2026_BLS+SFA"
	filename, payload, err := svc.RenderBatchIDCards(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "id-cards-january-21-23-2026-bls-sfa.pdf", filename)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestRenderBatchCertificatesUnknownKey(t *testing.T) {
	svc := newDocumentService([]models.CertificateRecord{fullRecord(1, "Ana")}, models.OfficerSettings{})

	_, _, err := svc.RenderBatchCertificates(context.Background(), "NOPE_NOPE")
	require.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "juan-dela-cruz", slugify("Juan  Dela Cruz"))
	assert.Equal(t, "january-21-23-2026", slugify("January 21-23, 2026"))
	assert.Equal(t, "bls-sfa", slugify("BLS+SFA"))
	assert.Equal(t, "", slugify("!!!"))
}
