package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/medtrain/cert-registry-api/internal/models"
	appErrors "github.com/medtrain/cert-registry-api/pkg/errors"
	"github.com/medtrain/cert-registry-api/pkg/render"
)

const signatureMinLength = 100

// Training and participant acronyms embedded in certificate codes.
var trainingAcronyms = map[models.TrainingType]string{
	models.TrainingBLS:    "BLS",
	models.TrainingBLSSFA: "BLSSFA",
	models.TrainingBLSToT: "BLSTOT",
	models.TrainingSFAToT: "SFATOT",
}

var participantAcronyms = map[models.ParticipantType]string{
	models.ParticipantHealthcareProvider: "HCP",
	models.ParticipantLayRescuer:         "LR",
}

type documentRecordSource interface {
	FindByID(ctx context.Context, id int64) (*models.CertificateRecord, error)
	Search(ctx context.Context, needle string) ([]models.CertificateRecord, error)
}

type officerSettingsSource interface {
	Get(ctx context.Context) (*models.OfficerSettings, error)
}

// DocumentServiceConfig holds the identity stamped on every document.
type DocumentServiceConfig struct {
	OrganizationName string
	OrganizationCode string
	CardsPerPage     int
}

// DocumentService turns stored records into certificate and ID card
// PDFs. Rendering never fails a request outright: inputs that cannot
// produce a document yield a PDF error page instead.
type DocumentService struct {
	records  documentRecordSource
	settings officerSettingsSource
	logger   *zap.Logger
	cfg      DocumentServiceConfig
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(records documentRecordSource, settings officerSettingsSource, logger *zap.Logger, cfg DocumentServiceConfig) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.OrganizationCode == "" {
		cfg.OrganizationCode = "LSTC"
	}
	if cfg.CardsPerPage <= 0 {
		cfg.CardsPerPage = 8
	}
	return &DocumentService{records: records, settings: settings, logger: logger, cfg: cfg}
}

// RenderCertificate produces the single-page certificate for one record.
func (s *DocumentService) RenderCertificate(ctx context.Context, id int64) (string, []byte, error) {
	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.errorDocument("RECORD_NOT_FOUND", "No record exists with the requested id.")
		}
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
	}
	if !renderable(*rec) {
		return s.errorDocument("RECORD_INCOMPLETE", "The record has no participant name and cannot be rendered.")
	}

	officers, _, err := s.loadOfficers(ctx)
	if err != nil {
		return "", nil, err
	}

	payload, err := render.Certificates([]render.CertificatePage{s.certificatePage(*rec, officers)})
	if err != nil {
		s.logger.Error("failed to render certificate", zap.Int64("id", id), zap.Error(err))
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render document")
	}
	return certificateFilename(rec.ParticipantName), payload, nil
}

// RenderBatchCertificates produces one certificate page per renderable
// record in the batch, in stored member order.
func (s *DocumentService) RenderBatchCertificates(ctx context.Context, key string) (string, []byte, error) {
	batch, err := s.findBatch(ctx, key)
	if err != nil {
		return "", nil, err
	}

	records := renderableRecords(batch.Records)
	if len(records) == 0 {
		return s.errorDocument("BATCH_EMPTY", "The batch has no renderable records.")
	}

	officers, _, err := s.loadOfficers(ctx)
	if err != nil {
		return "", nil, err
	}

	pages := make([]render.CertificatePage, 0, len(records))
	for _, rec := range records {
		pages = append(pages, s.certificatePage(rec, officers))
	}

	payload, err := render.Certificates(pages)
	if err != nil {
		s.logger.Error("failed to render batch certificates", zap.String("key", key), zap.Error(err))
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render document")
	}
	return batchFilename("certificates", batch), payload, nil
}

// RenderBatchIDCards produces double-sided ID cards for the batch,
// chunked so each chunk yields a front page and a matching back page.
func (s *DocumentService) RenderBatchIDCards(ctx context.Context, key string) (string, []byte, error) {
	batch, err := s.findBatch(ctx, key)
	if err != nil {
		return "", nil, err
	}

	records := renderableRecords(batch.Records)
	if len(records) == 0 {
		return s.errorDocument("BATCH_EMPTY", "The batch has no renderable records.")
	}

	_, settings, err := s.loadOfficers(ctx)
	if err != nil {
		return "", nil, err
	}
	signatory := render.Officer{Name: settings.Off1Name, Position: settings.Off1Position}

	cards := make([]render.IDCard, 0, len(records))
	for _, rec := range records {
		cards = append(cards, s.idCard(rec, signatory))
	}

	var signature *render.SignatureImage
	if SignatureUsable(settings.OffSignature) {
		signature, err = decodeSignature(settings.OffSignature)
		if err != nil {
			// A corrupt signature must not block card issuance.
			s.logger.Warn("skipping unusable signature image", zap.Error(err))
			signature = nil
		}
	}

	payload, err := render.IDCards(chunkCards(cards, s.cfg.CardsPerPage), signature)
	if err != nil {
		s.logger.Error("failed to render batch id cards", zap.String("key", key), zap.Error(err))
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render document")
	}
	return batchFilename("id-cards", batch), payload, nil
}

func (s *DocumentService) findBatch(ctx context.Context, key string) (*models.Batch, error) {
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

func (s *DocumentService) loadOfficers(ctx context.Context) ([]render.Officer, *models.OfficerSettings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, nil, err
	}

	officers := make([]render.Officer, 0, 3)
	for _, officer := range []render.Officer{
		{Name: settings.Off1Name, Position: settings.Off1Position},
		{Name: settings.Off2Name, Position: settings.Off2Position},
		{Name: settings.Off3Name, Position: settings.Off3Position},
	} {
		if strings.TrimSpace(officer.Name) != "" {
			officers = append(officers, officer)
		}
	}
	return officers, settings, nil
}

func (s *DocumentService) certificatePage(rec models.CertificateRecord, officers []render.Officer) render.CertificatePage {
	trainingType := deref(rec.TrainingType)
	trainingDate := deref(rec.TrainingDate)

	title := trainingType
	if title == "" {
		title = "Training Program"
	}

	return render.CertificatePage{
		Organization:    s.cfg.OrganizationName,
		ParticipantName: rec.ParticipantName,
		NameFontSize:    NameFontSize(rec.ParticipantName),
		TrainingTitle:   title + " Training",
		Venue:           deref(rec.Venue),
		Facility:        deref(rec.Facility),
		IssuedLine:      IssuedLine(trainingDate),
		CertificateCode: s.CertificateCode(rec),
		Officers:        officers,
	}
}

func (s *DocumentService) idCard(rec models.CertificateRecord, signatory render.Officer) render.IDCard {
	trainingDate := deref(rec.TrainingDate)
	return render.IDCard{
		Organization:   s.cfg.OrganizationName,
		Name:           rec.ParticipantName,
		NameFontSize:   cardNameFontSize(rec.ParticipantName),
		RegistrationNo: RegistrationNumber(rec),
		TrainingType:   deref(rec.TrainingType),
		TrainingDate:   trainingDate,
		Position:       deref(rec.Position),
		Facility:       deref(rec.Facility),
		RenewalDate:    RenewalDate(trainingDate),
		Signatory:      signatory,
	}
}

func (s *DocumentService) errorDocument(code, message string) (string, []byte, error) {
	payload, err := render.ErrorPage(code, message)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render document")
	}
	return "document-error.pdf", payload, nil
}

// CertificateCode builds the deterministic verification code printed on
// every certificate: ORG-TRAINING-PARTICIPANT-YEAR-ID.
func (s *DocumentService) CertificateCode(rec models.CertificateRecord) string {
	return fmt.Sprintf("%s-%s-%s-%s-%d",
		s.cfg.OrganizationCode,
		TrainingAcronym(deref(rec.TrainingType)),
		ParticipantAcronym(deref(rec.ParticipantType)),
		extractYear(deref(rec.TrainingDate)),
		rec.ID,
	)
}

// RegistrationNumber builds the card registration number: registration
// prefix, two-digit training year, zero-padded record id.
func RegistrationNumber(rec models.CertificateRecord) string {
	year := extractYear(deref(rec.TrainingDate))
	return fmt.Sprintf("%s%s%04d", registrationPrefix(rec.ParticipantType), year[len(year)-2:], rec.ID)
}

// registrationPrefix classifies cards as HCP only for healthcare
// providers; every other participant type, missing ones included, is
// registered as a lay rescuer.
func registrationPrefix(participantType *string) string {
	if participantType != nil && models.ParticipantType(*participantType) == models.ParticipantHealthcareProvider {
		return "HCP"
	}
	return "LR"
}

// TrainingAcronym maps a training type to its code fragment, with a
// generic fallback for values outside the fixed set.
func TrainingAcronym(trainingType string) string {
	if acr, ok := trainingAcronyms[models.TrainingType(trainingType)]; ok {
		return acr
	}
	return "TRNG"
}

// ParticipantAcronym maps a participant type to its code fragment.
func ParticipantAcronym(participantType string) string {
	if acr, ok := participantAcronyms[models.ParticipantType(participantType)]; ok {
		return acr
	}
	return "PART"
}

// IssuedLine formats the issuance sentence printed under the training
// title, built from the heuristic parts of the free-text training date.
func IssuedLine(trainingDate string) string {
	day, month, year := issuedParts(trainingDate)
	if day == 0 || month == "" {
		return fmt.Sprintf("Issued in the year %s", year)
	}
	return fmt.Sprintf("Issued this %s day of %s %s", ordinal(day), month, year)
}

// RenewalDate exposes the card renewal computation.
func RenewalDate(trainingDate string) string {
	return renewalDate(trainingDate)
}

// NameFontSize steps the certificate name font down as names get longer
// so long names stay on one line.
func NameFontSize(name string) float64 {
	switch n := len(name); {
	case n <= 20:
		return 32
	case n <= 28:
		return 26
	case n <= 38:
		return 22
	default:
		return 18
	}
}

func cardNameFontSize(name string) float64 {
	switch n := len(name); {
	case n <= 18:
		return 11
	case n <= 26:
		return 9.5
	default:
		return 8
	}
}

// SignatureUsable reports whether a stored signature value looks like a
// real data-URI image rather than an empty or placeholder string.
func SignatureUsable(value string) bool {
	return strings.HasPrefix(value, "data:image") && len(value) > signatureMinLength
}

// decodeSignature parses a data-URI signature into raw image bytes and
// the format tag gofpdf expects.
func decodeSignature(value string) (*render.SignatureImage, error) {
	comma := strings.Index(value, ",")
	if comma < 0 {
		return nil, fmt.Errorf("signature data uri has no payload")
	}
	header, payload := value[:comma], value[comma+1:]

	format := "PNG"
	if strings.Contains(header, "image/jpeg") || strings.Contains(header, "image/jpg") {
		format = "JPG"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode signature payload: %w", err)
	}
	return &render.SignatureImage{Format: format, Data: data}, nil
}

// renderable reports whether a record carries enough identity to appear
// on a document.
func renderable(rec models.CertificateRecord) bool {
	return rec.ID > 0 && strings.TrimSpace(rec.ParticipantName) != ""
}

func renderableRecords(records []models.CertificateRecord) []models.CertificateRecord {
	out := make([]models.CertificateRecord, 0, len(records))
	for _, rec := range records {
		if renderable(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// chunkCards splits cards into page-sized groups, the last one partial.
func chunkCards(cards []render.IDCard, size int) [][]render.IDCard {
	if size <= 0 {
		size = 8
	}
	chunks := make([][]render.IDCard, 0, (len(cards)+size-1)/size)
	for start := 0; start < len(cards); start += size {
		end := start + size
		if end > len(cards) {
			end = len(cards)
		}
		chunks = append(chunks, cards[start:end])
	}
	return chunks
}

// certificateFilename sanitizes the participant name into a safe
// download filename.
func certificateFilename(name string) string {
	return fmt.Sprintf("certificate-%s.pdf", slugify(name))
}

func batchFilename(kind string, batch *models.Batch) string {
	date := batch.DisplayDate
	if date == "" {
		date = "undated"
	}
	trainingType := batch.DisplayTrainingType
	if trainingType == "" {
		trainingType = "unspecified"
	}
	return fmt.Sprintf("%s-%s-%s.pdf", kind, slugify(date), slugify(trainingType))
}

// slugify lowercases and collapses everything outside [a-z0-9] to
// single hyphens.
func slugify(raw string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
