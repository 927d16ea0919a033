// Package render turns prepared page descriptions into PDF bytes using
// gofpdf. It is pure layout: every derived value (codes, dates, font
// sizes) is computed by the caller, so rendering the same input always
// produces the same document.
package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Officer is a signing officer printed on certificates and cards.
type Officer struct {
	Name     string
	Position string
}

// SignatureImage is a decoded signature overlay.
type SignatureImage struct {
	Format string // "PNG" or "JPG"
	Data   []byte
}

// CertificatePage describes one rendered certificate.
type CertificatePage struct {
	Organization    string
	ParticipantName string
	NameFontSize    float64
	TrainingTitle   string
	Venue           string
	Facility        string
	IssuedLine      string
	CertificateCode string
	Officers        []Officer
}

// IDCard describes one card; the front and back are rendered from the
// same description.
type IDCard struct {
	Organization   string
	Name           string
	NameFontSize   float64
	RegistrationNo string
	TrainingType   string
	TrainingDate   string
	Position       string
	Facility       string
	RenewalDate    string
	Signatory      Officer
}

// ErrorPage renders a machine-readable code and human message instead of
// failing the response when a document cannot be produced.
func ErrorPage(code, message string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 30, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Document could not be generated", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Courier", "", 11)
	pdf.CellFormat(0, 8, code, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, message, "", "C", false)

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
