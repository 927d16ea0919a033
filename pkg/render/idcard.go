package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	cardWidth   = 86.0
	cardHeight  = 54.0
	cardGutterX = 8.0
	cardGutterY = 8.0
	cardColumns = 2
	cardRows    = 4
)

// IDCards renders the cards chunk by chunk: for each chunk one page of
// fronts followed by one page of backs, so double-sided printing lines
// the two up. The signature, when present, is stamped on every back.
func IDCards(chunks [][]IDCard, signature *SignatureImage) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	signatureName := ""
	if signature != nil {
		signatureName = "officer-signature"
		opts := gofpdf.ImageOptions{ImageType: signature.Format}
		pdf.RegisterImageOptionsReader(signatureName, opts, bytes.NewReader(signature.Data))
		if pdf.Err() {
			return nil, fmt.Errorf("register signature image: %w", pdf.Error())
		}
	}

	for _, chunk := range chunks {
		pdf.AddPage()
		for i, card := range chunk {
			x, y := cardOrigin(i)
			cardFront(pdf, card, x, y)
		}

		pdf.AddPage()
		for i, card := range chunk {
			x, y := cardOrigin(i)
			cardBack(pdf, card, x, y, signatureName)
		}
	}

	return output(pdf)
}

// cardOrigin maps a slot index within a page to the top-left corner of
// its cell in the 2x4 grid, centered on the page.
func cardOrigin(slot int) (float64, float64) {
	const pageWidth, pageHeight = 210.0, 297.0

	gridWidth := cardColumns*cardWidth + (cardColumns-1)*cardGutterX
	gridHeight := cardRows*cardHeight + (cardRows-1)*cardGutterY
	originX := (pageWidth - gridWidth) / 2
	originY := (pageHeight - gridHeight) / 2

	col := slot % cardColumns
	row := slot / cardColumns
	return originX + float64(col)*(cardWidth+cardGutterX), originY + float64(row)*(cardHeight+cardGutterY)
}

func cardFront(pdf *gofpdf.Fpdf, card IDCard, x, y float64) {
	pdf.SetDrawColor(30, 60, 110)
	pdf.SetLineWidth(0.4)
	pdf.Rect(x, y, cardWidth, cardHeight, "D")

	// Header band.
	pdf.SetFillColor(30, 60, 110)
	pdf.Rect(x, y, cardWidth, 9, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 8)
	pdf.SetXY(x+2, y+1.5)
	pdf.CellFormat(cardWidth-4, 6, card.Organization, "", 0, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", card.NameFontSize)
	pdf.SetXY(x+2, y+13)
	pdf.CellFormat(cardWidth-4, 7, card.Name, "", 0, "C", false, 0, "")

	pdf.SetFont("Arial", "", 7)
	pdf.SetXY(x+2, y+21)
	pdf.CellFormat(cardWidth-4, 4, card.Position, "", 0, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 8)
	pdf.SetXY(x+2, y+28)
	pdf.CellFormat(cardWidth-4, 4, card.TrainingType, "", 0, "C", false, 0, "")

	pdf.SetFont("Arial", "", 7)
	pdf.SetXY(x+2, y+33)
	pdf.CellFormat(cardWidth-4, 4, card.TrainingDate, "", 0, "C", false, 0, "")

	pdf.SetFont("Courier", "", 7)
	pdf.SetXY(x+2, y+cardHeight-8)
	pdf.CellFormat(cardWidth-4, 4, card.RegistrationNo, "", 0, "C", false, 0, "")
}

func cardBack(pdf *gofpdf.Fpdf, card IDCard, x, y float64, signatureName string) {
	pdf.SetDrawColor(30, 60, 110)
	pdf.SetLineWidth(0.4)
	pdf.Rect(x, y, cardWidth, cardHeight, "D")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 6.5)
	pdf.SetXY(x+3, y+3)
	pdf.MultiCell(cardWidth-6, 3, "This card certifies that the bearer has completed the training indicated on the front and is registered with the issuing organization.", "", "L", false)

	if card.Facility != "" {
		pdf.SetFont("Arial", "", 7)
		pdf.SetXY(x+3, y+17)
		pdf.CellFormat(cardWidth-6, 4, "Facility: "+card.Facility, "", 0, "L", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 7)
	pdf.SetXY(x+3, y+23)
	pdf.CellFormat(cardWidth-6, 4, "Renewal due: "+card.RenewalDate, "", 0, "L", false, 0, "")

	// Signature block, lower right.
	sigX := x + cardWidth - 36
	sigY := y + cardHeight - 20
	if signatureName != "" {
		pdf.ImageOptions(signatureName, sigX+2, sigY-6, 28, 10, false, gofpdf.ImageOptions{}, 0, "")
	}
	pdf.SetLineWidth(0.2)
	pdf.Line(sigX, sigY+5, sigX+32, sigY+5)
	pdf.SetFont("Arial", "B", 6.5)
	pdf.SetXY(sigX-2, sigY+6)
	pdf.CellFormat(36, 3, card.Signatory.Name, "", 0, "C", false, 0, "")
	pdf.SetFont("Arial", "", 6)
	pdf.SetXY(sigX-2, sigY+9)
	pdf.CellFormat(36, 3, card.Signatory.Position, "", 0, "C", false, 0, "")
}
