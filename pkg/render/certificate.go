package render

import "github.com/jung-kurt/gofpdf"

const (
	certMarginX = 18.0
	certMarginY = 14.0
)

// Certificates renders one landscape A4 page per entry.
func Certificates(pages []CertificatePage) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	for _, page := range pages {
		certificatePage(pdf, page)
	}

	return output(pdf)
}

func certificatePage(pdf *gofpdf.Fpdf, page CertificatePage) {
	pdf.AddPage()
	width, height := pdf.GetPageSize()

	// Double border frame.
	pdf.SetDrawColor(30, 60, 110)
	pdf.SetLineWidth(1.2)
	pdf.Rect(certMarginX-8, certMarginY-6, width-2*(certMarginX-8), height-2*(certMarginY-6), "D")
	pdf.SetLineWidth(0.3)
	pdf.Rect(certMarginX-5, certMarginY-3, width-2*(certMarginX-5), height-2*(certMarginY-3), "D")

	pdf.SetTextColor(30, 60, 110)
	pdf.SetXY(certMarginX, certMarginY+6)
	pdf.SetFont("Times", "B", 20)
	pdf.CellFormat(width-2*certMarginX, 10, page.Organization, "", 1, "C", false, 0, "")

	pdf.SetFont("Times", "", 13)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetX(certMarginX)
	pdf.CellFormat(width-2*certMarginX, 8, "Certificate of Completion", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Times", "I", 12)
	pdf.SetX(certMarginX)
	pdf.CellFormat(width-2*certMarginX, 7, "This certifies that", "", 1, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Times", "B", page.NameFontSize)
	pdf.SetX(certMarginX)
	pdf.CellFormat(width-2*certMarginX, 16, page.ParticipantName, "", 1, "C", false, 0, "")

	pdf.SetFont("Times", "", 12)
	pdf.SetX(certMarginX)
	pdf.CellFormat(width-2*certMarginX, 7, "has successfully completed the", "", 1, "C", false, 0, "")

	pdf.SetFont("Times", "B", 15)
	pdf.SetX(certMarginX)
	pdf.CellFormat(width-2*certMarginX, 9, page.TrainingTitle, "", 1, "C", false, 0, "")

	if page.Venue != "" {
		pdf.SetFont("Times", "", 11)
		pdf.SetX(certMarginX)
		pdf.CellFormat(width-2*certMarginX, 6, "held at "+page.Venue, "", 1, "C", false, 0, "")
	}
	if page.Facility != "" {
		pdf.SetFont("Times", "", 11)
		pdf.SetX(certMarginX)
		pdf.CellFormat(width-2*certMarginX, 6, page.Facility, "", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Times", "I", 11)
	pdf.SetX(certMarginX)
	pdf.CellFormat(width-2*certMarginX, 6, page.IssuedLine, "", 1, "C", false, 0, "")

	certificateSignatories(pdf, page.Officers, width, height)

	pdf.SetFont("Courier", "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.SetXY(certMarginX, height-certMarginY-4)
	pdf.CellFormat(width-2*certMarginX, 5, page.CertificateCode, "", 0, "C", false, 0, "")
}

// certificateSignatories lays out officer name/position blocks evenly
// across the lower third of the page. Officers without a name are
// skipped by the caller.
func certificateSignatories(pdf *gofpdf.Fpdf, officers []Officer, width, height float64) {
	if len(officers) == 0 {
		return
	}

	blockWidth := (width - 2*certMarginX) / float64(len(officers))
	y := height - certMarginY - 26

	for i, officer := range officers {
		x := certMarginX + float64(i)*blockWidth

		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.Line(x+blockWidth*0.15, y, x+blockWidth*0.85, y)

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Times", "B", 11)
		pdf.SetXY(x, y+1)
		pdf.CellFormat(blockWidth, 5, officer.Name, "", 0, "C", false, 0, "")

		pdf.SetFont("Times", "", 9)
		pdf.SetXY(x, y+6)
		pdf.CellFormat(blockWidth, 4, officer.Position, "", 0, "C", false, 0, "")
	}
}
