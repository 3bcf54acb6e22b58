package certificate

import (
	"bytes"
	"fmt"
	"math/rand"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Renderer draws the one-page completion certificate. Layout is fixed A4
// landscape; the only variable content is the recipient, course, id and date.
type Renderer struct {
	issuer   string
	rng      *rand.Rand
	compress bool
}

func NewRenderer(issuer string) *Renderer {
	return &Renderer{
		issuer:   issuer,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		compress: true,
	}
}

// Data carries the text printed on the certificate.
type Data struct {
	RecipientName string
	CourseTitle   string
	CertificateID string
	IssuedAt      time.Time
}

// Render returns the finished PDF as a byte buffer, ready for HTTP download
// or email attachment.
func (r *Renderer) Render(d Data) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, pageH := 297.0, 210.0

	// double border
	pdf.SetDrawColor(30, 60, 120)
	pdf.SetLineWidth(1.4)
	pdf.Rect(8, 8, pageW-16, pageH-16, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(12, 12, pageW-24, pageH-24, "D")

	pdf.SetTextColor(30, 60, 120)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(0, 28)
	pdf.CellFormat(pageW, 10, r.issuer, "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 34)
	pdf.SetXY(0, 52)
	pdf.CellFormat(pageW, 14, "Certificate of Completion", "", 0, "C", false, 0, "")

	pdf.SetTextColor(60, 60, 60)
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetXY(0, 76)
	pdf.CellFormat(pageW, 8, "This certifies that", "", 0, "C", false, 0, "")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetXY(0, 90)
	pdf.CellFormat(pageW, 12, d.RecipientName, "", 0, "C", false, 0, "")

	pdf.SetTextColor(60, 60, 60)
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetXY(0, 108)
	pdf.CellFormat(pageW, 8, "has successfully completed the course", "", 0, "C", false, 0, "")

	pdf.SetTextColor(30, 60, 120)
	pdf.SetFont("Helvetica", "BI", 20)
	pdf.SetXY(0, 120)
	pdf.CellFormat(pageW, 10, d.CourseTitle, "", 0, "C", false, 0, "")

	// bottom-left: id + date
	pdf.SetTextColor(90, 90, 90)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(24, pageH-48)
	pdf.CellFormat(100, 6, fmt.Sprintf("Certificate ID: %s", d.CertificateID), "", 0, "L", false, 0, "")
	pdf.SetXY(24, pageH-41)
	pdf.CellFormat(100, 6, fmt.Sprintf("Issued on %s", d.IssuedAt.Format("January 2, 2006")), "", 0, "L", false, 0, "")

	// bottom-right: signature squiggle over a rule
	r.drawSignature(pdf, pageW-110, pageH-52)
	pdf.SetDrawColor(90, 90, 90)
	pdf.SetLineWidth(0.3)
	pdf.Line(pageW-112, pageH-40, pageW-32, pageH-40)
	pdf.SetXY(pageW-112, pageH-38)
	pdf.CellFormat(80, 6, "Course Instructor", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawSignature renders a randomized Bezier squiggle. Cosmetic only, the
// certificate id is the thing a verifier checks against records.
func (r *Renderer) drawSignature(pdf *gofpdf.Fpdf, x, y float64) {
	pdf.SetDrawColor(20, 20, 80)
	pdf.SetLineWidth(0.6)

	cursor := x
	for i := 0; i < 4; i++ {
		segW := 14 + r.rng.Float64()*6
		y0 := y + r.rng.Float64()*4
		y1 := y + r.rng.Float64()*4
		cy0 := y - 6 - r.rng.Float64()*5
		cy1 := y + 8 + r.rng.Float64()*5
		pdf.CurveBezierCubic(
			cursor, y0,
			cursor+segW*0.3, cy0,
			cursor+segW*0.7, cy1,
			cursor+segW, y1,
			"D")
		cursor += segW
	}
}
