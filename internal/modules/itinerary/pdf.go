package itinerary

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// RenderPDF writes a printable document of v: summary, every day, cost table
// and a QR code linking to the destination map. All days are printed
// regardless of the accordion state.
func RenderPDF(w io.Writer, v View) error {
	qrPNG, err := qrcode.Encode(v.MapLinkURL, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(v.Title), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(140, 9, tr(v.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, tr(v.Destination))
	pdf.Ln(6)
	pdf.Cell(0, 7, tr(v.Duration))
	pdf.Ln(6)
	pdf.Cell(0, 7, v.Total)
	pdf.Ln(10)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("map-qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("map-qr", 160, 12, 35, 35, false, imageOpts, 0, v.MapLinkURL)

	for _, d := range v.Days {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, tr(fmt.Sprintf("Day %d: %s", d.Day, d.Theme)))
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, d.Date)
		pdf.Ln(7)

		pdf.SetFont("Arial", "", 10)
		for _, a := range d.Activities {
			pdf.CellFormat(25, 6, tr(a.Time), "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, string(a.Type), "", 0, "L", false, 0, "")
			pdf.CellFormat(35, 6, a.Cost, "", 0, "L", false, 0, "")
			pdf.MultiCell(0, 6, tr(a.Description), "", "L", false)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Cost Breakdown")
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 10)
	for _, c := range v.Costs {
		pdf.CellFormat(70, 7, tr(c.Category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", c.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d%%", c.Percent), "1", 1, "R", false, 0, "")
	}

	if len(v.Audit.Warnings) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 9)
		for _, warn := range v.Audit.Warnings {
			pdf.MultiCell(0, 5, tr("Note: "+warn), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}
