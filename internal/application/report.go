package application

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"
)

var reportColumns = []struct {
	title string
	width float64
}{
	{"Reference", 26},
	{"Tourist", 40},
	{"Guide", 38},
	{"Place", 48},
	{"Date", 24},
	{"Time", 16},
	{"Guests", 16},
	{"Status", 24},
	{"Phone", 30},
}

// buildBookingReport renders bookings as a landscape A4 table.
func buildBookingReport(bookings []BookingDTO, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Bookings", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Guide bookings")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, %d bookings", generatedAt.Format("2006-01-02 15:04"), len(bookings)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range reportColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, b := range bookings {
		row := []string{
			b.Reference,
			b.TouristName,
			b.GuideName,
			b.PlaceName,
			b.Date,
			b.Time,
			strconv.Itoa(b.Guests),
			b.Status,
			b.Phone,
		}
		for i, col := range reportColumns {
			pdf.CellFormat(col.width, 6, truncate(pdf, row[i], col.width-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render booking report: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
