package service

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/campusbus/reservation-core/internal/model"
)

// BoardingPass renders a printable PDF for a CONFIRMED or BOARDED booking, a
// feature the HTTP surface in spec.md §6 never names but that every campus
// bus deployment needs so a rider without the app can still board. Grounded
// on _examples/nerry21-beckend_golang's buildETicketPDF: same gofpdf
// page-of-cells layout, adapted from a seat ticket to a trip boarding pass.
type BoardingPass struct{}

// PassData is everything the PDF needs, assembled by the caller from a
// booking, its trip, and the passenger.
type PassData struct {
	BookingID     uint64
	PassengerName string
	Direction     model.Direction
	Destination   string
	BusLabel      string
	DepartureDate string
	DepartureTime string
	BoardingToken string
}

// Render produces the PDF bytes and a suggested filename.
func (BoardingPass) Render(d PassData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Boarding Pass", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOARDING PASS")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger      : %s", safe(d.PassengerName)),
		fmt.Sprintf("Direction      : %s", safe(string(d.Direction))),
		fmt.Sprintf("Destination    : %s", safe(d.Destination)),
		fmt.Sprintf("Bus            : %s", safe(d.BusLabel)),
		fmt.Sprintf("Date/Departure : %s %s", safe(d.DepartureDate), safe(d.DepartureTime)),
		fmt.Sprintf("Booking Code   : #%d", d.BookingID),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Present this pass and a valid ID at boarding. Your boarding token is scanned, not read.", "", "", false)

	pdf.Ln(4)
	pdf.SetFont("Courier", "", 8)
	pdf.MultiCell(0, 4, d.BoardingToken, "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("boarding-pass-%d.pdf", d.BookingID)
	return buf.Bytes(), filename, nil
}

func safe(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
