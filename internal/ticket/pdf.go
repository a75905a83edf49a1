// Package ticket renders PDF tickets for confirmed reservations.
package ticket

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/eventflow/event-booking/internal/repository"
)

// Renderer produces the downloadable ticket document.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Render builds a one-page PDF ticket from the populated reservation
// detail and returns the raw bytes.
func (r *Renderer) Render(d *repository.TicketDetail) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, "EVENT TICKET", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Event: %s", d.EventTitle), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Date: %s", d.EventDate.Format("Mon, 02 Jan 2006 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Location: %s", d.EventLocation), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 9, fmt.Sprintf("Participant: %s", d.UserFullName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Email: %s", d.UserEmail), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 7, fmt.Sprintf("Ticket ID: %d", d.ReservationID), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 128, 0)
	pdf.CellFormat(0, 7, fmt.Sprintf("Status: %s", d.Status), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
