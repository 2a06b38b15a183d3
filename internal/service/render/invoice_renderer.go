package render

import (
	"bytes"
	"fmt"

	"github.com/bandbridge/backend/internal/domain"
)

// TextRenderer отрисовывает счёт как плоский текстовый документ.
type TextRenderer struct{}

var _ domain.InvoiceRenderer = (*TextRenderer)(nil)

// NewTextRenderer создаёт текстовый рендерер счетов.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render собирает документ счёта по данным заявки, группы и клиента.
func (r *TextRenderer) Render(booking domain.BookingPrimitives, band domain.BandData, user domain.UserData, amountMinor int64) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Invoice for booking %s\n", booking.ID)
	fmt.Fprintf(&buf, "Band: %s\n", band.Name)
	fmt.Fprintf(&buf, "Client: %s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	fmt.Fprintf(&buf, "Event: %s, %s, %s\n", booking.Venue, booking.City, booking.EventDate.Format("2006-01-02"))
	fmt.Fprintf(&buf, "Amount due: %d.%02d\n", amountMinor/100, amountMinor%100)
	return buf.Bytes(), nil
}
