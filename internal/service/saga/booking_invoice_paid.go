package saga

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/domain"
)

// UpdateBookingOnInvoicePaid переводит заявку signed → paid после оплаты счёта.
type UpdateBookingOnInvoicePaid struct {
	bookings domain.BookingRepository
	logger   *log.Entry
}

// NewUpdateBookingOnInvoicePaid создаёт обработчик завершения цикла заявки.
func NewUpdateBookingOnInvoicePaid(bookings domain.BookingRepository, logger *log.Entry) *UpdateBookingOnInvoicePaid {
	if logger == nil {
		logger = log.New().WithField("component", "saga")
	}
	return &UpdateBookingOnInvoicePaid{bookings: bookings, logger: logger}
}

func (h *UpdateBookingOnInvoicePaid) Name() string {
	return "update-booking-on-invoice-paid"
}

func (h *UpdateBookingOnInvoicePaid) Handle(_ context.Context, event domain.Event) error {
	paid, ok := event.(domain.InvoicePaidEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, h.Name())
	}

	err := applyBookingTransition(
		h.logger,
		func() (domain.Booking, error) { return h.bookings.GetByInvoiceID(paid.InvoiceID) },
		(*domain.Booking).InvoicePaid,
		h.bookings.Save,
	)
	if err != nil {
		return err
	}

	h.logger.WithField("invoice_id", paid.InvoiceID).Info("booking marked as paid")
	return nil
}
