package saga

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/domain"
)

// UpdateBookingOnContractSigned переводит заявку accepted → signed, когда
// контракт подписан обеими сторонами. Независим от создания счёта по тому же
// событию: отказ одного обработчика не блокирует второй.
type UpdateBookingOnContractSigned struct {
	bookings domain.BookingRepository
	logger   *log.Entry
}

// NewUpdateBookingOnContractSigned создаёт обработчик перехода заявки.
func NewUpdateBookingOnContractSigned(bookings domain.BookingRepository, logger *log.Entry) *UpdateBookingOnContractSigned {
	if logger == nil {
		logger = log.New().WithField("component", "saga")
	}
	return &UpdateBookingOnContractSigned{bookings: bookings, logger: logger}
}

func (h *UpdateBookingOnContractSigned) Name() string {
	return "update-booking-on-contract-signed"
}

func (h *UpdateBookingOnContractSigned) Handle(_ context.Context, event domain.Event) error {
	signed, ok := event.(domain.ContractSignedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, h.Name())
	}

	err := applyBookingTransition(
		h.logger,
		func() (domain.Booking, error) { return h.bookings.GetByContractID(signed.ContractID) },
		(*domain.Booking).ContractSigned,
		h.bookings.Save,
	)
	if err != nil {
		return err
	}

	h.logger.WithField("contract_id", signed.ContractID).Info("booking marked as signed")
	return nil
}
