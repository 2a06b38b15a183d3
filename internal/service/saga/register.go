package saga

import (
	"github.com/bandbridge/backend/internal/domain"
	"github.com/bandbridge/backend/internal/eventbus"
)

// Handlers собирает все обработчики саги. nil-поле пропускается при
// регистрации, что позволяет собирать усечённые конфигурации в тестах.
type Handlers struct {
	GenerateContract      *GenerateContractOnBookingAccepted
	BookingContractSigned *UpdateBookingOnContractSigned
	CreateInvoice         *CreateInvoiceOnContractSigned
	BookingInvoicePaid    *UpdateBookingOnInvoicePaid
	Timeline              *TimelineRecorder
	// Extra получают все типы событий (зеркалирование, аудит).
	Extra []eventbus.Handler
}

// Register связывает обработчики с типами событий через явную таблицу
// регистрации — никакого сканирования метаданных на старте.
func Register(bus eventbus.Subscriber, h Handlers) error {
	if h.GenerateContract != nil {
		if err := bus.Subscribe(domain.EventTypeBookingAccepted, h.GenerateContract); err != nil {
			return err
		}
	}
	// Два независимых потребителя одного события: переход заявки и счёт.
	if h.BookingContractSigned != nil {
		if err := bus.Subscribe(domain.EventTypeContractSigned, h.BookingContractSigned); err != nil {
			return err
		}
	}
	if h.CreateInvoice != nil {
		if err := bus.Subscribe(domain.EventTypeContractSigned, h.CreateInvoice); err != nil {
			return err
		}
	}
	if h.BookingInvoicePaid != nil {
		if err := bus.Subscribe(domain.EventTypeInvoicePaid, h.BookingInvoicePaid); err != nil {
			return err
		}
	}

	allTypes := []domain.EventType{
		domain.EventTypeBookingAccepted,
		domain.EventTypeBookingDeclined,
		domain.EventTypeBookingCanceled,
		domain.EventTypeContractSigned,
		domain.EventTypeInvoicePaid,
	}
	for _, t := range allTypes {
		if h.Timeline != nil {
			if err := bus.Subscribe(t, h.Timeline); err != nil {
				return err
			}
		}
		for _, extra := range h.Extra {
			if err := bus.Subscribe(t, extra); err != nil {
				return err
			}
		}
	}
	return nil
}
