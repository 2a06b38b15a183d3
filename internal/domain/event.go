package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType определяет дискриминант доменного события.
type EventType string

const (
	// EventTypeBookingAccepted — группа приняла заявку.
	EventTypeBookingAccepted EventType = "booking.accepted"
	// EventTypeBookingDeclined — группа отклонила заявку.
	EventTypeBookingDeclined EventType = "booking.declined"
	// EventTypeBookingCanceled — клиент отменил заявку.
	EventTypeBookingCanceled EventType = "booking.canceled"
	// EventTypeContractSigned — контракт подписан обеими сторонами.
	EventTypeContractSigned EventType = "contract.signed"
	// EventTypeInvoicePaid — счёт оплачен.
	EventTypeInvoicePaid EventType = "invoice.paid"
)

// Event — неизменяемый факт доменного уровня. События создаются один раз
// агрегатом (или сервисом), зафиксировавшим факт, живут только на время
// диспетчеризации и никогда не персистятся.
type Event interface {
	// EventID возвращает уникальный идентификатор события.
	EventID() string
	// EventType возвращает дискриминант для маршрутизации по подписчикам.
	EventType() EventType
	// OccurredAt возвращает момент фиксации факта.
	OccurredAt() time.Time
	// SubjectID возвращает внешний ключ события (заявка, контракт или счёт).
	SubjectID() string
}

type eventHeader struct {
	id       string
	occurred time.Time
}

func newEventHeader() eventHeader {
	return eventHeader{
		id:       uuid.NewString(),
		occurred: time.Now().UTC(),
	}
}

func (h eventHeader) EventID() string       { return h.id }
func (h eventHeader) OccurredAt() time.Time { return h.occurred }

// BookingAcceptedEvent публикуется после принятия заявки группой.
// Несёт всё необходимое для генерации контракта: заявку, группу и инициатора.
type BookingAcceptedEvent struct {
	eventHeader
	BookingID   string
	BandID      string
	RequestedBy string
}

// NewBookingAcceptedEvent создаёт событие принятия заявки.
func NewBookingAcceptedEvent(bookingID, bandID, requestedBy string) BookingAcceptedEvent {
	return BookingAcceptedEvent{
		eventHeader: newEventHeader(),
		BookingID:   bookingID,
		BandID:      bandID,
		RequestedBy: requestedBy,
	}
}

func (BookingAcceptedEvent) EventType() EventType   { return EventTypeBookingAccepted }
func (e BookingAcceptedEvent) SubjectID() string     { return e.BookingID }

// BookingDeclinedEvent публикуется после отклонения заявки группой.
type BookingDeclinedEvent struct {
	eventHeader
	BookingID string
}

// NewBookingDeclinedEvent создаёт событие отклонения заявки.
func NewBookingDeclinedEvent(bookingID string) BookingDeclinedEvent {
	return BookingDeclinedEvent{eventHeader: newEventHeader(), BookingID: bookingID}
}

func (BookingDeclinedEvent) EventType() EventType { return EventTypeBookingDeclined }
func (e BookingDeclinedEvent) SubjectID() string  { return e.BookingID }

// BookingCanceledEvent публикуется после отмены заявки клиентом.
type BookingCanceledEvent struct {
	eventHeader
	BookingID string
}

// NewBookingCanceledEvent создаёт событие отмены заявки.
func NewBookingCanceledEvent(bookingID string) BookingCanceledEvent {
	return BookingCanceledEvent{eventHeader: newEventHeader(), BookingID: bookingID}
}

func (BookingCanceledEvent) EventType() EventType { return EventTypeBookingCanceled }
func (e BookingCanceledEvent) SubjectID() string  { return e.BookingID }

// ContractSignedEvent публикуется, когда контракт подписан обеими сторонами.
type ContractSignedEvent struct {
	eventHeader
	ContractID string
}

// NewContractSignedEvent создаёт событие полной подписи контракта.
func NewContractSignedEvent(contractID string) ContractSignedEvent {
	return ContractSignedEvent{eventHeader: newEventHeader(), ContractID: contractID}
}

func (ContractSignedEvent) EventType() EventType { return EventTypeContractSigned }
func (e ContractSignedEvent) SubjectID() string  { return e.ContractID }

// InvoicePaidEvent публикуется после оплаты счёта.
type InvoicePaidEvent struct {
	eventHeader
	InvoiceID string
}

// NewInvoicePaidEvent создаёт событие оплаты счёта.
func NewInvoicePaidEvent(invoiceID string) InvoicePaidEvent {
	return InvoicePaidEvent{eventHeader: newEventHeader(), InvoiceID: invoiceID}
}

func (InvoicePaidEvent) EventType() EventType { return EventTypeInvoicePaid }
func (e InvoicePaidEvent) SubjectID() string  { return e.InvoiceID }
