package domain

import "time"

// BookingStatus описывает жизненный цикл заявки на выступление.
type BookingStatus string

const (
	// BookingStatusPending — заявка создана клиентом и ждёт ответа группы.
	BookingStatusPending BookingStatus = "pending"
	// BookingStatusAccepted — группа приняла заявку, запущена генерация контракта.
	BookingStatusAccepted BookingStatus = "accepted"
	// BookingStatusDeclined — группа отклонила заявку (терминальный статус).
	BookingStatusDeclined BookingStatus = "declined"
	// BookingStatusSigned — контракт по заявке подписан обеими сторонами.
	BookingStatusSigned BookingStatus = "signed"
	// BookingStatusPaid — счёт по заявке оплачен (терминальный статус).
	BookingStatusPaid BookingStatus = "paid"
	// BookingStatusCanceled — клиент отменил заявку до ответа группы (терминальный статус).
	BookingStatusCanceled BookingStatus = "canceled"
)

// KnownBookingStatuses перечисляет все допустимые статусы заявки.
func KnownBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusAccepted,
		BookingStatusDeclined,
		BookingStatusSigned,
		BookingStatusPaid,
		BookingStatusCanceled,
	}
}

// Booking агрегирует состояние заявки на выступление группы.
// Поля места и даты выступления неизменяемы после создания;
// меняется только статус (и служебные Version/UpdatedAt).
type Booking struct {
	ID        string
	BandID    string
	UserID    string
	Status    BookingStatus
	EventDate time.Time
	Venue     string
	City      string
	CostMinor int64
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты заявки и возвращает список замечаний.
func (b *Booking) ValidateInvariants() []error {
	var errs []error

	if b.BandID == "" {
		errs = append(errs, ErrBandRequired)
	}
	if b.UserID == "" {
		errs = append(errs, ErrUserRequired)
	}
	if b.EventDate.IsZero() {
		errs = append(errs, ErrEventDateRequired)
	}
	if b.Venue == "" {
		errs = append(errs, ErrVenueRequired)
	}
	if b.CostMinor < 0 {
		errs = append(errs, ErrCostNegative)
	}

	return errs
}

// Accept переводит заявку pending → accepted. Вызывается после проверки,
// что действующий пользователь состоит в группе заявки.
func (b *Booking) Accept() error {
	if b.Status != BookingStatusPending {
		return ErrBookingAlreadyProcessed
	}
	b.transition(BookingStatusAccepted)
	return nil
}

// Decline переводит заявку pending → declined.
func (b *Booking) Decline() error {
	if b.Status != BookingStatusPending {
		return ErrBookingAlreadyProcessed
	}
	b.transition(BookingStatusDeclined)
	return nil
}

// Cancel переводит заявку pending → canceled. Отменить заявку может только её владелец.
func (b *Booking) Cancel(byUserID string) error {
	if b.UserID != byUserID {
		return ErrNotBookingOwner
	}
	if b.Status != BookingStatusPending {
		return ErrBookingAlreadyProcessed
	}
	b.transition(BookingStatusCanceled)
	return nil
}

// ContractSigned переводит заявку accepted → signed, когда контракт подписан обеими сторонами.
func (b *Booking) ContractSigned() error {
	if b.Status != BookingStatusAccepted {
		return ErrBookingAlreadyProcessed
	}
	b.transition(BookingStatusSigned)
	return nil
}

// InvoicePaid переводит заявку signed → paid после оплаты счёта.
func (b *Booking) InvoicePaid() error {
	if b.Status != BookingStatusSigned {
		return ErrBookingAlreadyProcessed
	}
	b.transition(BookingStatusPaid)
	return nil
}

// IsTerminal сообщает, достигла ли заявка терминального статуса.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingStatusDeclined, BookingStatusPaid, BookingStatusCanceled:
		return true
	default:
		return false
	}
}

func (b *Booking) transition(to BookingStatus) {
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
}
