package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора группы.
	ErrBandRequired = errors.New("band_id is required")
	// Ошибка отсутствующего идентификатора клиента.
	ErrUserRequired = errors.New("user_id is required")
	// Ошибка отсутствующей даты выступления.
	ErrEventDateRequired = errors.New("event date is required")
	// Ошибка отсутствующего места выступления.
	ErrVenueRequired = errors.New("venue is required")
	// Ошибка отрицательной стоимости выступления.
	ErrCostNegative = errors.New("cost_minor must be non-negative")
	// Ошибка отсутствующего идентификатора контракта в счёте.
	ErrContractIDRequired = errors.New("contract_id is required")
	// Ошибка неизвестного статуса заявки при восстановлении из примитивов.
	ErrUnknownBookingStatus = errors.New("unknown booking status")
	// Ошибка неизвестного статуса счёта при восстановлении из примитивов.
	ErrUnknownInvoiceStatus = errors.New("unknown invoice status")

	// ErrBookingAlreadyProcessed возвращается при попытке перехода из недопустимого статуса.
	ErrBookingAlreadyProcessed = errors.New("booking already processed")
	// ErrNotBookingOwner возвращается, когда заявку пытается отменить не её владелец.
	ErrNotBookingOwner = errors.New("actor is not the booking owner")
	// ErrNotBandMember возвращается, когда заявку принимает пользователь не из группы.
	ErrNotBandMember = errors.New("actor is not a member of the band")
	// ErrContractAlreadySigned возвращается при повторной подписи той же стороной.
	ErrContractAlreadySigned = errors.New("contract already signed by this party")
	// ErrInvoiceAlreadyPaid возвращается при повторной оплате счёта.
	ErrInvoiceAlreadyPaid = errors.New("invoice already paid")

	// ErrBookingNotFound возвращается при поиске заявки по её идентификатору.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrBookingNotFoundForContract возвращается, когда связка контракт → заявка разорвана.
	ErrBookingNotFoundForContract = errors.New("booking not found for contract")
	// ErrBookingNotFoundForInvoice возвращается, когда связка счёт → заявка разорвана.
	ErrBookingNotFoundForInvoice = errors.New("booking not found for invoice")
	// ErrContractNotFound возвращается, если контракт не найден в репозитории.
	ErrContractNotFound = errors.New("contract not found")
	// ErrInvoiceNotFound возвращается, если счёт не найден в репозитории.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrBandNotFound возвращается коннектором, если группа не найдена.
	ErrBandNotFound = errors.New("band not found")
	// ErrUserNotFound возвращается коннектором, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")

	// ErrVersionConflict сигнализирует о конфликте версий при сохранении агрегата.
	ErrVersionConflict = errors.New("aggregate version conflict")
	// ErrUnableToUpdateBooking — ошибка персистентности при обновлении заявки (не "не найдено").
	ErrUnableToUpdateBooking = errors.New("unable to update booking")
	// ErrUnableToCreateInvoice — ошибка персистентности при создании счёта.
	ErrUnableToCreateInvoice = errors.New("unable to create invoice")
	// ErrUnableToUpdateContract — ошибка персистентности при обновлении контракта.
	ErrUnableToUpdateContract = errors.New("unable to update contract")
	// ErrUnableToUpdateInvoice — ошибка персистентности при обновлении счёта.
	ErrUnableToUpdateInvoice = errors.New("unable to update invoice")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsNotFound проверяет, относится ли ошибка к семейству "не найдено".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrBookingNotFoundForContract) ||
		errors.Is(err, ErrBookingNotFoundForInvoice) ||
		errors.Is(err, ErrContractNotFound) ||
		errors.Is(err, ErrInvoiceNotFound) ||
		errors.Is(err, ErrBandNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
