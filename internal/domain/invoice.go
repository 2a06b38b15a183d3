package domain

import "time"

// InvoiceStatus описывает состояние счёта.
type InvoiceStatus string

const (
	// InvoiceStatusPending — счёт выставлен и ждёт оплаты.
	InvoiceStatusPending InvoiceStatus = "pending"
	// InvoiceStatusPaid — счёт оплачен клиентом.
	InvoiceStatusPaid InvoiceStatus = "paid"
)

// Invoice — счёт по подписанному контракту. ContractID — обратная ссылка,
// счёт не владеет контрактом. Создаётся ровно один раз на подписанный контракт.
type Invoice struct {
	ID          string
	ContractID  string
	AmountMinor int64
	Status      InvoiceStatus
	FileURL     string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Pay отмечает счёт оплаченным.
func (i *Invoice) Pay() error {
	if i.Status != InvoiceStatusPending {
		return ErrInvoiceAlreadyPaid
	}
	i.Status = InvoiceStatusPaid
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// ValidateInvariants проверяет базовые инварианты счёта.
func (i *Invoice) ValidateInvariants() []error {
	var errs []error

	if i.ContractID == "" {
		errs = append(errs, ErrContractIDRequired)
	}
	if i.AmountMinor < 0 {
		errs = append(errs, ErrCostNegative)
	}

	return errs
}
