package domain

// BookingRepository описывает требования к хранилищу заявок.
type BookingRepository interface {
	// Create сохраняет новую заявку. Возвращает ошибку, если запись с таким ID уже существует.
	Create(booking Booking) error
	// Get возвращает заявку по идентификатору или ErrBookingNotFound, если её нет.
	Get(id string) (Booking, error)
	// GetByContractID возвращает заявку по идентификатору контракта
	// или ErrBookingNotFoundForContract с указанием оборванной связки.
	GetByContractID(contractID string) (Booking, error)
	// GetByInvoiceID возвращает заявку по идентификатору счёта
	// или ErrBookingNotFoundForInvoice с указанием оборванной связки.
	GetByInvoiceID(invoiceID string) (Booking, error)
	// ListByUser возвращает заявки клиента с опциональным ограничением на количество.
	ListByUser(userID string, limit int) ([]Booking, error)
	// Save применяет обновления к заявке с учётом optimistic locking.
	Save(booking Booking) error
}

// ContractRepository описывает требования к хранилищу контрактов.
type ContractRepository interface {
	Create(contract Contract) error
	// Get возвращает контракт или ErrContractNotFound, если его нет.
	Get(id string) (Contract, error)
	// GetByBookingID возвращает контракт по идентификатору заявки.
	GetByBookingID(bookingID string) (Contract, error)
	Save(contract Contract) error
}

// InvoiceRepository описывает требования к хранилищу счетов.
type InvoiceRepository interface {
	Create(invoice Invoice) error
	// Get возвращает счёт или ErrInvoiceNotFound, если его нет.
	Get(id string) (Invoice, error)
	// GetByContractID возвращает счёт, выставленный по контракту.
	GetByContractID(contractID string) (Invoice, error)
	Save(invoice Invoice) error
}

// TimelineRepository хранит журнал событий жизненного цикла заявки.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(bookingID string) ([]TimelineEvent, error)
}
