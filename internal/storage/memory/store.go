package memory

import (
	"sync"

	"github.com/bandbridge/backend/internal/domain"
)

// Store — общее in-memory хранилище агрегатов для локальной разработки
// и тестов. Связки контракт → заявка и счёт → контракт разрешаются по
// идентификаторам, как и в SQL-реализации.
type Store struct {
	mu        sync.RWMutex
	bookings  map[string]domain.Booking
	contracts map[string]domain.Contract
	invoices  map[string]domain.Invoice
}

// NewStore создаёт пустое хранилище.
func NewStore() *Store {
	return &Store{
		bookings:  make(map[string]domain.Booking),
		contracts: make(map[string]domain.Contract),
		invoices:  make(map[string]domain.Invoice),
	}
}

// Bookings возвращает репозиторий заявок поверх хранилища.
func (s *Store) Bookings() domain.BookingRepository {
	return &bookingRepository{store: s}
}

// Contracts возвращает репозиторий контрактов поверх хранилища.
func (s *Store) Contracts() domain.ContractRepository {
	return &contractRepository{store: s}
}

// Invoices возвращает репозиторий счетов поверх хранилища.
func (s *Store) Invoices() domain.InvoiceRepository {
	return &invoiceRepository{store: s}
}
