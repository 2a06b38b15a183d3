package memory

import (
	"fmt"
	"sort"

	"github.com/bandbridge/backend/internal/domain"
)

type bookingRepository struct {
	store *Store
}

// Create сохраняет новую заявку, если ID ещё не занят.
func (r *bookingRepository) Create(booking domain.Booking) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[booking.ID]; exists {
		return domain.ErrVersionConflict
	}
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	s.bookings[booking.ID] = booking
	return nil
}

// Get возвращает заявку или ErrBookingNotFound, если её нет.
func (r *bookingRepository) Get(id string) (domain.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, fmt.Errorf("%w: id=%s", domain.ErrBookingNotFound, id)
	}
	return booking, nil
}

// GetByContractID разрешает связку контракт → заявка.
func (r *bookingRepository) GetByContractID(contractID string) (domain.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	contract, ok := s.contracts[contractID]
	if !ok {
		return domain.Booking{}, fmt.Errorf("%w: contract_id=%s", domain.ErrBookingNotFoundForContract, contractID)
	}
	booking, ok := s.bookings[contract.BookingID]
	if !ok {
		return domain.Booking{}, fmt.Errorf("%w: contract_id=%s", domain.ErrBookingNotFoundForContract, contractID)
	}
	return booking, nil
}

// GetByInvoiceID разрешает связку счёт → контракт → заявка.
func (r *bookingRepository) GetByInvoiceID(invoiceID string) (domain.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoice, ok := s.invoices[invoiceID]
	if !ok {
		return domain.Booking{}, fmt.Errorf("%w: invoice_id=%s", domain.ErrBookingNotFoundForInvoice, invoiceID)
	}
	contract, ok := s.contracts[invoice.ContractID]
	if !ok {
		return domain.Booking{}, fmt.Errorf("%w: invoice_id=%s", domain.ErrBookingNotFoundForInvoice, invoiceID)
	}
	booking, ok := s.bookings[contract.BookingID]
	if !ok {
		return domain.Booking{}, fmt.Errorf("%w: invoice_id=%s", domain.ErrBookingNotFoundForInvoice, invoiceID)
	}
	return booking, nil
}

// ListByUser возвращает заявки клиента, ограничивая выборку limit (если >0).
func (r *bookingRepository) ListByUser(userID string, limit int) ([]domain.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		if booking.UserID != userID {
			continue
		}
		result = append(result, booking)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// Save перезаписывает заявку, проверяя версию (optimistic locking).
func (r *bookingRepository) Save(booking domain.Booking) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.bookings[booking.ID]
	if !ok {
		return fmt.Errorf("%w: id=%s", domain.ErrBookingNotFound, booking.ID)
	}
	if current.Version != booking.Version {
		return domain.ErrVersionConflict
	}
	// Инкрементируем версию перед сохранением.
	booking.Version++
	s.bookings[booking.ID] = booking
	return nil
}

var _ domain.BookingRepository = (*bookingRepository)(nil)
