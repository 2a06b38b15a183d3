package memory

import (
	"fmt"

	"github.com/bandbridge/backend/internal/domain"
)

type contractRepository struct {
	store *Store
}

func (r *contractRepository) Create(contract domain.Contract) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contracts[contract.ID]; exists {
		return domain.ErrVersionConflict
	}
	s.contracts[contract.ID] = contract
	return nil
}

func (r *contractRepository) Get(id string) (domain.Contract, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	contract, ok := s.contracts[id]
	if !ok {
		return domain.Contract{}, fmt.Errorf("%w: id=%s", domain.ErrContractNotFound, id)
	}
	return contract, nil
}

func (r *contractRepository) GetByBookingID(bookingID string) (domain.Contract, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, contract := range s.contracts {
		if contract.BookingID == bookingID {
			return contract, nil
		}
	}
	return domain.Contract{}, fmt.Errorf("%w: booking_id=%s", domain.ErrContractNotFound, bookingID)
}

func (r *contractRepository) Save(contract domain.Contract) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.contracts[contract.ID]
	if !ok {
		return fmt.Errorf("%w: id=%s", domain.ErrContractNotFound, contract.ID)
	}
	if current.Version != contract.Version {
		return domain.ErrVersionConflict
	}
	contract.Version++
	s.contracts[contract.ID] = contract
	return nil
}

var _ domain.ContractRepository = (*contractRepository)(nil)
