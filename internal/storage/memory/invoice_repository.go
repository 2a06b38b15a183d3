package memory

import (
	"fmt"

	"github.com/bandbridge/backend/internal/domain"
)

type invoiceRepository struct {
	store *Store
}

// Create сохраняет новый счёт. На один контракт допускается ровно один счёт,
// как и в SQL-схеме (уникальный индекс по contract_id).
func (r *invoiceRepository) Create(invoice domain.Invoice) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[invoice.ID]; exists {
		return domain.ErrVersionConflict
	}
	for _, existing := range s.invoices {
		if existing.ContractID == invoice.ContractID {
			return domain.ErrVersionConflict
		}
	}
	s.invoices[invoice.ID] = invoice
	return nil
}

func (r *invoiceRepository) Get(id string) (domain.Invoice, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoice, ok := s.invoices[id]
	if !ok {
		return domain.Invoice{}, fmt.Errorf("%w: id=%s", domain.ErrInvoiceNotFound, id)
	}
	return invoice, nil
}

func (r *invoiceRepository) GetByContractID(contractID string) (domain.Invoice, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, invoice := range s.invoices {
		if invoice.ContractID == contractID {
			return invoice, nil
		}
	}
	return domain.Invoice{}, fmt.Errorf("%w: contract_id=%s", domain.ErrInvoiceNotFound, contractID)
}

func (r *invoiceRepository) Save(invoice domain.Invoice) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.invoices[invoice.ID]
	if !ok {
		return fmt.Errorf("%w: id=%s", domain.ErrInvoiceNotFound, invoice.ID)
	}
	if current.Version != invoice.Version {
		return domain.ErrVersionConflict
	}
	invoice.Version++
	s.invoices[invoice.ID] = invoice
	return nil
}

var _ domain.InvoiceRepository = (*invoiceRepository)(nil)
