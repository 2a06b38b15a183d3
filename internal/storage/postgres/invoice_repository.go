package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bandbridge/backend/internal/domain"
)

const invoiceColumns = `
	id, contract_id, amount_minor, status, file_url,
	version, created_at, updated_at
`

type invoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository создаёт PostgreSQL-реализацию InvoiceRepository.
func NewInvoiceRepository(store *Store) domain.InvoiceRepository {
	return &invoiceRepository{db: store.DB()}
}

func (r *invoiceRepository) Create(invoice domain.Invoice) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		invoice.ID, invoice.ContractID, invoice.AmountMinor, string(invoice.Status),
		invoice.FileURL, invoice.Version, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		// Уникальный индекс по contract_id: на контракт ровно один счёт.
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) Get(id string) (domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	invoice, err := scanInvoice(r.db.QueryRowContext(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Invoice{}, fmt.Errorf("%w: id=%s", domain.ErrInvoiceNotFound, id)
		}
		return domain.Invoice{}, fmt.Errorf("select invoice: %w", err)
	}
	return invoice, nil
}

func (r *invoiceRepository) GetByContractID(contractID string) (domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	invoice, err := scanInvoice(r.db.QueryRowContext(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE contract_id = $1
	`, contractID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Invoice{}, fmt.Errorf("%w: contract_id=%s", domain.ErrInvoiceNotFound, contractID)
		}
		return domain.Invoice{}, fmt.Errorf("select invoice by contract: %w", err)
	}
	return invoice, nil
}

func (r *invoiceRepository) Save(invoice domain.Invoice) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE invoices
		SET status = $1,
		    file_url = $2,
		    version = version + 1,
		    updated_at = $3
		WHERE id = $4
		  AND version = $5
	`,
		string(invoice.Status), invoice.FileURL, invoice.UpdatedAt,
		invoice.ID, invoice.Version,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var found string
		err := r.db.QueryRowContext(ctx, `SELECT id FROM invoices WHERE id = $1`, invoice.ID).Scan(&found)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: id=%s", domain.ErrInvoiceNotFound, invoice.ID)
		}
		if err != nil {
			return fmt.Errorf("check invoice exists: %w", err)
		}
		return domain.ErrVersionConflict
	}
	return nil
}

func scanInvoice(row rowScanner) (domain.Invoice, error) {
	var (
		invoice domain.Invoice
		status  string
	)
	if err := row.Scan(
		&invoice.ID, &invoice.ContractID, &invoice.AmountMinor, &status,
		&invoice.FileURL, &invoice.Version, &invoice.CreatedAt, &invoice.UpdatedAt,
	); err != nil {
		return domain.Invoice{}, err
	}
	invoice.Status = domain.InvoiceStatus(status)
	return invoice, nil
}

var _ domain.InvoiceRepository = (*invoiceRepository)(nil)
