package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bandbridge/backend/internal/domain"
)

const contractColumns = `
	id, booking_id, signed_by_client, signed_by_band, file_url,
	version, created_at, updated_at
`

type contractRepository struct {
	db *sql.DB
}

// NewContractRepository создаёт PostgreSQL-реализацию ContractRepository.
func NewContractRepository(store *Store) domain.ContractRepository {
	return &contractRepository{db: store.DB()}
}

func (r *contractRepository) Create(contract domain.Contract) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contracts (`+contractColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		contract.ID, contract.BookingID, contract.SignedByClient, contract.SignedByBand,
		contract.FileURL, contract.Version, contract.CreatedAt, contract.UpdatedAt,
	)
	if err != nil {
		// Уникальность и по ID, и по booking_id: на заявку ровно один контракт.
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (r *contractRepository) Get(id string) (domain.Contract, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	contract, err := scanContract(r.db.QueryRowContext(ctx, `
		SELECT `+contractColumns+`
		FROM contracts
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contract{}, fmt.Errorf("%w: id=%s", domain.ErrContractNotFound, id)
		}
		return domain.Contract{}, fmt.Errorf("select contract: %w", err)
	}
	return contract, nil
}

func (r *contractRepository) GetByBookingID(bookingID string) (domain.Contract, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	contract, err := scanContract(r.db.QueryRowContext(ctx, `
		SELECT `+contractColumns+`
		FROM contracts
		WHERE booking_id = $1
	`, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contract{}, fmt.Errorf("%w: booking_id=%s", domain.ErrContractNotFound, bookingID)
		}
		return domain.Contract{}, fmt.Errorf("select contract by booking: %w", err)
	}
	return contract, nil
}

func (r *contractRepository) Save(contract domain.Contract) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE contracts
		SET signed_by_client = $1,
		    signed_by_band = $2,
		    file_url = $3,
		    version = version + 1,
		    updated_at = $4
		WHERE id = $5
		  AND version = $6
	`,
		contract.SignedByClient, contract.SignedByBand, contract.FileURL,
		contract.UpdatedAt, contract.ID, contract.Version,
	)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var found string
		err := r.db.QueryRowContext(ctx, `SELECT id FROM contracts WHERE id = $1`, contract.ID).Scan(&found)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: id=%s", domain.ErrContractNotFound, contract.ID)
		}
		if err != nil {
			return fmt.Errorf("check contract exists: %w", err)
		}
		return domain.ErrVersionConflict
	}
	return nil
}

func scanContract(row rowScanner) (domain.Contract, error) {
	var contract domain.Contract
	if err := row.Scan(
		&contract.ID, &contract.BookingID, &contract.SignedByClient, &contract.SignedByBand,
		&contract.FileURL, &contract.Version, &contract.CreatedAt, &contract.UpdatedAt,
	); err != nil {
		return domain.Contract{}, err
	}
	return contract, nil
}

var _ domain.ContractRepository = (*contractRepository)(nil)
