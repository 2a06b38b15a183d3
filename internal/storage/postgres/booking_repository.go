package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bandbridge/backend/internal/domain"
)

const opTimeout = 5 * time.Second

const bookingColumns = `
	id, band_id, user_id, status, event_date, venue, city,
	amount_minor, version, created_at, updated_at
`

type bookingRepository struct {
	db *sql.DB
}

// NewBookingRepository создаёт PostgreSQL-реализацию BookingRepository.
func NewBookingRepository(store *Store) domain.BookingRepository {
	return &bookingRepository{db: store.DB()}
}

func (r *bookingRepository) Create(booking domain.Booking) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		booking.ID, booking.BandID, booking.UserID, string(booking.Status),
		booking.EventDate, booking.Venue, booking.City,
		booking.CostMinor, booking.Version, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(id string) (domain.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	booking, err := scanBooking(r.db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, fmt.Errorf("%w: id=%s", domain.ErrBookingNotFound, id)
		}
		return domain.Booking{}, fmt.Errorf("select booking: %w", err)
	}
	return booking, nil
}

func (r *bookingRepository) GetByContractID(contractID string) (domain.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	booking, err := scanBooking(r.db.QueryRowContext(ctx, `
		SELECT b.id, b.band_id, b.user_id, b.status, b.event_date, b.venue, b.city,
		       b.amount_minor, b.version, b.created_at, b.updated_at
		FROM bookings b
		JOIN contracts c ON c.booking_id = b.id
		WHERE c.id = $1
	`, contractID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, fmt.Errorf("%w: contract_id=%s", domain.ErrBookingNotFoundForContract, contractID)
		}
		return domain.Booking{}, fmt.Errorf("select booking by contract: %w", err)
	}
	return booking, nil
}

func (r *bookingRepository) GetByInvoiceID(invoiceID string) (domain.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	booking, err := scanBooking(r.db.QueryRowContext(ctx, `
		SELECT b.id, b.band_id, b.user_id, b.status, b.event_date, b.venue, b.city,
		       b.amount_minor, b.version, b.created_at, b.updated_at
		FROM bookings b
		JOIN contracts c ON c.booking_id = b.id
		JOIN invoices i ON i.contract_id = c.id
		WHERE i.id = $1
	`, invoiceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, fmt.Errorf("%w: invoice_id=%s", domain.ErrBookingNotFoundForInvoice, invoiceID)
		}
		return domain.Booking{}, fmt.Errorf("select booking by invoice: %w", err)
	}
	return booking, nil
}

func (r *bookingRepository) ListByUser(userID string, limit int) ([]domain.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $2", userID, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) Save(booking domain.Booking) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = $1,
		    amount_minor = $2,
		    version = version + 1,
		    updated_at = $3
		WHERE id = $4
		  AND version = $5
	`,
		string(booking.Status), booking.CostMinor, booking.UpdatedAt,
		booking.ID, booking.Version,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.bookingExists(ctx, booking.ID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: id=%s", domain.ErrBookingNotFound, booking.ID)
		}
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *bookingRepository) bookingExists(ctx context.Context, id string) (bool, error) {
	var found string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM bookings WHERE id = $1`, id).Scan(&found)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check booking exists: %w", err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (domain.Booking, error) {
	var (
		booking domain.Booking
		status  string
	)
	if err := row.Scan(
		&booking.ID, &booking.BandID, &booking.UserID, &status,
		&booking.EventDate, &booking.Venue, &booking.City,
		&booking.CostMinor, &booking.Version, &booking.CreatedAt, &booking.UpdatedAt,
	); err != nil {
		return domain.Booking{}, err
	}
	booking.Status = domain.BookingStatus(status)
	return booking, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.BookingRepository = (*bookingRepository)(nil)
