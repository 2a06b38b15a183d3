package saga

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/domain"
)

const (
	maxSaveAttempts = 3
	baseRetryDelay  = 10 * time.Millisecond
)

// applyBookingTransition загружает заявку, применяет переход и сохраняет её.
// Конфликт версий — retryable: заявка перечитывается и переход применяется
// заново с экспоненциальной задержкой. Остальные ошибки сохранения
// оборачиваются в ErrUnableToUpdateBooking.
func applyBookingTransition(
	logger *log.Entry,
	load func() (domain.Booking, error),
	mutate func(b *domain.Booking) error,
	save func(b domain.Booking) error,
) error {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		booking, err := load()
		if err != nil {
			return err
		}
		if err := mutate(&booking); err != nil {
			return err
		}

		err = save(booking)
		if err == nil {
			return nil
		}
		if domain.IsVersionConflict(err) && attempt < maxSaveAttempts-1 {
			logger.WithFields(log.Fields{
				"booking_id": booking.ID,
				"attempt":    attempt + 1,
				"version":    booking.Version,
			}).Warn("version conflict detected, retrying")

			time.Sleep(baseRetryDelay * time.Duration(1<<uint(attempt)))
			continue
		}
		if domain.IsVersionConflict(err) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrUnableToUpdateBooking, err)
	}

	return domain.ErrVersionConflict
}
