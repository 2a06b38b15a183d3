package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bandbridge/backend/internal/domain"
)

type timelineRepository struct {
	db *sql.DB
}

// NewTimelineRepository создаёт PostgreSQL-реализацию TimelineRepository.
func NewTimelineRepository(store *Store) domain.TimelineRepository {
	return &timelineRepository{db: store.DB()}
}

func (r *timelineRepository) Append(event domain.TimelineEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO booking_timeline (booking_id, event_id, event_type, subject_id, occurred_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		event.BookingID, event.EventID, string(event.Type), event.SubjectID, event.Occurred,
	)
	if err != nil {
		return fmt.Errorf("insert timeline event: %w", err)
	}
	return nil
}

func (r *timelineRepository) List(bookingID string) ([]domain.TimelineEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT booking_id, event_id, event_type, subject_id, occurred_at
		FROM booking_timeline
		WHERE booking_id = $1
		ORDER BY occurred_at ASC, id ASC
	`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list timeline events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.TimelineEvent, 0)
	for rows.Next() {
		var (
			event     domain.TimelineEvent
			eventType string
		)
		if err := rows.Scan(&event.BookingID, &event.EventID, &eventType, &event.SubjectID, &event.Occurred); err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		event.Type = domain.EventType(eventType)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline events: %w", err)
	}
	return events, nil
}

var _ domain.TimelineRepository = (*timelineRepository)(nil)
