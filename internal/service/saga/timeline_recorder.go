package saga

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/domain"
)

// TimelineRecorder ведёт журнал жизненного цикла заявки: каждое доменное
// событие превращается в запись timeline. Для контрактных и платёжных событий
// заявка восстанавливается по внешнему ключу; если связка оборвана, запись
// сохраняется под исходным subject id.
type TimelineRecorder struct {
	bookings domain.BookingRepository
	timeline domain.TimelineRepository
	logger   *log.Entry
}

// NewTimelineRecorder создаёт регистратор журнала.
func NewTimelineRecorder(bookings domain.BookingRepository, timeline domain.TimelineRepository, logger *log.Entry) *TimelineRecorder {
	if logger == nil {
		logger = log.New().WithField("component", "timeline")
	}
	return &TimelineRecorder{bookings: bookings, timeline: timeline, logger: logger}
}

func (h *TimelineRecorder) Name() string {
	return "booking-timeline-recorder"
}

func (h *TimelineRecorder) Handle(_ context.Context, event domain.Event) error {
	entry := domain.TimelineEvent{
		BookingID: h.resolveBookingID(event),
		EventID:   event.EventID(),
		Type:      event.EventType(),
		SubjectID: event.SubjectID(),
		Occurred:  event.OccurredAt(),
	}
	return h.timeline.Append(entry)
}

func (h *TimelineRecorder) resolveBookingID(event domain.Event) string {
	var (
		booking domain.Booking
		err     error
	)

	switch event.EventType() {
	case domain.EventTypeContractSigned:
		booking, err = h.bookings.GetByContractID(event.SubjectID())
	case domain.EventTypeInvoicePaid:
		booking, err = h.bookings.GetByInvoiceID(event.SubjectID())
	default:
		// События заявки уже несут её идентификатор.
		return event.SubjectID()
	}

	if err != nil {
		h.logger.WithError(err).WithFields(log.Fields{
			"event_type": event.EventType(),
			"subject_id": event.SubjectID(),
		}).Debug("timeline booking lookup failed, recording under subject id")
		return event.SubjectID()
	}
	return booking.ID
}
