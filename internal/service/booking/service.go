package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/auth"
	"github.com/bandbridge/backend/internal/domain"
	"github.com/bandbridge/backend/internal/eventbus"
)

// CreateParams — входные данные новой заявки на выступление.
type CreateParams struct {
	BandID    string
	EventDate time.Time
	Venue     string
	City      string
	CostMinor int64
}

// Service описывает операции над заявками. Каждая операция защищена
// guard-ом со своим allow-list ролей.
type Service interface {
	Create(ctx context.Context, actor auth.Actor, params CreateParams) (domain.Booking, error)
	Accept(ctx context.Context, actor auth.Actor, bookingID string) (domain.Booking, error)
	Decline(ctx context.Context, actor auth.Actor, bookingID string) (domain.Booking, error)
	Cancel(ctx context.Context, actor auth.Actor, bookingID string) (domain.Booking, error)
	Get(ctx context.Context, actor auth.Actor, bookingID string) (domain.Booking, error)
	ListByUser(ctx context.Context, actor auth.Actor, userID string, limit int) ([]domain.Booking, error)
	ListTimeline(ctx context.Context, actor auth.Actor, bookingID string) ([]domain.TimelineEvent, error)
}

type service struct {
	bookings  domain.BookingRepository
	timeline  domain.TimelineRepository
	connector domain.ModuleConnector
	bus       eventbus.Publisher
	logger    *log.Entry

	createGuard auth.Guard
	decideGuard auth.Guard
	cancelGuard auth.Guard
	readGuard   auth.Guard
}

var _ Service = (*service)(nil)

// NewService создаёт сервис заявок.
func NewService(
	bookings domain.BookingRepository,
	timeline domain.TimelineRepository,
	connector domain.ModuleConnector,
	bus eventbus.Publisher,
	logger *log.Entry,
) Service {
	if logger == nil {
		logger = log.New().WithField("component", "booking-service")
	}
	return &service{
		bookings:  bookings,
		timeline:  timeline,
		connector: connector,
		bus:       bus,
		logger:    logger,

		createGuard: auth.Allow(auth.RoleClient, auth.RoleAdmin),
		decideGuard: auth.Allow(auth.RoleBandMember, auth.RoleAdmin),
		cancelGuard: auth.Allow(auth.RoleClient, auth.RoleAdmin),
		readGuard:   auth.Allow(auth.RoleClient, auth.RoleBandMember, auth.RoleAdmin),
	}
}

// Create регистрирует новую заявку в статусе pending.
func (s *service) Create(_ context.Context, actor auth.Actor, params CreateParams) (domain.Booking, error) {
	if err := s.createGuard(actor); err != nil {
		return domain.Booking{}, err
	}
	if _, err := s.connector.GetBandByID(params.BandID); err != nil {
		return domain.Booking{}, err
	}

	now := time.Now().UTC()
	booking := domain.Booking{
		ID:        uuid.NewString(),
		BandID:    params.BandID,
		UserID:    actor.UserID,
		Status:    domain.BookingStatusPending,
		EventDate: params.EventDate,
		Venue:     params.Venue,
		City:      params.City,
		CostMinor: params.CostMinor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errs := booking.ValidateInvariants(); len(errs) > 0 {
		return domain.Booking{}, errors.Join(errs...)
	}
	if err := s.bookings.Create(booking); err != nil {
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"booking_id": booking.ID,
		"band_id":    booking.BandID,
		"user_id":    booking.UserID,
	}).Info("booking created")
	return booking, nil
}

// Accept принимает заявку от имени участника группы. После сохранения
// публикует BookingAccepted; генерация контракта происходит асинхронно.
func (s *service) Accept(ctx context.Context, actor auth.Actor, bookingID string) (domain.Booking, error) {
	if err := s.decideGuard(actor); err != nil {
		return domain.Booking{}, err
	}

	booking, err := s.bookings.Get(bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := s.verifyBandMembership(actor, booking.BandID); err != nil {
		return domain.Booking{}, err
	}
	if err := booking.Accept(); err != nil {
		return domain.Booking{}, err
	}
	if err := s.bookings.Save(booking); err != nil {
		return domain.Booking{}, fmt.Errorf("%w: %v", domain.ErrUnableToUpdateBooking, err)
	}

	s.logger.WithFields(log.Fields{
		"booking_id": booking.ID,
		"band_id":    booking.BandID,
	}).Info("booking accepted")
	s.publish(ctx, domain.NewBookingAcceptedEvent(booking.ID, booking.BandID, actor.UserID))
	return booking, nil
}

// Decline отклоняет заявку от имени участника группы.
func (s *service) Decline(ctx context.Context, actor auth.Actor, bookingID string) (domain.Booking, error) {
	if err := s.decideGuard(actor); err != nil {
		return domain.Booking{}, err
	}

	booking, err := s.bookings.Get(bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := s.verifyBandMembership(actor, booking.BandID); err != nil {
		return domain.Booking{}, err
	}
	if err := booking.Decline(); err != nil {
		return domain.Booking{}, err
	}
	if err := s.bookings.Save(booking); err != nil {
		return domain.Booking{}, fmt.Errorf("%w: %v", domain.ErrUnableToUpdateBooking, err)
	}

	s.logger.WithField("booking_id", booking.ID).Info("booking declined")
	s.publish(ctx, domain.NewBookingDeclinedEvent(booking.ID))
	return booking, nil
}

// Cancel снимает заявку по инициативе клиента-владельца. Администратор
// может отменить любую заявку.
func (s *service) Cancel(ctx context.Context, actor auth.Actor, bookingID string) (domain.Booking, error) {
	if err := s.cancelGuard(actor); err != nil {
		return domain.Booking{}, err
	}

	booking, err := s.bookings.Get(bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	byUserID := actor.UserID
	if actor.Role == auth.RoleAdmin {
		byUserID = booking.UserID
	}
	if err := booking.Cancel(byUserID); err != nil {
		return domain.Booking{}, err
	}
	if err := s.bookings.Save(booking); err != nil {
		return domain.Booking{}, fmt.Errorf("%w: %v", domain.ErrUnableToUpdateBooking, err)
	}

	s.logger.WithField("booking_id", booking.ID).Info("booking canceled")
	s.publish(ctx, domain.NewBookingCanceledEvent(booking.ID))
	return booking, nil
}

// Get возвращает заявку по идентификатору.
func (s *service) Get(_ context.Context, actor auth.Actor, bookingID string) (domain.Booking, error) {
	if err := s.readGuard(actor); err != nil {
		return domain.Booking{}, err
	}
	return s.bookings.Get(bookingID)
}

// ListByUser возвращает заявки клиента, свежие первыми.
func (s *service) ListByUser(_ context.Context, actor auth.Actor, userID string, limit int) ([]domain.Booking, error) {
	if err := s.readGuard(actor); err != nil {
		return nil, err
	}
	return s.bookings.ListByUser(userID, limit)
}

// ListTimeline возвращает журнал жизненного цикла заявки.
func (s *service) ListTimeline(_ context.Context, actor auth.Actor, bookingID string) ([]domain.TimelineEvent, error) {
	if err := s.readGuard(actor); err != nil {
		return nil, err
	}
	if _, err := s.bookings.Get(bookingID); err != nil {
		return nil, err
	}
	return s.timeline.List(bookingID)
}

func (s *service) verifyBandMembership(actor auth.Actor, bandID string) error {
	if actor.Role == auth.RoleAdmin {
		return nil
	}
	members, err := s.connector.ObtainBandMembers(bandID)
	if err != nil {
		return err
	}
	for _, member := range members {
		if member == actor.UserID {
			return nil
		}
	}
	return fmt.Errorf("%w: user_id=%s band_id=%s", domain.ErrNotBandMember, actor.UserID, bandID)
}

// Событие публикуется после коммита состояния; отказ шины не откатывает
// заявку, а фиксируется в логе.
func (s *service) publish(ctx context.Context, event domain.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"event_type": event.EventType(),
			"subject_id": event.SubjectID(),
		}).Error("failed to publish domain event")
	}
}
