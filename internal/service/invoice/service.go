package invoice

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/auth"
	"github.com/bandbridge/backend/internal/domain"
	"github.com/bandbridge/backend/internal/eventbus"
)

// Service описывает операции над счетами.
type Service interface {
	// Pay отмечает счёт оплаченным от имени клиента-владельца заявки
	// и публикует InvoicePaid.
	Pay(ctx context.Context, actor auth.Actor, invoiceID string) (domain.Invoice, error)
	Get(ctx context.Context, actor auth.Actor, invoiceID string) (domain.Invoice, error)
	GetByContractID(ctx context.Context, actor auth.Actor, contractID string) (domain.Invoice, error)
}

type service struct {
	invoices domain.InvoiceRepository
	bookings domain.BookingRepository
	bus      eventbus.Publisher
	logger   *log.Entry

	payGuard  auth.Guard
	readGuard auth.Guard
}

var _ Service = (*service)(nil)

// NewService создаёт сервис счетов.
func NewService(
	invoices domain.InvoiceRepository,
	bookings domain.BookingRepository,
	bus eventbus.Publisher,
	logger *log.Entry,
) Service {
	if logger == nil {
		logger = log.New().WithField("component", "invoice-service")
	}
	return &service{
		invoices: invoices,
		bookings: bookings,
		bus:      bus,
		logger:   logger,

		payGuard:  auth.Allow(auth.RoleClient, auth.RoleAdmin),
		readGuard: auth.Allow(auth.RoleClient, auth.RoleBandMember, auth.RoleAdmin),
	}
}

func (s *service) Pay(ctx context.Context, actor auth.Actor, invoiceID string) (domain.Invoice, error) {
	if err := s.payGuard(actor); err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.invoices.Get(invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	booking, err := s.bookings.GetByInvoiceID(invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if actor.Role != auth.RoleAdmin && booking.UserID != actor.UserID {
		return domain.Invoice{}, fmt.Errorf("%w: user_id=%s booking_id=%s",
			domain.ErrNotBookingOwner, actor.UserID, booking.ID)
	}

	if err := invoice.Pay(); err != nil {
		return domain.Invoice{}, err
	}
	if err := s.invoices.Save(invoice); err != nil {
		return domain.Invoice{}, fmt.Errorf("%w: %v", domain.ErrUnableToUpdateInvoice, err)
	}

	s.logger.WithFields(log.Fields{
		"invoice_id":   invoice.ID,
		"contract_id":  invoice.ContractID,
		"amount_minor": invoice.AmountMinor,
	}).Info("invoice paid")
	s.publish(ctx, domain.NewInvoicePaidEvent(invoice.ID))
	return invoice, nil
}

func (s *service) Get(_ context.Context, actor auth.Actor, invoiceID string) (domain.Invoice, error) {
	if err := s.readGuard(actor); err != nil {
		return domain.Invoice{}, err
	}
	return s.invoices.Get(invoiceID)
}

func (s *service) GetByContractID(_ context.Context, actor auth.Actor, contractID string) (domain.Invoice, error) {
	if err := s.readGuard(actor); err != nil {
		return domain.Invoice{}, err
	}
	return s.invoices.GetByContractID(contractID)
}

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
