package invoice_test

import (
	"context"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/bandbridge/backend/internal/auth"
	"github.com/bandbridge/backend/internal/domain"
	"github.com/bandbridge/backend/internal/service/invoice"
	"github.com/bandbridge/backend/internal/storage/memory"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *capturePublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Event, len(p.events))
	copy(out, p.events)
	return out
}

func newFixture(t *testing.T) (*memory.Store, *capturePublisher, invoice.Service) {
	t.Helper()

	store := memory.NewStore()
	now := time.Now().UTC()
	require.NoError(t, store.Bookings().Create(domain.Booking{
		ID:        "booking-1",
		BandID:    "band-1",
		UserID:    "client-1",
		Status:    domain.BookingStatusSigned,
		EventDate: now.Add(30 * 24 * time.Hour),
		Venue:     "Melkweg",
		City:      "Amsterdam",
		CostMinor: 150_000,
		CreatedAt: now,
		UpdatedAt: now,
	}))
	require.NoError(t, store.Contracts().Create(domain.Contract{
		ID:             "contract-1",
		BookingID:      "booking-1",
		SignedByClient: true,
		SignedByBand:   true,
	}))
	require.NoError(t, store.Invoices().Create(domain.Invoice{
		ID:          "invoice-1",
		ContractID:  "contract-1",
		AmountMinor: 150_000,
		Status:      domain.InvoiceStatusPending,
	}))

	logger := log.New()
	logger.SetLevel(log.PanicLevel)

	publisher := &capturePublisher{}
	svc := invoice.NewService(store.Invoices(), store.Bookings(), publisher, logger.WithField("component", "test"))
	return store, publisher, svc
}

var client = auth.Actor{UserID: "client-1", Role: auth.RoleClient}

func TestPay(t *testing.T) {
	store, publisher, svc := newFixture(t)

	paid, err := svc.Pay(context.Background(), client, "invoice-1")
	require.NoError(t, err)
	require.Equal(t, domain.InvoiceStatusPaid, paid.Status)

	stored, err := store.Invoices().Get("invoice-1")
	require.NoError(t, err)
	require.Equal(t, domain.InvoiceStatusPaid, stored.Status)

	events := publisher.published()
	require.Len(t, events, 1)
	require.Equal(t, domain.EventTypeInvoicePaid, events[0].EventType())
	require.Equal(t, "invoice-1", events[0].SubjectID())
}

func TestPay_Repeat(t *testing.T) {
	_, publisher, svc := newFixture(t)

	_, err := svc.Pay(context.Background(), client, "invoice-1")
	require.NoError(t, err)
	_, err = svc.Pay(context.Background(), client, "invoice-1")
	require.ErrorIs(t, err, domain.ErrInvoiceAlreadyPaid)
	require.Len(t, publisher.published(), 1)
}

func TestPay_OwnerOnly(t *testing.T) {
	_, publisher, svc := newFixture(t)

	stranger := auth.Actor{UserID: "client-2", Role: auth.RoleClient}
	_, err := svc.Pay(context.Background(), stranger, "invoice-1")
	require.ErrorIs(t, err, domain.ErrNotBookingOwner)
	require.Empty(t, publisher.published())
}

func TestPay_RoleChecks(t *testing.T) {
	_, _, svc := newFixture(t)

	musician := auth.Actor{UserID: "musician-1", Role: auth.RoleBandMember}
	_, err := svc.Pay(context.Background(), musician, "invoice-1")
	var unauthorized *auth.UnauthorizedRoleError
	require.ErrorAs(t, err, &unauthorized)

	_, err = svc.Pay(context.Background(), auth.Actor{UserID: "x", Role: auth.Role("root")}, "invoice-1")
	var invalid *auth.InvalidRoleError
	require.ErrorAs(t, err, &invalid)
}

func TestPay_UnknownInvoice(t *testing.T) {
	_, _, svc := newFixture(t)

	_, err := svc.Pay(context.Background(), client, "invoice-unknown")
	require.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestGetByContractID(t *testing.T) {
	_, _, svc := newFixture(t)

	found, err := svc.GetByContractID(context.Background(), client, "contract-1")
	require.NoError(t, err)
	require.Equal(t, "invoice-1", found.ID)
}
