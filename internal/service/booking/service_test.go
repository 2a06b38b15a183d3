package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/bandbridge/backend/internal/auth"
	"github.com/bandbridge/backend/internal/domain"
	"github.com/bandbridge/backend/internal/service/booking"
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

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return logger.WithField("component", "test")
}

func newFixture(t *testing.T) (*memory.Store, *memory.Directory, *capturePublisher, booking.Service) {
	t.Helper()

	store := memory.NewStore()
	directory := memory.NewDirectory(store)
	directory.AddBand(domain.BandData{ID: "band-1", Name: "The Sardines", Members: []string{"musician-1", "musician-2"}})
	directory.AddUser(domain.UserData{ID: "client-1", FirstName: "Ana", LastName: "Costa", Email: "ana@example.com"})

	publisher := &capturePublisher{}
	svc := booking.NewService(store.Bookings(), memory.NewTimelineRepository(), directory, publisher, testLogger())
	return store, directory, publisher, svc
}

func createParams() booking.CreateParams {
	return booking.CreateParams{
		BandID:    "band-1",
		EventDate: time.Now().UTC().Add(30 * 24 * time.Hour),
		Venue:     "Melkweg",
		City:      "Amsterdam",
		CostMinor: 150_000,
	}
}

var (
	client     = auth.Actor{UserID: "client-1", Role: auth.RoleClient}
	musician   = auth.Actor{UserID: "musician-1", Role: auth.RoleBandMember}
	outsider   = auth.Actor{UserID: "musician-9", Role: auth.RoleBandMember}
	typoActor  = auth.Actor{UserID: "client-1", Role: auth.Role("clientt")}
	otherOwner = auth.Actor{UserID: "client-2", Role: auth.RoleClient}
)

func TestCreate(t *testing.T) {
	store, _, _, svc := newFixture(t)

	created, err := svc.Create(context.Background(), client, createParams())
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusPending, created.Status)
	require.Equal(t, "client-1", created.UserID)

	stored, err := store.Bookings().Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, stored.ID)
}

func TestCreate_RoleChecks(t *testing.T) {
	_, _, _, svc := newFixture(t)

	_, err := svc.Create(context.Background(), musician, createParams())
	var unauthorized *auth.UnauthorizedRoleError
	require.ErrorAs(t, err, &unauthorized)
	require.Equal(t, auth.RoleBandMember, unauthorized.Role)

	// Опечатка в роли отклоняется до проверки allow-list.
	_, err = svc.Create(context.Background(), typoActor, createParams())
	var invalid *auth.InvalidRoleError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "clientt", invalid.Role)
}

func TestCreate_UnknownBand(t *testing.T) {
	_, _, _, svc := newFixture(t)

	params := createParams()
	params.BandID = "band-unknown"
	_, err := svc.Create(context.Background(), client, params)
	require.ErrorIs(t, err, domain.ErrBandNotFound)
}

func TestAccept_PublishesEvent(t *testing.T) {
	store, _, publisher, svc := newFixture(t)

	created, err := svc.Create(context.Background(), client, createParams())
	require.NoError(t, err)

	accepted, err := svc.Accept(context.Background(), musician, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusAccepted, accepted.Status)

	stored, err := store.Bookings().Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusAccepted, stored.Status)

	events := publisher.published()
	require.Len(t, events, 1)
	event, ok := events[0].(domain.BookingAcceptedEvent)
	require.True(t, ok, "expected BookingAcceptedEvent, got %T", events[0])
	require.Equal(t, created.ID, event.BookingID)
	require.Equal(t, "band-1", event.BandID)
	require.Equal(t, "musician-1", event.RequestedBy)
}

func TestAccept_NotBandMember(t *testing.T) {
	_, _, publisher, svc := newFixture(t)

	created, err := svc.Create(context.Background(), client, createParams())
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), outsider, created.ID)
	require.ErrorIs(t, err, domain.ErrNotBandMember)
	require.Empty(t, publisher.published())
}

func TestAccept_AlreadyProcessed(t *testing.T) {
	_, _, publisher, svc := newFixture(t)

	created, err := svc.Create(context.Background(), client, createParams())
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), musician, created.ID)
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), musician, created.ID)
	require.ErrorIs(t, err, domain.ErrBookingAlreadyProcessed)
	require.Len(t, publisher.published(), 1)
}

func TestDecline(t *testing.T) {
	_, _, publisher, svc := newFixture(t)

	created, err := svc.Create(context.Background(), client, createParams())
	require.NoError(t, err)

	declined, err := svc.Decline(context.Background(), musician, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusDeclined, declined.Status)

	events := publisher.published()
	require.Len(t, events, 1)
	require.Equal(t, domain.EventTypeBookingDeclined, events[0].EventType())
}

func TestCancel_OwnerOnly(t *testing.T) {
	_, _, _, svc := newFixture(t)

	created, err := svc.Create(context.Background(), client, createParams())
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), otherOwner, created.ID)
	require.ErrorIs(t, err, domain.ErrNotBookingOwner)

	canceled, err := svc.Cancel(context.Background(), client, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusCanceled, canceled.Status)
}

func TestCancel_AdminBypassesOwnership(t *testing.T) {
	_, _, _, svc := newFixture(t)

	created, err := svc.Create(context.Background(), client, createParams())
	require.NoError(t, err)

	admin := auth.Actor{UserID: "ops-1", Role: auth.RoleAdmin}
	canceled, err := svc.Cancel(context.Background(), admin, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusCanceled, canceled.Status)
}

func TestGet_UnknownBooking(t *testing.T) {
	_, _, _, svc := newFixture(t)

	_, err := svc.Get(context.Background(), client, "booking-unknown")
	require.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestListByUser(t *testing.T) {
	_, _, _, svc := newFixture(t)

	first, err := svc.Create(context.Background(), client, createParams())
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), client, createParams())
	require.NoError(t, err)

	listed, err := svc.ListByUser(context.Background(), client, "client-1", 10)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	ids := []string{listed[0].ID, listed[1].ID}
	require.ElementsMatch(t, []string{first.ID, second.ID}, ids)
}

func TestListTimeline_UnknownBooking(t *testing.T) {
	_, _, _, svc := newFixture(t)

	_, err := svc.ListTimeline(context.Background(), client, "booking-unknown")
	require.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestGuardAppliedToQueries(t *testing.T) {
	_, _, _, svc := newFixture(t)

	_, err := svc.ListByUser(context.Background(), typoActor, "client-1", 10)
	var invalid *auth.InvalidRoleError
	require.True(t, errors.As(err, &invalid))
}
