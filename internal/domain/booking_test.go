package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/bandbridge/backend/internal/domain"
)

// helper для создания базовой заявки в статусе pending.
func makeBooking() domain.Booking {
	now := time.Now().UTC()
	return domain.Booking{
		ID:        "booking-1",
		BandID:    "band-1",
		UserID:    "user-1",
		Status:    domain.BookingStatusPending,
		EventDate: now.Add(30 * 24 * time.Hour),
		Venue:     "Blue Note",
		City:      "Lisbon",
		CostMinor: 150_000,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestBookingValidateInvariants_Ok(t *testing.T) {
	booking := makeBooking()
	if errs := booking.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestBookingValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(b *domain.Booking)
	}{
		{
			name: "no band",
			mut: func(b *domain.Booking) {
				b.BandID = ""
			},
		},
		{
			name: "no user",
			mut: func(b *domain.Booking) {
				b.UserID = ""
			},
		},
		{
			name: "no event date",
			mut: func(b *domain.Booking) {
				b.EventDate = time.Time{}
			},
		},
		{
			name: "no venue",
			mut: func(b *domain.Booking) {
				b.Venue = ""
			},
		},
		{
			name: "negative cost",
			mut: func(b *domain.Booking) {
				b.CostMinor = -1
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			booking := makeBooking()
			tc.mut(&booking)

			if len(booking.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}

func TestBookingTransitions_LegalPath(t *testing.T) {
	booking := makeBooking()

	if err := booking.Accept(); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if booking.Status != domain.BookingStatusAccepted {
		t.Fatalf("expected accepted, got %s", booking.Status)
	}

	if err := booking.ContractSigned(); err != nil {
		t.Fatalf("contract signed: %v", err)
	}
	if booking.Status != domain.BookingStatusSigned {
		t.Fatalf("expected signed, got %s", booking.Status)
	}

	if err := booking.InvoicePaid(); err != nil {
		t.Fatalf("invoice paid: %v", err)
	}
	if booking.Status != domain.BookingStatusPaid {
		t.Fatalf("expected paid, got %s", booking.Status)
	}
	if !booking.IsTerminal() {
		t.Fatal("paid booking must be terminal")
	}
}

// Каждая операция должна падать с ErrBookingAlreadyProcessed из любого
// статуса, кроме своего единственного допустимого "from".
func TestBookingTransitions_IllegalSourceStates(t *testing.T) {
	ops := []struct {
		name string
		from domain.BookingStatus
		call func(b *domain.Booking) error
	}{
		{name: "accept", from: domain.BookingStatusPending, call: (*domain.Booking).Accept},
		{name: "decline", from: domain.BookingStatusPending, call: (*domain.Booking).Decline},
		{name: "cancel", from: domain.BookingStatusPending, call: func(b *domain.Booking) error {
			return b.Cancel("user-1")
		}},
		{name: "contract signed", from: domain.BookingStatusAccepted, call: (*domain.Booking).ContractSigned},
		{name: "invoice paid", from: domain.BookingStatusSigned, call: (*domain.Booking).InvoicePaid},
	}

	for _, op := range ops {
		for _, status := range domain.KnownBookingStatuses() {
			if status == op.from {
				continue
			}
			t.Run(op.name+"/from_"+string(status), func(t *testing.T) {
				booking := makeBooking()
				booking.Status = status

				err := op.call(&booking)
				if !errors.Is(err, domain.ErrBookingAlreadyProcessed) {
					t.Fatalf("expected ErrBookingAlreadyProcessed, got %v", err)
				}
				if booking.Status != status {
					t.Fatalf("status must be unchanged, got %s", booking.Status)
				}
			})
		}
	}
}

func TestBookingCancel_NotOwner(t *testing.T) {
	booking := makeBooking()

	err := booking.Cancel("intruder")
	if !errors.Is(err, domain.ErrNotBookingOwner) {
		t.Fatalf("expected ErrNotBookingOwner, got %v", err)
	}
	if booking.Status != domain.BookingStatusPending {
		t.Fatalf("status must be unchanged, got %s", booking.Status)
	}
}

func TestBookingPrimitives_RoundTrip(t *testing.T) {
	for _, status := range domain.KnownBookingStatuses() {
		t.Run(string(status), func(t *testing.T) {
			booking := makeBooking()
			booking.Status = status

			restored, err := domain.NewBookingFromPrimitives(booking.ToPrimitives())
			if err != nil {
				t.Fatalf("from primitives: %v", err)
			}
			if restored != booking {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", restored, booking)
			}
		})
	}
}

func TestBookingPrimitives_UnknownStatus(t *testing.T) {
	booking := makeBooking()
	p := booking.ToPrimitives()
	p.Status = "shipped"

	if _, err := domain.NewBookingFromPrimitives(p); !errors.Is(err, domain.ErrUnknownBookingStatus) {
		t.Fatalf("expected ErrUnknownBookingStatus, got %v", err)
	}
}
