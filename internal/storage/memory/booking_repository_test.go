package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/bandbridge/backend/internal/domain"
)

func seedStore(t *testing.T) *Store {
	t.Helper()

	store := NewStore()
	now := time.Now().UTC()

	if err := store.Bookings().Create(domain.Booking{
		ID:        "booking-1",
		BandID:    "band-1",
		UserID:    "user-1",
		Status:    domain.BookingStatusAccepted,
		EventDate: now.Add(24 * time.Hour),
		Venue:     "Paradiso",
		City:      "Amsterdam",
		CostMinor: 90_000,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if err := store.Contracts().Create(domain.Contract{
		ID:        "contract-1",
		BookingID: "booking-1",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if err := store.Invoices().Create(domain.Invoice{
		ID:          "invoice-1",
		ContractID:  "contract-1",
		AmountMinor: 90_000,
		Status:      domain.InvoiceStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	return store
}

func TestBookingRepository_GetByContractID(t *testing.T) {
	store := seedStore(t)

	booking, err := store.Bookings().GetByContractID("contract-1")
	if err != nil {
		t.Fatalf("get by contract: %v", err)
	}
	if booking.ID != "booking-1" {
		t.Fatalf("expected booking-1, got %s", booking.ID)
	}

	_, err = store.Bookings().GetByContractID("contract-unknown")
	if !errors.Is(err, domain.ErrBookingNotFoundForContract) {
		t.Fatalf("expected ErrBookingNotFoundForContract, got %v", err)
	}
}

func TestBookingRepository_GetByInvoiceID(t *testing.T) {
	store := seedStore(t)

	booking, err := store.Bookings().GetByInvoiceID("invoice-1")
	if err != nil {
		t.Fatalf("get by invoice: %v", err)
	}
	if booking.ID != "booking-1" {
		t.Fatalf("expected booking-1, got %s", booking.ID)
	}

	_, err = store.Bookings().GetByInvoiceID("invoice-unknown")
	if !errors.Is(err, domain.ErrBookingNotFoundForInvoice) {
		t.Fatalf("expected ErrBookingNotFoundForInvoice, got %v", err)
	}
}

func TestBookingRepository_SaveVersionConflict(t *testing.T) {
	store := seedStore(t)
	repo := store.Bookings()

	fresh, err := repo.Get("booking-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := repo.Save(fresh); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// Сохранение устаревшей копии должно упасть конфликтом версий.
	if err := repo.Save(fresh); !domain.IsVersionConflict(err) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestInvoiceRepository_OneInvoicePerContract(t *testing.T) {
	store := seedStore(t)

	err := store.Invoices().Create(domain.Invoice{
		ID:         "invoice-2",
		ContractID: "contract-1",
		Status:     domain.InvoiceStatusPending,
	})
	if !domain.IsVersionConflict(err) {
		t.Fatalf("expected conflict for duplicate contract reference, got %v", err)
	}
}

func TestBookingRepository_ListByUser(t *testing.T) {
	store := seedStore(t)

	bookings, err := store.Bookings().ListByUser("user-1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}

	bookings, err = store.Bookings().ListByUser("user-unknown", 0)
	if err != nil {
		t.Fatalf("list unknown: %v", err)
	}
	if len(bookings) != 0 {
		t.Fatalf("expected no bookings, got %d", len(bookings))
	}
}

func TestDirectory_Connector(t *testing.T) {
	store := seedStore(t)
	directory := NewDirectory(store)
	directory.AddBand(domain.BandData{ID: "band-1", Name: "The Sardines", Members: []string{"musician-1"}})
	directory.AddUser(domain.UserData{ID: "user-1", FirstName: "Ana", LastName: "Costa", Email: "ana@example.com"})

	members, err := directory.ObtainBandMembers("band-1")
	if err != nil || len(members) != 1 {
		t.Fatalf("obtain members: %v %v", members, err)
	}

	primitives, err := directory.GetBookingByContractID("contract-1")
	if err != nil {
		t.Fatalf("booking by contract: %v", err)
	}
	if primitives.ID != "booking-1" {
		t.Fatalf("expected booking-1, got %s", primitives.ID)
	}

	if _, err := directory.GetBandByID("band-unknown"); !errors.Is(err, domain.ErrBandNotFound) {
		t.Fatalf("expected ErrBandNotFound, got %v", err)
	}

	if err := directory.StoreFile("invoice-1.txt", []byte("total due: 900.00")); err != nil {
		t.Fatalf("store file: %v", err)
	}
	if _, ok := directory.StoredFile("invoice-1.txt"); !ok {
		t.Fatal("expected stored file to be retrievable")
	}
}
