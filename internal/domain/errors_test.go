package domain_test

import (
	"fmt"
	"testing"

	"github.com/bandbridge/backend/internal/domain"
)

func TestIsVersionConflict(t *testing.T) {
	if !domain.IsVersionConflict(domain.ErrVersionConflict) {
		t.Fatal("expected version conflict to be detected")
	}
	wrapped := fmt.Errorf("save booking: %w", domain.ErrVersionConflict)
	if !domain.IsVersionConflict(wrapped) {
		t.Fatal("expected wrapped version conflict to be detected")
	}
	if domain.IsVersionConflict(domain.ErrBookingNotFound) {
		t.Fatal("not found must not be a version conflict")
	}
}

func TestIsNotFound(t *testing.T) {
	notFound := []error{
		domain.ErrBookingNotFound,
		fmt.Errorf("%w: contract_id=c-1", domain.ErrBookingNotFoundForContract),
		fmt.Errorf("%w: invoice_id=i-1", domain.ErrBookingNotFoundForInvoice),
		domain.ErrContractNotFound,
		domain.ErrInvoiceNotFound,
		domain.ErrBandNotFound,
		domain.ErrUserNotFound,
	}
	for _, err := range notFound {
		if !domain.IsNotFound(err) {
			t.Fatalf("expected %v to be not-found", err)
		}
	}

	if domain.IsNotFound(domain.ErrUnableToUpdateBooking) {
		t.Fatal("persistence failure must not be not-found")
	}
}
