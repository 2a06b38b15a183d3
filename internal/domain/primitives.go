package domain

import "time"

// BookingPrimitives — плоское представление заявки для пересечения границ
// модулей (read-side коннектор, рендеринг документов, персистентность).
type BookingPrimitives struct {
	ID        string
	BandID    string
	UserID    string
	Status    string
	EventDate time.Time
	Venue     string
	City      string
	CostMinor int64
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToPrimitives выгружает заявку в плоское представление.
func (b *Booking) ToPrimitives() BookingPrimitives {
	return BookingPrimitives{
		ID:        b.ID,
		BandID:    b.BandID,
		UserID:    b.UserID,
		Status:    string(b.Status),
		EventDate: b.EventDate,
		Venue:     b.Venue,
		City:      b.City,
		CostMinor: b.CostMinor,
		Version:   b.Version,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// NewBookingFromPrimitives восстанавливает заявку из плоского представления,
// отклоняя неизвестные статусы.
func NewBookingFromPrimitives(p BookingPrimitives) (Booking, error) {
	status := BookingStatus(p.Status)
	known := false
	for _, s := range KnownBookingStatuses() {
		if s == status {
			known = true
			break
		}
	}
	if !known {
		return Booking{}, ErrUnknownBookingStatus
	}

	return Booking{
		ID:        p.ID,
		BandID:    p.BandID,
		UserID:    p.UserID,
		Status:    status,
		EventDate: p.EventDate,
		Venue:     p.Venue,
		City:      p.City,
		CostMinor: p.CostMinor,
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

// InvoicePrimitives — плоское представление счёта.
type InvoicePrimitives struct {
	ID          string
	ContractID  string
	AmountMinor int64
	Status      string
	FileURL     string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ToPrimitives выгружает счёт в плоское представление.
func (i *Invoice) ToPrimitives() InvoicePrimitives {
	return InvoicePrimitives{
		ID:          i.ID,
		ContractID:  i.ContractID,
		AmountMinor: i.AmountMinor,
		Status:      string(i.Status),
		FileURL:     i.FileURL,
		Version:     i.Version,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// NewInvoiceFromPrimitives восстанавливает счёт из плоского представления.
func NewInvoiceFromPrimitives(p InvoicePrimitives) (Invoice, error) {
	status := InvoiceStatus(p.Status)
	if status != InvoiceStatusPending && status != InvoiceStatusPaid {
		return Invoice{}, ErrUnknownInvoiceStatus
	}

	return Invoice{
		ID:          p.ID,
		ContractID:  p.ContractID,
		AmountMinor: p.AmountMinor,
		Status:      status,
		FileURL:     p.FileURL,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}
