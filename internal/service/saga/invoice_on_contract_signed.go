package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/domain"
)

// CreateInvoiceOnContractSigned выставляет счёт по подписанному контракту:
// читает read-side данные через коннектор, отрисовывает документ и создаёт
// ровно один Invoice со ссылкой на контракт. Отказ рендеринга не блокирует
// создание счёта — счёт выставляется без документа.
type CreateInvoiceOnContractSigned struct {
	connector domain.ModuleConnector
	invoices  domain.InvoiceRepository
	renderer  domain.InvoiceRenderer
	logger    *log.Entry
}

// NewCreateInvoiceOnContractSigned создаёт обработчик выставления счёта.
func NewCreateInvoiceOnContractSigned(
	connector domain.ModuleConnector,
	invoices domain.InvoiceRepository,
	renderer domain.InvoiceRenderer,
	logger *log.Entry,
) *CreateInvoiceOnContractSigned {
	if logger == nil {
		logger = log.New().WithField("component", "saga")
	}
	return &CreateInvoiceOnContractSigned{
		connector: connector,
		invoices:  invoices,
		renderer:  renderer,
		logger:    logger,
	}
}

func (h *CreateInvoiceOnContractSigned) Name() string {
	return "create-invoice-on-contract-signed"
}

func (h *CreateInvoiceOnContractSigned) Handle(_ context.Context, event domain.Event) error {
	signed, ok := event.(domain.ContractSignedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, h.Name())
	}

	booking, err := h.connector.GetBookingByContractID(signed.ContractID)
	if err != nil {
		return err
	}
	band, err := h.connector.GetBandByID(booking.BandID)
	if err != nil {
		return err
	}
	user, err := h.connector.ObtainUserInformation(booking.UserID)
	if err != nil {
		return err
	}

	invoiceID := uuid.NewString()
	fileURL := h.renderDocument(invoiceID, booking, band, user)

	now := time.Now().UTC()
	invoice := domain.Invoice{
		ID:          invoiceID,
		ContractID:  signed.ContractID,
		AmountMinor: booking.CostMinor,
		Status:      domain.InvoiceStatusPending,
		FileURL:     fileURL,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.invoices.Create(invoice); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnableToCreateInvoice, err)
	}

	h.logger.WithFields(log.Fields{
		"invoice_id":   invoice.ID,
		"contract_id":  signed.ContractID,
		"amount_minor": invoice.AmountMinor,
	}).Info("invoice created")
	return nil
}

// renderDocument отрисовывает и сохраняет документ счёта. Любой отказ на этом
// шаге логируется и превращается в пустой FileURL: счёт важнее документа.
func (h *CreateInvoiceOnContractSigned) renderDocument(
	invoiceID string,
	booking domain.BookingPrimitives,
	band domain.BandData,
	user domain.UserData,
) string {
	data, err := h.renderer.Render(booking, band, user, booking.CostMinor)
	if err != nil {
		h.logger.WithError(err).WithField("invoice_id", invoiceID).Warn("invoice document render failed, creating invoice without file")
		return ""
	}

	name := fmt.Sprintf("invoices/%s.txt", invoiceID)
	if err := h.connector.StoreFile(name, data); err != nil {
		h.logger.WithError(err).WithField("invoice_id", invoiceID).Warn("invoice document store failed, creating invoice without file")
		return ""
	}
	return name
}
