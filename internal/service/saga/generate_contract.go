package saga

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/domain"
)

// GenerateContractOnBookingAccepted запускает генерацию контракта по
// принятой заявке. Сама генерация (шаблон, файл) — внешний коллаборатор.
type GenerateContractOnBookingAccepted struct {
	generator domain.ContractGenerator
	logger    *log.Entry
}

// NewGenerateContractOnBookingAccepted создаёт обработчик генерации контракта.
func NewGenerateContractOnBookingAccepted(generator domain.ContractGenerator, logger *log.Entry) *GenerateContractOnBookingAccepted {
	if logger == nil {
		logger = log.New().WithField("component", "saga")
	}
	return &GenerateContractOnBookingAccepted{generator: generator, logger: logger}
}

func (h *GenerateContractOnBookingAccepted) Name() string {
	return "generate-contract-on-booking-accepted"
}

func (h *GenerateContractOnBookingAccepted) Handle(_ context.Context, event domain.Event) error {
	accepted, ok := event.(domain.BookingAcceptedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, h.Name())
	}

	contract, err := h.generator.Generate(accepted.BookingID, accepted.BandID, accepted.RequestedBy)
	if err != nil {
		return fmt.Errorf("generate contract for booking %s: %w", accepted.BookingID, err)
	}

	h.logger.WithFields(log.Fields{
		"booking_id":  accepted.BookingID,
		"contract_id": contract.ID,
	}).Info("contract generated")
	return nil
}
