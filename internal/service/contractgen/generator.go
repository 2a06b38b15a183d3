package contractgen

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/domain"
)

// Generator создаёт и сохраняет контракт по принятой заявке. Текст
// документа — простой плейсхолдер; промышленная генерация (шаблоны,
// PDF) подключается своей реализацией domain.ContractGenerator.
type Generator struct {
	contracts domain.ContractRepository
	connector domain.ModuleConnector
	logger    *log.Entry
}

var _ domain.ContractGenerator = (*Generator)(nil)

// NewGenerator создаёт генератор контрактов.
func NewGenerator(contracts domain.ContractRepository, connector domain.ModuleConnector, logger *log.Entry) *Generator {
	if logger == nil {
		logger = log.New().WithField("component", "contract-generator")
	}
	return &Generator{contracts: contracts, connector: connector, logger: logger}
}

// Generate создаёт неподписанный контракт и привязывает его к заявке.
func (g *Generator) Generate(bookingID, bandID, requestedBy string) (domain.Contract, error) {
	now := time.Now().UTC()
	contract := domain.Contract{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	contract.FileURL = g.renderDocument(contract.ID, bookingID, bandID, requestedBy)

	if err := g.contracts.Create(contract); err != nil {
		return domain.Contract{}, fmt.Errorf("create contract: %w", err)
	}

	g.logger.WithFields(log.Fields{
		"contract_id": contract.ID,
		"booking_id":  bookingID,
		"band_id":     bandID,
	}).Info("contract generated")
	return contract, nil
}

// Отказ хранилища документов не блокирует создание контракта.
func (g *Generator) renderDocument(contractID, bookingID, bandID, requestedBy string) string {
	name := fmt.Sprintf("contracts/%s.txt", contractID)
	body := fmt.Sprintf(
		"Performance contract %s\nBooking: %s\nBand: %s\nAccepted by: %s\n",
		contractID, bookingID, bandID, requestedBy,
	)
	if err := g.connector.StoreFile(name, []byte(body)); err != nil {
		g.logger.WithError(err).WithField("contract_id", contractID).
			Warn("failed to store contract document")
		return ""
	}
	return name
}
