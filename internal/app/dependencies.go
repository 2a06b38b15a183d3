package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/domain"
	"github.com/bandbridge/backend/internal/storage/memory"
	"github.com/bandbridge/backend/internal/storage/postgres"
)

// Dependencies содержит хранилища и коннекторы приложения.
type Dependencies struct {
	Bookings  domain.BookingRepository
	Contracts domain.ContractRepository
	Invoices  domain.InvoiceRepository
	Timeline  domain.TimelineRepository
	Connector domain.ModuleConnector
	Logger    *log.Entry

	// Postgres заполнен только при работе поверх PostgreSQL.
	Postgres *postgres.Store
}

// NewDependencies собирает зависимости поверх PostgreSQL, если задан DSN,
// иначе поверх in-memory хранилища.
// NOTE: справочник групп и пользователей обслуживается dev-директорией;
// в production его заменяет клиент соседних модулей.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	memStore := memory.NewStore()
	directory := memory.NewDirectory(memStore)

	if cfg.PostgresDSN == "" {
		logger.Info("postgres dsn is not set, using in-memory storage")
		return &Dependencies{
			Bookings:  memStore.Bookings(),
			Contracts: memStore.Contracts(),
			Invoices:  memStore.Invoices(),
			Timeline:  memory.NewTimelineRepository(),
			Connector: directory,
			Logger:    logger,
		}, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("postgres storage initialized")

	bookings := postgres.NewBookingRepository(store)
	return &Dependencies{
		Bookings:  bookings,
		Contracts: postgres.NewContractRepository(store),
		Invoices:  postgres.NewInvoiceRepository(store),
		Timeline:  postgres.NewTimelineRepository(store),
		Connector: &moduleConnector{directory: directory, bookings: bookings},
		Logger:    logger,
		Postgres:  store,
	}, nil
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() error {
	if d.Postgres != nil {
		return d.Postgres.Close()
	}
	return nil
}

// moduleConnector направляет чтение заявок в активное хранилище,
// а справочные данные — в директорию.
type moduleConnector struct {
	directory *memory.Directory
	bookings  domain.BookingRepository
}

var _ domain.ModuleConnector = (*moduleConnector)(nil)

func (c *moduleConnector) ObtainBandMembers(bandID string) ([]string, error) {
	return c.directory.ObtainBandMembers(bandID)
}

func (c *moduleConnector) GetBookingByContractID(contractID string) (domain.BookingPrimitives, error) {
	booking, err := c.bookings.GetByContractID(contractID)
	if err != nil {
		return domain.BookingPrimitives{}, err
	}
	return booking.ToPrimitives(), nil
}

func (c *moduleConnector) GetBandByID(bandID string) (domain.BandData, error) {
	return c.directory.GetBandByID(bandID)
}

func (c *moduleConnector) ObtainUserInformation(userID string) (domain.UserData, error) {
	return c.directory.ObtainUserInformation(userID)
}

func (c *moduleConnector) StoreFile(name string, data []byte) error {
	return c.directory.StoreFile(name, data)
}
