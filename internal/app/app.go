package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/eventbus"
	healthcheck "github.com/bandbridge/backend/internal/health"
	"github.com/bandbridge/backend/internal/messaging/kafka"
	"github.com/bandbridge/backend/internal/metrics"
	"github.com/bandbridge/backend/internal/service/booking"
	"github.com/bandbridge/backend/internal/service/contract"
	"github.com/bandbridge/backend/internal/service/contractgen"
	"github.com/bandbridge/backend/internal/service/invoice"
	"github.com/bandbridge/backend/internal/service/render"
	"github.com/bandbridge/backend/internal/service/saga"
	"github.com/bandbridge/backend/internal/version"
)

// App собирает ядро модуля: хранилища, шину событий, saga-обработчики
// и прикладные сервисы. Транспортные адаптеры подключаются снаружи.
type App struct {
	Bookings  booking.Service
	Contracts contract.Service
	Invoices  invoice.Service

	cfg      Config
	deps     *Dependencies
	bus      *eventbus.InProcess
	producer *kafka.Producer
	consumer *kafka.Consumer
	httpSrv  *http.Server
	logger   *log.Entry
}

// New собирает приложение без запуска фоновых процессов.
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	bus := eventbus.NewInProcess(log.WithField("component", "eventbus"), metrics.NewBusMetrics())

	bookingSvc := booking.NewService(deps.Bookings, deps.Timeline, deps.Connector, bus,
		log.WithField("component", "booking-service"))
	contractSvc := contract.NewService(deps.Contracts, deps.Connector, bus,
		log.WithField("component", "contract-service"))
	invoiceSvc := invoice.NewService(deps.Invoices, deps.Bookings, bus,
		log.WithField("component", "invoice-service"))

	app := &App{
		Bookings:  bookingSvc,
		Contracts: contractSvc,
		Invoices:  invoiceSvc,
		cfg:       cfg,
		deps:      deps,
		bus:       bus,
		logger:    logger,
	}

	handlers := saga.Handlers{
		GenerateContract: saga.NewGenerateContractOnBookingAccepted(
			contractgen.NewGenerator(deps.Contracts, deps.Connector, log.WithField("component", "contract-generator")),
			log.WithField("component", "saga")),
		BookingContractSigned: saga.NewUpdateBookingOnContractSigned(deps.Bookings,
			log.WithField("component", "saga")),
		CreateInvoice: saga.NewCreateInvoiceOnContractSigned(deps.Connector, deps.Invoices,
			render.NewTextRenderer(), log.WithField("component", "saga")),
		BookingInvoicePaid: saga.NewUpdateBookingOnInvoicePaid(deps.Bookings,
			log.WithField("component", "saga")),
		Timeline: saga.NewTimelineRecorder(deps.Bookings, deps.Timeline,
			log.WithField("component", "timeline")),
	}

	if brokers := cfg.BrokerList(); len(brokers) > 0 {
		producer, err := kafka.NewProducer(brokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			app.producer = producer
			handlers.Extra = append(handlers.Extra, kafka.NewMirrorHandler(producer, nil))
			logger.WithField("brokers", brokers).Info("kafka producer initialized")

			consumer, err := kafka.NewConsumer(brokers, cfg.KafkaGroupID,
				[]string{kafka.TopicPaymentNotifications},
				kafka.NewPaymentNotificationHandler(invoiceSvc, log.WithField("component", "payment-notifications")))
			if err != nil {
				logger.WithError(err).Warn("failed to create kafka consumer, continuing without payment notifications")
			} else {
				app.consumer = consumer
			}
		}
	}

	if err := saga.Register(bus, handlers); err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("register saga handlers: %w", err)
	}

	return app, nil
}

// Start запускает шину событий, Kafka consumer и HTTP-сервер метрик.
func (a *App) Start(ctx context.Context) error {
	if err := a.bus.Start(); err != nil {
		return err
	}
	if a.consumer != nil {
		if err := a.consumer.Start(ctx); err != nil {
			return err
		}
	}
	a.httpSrv = a.startMetricsServer()
	return nil
}

// Stop останавливает фоновые процессы и дожидается дообработки событий.
func (a *App) Stop(ctx context.Context) error {
	var firstErr error

	if a.consumer != nil {
		if err := a.consumer.Stop(); err != nil {
			a.logger.WithError(err).Warn("failed to stop kafka consumer")
			firstErr = err
		}
	}
	if err := a.bus.Stop(ctx); err != nil {
		a.logger.WithError(err).Warn("event bus stopped before draining all handlers")
		if firstErr == nil {
			firstErr = err
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.WithError(err).Warn("failed to close kafka producer")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	a.shutdownHTTP()
	if err := a.deps.Close(); err != nil {
		a.logger.WithError(err).Warn("failed to close storage")
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Run собирает приложение и блокируется до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		_ = app.deps.Close()
		return err
	}

	<-ctx.Done()
	app.logger.Info("получен сигнал остановки, завершаем работу")

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return err
	}
	return ctx.Err()
}

func (a *App) startMetricsServer() *http.Server {
	healthHandler := healthcheck.NewHandler(version.GetVersion())
	if a.deps.Postgres != nil {
		store := a.deps.Postgres
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(pingCtx)
		}))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux}
	go func() {
		a.logger.Infof("метрики доступны по адресу %s/metrics", a.cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.WithError(err).Warn("metrics server failed")
		}
	}()
	return srv
}

func (a *App) shutdownHTTP() {
	if a.httpSrv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.WithError(err).Warn("metrics shutdown with error")
	}
}
