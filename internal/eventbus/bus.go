package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/domain"
	"github.com/bandbridge/backend/internal/metrics"
)

var (
	// ErrBusNotStarted возвращается при публикации до Start или после Stop.
	ErrBusNotStarted = errors.New("event bus is not started")
	// ErrBusAlreadyStarted возвращается при попытке регистрации после Start.
	ErrBusAlreadyStarted = errors.New("event bus is already started")
)

// Handler обрабатывает доменное событие одного типа.
// Ошибка обработчика никогда не доходит до публикующей стороны: шина ловит
// её, логирует и глотает (availability over consistency).
type Handler interface {
	// Name идентифицирует обработчик в логах и метриках.
	Name() string
	// Handle обрабатывает событие. Вызывается в собственной горутине.
	Handle(ctx context.Context, event domain.Event) error
}

// Publisher — публикующая сторона шины. Publish возвращает управление,
// как только диспетчеризация начата, не дожидаясь завершения обработчиков.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Subscriber — регистрирующая сторона шины.
type Subscriber interface {
	Subscribe(eventType domain.EventType, handlers ...Handler) error
}

// Bus объединяет публикацию, подписку и жизненный цикл шины.
type Bus interface {
	Publisher
	Subscriber
	Start() error
	Stop(ctx context.Context) error
}

// InProcess — внутрипроцессная асинхронная шина с явной таблицей регистрации.
// Каждый обработчик получает каждое событие своего типа ровно один раз;
// порядок между обработчиками одного события не гарантируется.
type InProcess struct {
	mu       sync.RWMutex
	handlers map[domain.EventType][]isolatedHandler
	started  bool
	inFlight sync.WaitGroup

	logger  *log.Entry
	metrics *metrics.BusMetrics
}

type isolatedHandler struct {
	name   string
	invoke func(ctx context.Context, event domain.Event)
}

// NewInProcess создаёт шину. metrics может быть nil (для тестов).
func NewInProcess(logger *log.Entry, busMetrics *metrics.BusMetrics) *InProcess {
	if logger == nil {
		logger = log.New().WithField("component", "eventbus")
	}
	return &InProcess{
		handlers: make(map[domain.EventType][]isolatedHandler),
		logger:   logger,
		metrics:  busMetrics,
	}
}

// Subscribe связывает обработчики с типом события. Регистрация разрешена
// только до Start: таблица подписчиков неизменна на время работы шины.
func (b *InProcess) Subscribe(eventType domain.EventType, handlers ...Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return ErrBusAlreadyStarted
	}
	for _, h := range handlers {
		b.handlers[eventType] = append(b.handlers[eventType], b.isolate(h))
	}
	return nil
}

// Start переводит шину в рабочее состояние. Оболочка изоляции отказов
// навешивается на обработчики при регистрации, до первой диспетчеризации.
func (b *InProcess) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return ErrBusAlreadyStarted
	}
	b.started = true

	total := 0
	for _, hs := range b.handlers {
		total += len(hs)
	}
	b.logger.WithFields(log.Fields{
		"event_types": len(b.handlers),
		"handlers":    total,
	}).Info("event bus started")
	return nil
}

// Stop закрывает шину для новых публикаций и дожидается обработчиков в полёте.
// Контекст ограничивает ожидание.
func (b *InProcess) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return nil
	}
	b.started = false
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("event bus stopped with handlers still in flight")
		return ctx.Err()
	}
}

// Publish передаёт событие всем обработчикам его типа. Возвращает управление
// после запуска диспетчеризации; завершения обработчиков никто не ждёт.
// Отсутствие подписчиков — не ошибка.
func (b *InProcess) Publish(ctx context.Context, event domain.Event) error {
	b.mu.RLock()
	if !b.started {
		b.mu.RUnlock()
		return fmt.Errorf("%w: dropping event %s", ErrBusNotStarted, event.EventType())
	}
	handlers := b.handlers[event.EventType()]
	b.inFlight.Add(len(handlers))
	b.mu.RUnlock()

	if b.metrics != nil {
		b.metrics.RecordEventPublished(string(event.EventType()))
	}

	for _, h := range handlers {
		h := h
		go func() {
			defer b.inFlight.Done()
			h.invoke(ctx, event)
		}()
	}
	return nil
}

// isolate оборачивает обработчик изоляцией отказов: паника или ошибка
// логируется с именем обработчика, id и типом события и не распространяется
// ни на публикующую сторону, ни на соседние обработчики.
func (b *InProcess) isolate(h Handler) isolatedHandler {
	name := h.Name()
	return isolatedHandler{
		name: name,
		invoke: func(ctx context.Context, event domain.Event) {
			start := time.Now()
			if b.metrics != nil {
				b.metrics.RecordHandlerStarted()
			}
			defer func() {
				if b.metrics != nil {
					b.metrics.RecordHandlerDuration(name, time.Since(start))
					b.metrics.RecordHandlerFinished()
				}
				if r := recover(); r != nil {
					b.recordFailure(name, event, fmt.Errorf("panic: %v", r))
				}
			}()

			if err := h.Handle(ctx, event); err != nil {
				b.recordFailure(name, event, err)
			}
		},
	}
}

func (b *InProcess) recordFailure(handler string, event domain.Event, err error) {
	if b.metrics != nil {
		b.metrics.RecordHandlerFailure(handler)
	}
	b.logger.WithError(err).WithFields(log.Fields{
		"handler":    handler,
		"event_id":   event.EventID(),
		"event_type": event.EventType(),
		"subject_id": event.SubjectID(),
	}).Error("event handler failed")
}

var _ Bus = (*InProcess)(nil)
