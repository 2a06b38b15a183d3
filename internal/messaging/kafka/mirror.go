package kafka

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/domain"
)

// MirrorHandler дублирует события внутренней шины на внешний Kafka-топик.
// Доставка best-effort: отказ брокера логируется и не влияет ни на
// остальных подписчиков, ни на доменное состояние.
type MirrorHandler struct {
	producer *Producer
	logger   *log.Entry
}

// NewMirrorHandler создаёт зеркало доменных событий.
func NewMirrorHandler(producer *Producer, logger *log.Entry) *MirrorHandler {
	if logger == nil {
		logger = log.New().WithField("component", "kafka-event-mirror")
	}
	return &MirrorHandler{producer: producer, logger: logger}
}

// Name возвращает имя обработчика для шины.
func (h *MirrorHandler) Name() string {
	return "kafka-event-mirror"
}

// Handle публикует событие во внешний топик.
func (h *MirrorHandler) Handle(_ context.Context, event domain.Event) error {
	envelope := NewEventEnvelope(event)
	if err := h.producer.PublishEvent(TopicDomainEvents, event.SubjectID(), envelope); err != nil {
		h.logger.WithError(err).WithFields(log.Fields{
			"event_id":   event.EventID(),
			"event_type": event.EventType(),
		}).Error("failed to mirror domain event to kafka")
	}
	return nil
}
