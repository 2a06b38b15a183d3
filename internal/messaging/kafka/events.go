package kafka

import (
	"time"

	"github.com/bandbridge/backend/internal/domain"
)

// Topics для Kafka.
const (
	// TopicDomainEvents — зеркало внутренней шины для внешних потребителей.
	TopicDomainEvents = "bandbridge.domain.events"
	// TopicPaymentNotifications — подтверждения оплаты от платёжного провайдера.
	TopicPaymentNotifications = "bandbridge.payment.notifications"
)

// EventEnvelope — сериализованное доменное событие на внешнем топике.
type EventEnvelope struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	SubjectID  string    `json:"subject_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEventEnvelope упаковывает доменное событие для публикации.
func NewEventEnvelope(event domain.Event) EventEnvelope {
	return EventEnvelope{
		EventID:    event.EventID(),
		EventType:  string(event.EventType()),
		SubjectID:  event.SubjectID(),
		OccurredAt: event.OccurredAt(),
	}
}

// PaymentNotification — сообщение платёжного провайдера об оплате счёта.
type PaymentNotification struct {
	InvoiceID string    `json:"invoice_id"`
	PaidBy    string    `json:"paid_by,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	PaidAt    time.Time `json:"paid_at"`
}
