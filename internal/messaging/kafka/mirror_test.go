package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/bandbridge/backend/internal/domain"
)

func TestMirrorHandler_PublishesEnvelope(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	event := domain.NewContractSignedEvent("contract-1")
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var envelope EventEnvelope
		if err := json.Unmarshal(value, &envelope); err != nil {
			return err
		}
		if envelope.EventType != string(domain.EventTypeContractSigned) {
			t.Errorf("unexpected event type: %s", envelope.EventType)
		}
		if envelope.SubjectID != "contract-1" {
			t.Errorf("unexpected subject: %s", envelope.SubjectID)
		}
		if envelope.EventID == "" {
			t.Error("expected event id")
		}
		return nil
	})

	handler := NewMirrorHandler(producer, log.WithField("component", "kafka-event-mirror-test"))
	if err := handler.Handle(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestMirrorHandler_BrokerFailureIsSwallowed(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	handler := NewMirrorHandler(producer, logger.WithField("component", "kafka-event-mirror-test"))

	// Отказ брокера не должен превращаться в ошибку обработчика шины.
	if err := handler.Handle(context.Background(), domain.NewInvoicePaidEvent("invoice-1")); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}
