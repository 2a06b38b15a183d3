package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewBusMetrics_Collectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newBusMetricsWithRegisterer(registry)

	if m.eventsPublished == nil {
		t.Error("eventsPublished counter vec should not be nil")
	}
	if m.handlerFailures == nil {
		t.Error("handlerFailures counter vec should not be nil")
	}
	if m.handlerDuration == nil {
		t.Error("handlerDuration histogram vec should not be nil")
	}
	if m.inFlightHandlers == nil {
		t.Error("inFlightHandlers gauge should not be nil")
	}
}

func TestBusMetrics_Record(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newBusMetricsWithRegisterer(registry)

	m.RecordEventPublished("contract.signed")
	m.RecordEventPublished("contract.signed")
	m.RecordHandlerFailure("create-invoice-on-contract-signed")
	m.RecordHandlerDuration("create-invoice-on-contract-signed", 25*time.Millisecond)
	m.RecordHandlerStarted()

	published := counterValue(t, m.eventsPublished.WithLabelValues("contract.signed"))
	if published != 2 {
		t.Fatalf("expected 2 published events, got %f", published)
	}
	failures := counterValue(t, m.handlerFailures.WithLabelValues("create-invoice-on-contract-signed"))
	if failures != 1 {
		t.Fatalf("expected 1 handler failure, got %f", failures)
	}

	m.RecordHandlerFinished()
}

func TestBusMetrics_ReregisterReturnsExisting(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := newBusMetricsWithRegisterer(registry)
	second := newBusMetricsWithRegisterer(registry)

	// Повторная регистрация в том же registry должна вернуть те же коллекторы.
	first.RecordEventPublished("invoice.paid")
	if v := counterValue(t, second.eventsPublished.WithLabelValues("invoice.paid")); v != 1 {
		t.Fatalf("expected shared collector with value 1, got %f", v)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return metric.GetCounter().GetValue()
}
