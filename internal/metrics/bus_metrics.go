package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BusMetrics содержит метрики шины доменных событий.
type BusMetrics struct {
	// Счётчики публикаций и отказов обработчиков
	eventsPublished *prometheus.CounterVec
	handlerFailures *prometheus.CounterVec

	// Гистограмма времени работы обработчика
	handlerDuration *prometheus.HistogramVec

	// Gauge для обработчиков в полёте
	inFlightHandlers prometheus.Gauge
}

// NewBusMetrics создаёт новый экземпляр метрик шины.
func NewBusMetrics() *BusMetrics {
	return newBusMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newBusMetricsWithRegisterer(registerer prometheus.Registerer) *BusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &BusMetrics{
		eventsPublished: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "bandbridge_events_published_total",
			Help: "Total number of domain events published to the bus",
		}, []string{"event_type"}),
		handlerFailures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "bandbridge_event_handler_failures_total",
			Help: "Total number of event handler invocations that failed or panicked",
		}, []string{"handler"}),
		handlerDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "bandbridge_event_handler_duration_seconds",
			Help:    "Duration of event handler invocations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"handler"}),
		inFlightHandlers: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "bandbridge_event_handlers_in_flight",
			Help: "Number of event handler invocations currently running",
		}),
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordEventPublished увеличивает счётчик опубликованных событий.
func (m *BusMetrics) RecordEventPublished(eventType string) {
	m.eventsPublished.WithLabelValues(eventType).Inc()
}

// RecordHandlerFailure увеличивает счётчик отказов обработчика.
func (m *BusMetrics) RecordHandlerFailure(handler string) {
	m.handlerFailures.WithLabelValues(handler).Inc()
}

// RecordHandlerDuration записывает время работы обработчика.
func (m *BusMetrics) RecordHandlerDuration(handler string, duration time.Duration) {
	m.handlerDuration.WithLabelValues(handler).Observe(duration.Seconds())
}

// RecordHandlerStarted увеличивает количество обработчиков в полёте.
func (m *BusMetrics) RecordHandlerStarted() {
	m.inFlightHandlers.Inc()
}

// RecordHandlerFinished уменьшает количество обработчиков в полёте.
func (m *BusMetrics) RecordHandlerFinished() {
	m.inFlightHandlers.Dec()
}
