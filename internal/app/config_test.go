package app

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.MetricsAddr == "" {
		t.Error("MetricsAddr should have a default")
	}
	if cfg.KafkaGroupID != "bandbridge-core" {
		t.Errorf("expected default kafka group id, got %s", cfg.KafkaGroupID)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("BANDBRIDGE_METRICS_ADDR", ":9191")
	t.Setenv("BANDBRIDGE_KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("BANDBRIDGE_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.MetricsAddr != ":9191" {
		t.Errorf("expected :9191, got %s", cfg.MetricsAddr)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("expected 3s shutdown timeout, got %s", cfg.ShutdownTimeout)
	}

	brokers := cfg.BrokerList()
	if len(brokers) != 2 || brokers[0] != "broker-1:9092" || brokers[1] != "broker-2:9092" {
		t.Errorf("unexpected broker list: %v", brokers)
	}
}

func TestConfig_BrokerList_Empty(t *testing.T) {
	cfg := Config{KafkaBrokers: "  "}
	if brokers := cfg.BrokerList(); brokers != nil {
		t.Errorf("expected nil broker list, got %v", brokers)
	}
}
