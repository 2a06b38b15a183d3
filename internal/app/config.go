package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config описывает настройки запуска приложения. Значения читаются из
// переменных окружения с префиксом BANDBRIDGE_.
type Config struct {
	MetricsAddr     string        `envconfig:"METRICS_ADDR" default:":9090"`
	PostgresDSN     string        `envconfig:"POSTGRES_DSN"`
	KafkaBrokers    string        `envconfig:"KAFKA_BROKERS"`
	KafkaGroupID    string        `envconfig:"KAFKA_GROUP_ID" default:"bandbridge-core"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadConfig читает конфигурацию из окружения.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("bandbridge", &cfg); err != nil {
		return Config{}, fmt.Errorf("read config from environment: %w", err)
	}
	return cfg, nil
}

// BrokerList возвращает список Kafka-брокеров. Пустой список означает,
// что Kafka отключён.
func (c Config) BrokerList() []string {
	if strings.TrimSpace(c.KafkaBrokers) == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}
