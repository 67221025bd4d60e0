package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	QueueBackendRabbitMQ = "rabbitmq"
	QueueBackendKafka    = "kafka"
	QueueBackendNone     = "none"

	defaultQueueExchange      = "vault-events"
	defaultQueueTopic         = "vault-events"
	defaultQueueMaxRetryTimes = 3
	defaultQueueRetryInterval = 200 * time.Millisecond
)

type QueueConfig struct {
	Backend string `mapstructure:"backend"`
	// URL is the amqp url of the rabbitmq broker
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
	// Brokers and Topic configure the kafka backend
	Brokers       []string      `mapstructure:"brokers"`
	Topic         string        `mapstructure:"topic"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Backend == "" {
		cfg.Backend = QueueBackendRabbitMQ
	}
	if cfg.MaxRetryTimes == 0 {
		cfg.MaxRetryTimes = defaultQueueMaxRetryTimes
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultQueueRetryInterval
	}

	switch cfg.Backend {
	case QueueBackendRabbitMQ:
		if cfg.URL == "" {
			return errors.New("queue url must be set")
		}
		if cfg.Exchange == "" {
			cfg.Exchange = defaultQueueExchange
		}
	case QueueBackendKafka:
		if len(cfg.Brokers) == 0 {
			return errors.New("at least one kafka broker must be set")
		}
		if cfg.Topic == "" {
			cfg.Topic = defaultQueueTopic
		}
	case QueueBackendNone:
	default:
		return fmt.Errorf("unknown queue backend %q", cfg.Backend)
	}

	return nil
}
