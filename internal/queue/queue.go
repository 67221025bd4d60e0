package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"go.uber.org/zap"

	"github.com/babylonlabs-io/token-vault-ledger/internal/config"
	"github.com/babylonlabs-io/token-vault-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
)

// Publisher sends a vault event to a broker.
//
//go:generate mockery --name=Publisher --output=../../tests/mocks --outpkg=mocks --filename=mock_publisher.go
type Publisher interface {
	Publish(ctx context.Context, ev *types.VaultEvent) error
	Close() error
}

// QueueManager publishes vault events with retries. It implements Publisher.
type QueueManager struct {
	publisher Publisher
	cfg       *config.QueueConfig
}

func NewQueueManager(cfg *config.QueueConfig, logger *zap.Logger) (*QueueManager, error) {
	var (
		publisher Publisher
		err       error
	)
	switch cfg.Backend {
	case config.QueueBackendRabbitMQ:
		publisher, err = NewRabbitMQPublisher(cfg.URL, cfg.Exchange, logger)
	case config.QueueBackendKafka:
		publisher = NewKafkaPublisher(cfg.Brokers, cfg.Topic)
	case config.QueueBackendNone:
		publisher = NoopPublisher{}
	default:
		err = fmt.Errorf("unknown queue backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s publisher: %w", cfg.Backend, err)
	}

	return NewQueueManagerWithPublisher(publisher, cfg), nil
}

func NewQueueManagerWithPublisher(publisher Publisher, cfg *config.QueueConfig) *QueueManager {
	return &QueueManager{publisher: publisher, cfg: cfg}
}

// Publish retries the underlying publisher. A final failure is counted in
// the queue send error metric and returned.
func (qm *QueueManager) Publish(ctx context.Context, ev *types.VaultEvent) error {
	if ev == nil {
		return errors.New("nil vault event")
	}

	err := retry.Do(
		func() error {
			return qm.publisher.Publish(ctx, ev)
		},
		retry.Context(ctx),
		retry.Attempts(qm.cfg.MaxRetryTimes),
		retry.Delay(qm.cfg.RetryInterval),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", qm.cfg.MaxRetryTimes).
				Str("event_id", ev.ID).
				Err(err).
				Msg("failed to publish vault event")
		}),
	)
	if err != nil {
		metrics.RecordQueueSendError()
		return fmt.Errorf("failed to publish %s event %s: %w", ev.Type, ev.ID, err)
	}

	return nil
}

// Close gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Close() error {
	log.Info().Msg("Shutting down queue manager")
	return qm.publisher.Close()
}
