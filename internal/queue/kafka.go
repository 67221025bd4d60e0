package queue

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
)

// KafkaPublisher writes events keyed by user so that the events of one user
// land on the same partition in order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev *types.VaultEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.User.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type.String())},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *types.VaultEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
