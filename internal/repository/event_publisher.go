package repository

import (
	"context"

	"CardSight/pkg/kafka"
)

// KafkaEventPublisher pushes analysis events through the shared
// producer. Satisfies both the domain EventPublisher and the log
// collector's Publisher.
type KafkaEventPublisher struct {
	producer *kafka.Producer
}

func NewKafkaEventPublisher(producer *kafka.Producer) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

func (p *KafkaEventPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

// NoopEventPublisher is used when no event sink is configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishMessage(context.Context, string, interface{}) error { return nil }
func (NoopEventPublisher) Close() error                                              { return nil }
