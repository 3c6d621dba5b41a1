package repository

import (
	"context"
	"fmt"

	"FinRisk/internal/domain/models"
	pkgkafka "FinRisk/pkg/kafka"
)

type messagePublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaReportPublisher sends report events keyed by tax id so one company's
// reports stay ordered within a partition.
type KafkaReportPublisher struct {
	producer messagePublisher
	topic    string
}

func NewKafkaReportPublisher(p *pkgkafka.Producer, topic string) *KafkaReportPublisher {
	return &KafkaReportPublisher{producer: p, topic: topic}
}

func (p *KafkaReportPublisher) Publish(ctx context.Context, ev models.ReportEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(ev.TaxID), ev); err != nil {
		return fmt.Errorf("publish report %s: %w", ev.ID, err)
	}
	return nil
}

func (p *KafkaReportPublisher) Close() error {
	return p.producer.Close()
}

// NoopReportPublisher is used when Kafka is disabled.
type NoopReportPublisher struct{}

func (NoopReportPublisher) Publish(context.Context, models.ReportEvent) error { return nil }

func (NoopReportPublisher) Close() error { return nil }
