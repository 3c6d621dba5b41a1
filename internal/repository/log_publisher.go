package repository

import (
	"context"

	pkgkafka "FinRisk/pkg/kafka"
	applogger "FinRisk/pkg/logger"
)

// LogPublisher ships collected error logs to Kafka.
type LogPublisher struct {
	producer *pkgkafka.Producer
}

var _ applogger.Publisher = (*LogPublisher)(nil)

func NewLogPublisher(p *pkgkafka.Producer) *LogPublisher {
	return &LogPublisher{producer: p}
}

func (p *LogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.PublishMessage(ctx, topic, payload)
}
