package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"FinRisk/internal/domain/models"
	domrepo "FinRisk/internal/domain/repository"
	pkgkafka "FinRisk/pkg/kafka"
)

// KafkaSnapshotsHandler ingests {company, snapshots} messages.
type KafkaSnapshotsHandler struct {
	topic     string
	screening *RiskScreening
	metrics   domrepo.Metrics
}

func NewKafkaSnapshotsHandler(topic string, screening *RiskScreening, metrics domrepo.Metrics) *KafkaSnapshotsHandler {
	return &KafkaSnapshotsHandler{topic: topic, screening: screening, metrics: metrics}
}

func (h *KafkaSnapshotsHandler) Topic() string { return h.topic }

// Handle rejects malformed or invalid batches as permanent so they go straight to the DLQ.
func (h *KafkaSnapshotsHandler) Handle(ctx context.Context, b []byte) error {
	var batch models.SnapshotBatch
	if err := json.Unmarshal(b, &batch); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("%w: decode snapshot batch: %v", pkgkafka.ErrPermanent, err)
	}
	_, err := h.screening.Ingest(ctx, ChannelKafka, batch.Company, batch.Snapshots)
	if errors.Is(err, ErrInvalidSeries) {
		return fmt.Errorf("%w: %v", pkgkafka.ErrPermanent, err)
	}
	return err
}

var _ pkgkafka.MessageHandler = (*KafkaSnapshotsHandler)(nil)
