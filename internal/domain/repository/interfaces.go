package repository

import (
	"context"
	"errors"

	"FinRisk/internal/domain/models"
)

// ErrCompanyNotFound is returned by stores when a tax id is unknown.
var ErrCompanyNotFound = errors.New("company not found")

// SnapshotStore persists companies and their yearly financial snapshots.
// Storing a year that already exists replaces it.
type SnapshotStore interface {
	UpsertCompany(ctx context.Context, c models.CompanyInfo) error
	GetCompany(ctx context.Context, taxID string) (models.CompanyInfo, error)
	StoreSnapshots(ctx context.Context, taxID string, snaps []models.FinancialSnapshot) error
	ListSnapshots(ctx context.Context, taxID string) (models.FinancialSeries, error) // newest first
	Health(ctx context.Context) error
	Close() error
}

// ReportPublisher ships report events to downstream consumers.
type ReportPublisher interface {
	Publish(ctx context.Context, ev models.ReportEvent) error
	Close() error
}

// ReportNotifier pushes report events to live subscribers.
type ReportNotifier interface {
	Notify(ev models.ReportEvent)
}

type Metrics interface {
	RecordVerdict(group, verdict string, n int)
	RecordScreening(source string)
	RecordIngest(channel string, snapshots int)
	RecordCache(hit bool)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
