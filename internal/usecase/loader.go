package usecase

import (
	"context"
	"fmt"

	"FinRisk/internal/domain/models"
	domrepo "FinRisk/internal/domain/repository"
)

// loadSeries returns the company and its stored series, newest first.
func loadSeries(ctx context.Context, store domrepo.SnapshotStore, taxID string) (models.CompanyInfo, models.FinancialSeries, error) {
	company, err := store.GetCompany(ctx, taxID)
	if err != nil {
		return models.CompanyInfo{}, nil, fmt.Errorf("load company %s: %w", taxID, err)
	}
	series, err := store.ListSnapshots(ctx, taxID)
	if err != nil {
		return company, nil, fmt.Errorf("load snapshots %s: %w", taxID, err)
	}
	if len(series) == 0 {
		return company, nil, fmt.Errorf("%s: %w", taxID, ErrNoSnapshots)
	}
	return company, series, nil
}
