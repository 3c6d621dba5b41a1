package usecase

import (
	"context"
	"fmt"

	"FinRisk/internal/domain/models"
	domrepo "FinRisk/internal/domain/repository"
	"FinRisk/internal/services/analysis"
)

// Analysis serves ratio and trend views over stored series.
type Analysis struct {
	store domrepo.SnapshotStore
}

func NewAnalysis(store domrepo.SnapshotStore) *Analysis {
	return &Analysis{store: store}
}

// Ratios returns one entry per stored year, newest first, or only the given year.
func (a *Analysis) Ratios(ctx context.Context, taxID string, year int) ([]models.Ratios, error) {
	_, series, err := loadSeries(ctx, a.store, taxID)
	if err != nil {
		return nil, err
	}
	if year != 0 {
		snap, ok := series.Find(year)
		if !ok {
			return nil, fmt.Errorf("%s %d: %w", taxID, year, ErrYearNotFound)
		}
		return []models.Ratios{analysis.CalculateRatios(snap)}, nil
	}
	out := make([]models.Ratios, 0, len(series))
	for _, y := range series.Years() {
		snap, _ := series.Find(y)
		out = append(out, analysis.CalculateRatios(snap))
	}
	return out, nil
}

func (a *Analysis) Trends(ctx context.Context, taxID, statement, mode string) (models.TrendTable, error) {
	_, series, err := loadSeries(ctx, a.store, taxID)
	if err != nil {
		return models.TrendTable{}, err
	}
	table, err := analysis.Trends(series, statement, mode)
	if err != nil {
		return models.TrendTable{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return table, nil
}

// CompanySnapshots is a company with its stored years.
type CompanySnapshots struct {
	Company   models.CompanyInfo     `json:"company"`
	Snapshots models.FinancialSeries `json:"snapshots"`
}

func (a *Analysis) Snapshots(ctx context.Context, taxID string) (CompanySnapshots, error) {
	company, series, err := loadSeries(ctx, a.store, taxID)
	if err != nil {
		return CompanySnapshots{}, err
	}
	return CompanySnapshots{Company: company, Snapshots: series}, nil
}
