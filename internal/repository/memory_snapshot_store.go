package repository

import (
	"context"
	"sync"

	"FinRisk/internal/domain/models"
	domrepo "FinRisk/internal/domain/repository"
)

type memoryCompany struct {
	info  models.CompanyInfo
	years map[int]models.FinancialSnapshot
}

// MemorySnapshotStore keeps everything in process. Later uploads of a year replace earlier ones.
type MemorySnapshotStore struct {
	mu        sync.RWMutex
	companies map[string]*memoryCompany
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{companies: make(map[string]*memoryCompany)}
}

func (s *MemorySnapshotStore) entry(taxID string) *memoryCompany {
	c, ok := s.companies[taxID]
	if !ok {
		c = &memoryCompany{info: models.CompanyInfo{TaxID: taxID}, years: make(map[int]models.FinancialSnapshot)}
		s.companies[taxID] = c
	}
	return c
}

func (s *MemorySnapshotStore) UpsertCompany(_ context.Context, c models.CompanyInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(c.TaxID).info = c
	return nil
}

func (s *MemorySnapshotStore) GetCompany(_ context.Context, taxID string) (models.CompanyInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[taxID]
	if !ok {
		return models.CompanyInfo{}, domrepo.ErrCompanyNotFound
	}
	return c.info, nil
}

func (s *MemorySnapshotStore) StoreSnapshots(_ context.Context, taxID string, snaps []models.FinancialSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.entry(taxID)
	for _, snap := range snaps {
		c.years[snap.Year] = snap
	}
	return nil
}

func (s *MemorySnapshotStore) ListSnapshots(_ context.Context, taxID string) (models.FinancialSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[taxID]
	if !ok {
		return nil, nil
	}
	out := make(models.FinancialSeries, 0, len(c.years))
	for _, snap := range c.years {
		out = append(out, snap)
	}
	return out.SortedDesc(), nil
}

func (s *MemorySnapshotStore) Health(context.Context) error { return nil }

func (s *MemorySnapshotStore) Close() error { return nil }
