package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"FinRisk/internal/domain/models"
	domrepo "FinRisk/internal/domain/repository"
	"FinRisk/internal/services/mockdata"
	"FinRisk/internal/services/risk"
	"FinRisk/pkg/cache"
	applogger "FinRisk/pkg/logger"
	"FinRisk/pkg/util"
)

// Ingest channels, used as metric labels.
const (
	ChannelHTTP  = "http"
	ChannelKafka = "kafka"
	ChannelDemo  = "demo"
)

// Screening is a risk report together with the data context it was computed from.
type Screening struct {
	Company   *models.CompanyInfo `json:"company,omitempty"`
	Years     []int               `json:"years"`
	Anomalies []string            `json:"anomalies,omitempty"`
	Report    risk.Report         `json:"report"`
}

type ScreeningConfig struct {
	CacheTTL       time.Duration
	MaxUploadYears int
}

// RiskScreening evaluates stored or supplied series and distributes the reports.
type RiskScreening struct {
	engine    *risk.Engine
	store     domrepo.SnapshotStore
	cache     cache.Service
	publisher domrepo.ReportPublisher
	notifier  domrepo.ReportNotifier
	metrics   domrepo.Metrics
	log       *applogger.Logger
	cfg       ScreeningConfig
	validate  *validator.Validate
	now       func() time.Time
}

func NewRiskScreening(
	engine *risk.Engine,
	store domrepo.SnapshotStore,
	c cache.Service,
	publisher domrepo.ReportPublisher,
	notifier domrepo.ReportNotifier,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	cfg ScreeningConfig,
) *RiskScreening {
	if l == nil {
		l = applogger.NewNop()
	}
	if cfg.MaxUploadYears <= 0 {
		cfg.MaxUploadYears = mockdata.DefaultYears
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := models.RegisterValidations(v); err != nil {
		panic(err)
	}
	return &RiskScreening{
		engine:    engine,
		store:     store,
		cache:     c,
		publisher: publisher,
		notifier:  notifier,
		metrics:   metrics,
		log:       l,
		cfg:       cfg,
		validate:  v,
		now:       time.Now,
	}
}

func reportKey(taxID string, year int) string {
	if year == 0 {
		return cache.GenerateKeyWithParams("risk", taxID, "latest")
	}
	return cache.GenerateKeyWithParams("risk", taxID, year)
}

// Evaluate screens a stored company. Year 0 means the newest stored year.
func (s *RiskScreening) Evaluate(ctx context.Context, taxID string, year int) (Screening, error) {
	start := time.Now()
	key := reportKey(taxID, year)

	if cached, err := cache.GetTyped[Screening](ctx, s.cache, key); err == nil {
		s.metrics.RecordCache(true)
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("report cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	s.metrics.RecordCache(false)

	company, series, err := loadSeries(ctx, s.store, taxID)
	if err != nil {
		return Screening{}, err
	}

	out := s.screen(series, year)
	out.Company = &company
	s.record("stored", out.Report)
	s.metrics.RecordLatency("evaluate", time.Since(start).Seconds())

	if err := s.cache.Set(ctx, key, out, s.cfg.CacheTTL); err != nil {
		s.log.Warn("report cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return out, nil
}

// EvaluateSeries screens a caller-supplied series without touching storage.
func (s *RiskScreening) EvaluateSeries(series models.FinancialSeries, year int) Screening {
	out := s.screen(series, year)
	s.record("adhoc", out.Report)
	return out
}

func (s *RiskScreening) screen(series models.FinancialSeries, year int) Screening {
	if year == 0 {
		if latest, ok := series.Latest(); ok {
			year = latest.Year
		}
	}
	return Screening{
		Years:     series.Years(),
		Anomalies: series.Anomalies(),
		Report:    s.engine.Report(series, year),
	}
}

func (s *RiskScreening) record(source string, r risk.Report) {
	s.metrics.RecordScreening(source)
	for _, sec := range r.Sections {
		counts := make(map[risk.Verdict]int, len(risk.Verdicts))
		for _, f := range sec.Findings {
			counts[f.Verdict]++
		}
		for v, n := range counts {
			s.metrics.RecordVerdict(string(sec.Group), string(v), n)
		}
	}
}

// validateBatch also rewrites company.DateFounded as dd/mm/yyyy.
func (s *RiskScreening) validateBatch(company *models.CompanyInfo, series models.FinancialSeries) error {
	if err := s.validate.Struct(company); err != nil {
		return fmt.Errorf("%w: company: %v", ErrInvalidSeries, err)
	}
	if company.DateFounded != "" {
		d, ok := util.NormalizeVNDate(company.DateFounded)
		if !ok {
			return fmt.Errorf("%w: company: unreadable dateFounded %q", ErrInvalidSeries, company.DateFounded)
		}
		company.DateFounded = d
	}
	if len(series) == 0 {
		return fmt.Errorf("%w: no snapshots", ErrInvalidSeries)
	}
	if len(series) > s.cfg.MaxUploadYears {
		return fmt.Errorf("%w: %d years uploaded, at most %d allowed", ErrInvalidSeries, len(series), s.cfg.MaxUploadYears)
	}
	for i := range series {
		if err := s.validate.Struct(series[i]); err != nil {
			return fmt.Errorf("%w: snapshot %d: %v", ErrInvalidSeries, i, err)
		}
	}
	if err := series.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeries, err)
	}
	return nil
}

// Ingest stores a company's snapshots, drops its cached reports, screens the newest
// stored year and fans the result out to Kafka and live subscribers.
// Delivery failures are logged; the data is already stored by then.
func (s *RiskScreening) Ingest(ctx context.Context, channel string, company models.CompanyInfo, series models.FinancialSeries) (Screening, error) {
	if err := s.validateBatch(&company, series); err != nil {
		s.metrics.RecordError("ingest_invalid")
		return Screening{}, err
	}

	if err := s.store.UpsertCompany(ctx, company); err != nil {
		s.metrics.RecordError("ingest_store")
		return Screening{}, fmt.Errorf("ingest %s: %w", company.TaxID, err)
	}
	if err := s.store.StoreSnapshots(ctx, company.TaxID, series); err != nil {
		s.metrics.RecordError("ingest_store")
		return Screening{}, fmt.Errorf("ingest %s: %w", company.TaxID, err)
	}
	s.metrics.RecordIngest(channel, len(series))

	if err := s.cache.DeleteByPattern(ctx, cache.BuildPattern(cache.GenerateKeyWithParams("risk", company.TaxID)+":")); err != nil {
		s.metrics.RecordError("cache_invalidate")
		s.log.Warn("report cache invalidation failed", applogger.String("tax_id", company.TaxID), applogger.Error(err))
	}

	stored, err := s.store.ListSnapshots(ctx, company.TaxID)
	if err != nil {
		return Screening{}, fmt.Errorf("ingest %s: reload: %w", company.TaxID, err)
	}
	out := s.screen(stored, 0)
	out.Company = &company
	s.record(channel, out.Report)

	ev := s.event(company, out)
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.metrics.RecordError("report_publish")
		s.log.Error("report publish failed", applogger.String("tax_id", company.TaxID), applogger.Error(err))
	}
	if s.notifier != nil {
		s.notifier.Notify(ev)
	}

	s.log.Info("snapshots ingested",
		applogger.String("tax_id", company.TaxID),
		applogger.String("channel", channel),
		applogger.Int("years", len(series)),
		applogger.Int("flagged", len(ev.Flagged)),
	)
	return out, nil
}

func (s *RiskScreening) event(company models.CompanyInfo, sc Screening) models.ReportEvent {
	return models.ReportEvent{
		ID:          uuid.NewString(),
		TaxID:       company.TaxID,
		CompanyName: company.Name,
		Year:        sc.Report.Year,
		Summary:     sc.Report.Summary.Counts(),
		Flagged:     sc.Report.Flagged(),
		Anomalies:   sc.Anomalies,
		GeneratedAt: s.now().UTC(),
	}
}

// SeedDemo stores generated data for the demo company.
func (s *RiskScreening) SeedDemo(ctx context.Context, seed uint64) (Screening, error) {
	series := mockdata.Generate(mockdata.Options{Years: mockdata.DefaultYears, Seed: seed})
	return s.Ingest(ctx, ChannelDemo, mockdata.DemoCompany(), series)
}

// DemoPeriods is the invoice-derived revenue of the demo company.
type DemoPeriods struct {
	TaxID     string                   `json:"taxId"`
	Year      int                      `json:"year"`
	Quarterly []mockdata.PeriodRevenue `json:"quarterly"`
	Monthly   []mockdata.PeriodRevenue `json:"monthly"`
}

// DemoPeriods returns the quarterly VAT and monthly invoice series shown next to the demo report.
func (s *RiskScreening) DemoPeriods(year int, seed uint64) DemoPeriods {
	if year == 0 {
		year = mockdata.DefaultAnchor
	}
	return DemoPeriods{
		TaxID:     mockdata.DemoCompany().TaxID,
		Year:      year,
		Quarterly: mockdata.Quarterly(year),
		Monthly:   mockdata.Monthly(seed),
	}
}

// Rules returns the catalog the engine evaluates.
func (s *RiskScreening) Rules() []risk.Rule {
	return s.engine.Rules()
}
