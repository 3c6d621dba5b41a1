package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"FinRisk/internal/domain/models"
	domrepo "FinRisk/internal/domain/repository"
	pkgch "FinRisk/pkg/clickhouse"
	applogger "FinRisk/pkg/logger"
)

// CHSnapshotStore implements SnapshotStore backed by ClickHouse.
// Both tables are ReplacingMergeTree versioned by ingested_at, so a re-upload of a
// year replaces the earlier row once parts merge; reads use FINAL to see that already.
type CHSnapshotStore struct {
	db  *sql.DB
	ch  *pkgch.Client
	l   *applogger.Logger
	now func() time.Time
}

func NewCHSnapshotStore(ch *pkgch.Client, l *applogger.Logger) *CHSnapshotStore {
	if l == nil {
		l = applogger.NewNop()
	}
	return &CHSnapshotStore{db: ch.DB(), ch: ch, l: l, now: time.Now}
}

// SchemaStatements returns the idempotent DDL for the store.
func SchemaStatements() []string {
	cols := make([]string, 0, len(snapshotColumns))
	for _, c := range snapshotColumns {
		cols = append(cols, fmt.Sprintf("    %s Float64", c.name))
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS companies (
    tax_id String,
    name String,
    address String,
    representative String,
    date_founded String,
    ingested_at DateTime64(3)
) ENGINE = ReplacingMergeTree(ingested_at)
ORDER BY tax_id`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS financial_snapshots (
    tax_id String,
    year UInt16,
%s,
    ingested_at DateTime64(3)
) ENGINE = ReplacingMergeTree(ingested_at)
ORDER BY (tax_id, year)`, strings.Join(cols, ",\n")),
	}
}

// Init creates the tables when missing.
func (s *CHSnapshotStore) Init(ctx context.Context) error {
	if err := s.ch.InitSchema(ctx, SchemaStatements()); err != nil {
		return err
	}
	s.l.Info("clickhouse snapshot schema ready", applogger.String("database", s.ch.Database()))
	return nil
}

func (s *CHSnapshotStore) UpsertCompany(ctx context.Context, c models.CompanyInfo) error {
	const q = `INSERT INTO companies (tax_id, name, address, representative, date_founded, ingested_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, c.TaxID, c.Name, c.Address, c.Representative, c.DateFounded, s.now()); err != nil {
		s.l.Error("clickhouse upsert_company error", applogger.String("tax_id", c.TaxID), applogger.Error(err))
		return fmt.Errorf("upsert company: %w", err)
	}
	return nil
}

func (s *CHSnapshotStore) GetCompany(ctx context.Context, taxID string) (models.CompanyInfo, error) {
	const q = `SELECT tax_id, name, address, representative, date_founded FROM companies FINAL WHERE tax_id = ? LIMIT 1`
	var c models.CompanyInfo
	err := s.db.QueryRowContext(ctx, q, taxID).Scan(&c.TaxID, &c.Name, &c.Address, &c.Representative, &c.DateFounded)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CompanyInfo{}, domrepo.ErrCompanyNotFound
	}
	if err != nil {
		s.l.Error("clickhouse get_company error", applogger.String("tax_id", taxID), applogger.Error(err))
		return models.CompanyInfo{}, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

func insertSnapshotsQuery(rows int) string {
	names := make([]string, 0, len(snapshotColumns)+3)
	names = append(names, "tax_id", "year")
	for _, c := range snapshotColumns {
		names = append(names, c.name)
	}
	names = append(names, "ingested_at")

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ") + ")"
	values := make([]string, rows)
	for i := range values {
		values[i] = placeholder
	}
	return fmt.Sprintf("INSERT INTO financial_snapshots (%s) VALUES %s", strings.Join(names, ", "), strings.Join(values, ","))
}

// StoreSnapshots writes all years in one multi-row insert.
func (s *CHSnapshotStore) StoreSnapshots(ctx context.Context, taxID string, snaps []models.FinancialSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	start := time.Now()
	ts := s.now()
	args := make([]interface{}, 0, len(snaps)*(len(snapshotColumns)+3))
	for i := range snaps {
		snap := snaps[i]
		args = append(args, taxID, uint16(snap.Year))
		for _, c := range snapshotColumns {
			args = append(args, *c.field(&snap))
		}
		args = append(args, ts)
	}

	if _, err := s.db.ExecContext(ctx, insertSnapshotsQuery(len(snaps)), args...); err != nil {
		s.l.Error("clickhouse store_snapshots error",
			applogger.String("tax_id", taxID),
			applogger.Int("rows", len(snaps)),
			applogger.Error(err),
		)
		return fmt.Errorf("store snapshots: %w", err)
	}
	s.l.Debug("clickhouse store_snapshots ok",
		applogger.String("tax_id", taxID),
		applogger.Int("rows", len(snaps)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func selectSnapshotsQuery() string {
	names := make([]string, 0, len(snapshotColumns)+1)
	names = append(names, "year")
	for _, c := range snapshotColumns {
		names = append(names, c.name)
	}
	return fmt.Sprintf("SELECT %s FROM financial_snapshots FINAL WHERE tax_id = ? ORDER BY year DESC", strings.Join(names, ", "))
}

func (s *CHSnapshotStore) ListSnapshots(ctx context.Context, taxID string) (models.FinancialSeries, error) {
	rows, err := s.db.QueryContext(ctx, selectSnapshotsQuery(), taxID)
	if err != nil {
		s.l.Error("clickhouse list_snapshots query error", applogger.String("tax_id", taxID), applogger.Error(err))
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	out := make(models.FinancialSeries, 0, 6)
	for rows.Next() {
		var (
			snap models.FinancialSnapshot
			year uint16
		)
		dest := make([]interface{}, 0, len(snapshotColumns)+1)
		dest = append(dest, &year)
		for _, c := range snapshotColumns {
			dest = append(dest, c.field(&snap))
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Year = int(year)
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHSnapshotStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

func (s *CHSnapshotStore) Close() error {
	return s.ch.Close()
}
