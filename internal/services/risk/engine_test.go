package risk

import (
	"sync"
	"testing"

	"FinRisk/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// healthy returns a snapshot for which every quantified rule resolves to Safe.
func healthy(year int) models.FinancialSnapshot {
	return models.FinancialSnapshot{
		Year:                  year,
		Revenue:               100,
		CostOfGoodsSold:       70,
		GrossProfit:           30,
		OperatingExpenses:     10,
		OperatingProfit:       20,
		NetProfit:             10,
		TotalAssets:           100,
		CurrentAssets:         60,
		CashAndEquivalents:    10,
		Receivables:           20,
		Inventory:             20,
		NonCurrentAssets:      40,
		FixedAssets:           30,
		TotalLiabilities:      50,
		CurrentLiabilities:    30,
		NonCurrentLiabilities: 20,
		Equity:                50,
		RetainedEarnings:      10,
		NetCashOperating:      12,
		NetCashInvesting:      -3,
		NetCashFinancing:      -2,
		NetCashFlow:           7,
	}
}

func healthySeries() models.FinancialSeries {
	return models.FinancialSeries{healthy(2024), healthy(2023), healthy(2022)}
}

func verdictOf(t *testing.T, findings []Finding, id int) Verdict {
	t.Helper()
	for _, f := range findings {
		if f.ID == id {
			return f.Verdict
		}
	}
	t.Fatalf("rule %d missing from findings", id)
	return ""
}

var (
	quantifiedIDs   = []int{1, 3, 4, 7, 8, 12, 13, 16, 18, 19, 20, 22, 28, 30, 35, 40, 41, 42, 43, 44, 45}
	needsPriorYear  = []int{1, 4, 8, 16, 20, 22, 35, 40}
	singleYearRules = []int{3, 7, 12, 13, 18, 19, 28, 30, 41, 42, 43, 44, 45}
)

func TestEvaluateAlwaysReturnsFullCatalog(t *testing.T) {
	e := NewEngine()
	cases := map[string]models.FinancialSeries{
		"empty":        nil,
		"other years":  {healthy(2010)},
		"healthy":      healthySeries(),
		"single year":  {healthy(2024)},
		"zero figures": {{Year: 2024}, {Year: 2023}},
	}
	for name, series := range cases {
		t.Run(name, func(t *testing.T) {
			findings := e.Evaluate(series, 2024)
			require.Len(t, findings, CatalogSize)
			for i, f := range findings {
				assert.Equal(t, defaultCatalog[i].ID, f.ID)
			}
		})
	}
}

func TestEvaluateMissingCurrentYearIsUnknown(t *testing.T) {
	findings := NewEngine().Evaluate(healthySeries(), 2030)
	for _, f := range findings {
		assert.Equal(t, Unknown, f.Verdict, "rule %d", f.ID)
		assert.Equal(t, "Chưa xác định", f.Label, "rule %d", f.ID)
	}
}

func TestEvaluateHealthyCompany(t *testing.T) {
	findings := NewEngine().Evaluate(healthySeries(), 2024)
	for _, f := range findings {
		if f.Quantified {
			assert.Equal(t, Safe, f.Verdict, "rule %d", f.ID)
		} else {
			assert.Equal(t, Unknown, f.Verdict, "descriptive rule %d", f.ID)
		}
	}
}

func TestEvaluateMissingPreviousYear(t *testing.T) {
	findings := NewEngine().Evaluate(models.FinancialSeries{healthy(2024)}, 2024)
	for _, id := range needsPriorYear {
		assert.Equal(t, Unknown, verdictOf(t, findings, id), "rule %d", id)
	}
	for _, id := range singleYearRules {
		assert.Equal(t, Safe, verdictOf(t, findings, id), "rule %d", id)
	}
}

func TestEvaluateMissingMiddleYear(t *testing.T) {
	series := models.FinancialSeries{healthy(2024), healthy(2022)}
	findings := NewEngine().Evaluate(series, 2024)
	for _, id := range needsPriorYear {
		assert.Equal(t, Unknown, verdictOf(t, findings, id), "rule %d", id)
	}
}

func TestEvaluateRuleTriggers(t *testing.T) {
	tests := []struct {
		name    string
		id      int
		current func(s *models.FinancialSnapshot)
		prev    func(s *models.FinancialSnapshot)
		want    Verdict
	}{
		{"cash spike with falling revenue", 1, func(s *models.FinancialSnapshot) { s.CashAndEquivalents = 16; s.Revenue = 90 }, nil, Risk},
		{"cash spike with steady revenue", 1, func(s *models.FinancialSnapshot) { s.CashAndEquivalents = 16 }, nil, Safe},
		{"receivables over 40% of assets", 3, func(s *models.FinancialSnapshot) { s.Receivables = 41 }, nil, Risk},
		{"receivables at exactly 40%", 3, func(s *models.FinancialSnapshot) { s.Receivables = 40 }, nil, Safe},
		{"receivables up while revenue down", 4, func(s *models.FinancialSnapshot) { s.Receivables = 27; s.Revenue = 95 }, nil, Risk},
		{"inventory over half of assets", 7, func(s *models.FinancialSnapshot) { s.Inventory = 51 }, nil, Risk},
		{"inventory drop with flat revenue", 8, func(s *models.FinancialSnapshot) { s.Inventory = 13 }, nil, Warning},
		{"inventory drop with strong revenue", 8, func(s *models.FinancialSnapshot) { s.Inventory = 13; s.Revenue = 110 }, nil, Safe},
		{"debt to equity above 3", 12, func(s *models.FinancialSnapshot) { s.TotalLiabilities = 300; s.Equity = 90 }, nil, Risk},
		{"losses with financing outflow", 13, func(s *models.FinancialSnapshot) { s.RetainedEarnings = -1 }, nil, Warning},
		{"revenue jump", 16, func(s *models.FinancialSnapshot) { s.Revenue = 131 }, nil, Warning},
		{"revenue collapse", 16, func(s *models.FinancialSnapshot) { s.Revenue = 69 }, nil, Warning},
		{"cogs above 95% of revenue", 18, func(s *models.FinancialSnapshot) { s.CostOfGoodsSold = 96 }, nil, Risk},
		{"gross margin below 5%", 19, func(s *models.FinancialSnapshot) { s.GrossProfit = 4 }, nil, Warning},
		{"operating expenses up 21%", 20, func(s *models.FinancialSnapshot) { s.OperatingExpenses = 12.1 }, nil, Warning},
		{"two loss years", 22, func(s *models.FinancialSnapshot) { s.NetProfit = -1 }, func(s *models.FinancialSnapshot) { s.NetProfit = -1 }, Risk},
		{"one loss year", 22, func(s *models.FinancialSnapshot) { s.NetProfit = -1 }, nil, Safe},
		{"net margin below 1%", 28, func(s *models.FinancialSnapshot) { s.NetProfit = 0.5 }, nil, Warning},
		{"profit without operating cash", 30, func(s *models.FinancialSnapshot) { s.NetCashOperating = -1 }, nil, Risk},
		{"receivables to revenue doubled", 40, func(s *models.FinancialSnapshot) { s.Receivables = 41 }, nil, Risk},
		{"liabilities over 80% of assets", 41, func(s *models.FinancialSnapshot) { s.TotalLiabilities = 81 }, nil, Risk},
		{"inventory over 70% of revenue", 42, func(s *models.FinancialSnapshot) { s.Inventory = 71 }, nil, Risk},
		{"roe below 5%", 43, func(s *models.FinancialSnapshot) { s.NetProfit = 2 }, nil, Warning},
		{"roa below 2%", 44, func(s *models.FinancialSnapshot) { s.NetProfit = 1 }, nil, Warning},
		{"quick ratio below 0.5", 45, func(s *models.FinancialSnapshot) { s.CurrentLiabilities = 100 }, nil, Risk},
		{"quick ratio exactly 0.5", 45, func(s *models.FinancialSnapshot) {
			s.CurrentAssets = 100
			s.CurrentLiabilities = 200
			s.Inventory = 0
		}, nil, Safe},
	}

	e := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur, prev := healthy(2024), healthy(2023)
			if tt.current != nil {
				tt.current(&cur)
			}
			if tt.prev != nil {
				tt.prev(&prev)
			}
			findings := e.Evaluate(models.FinancialSeries{cur, prev}, 2024)
			assert.Equal(t, tt.want, verdictOf(t, findings, tt.id))
		})
	}
}

func TestEvaluateThreeYearNegativeCashFlow(t *testing.T) {
	series := healthySeries()
	for i := range series {
		series[i].NetCashFlow = -1
	}
	e := NewEngine()
	assert.Equal(t, Risk, verdictOf(t, e.Evaluate(series, 2024), 35))

	series[2].NetCashFlow = 0
	assert.Equal(t, Safe, verdictOf(t, e.Evaluate(series, 2024), 35))

	assert.Equal(t, Unknown, verdictOf(t, e.Evaluate(series[:2], 2024), 35))
}

func TestEvaluateZeroDivisor(t *testing.T) {
	tests := []struct {
		id      int
		current func(s *models.FinancialSnapshot)
		prev    func(s *models.FinancialSnapshot)
	}{
		{3, func(s *models.FinancialSnapshot) { s.TotalAssets = 0 }, nil},
		{4, nil, func(s *models.FinancialSnapshot) { s.Receivables = 0 }},
		{4, nil, func(s *models.FinancialSnapshot) { s.Revenue = 0 }},
		{7, func(s *models.FinancialSnapshot) { s.TotalAssets = 0 }, nil},
		{12, func(s *models.FinancialSnapshot) { s.Equity = 0 }, nil},
		{16, nil, func(s *models.FinancialSnapshot) { s.Revenue = 0 }},
		{18, func(s *models.FinancialSnapshot) { s.Revenue = 0 }, nil},
		{19, func(s *models.FinancialSnapshot) { s.Revenue = 0 }, nil},
		{20, nil, func(s *models.FinancialSnapshot) { s.OperatingExpenses = 0 }},
		{28, func(s *models.FinancialSnapshot) { s.Revenue = 0 }, nil},
		{40, func(s *models.FinancialSnapshot) { s.Revenue = 0 }, nil},
		{40, nil, func(s *models.FinancialSnapshot) { s.Revenue = 0 }},
		{41, func(s *models.FinancialSnapshot) { s.TotalAssets = 0 }, nil},
		{42, func(s *models.FinancialSnapshot) { s.Revenue = 0 }, nil},
		{43, func(s *models.FinancialSnapshot) { s.Equity = 0 }, nil},
		{44, func(s *models.FinancialSnapshot) { s.TotalAssets = 0 }, nil},
		{45, func(s *models.FinancialSnapshot) { s.CurrentLiabilities = 0 }, nil},
	}

	strict := NewEngine()
	flagging := NewEngine(WithZeroDivisorVerdict(Warning))
	for _, tt := range tests {
		cur, prev := healthy(2024), healthy(2023)
		if tt.current != nil {
			tt.current(&cur)
		}
		if tt.prev != nil {
			tt.prev(&prev)
		}
		series := models.FinancialSeries{cur, prev}
		assert.Equal(t, Unknown, verdictOf(t, strict.Evaluate(series, 2024), tt.id), "rule %d", tt.id)
		assert.Equal(t, Warning, verdictOf(t, flagging.Evaluate(series, 2024), tt.id), "rule %d with policy", tt.id)
	}
}

func TestEvaluateAllZeroSnapshotNeverPanics(t *testing.T) {
	series := models.FinancialSeries{{Year: 2024}, {Year: 2023}, {Year: 2022}}
	findings := NewEngine().Evaluate(series, 2024)
	require.Len(t, findings, CatalogSize)
	for _, f := range findings {
		assert.True(t, f.Verdict.Valid())
	}
}

func TestWithZeroDivisorVerdictIgnoresInvalid(t *testing.T) {
	e := NewEngine(WithZeroDivisorVerdict("MAYBE"))
	assert.Equal(t, Unknown, e.ZeroDivisorVerdict())
}

func TestEvaluateOrderIndependent(t *testing.T) {
	desc := healthySeries()
	desc[0].Receivables = 45
	desc[1].NetProfit = -5
	asc := models.FinancialSeries{desc[2], desc[1], desc[0]}

	e := NewEngine()
	assert.Equal(t, e.Evaluate(desc, 2024), e.Evaluate(asc, 2024))
}

func TestEvaluateIdempotentAndPure(t *testing.T) {
	series := healthySeries()
	series[0].Inventory = 60
	before := make(models.FinancialSeries, len(series))
	copy(before, series)

	e := NewEngine()
	first := e.Evaluate(series, 2024)
	second := e.Evaluate(series, 2024)

	assert.Equal(t, first, second)
	assert.Equal(t, before, series)
}

func TestEvaluateConcurrent(t *testing.T) {
	e := NewEngine()
	series := healthySeries()
	want := e.Evaluate(series, 2024)

	var wg sync.WaitGroup
	results := make([][]Finding, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.Evaluate(series, 2024)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestEvaluateDuplicateYearUsesFirst(t *testing.T) {
	bad := healthy(2024)
	bad.Receivables = 90
	findings := NewEngine().Evaluate(models.FinancialSeries{healthy(2024), bad, healthy(2023)}, 2024)
	assert.Equal(t, Safe, verdictOf(t, findings, 3))
}

func TestReportSections(t *testing.T) {
	cur := healthy(2024)
	cur.TotalLiabilities = 300
	cur.Equity = 90
	report := NewEngine().Report(models.FinancialSeries{cur, healthy(2023)}, 2024)

	assert.Equal(t, 2024, report.Year)
	assert.True(t, report.HasCurrent)
	assert.True(t, report.HasPrevious)
	assert.False(t, report.HasTwoBack)

	require.Len(t, report.Sections, 4)
	wantCounts := []int{15, 14, 6, 10}
	for i, s := range report.Sections {
		assert.Equal(t, Groups[i], s.Group)
		assert.Equal(t, wantCounts[i], s.Count)
		assert.Len(t, s.Findings, s.Count)
		assert.Equal(t, s.Group.Title(), s.Title)
	}
	assert.Equal(t, "I. RỦI RO BẢNG CÂN ĐỐI KẾ TOÁN", report.Sections[0].Title)

	sum := report.Summary
	assert.Equal(t, CatalogSize, sum.Risk+sum.Warning+sum.Safe+sum.Unknown)
	assert.Equal(t, CatalogSize-len(quantifiedIDs), sum.NotQuantified)
	assert.Equal(t, 2, sum.Risk) // rules 12 and 41

	flagged := report.Flagged()
	require.NotEmpty(t, flagged)
	assert.Equal(t, 12, flagged[0].ID)
	assert.Equal(t, string(Risk), flagged[0].Verdict)
	assert.Equal(t, report.Findings(), NewEngine().Evaluate(models.FinancialSeries{cur, healthy(2023)}, 2024))
}

func TestWindowKeepsOwnCopies(t *testing.T) {
	series := healthySeries()
	w := newWindow(series, 2024, Unknown)
	series[0].Revenue = 1

	require.NotNil(t, w.Current())
	assert.Equal(t, 100.0, w.Current().Revenue)
	assert.Equal(t, 2023, w.Previous().Year)
	assert.Nil(t, w.Back(3))
}
