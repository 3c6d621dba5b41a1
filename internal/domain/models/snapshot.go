package models

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrMissingYear   = errors.New("snapshot year is required")
	ErrDuplicateYear = errors.New("duplicate snapshot year")
)

// FinancialSnapshot holds one fiscal year's figures in VND.
type FinancialSnapshot struct {
	Year int `json:"year" validate:"required,gte=1900,lte=2200"`

	// Income statement
	Revenue           float64 `json:"revenue"`
	CostOfGoodsSold   float64 `json:"costOfGoodsSold"`
	GrossProfit       float64 `json:"grossProfit"`
	OperatingExpenses float64 `json:"operatingExpenses"` // selling + admin
	OperatingProfit   float64 `json:"operatingProfit"`
	FinancialIncome   float64 `json:"financialIncome"`
	FinancialExpenses float64 `json:"financialExpenses"`
	OtherIncome       float64 `json:"otherIncome"`
	OtherExpenses     float64 `json:"otherExpenses"`
	NetProfit         float64 `json:"netProfit"` // may be negative

	// Balance sheet
	TotalAssets           float64 `json:"totalAssets"`
	CurrentAssets         float64 `json:"currentAssets"`
	CashAndEquivalents    float64 `json:"cashAndEquivalents"`
	Receivables           float64 `json:"receivables"`
	Inventory             float64 `json:"inventory"`
	NonCurrentAssets      float64 `json:"nonCurrentAssets"`
	FixedAssets           float64 `json:"fixedAssets"`
	TotalLiabilities      float64 `json:"totalLiabilities"`
	CurrentLiabilities    float64 `json:"currentLiabilities"`
	NonCurrentLiabilities float64 `json:"nonCurrentLiabilities"`
	Equity                float64 `json:"equity"`
	RetainedEarnings      float64 `json:"retainedEarnings"` // may be negative

	// Cash flow, all signed
	NetCashOperating float64 `json:"netCashOperating"`
	NetCashInvesting float64 `json:"netCashInvesting"`
	NetCashFinancing float64 `json:"netCashFinancing"`
	NetCashFlow      float64 `json:"netCashFlow"`

	// Trial balance totals, 0 when the source has none
	TrialBalanceTotalDebit  float64 `json:"trialBalanceTotalDebit"`
	TrialBalanceTotalCredit float64 `json:"trialBalanceTotalCredit"`
}

// FinancialSeries is a set of snapshots, one per distinct year, in any order.
type FinancialSeries []FinancialSnapshot

// Find returns the first snapshot whose year matches.
func (s FinancialSeries) Find(year int) (FinancialSnapshot, bool) {
	for i := range s {
		if s[i].Year == year {
			return s[i], true
		}
	}
	return FinancialSnapshot{}, false
}

// Years returns the distinct years, newest first.
func (s FinancialSeries) Years() []int {
	seen := make(map[int]struct{}, len(s))
	years := make([]int, 0, len(s))
	for _, snap := range s {
		if _, ok := seen[snap.Year]; ok {
			continue
		}
		seen[snap.Year] = struct{}{}
		years = append(years, snap.Year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Latest returns the snapshot with the highest year.
func (s FinancialSeries) Latest() (FinancialSnapshot, bool) {
	years := s.Years()
	if len(years) == 0 {
		return FinancialSnapshot{}, false
	}
	return s.Find(years[0])
}

// SortedDesc returns a copy ordered newest first.
func (s FinancialSeries) SortedDesc() FinancialSeries {
	out := make(FinancialSeries, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

// Validate checks the provider contract: every snapshot has a year and years are unique.
func (s FinancialSeries) Validate() error {
	seen := make(map[int]struct{}, len(s))
	for i, snap := range s {
		if snap.Year == 0 {
			return fmt.Errorf("snapshot %d: %w", i, ErrMissingYear)
		}
		if _, ok := seen[snap.Year]; ok {
			return fmt.Errorf("year %d: %w", snap.Year, ErrDuplicateYear)
		}
		seen[snap.Year] = struct{}{}
	}
	return nil
}

// balanceTolerance is the relative gap allowed between assets and liabilities plus equity.
const balanceTolerance = 0.01

// Anomalies lists data-quality issues that do not block evaluation:
// negative values in fields expected to be non-negative and an unbalanced balance sheet.
func (s FinancialSeries) Anomalies() []string {
	var out []string
	for _, snap := range s.SortedDesc() {
		for _, f := range nonNegativeFields(&snap) {
			if f.value < 0 || math.IsNaN(f.value) {
				out = append(out, fmt.Sprintf("%d: %s is negative", snap.Year, f.name))
			}
		}
		if snap.TotalAssets != 0 {
			gap := math.Abs(snap.TotalAssets-(snap.TotalLiabilities+snap.Equity)) / math.Abs(snap.TotalAssets)
			if gap > balanceTolerance {
				out = append(out, fmt.Sprintf("%d: totalAssets differs from totalLiabilities + equity by %.1f%%", snap.Year, gap*100))
			}
		}
	}
	return out
}

type namedValue struct {
	name  string
	value float64
}

func nonNegativeFields(s *FinancialSnapshot) []namedValue {
	return []namedValue{
		{"revenue", s.Revenue},
		{"costOfGoodsSold", s.CostOfGoodsSold},
		{"grossProfit", s.GrossProfit},
		{"operatingExpenses", s.OperatingExpenses},
		{"operatingProfit", s.OperatingProfit},
		{"financialIncome", s.FinancialIncome},
		{"financialExpenses", s.FinancialExpenses},
		{"otherIncome", s.OtherIncome},
		{"otherExpenses", s.OtherExpenses},
		{"totalAssets", s.TotalAssets},
		{"currentAssets", s.CurrentAssets},
		{"cashAndEquivalents", s.CashAndEquivalents},
		{"receivables", s.Receivables},
		{"inventory", s.Inventory},
		{"nonCurrentAssets", s.NonCurrentAssets},
		{"fixedAssets", s.FixedAssets},
		{"totalLiabilities", s.TotalLiabilities},
		{"currentLiabilities", s.CurrentLiabilities},
		{"nonCurrentLiabilities", s.NonCurrentLiabilities},
		{"equity", s.Equity},
	}
}

// CompanyInfo identifies the company a series belongs to.
type CompanyInfo struct {
	TaxID          string `json:"taxId" validate:"required,taxid"`
	Name           string `json:"name" validate:"required,max=255"`
	Address        string `json:"address,omitempty" validate:"max=512"`
	Representative string `json:"representative,omitempty" validate:"max=255"`
	DateFounded    string `json:"dateFounded,omitempty"` // dd/mm/yyyy
}
