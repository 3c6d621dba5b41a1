// Package mockdata produces a plausible demo company for the screening UI and smoke tests.
package mockdata

import (
	"fmt"
	"math"
	"math/rand/v2"

	"FinRisk/internal/domain/models"
)

const (
	DefaultYears  = 6
	DefaultAnchor = 2024

	baseRevenue = 80e9
)

// Options control the generated series.
type Options struct {
	Years  int    // number of fiscal years, newest first
	Anchor int    // newest year
	Seed   uint64 // same seed, same figures
}

// DemoCompany is the company profile attached to generated series.
func DemoCompany() models.CompanyInfo {
	return models.CompanyInfo{
		TaxID:          "0101999888",
		Name:           "CÔNG TY CỔ PHẦN TẬP ĐOÀN FINAI",
		Address:        "Tầng 12, Tòa nhà FinAI, Cầu Giấy, Hà Nội",
		Representative: "Nguyễn Văn A",
		DateFounded:    "01/01/2010",
	}
}

func (o Options) normalize() Options {
	if o.Years <= 0 {
		o.Years = DefaultYears
	}
	if o.Anchor == 0 {
		o.Anchor = DefaultAnchor
	}
	return o
}

func round(v float64) float64 { return math.Round(v) }

// Generate returns Years snapshots with shrinking revenue going back in time
// and leverage creeping up, so older years look slightly weaker.
func Generate(opts Options) models.FinancialSeries {
	opts = opts.normalize()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	series := make(models.FinancialSeries, 0, opts.Years)
	for i := 0; i < opts.Years; i++ {
		volatility := 1 + (rng.Float64()*0.2 - 0.1)
		trend := 1 - float64(i)*0.12
		revenue := baseRevenue * trend * volatility

		grossMargin := 0.25 + rng.Float64()*0.05
		netMargin := 0.08 + rng.Float64()*0.04

		grossProfit := revenue * grossMargin
		opex := revenue * 0.12

		totalAssets := revenue * 0.9
		currentAssets := totalAssets * 0.65
		nonCurrentAssets := totalAssets * 0.35
		totalLiabilities := totalAssets * (0.4 + float64(i)*0.02)
		equity := totalAssets - totalLiabilities
		netProfit := revenue * netMargin

		cfo := netProfit * 1.3
		cfi := -nonCurrentAssets * 0.15
		cff := -totalLiabilities * 0.1

		series = append(series, models.FinancialSnapshot{
			Year:              opts.Anchor - i,
			Revenue:           round(revenue),
			CostOfGoodsSold:   round(revenue - grossProfit),
			GrossProfit:       round(grossProfit),
			OperatingExpenses: round(opex),
			OperatingProfit:   round(grossProfit - opex),
			FinancialIncome:   round(revenue * 0.008),
			FinancialExpenses: round(revenue * 0.03),
			OtherIncome:       round(revenue * 0.005),
			OtherExpenses:     round(revenue * 0.002),
			NetProfit:         round(netProfit),

			TotalAssets:           round(totalAssets),
			CurrentAssets:         round(currentAssets),
			CashAndEquivalents:    round(currentAssets * 0.15),
			Receivables:           round(currentAssets * 0.35),
			Inventory:             round(currentAssets * 0.45),
			NonCurrentAssets:      round(nonCurrentAssets),
			FixedAssets:           round(nonCurrentAssets * 0.85),
			TotalLiabilities:      round(totalLiabilities),
			CurrentLiabilities:    round(totalLiabilities * 0.75),
			NonCurrentLiabilities: round(totalLiabilities * 0.25),
			Equity:                round(equity),
			RetainedEarnings:      round(equity * 0.25),

			NetCashOperating: round(cfo),
			NetCashInvesting: round(cfi),
			NetCashFinancing: round(cff),
			NetCashFlow:      round(cfo + cfi + cff),

			TrialBalanceTotalDebit:  round(totalAssets * 2.5),
			TrialBalanceTotalCredit: round(totalAssets * 2.5),
		})
	}
	return series
}

// PeriodRevenue is an invoice-derived revenue figure for a quarter or month.
type PeriodRevenue struct {
	Period       string  `json:"period"`
	Revenue      float64 `json:"revenue"`
	VAT          float64 `json:"vat,omitempty"`
	InvoiceCount int     `json:"invoiceCount,omitempty"`
}

// Quarterly returns the fixed quarterly revenue of the anchor year.
func Quarterly(anchor int) []PeriodRevenue {
	if anchor == 0 {
		anchor = DefaultAnchor
	}
	figures := []float64{18.5e9, 21e9, 19.2e9, 25.5e9}
	out := make([]PeriodRevenue, len(figures))
	for i, rev := range figures {
		out[i] = PeriodRevenue{
			Period:  fmt.Sprintf("Q%d/%d", i+1, anchor),
			Revenue: rev,
			VAT:     rev * 0.1,
		}
	}
	return out
}

// Monthly returns twelve months of seeded revenue and invoice counts.
func Monthly(seed uint64) []PeriodRevenue {
	rng := rand.New(rand.NewPCG(seed, ^seed))
	out := make([]PeriodRevenue, 12)
	for m := range out {
		out[m] = PeriodRevenue{
			Period:       fmt.Sprintf("T%02d", m+1),
			Revenue:      round(5.5e9 + rng.Float64()*3e9),
			InvoiceCount: int(math.Floor(80 + rng.Float64()*150)),
		}
	}
	return out
}
