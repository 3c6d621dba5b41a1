package risk

import (
	"math"

	"FinRisk/internal/domain/models"
)

type snap = *models.FinancialSnapshot

// Window is what a predicate sees: the whole series indexed by year,
// anchored at the evaluation year.
type Window struct {
	year        int
	byYear      map[int]*models.FinancialSnapshot
	zeroDivisor Verdict
}

func newWindow(series models.FinancialSeries, year int, zeroDivisor Verdict) *Window {
	w := &Window{
		year:        year,
		byYear:      make(map[int]*models.FinancialSnapshot, len(series)),
		zeroDivisor: zeroDivisor,
	}
	for i := range series {
		// first occurrence wins when a provider breaks the unique-year contract
		if _, ok := w.byYear[series[i].Year]; !ok {
			s := series[i]
			w.byYear[s.Year] = &s
		}
	}
	return w
}

// Back returns the snapshot n years before the anchor, or nil.
func (w *Window) Back(n int) *models.FinancialSnapshot {
	return w.byYear[w.year-n]
}

func (w *Window) Current() *models.FinancialSnapshot  { return w.Back(0) }
func (w *Window) Previous() *models.FinancialSnapshot { return w.Back(1) }

// Undefined is the verdict for a ratio whose divisor is zero.
func (w *Window) Undefined() Verdict { return w.zeroDivisor }

// ratio divides num by den. It reports false for a zero divisor or a non-finite result.
func ratio(num, den float64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// growth is (cur - prev) / prev.
func growth(cur, prev float64) (float64, bool) {
	return ratio(cur-prev, prev)
}

func when(cond bool, v Verdict) Verdict {
	if cond {
		return v
	}
	return Safe
}
