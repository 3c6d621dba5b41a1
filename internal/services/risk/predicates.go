package risk

import "math"

// predicates binds the quantified rules to their checks. Thresholds follow
// the condition text in catalog.yaml.
var predicates = map[int]Predicate{
	// cash jumps while revenue falls
	1: needsPrevious(func(w *Window) Verdict {
		c, p := w.Current(), w.Previous()
		return when(c.CashAndEquivalents > p.CashAndEquivalents*1.5 && c.Revenue < p.Revenue, Risk)
	}),
	3: currentRatio(func(c snap) (float64, float64) { return c.Receivables, c.TotalAssets }, above(0.40, Risk)),
	4: needsPrevious(func(w *Window) Verdict {
		c, p := w.Current(), w.Previous()
		recGrowth, ok := growth(c.Receivables, p.Receivables)
		if !ok {
			return w.Undefined()
		}
		revGrowth, ok := growth(c.Revenue, p.Revenue)
		if !ok {
			return w.Undefined()
		}
		return when(recGrowth > 0.30 && revGrowth < 0, Risk)
	}),
	7: currentRatio(func(c snap) (float64, float64) { return c.Inventory, c.TotalAssets }, above(0.50, Risk)),
	8: needsPrevious(func(w *Window) Verdict {
		c, p := w.Current(), w.Previous()
		return when(c.Inventory < p.Inventory*0.70 && c.Revenue <= p.Revenue*1.05, Warning)
	}),
	12: currentRatio(func(c snap) (float64, float64) { return c.TotalLiabilities, c.Equity }, above(3.0, Risk)),
	// accumulated losses while cash leaves through financing, a proxy for dividends
	13: func(w *Window) Verdict {
		c := w.Current()
		return when(c.RetainedEarnings < 0 && c.NetCashFinancing < 0, Warning)
	},

	16: needsPrevious(func(w *Window) Verdict {
		g, ok := growth(w.Current().Revenue, w.Previous().Revenue)
		if !ok {
			return w.Undefined()
		}
		return when(math.Abs(g) > 0.30, Warning)
	}),
	18: currentRatio(func(c snap) (float64, float64) { return c.CostOfGoodsSold, c.Revenue }, above(0.95, Risk)),
	19: currentRatio(func(c snap) (float64, float64) { return c.GrossProfit, c.Revenue }, below(0.05, Warning)),
	// operating expenses stand in for selling expenses
	20: needsPrevious(func(w *Window) Verdict {
		g, ok := growth(w.Current().OperatingExpenses, w.Previous().OperatingExpenses)
		if !ok {
			return w.Undefined()
		}
		return when(g > 0.20, Warning)
	}),
	22: needsPrevious(func(w *Window) Verdict {
		return when(w.Current().NetProfit < 0 && w.Previous().NetProfit < 0, Risk)
	}),
	// net profit stands in for profit before tax
	28: currentRatio(func(c snap) (float64, float64) { return c.NetProfit, c.Revenue }, below(0.01, Warning)),

	30: func(w *Window) Verdict {
		c := w.Current()
		return when(c.NetCashOperating < 0 && c.NetProfit > 0, Risk)
	},
	35: func(w *Window) Verdict {
		for n := 0; n < 3; n++ {
			if w.Back(n) == nil {
				return Unknown
			}
		}
		for n := 0; n < 3; n++ {
			if w.Back(n).NetCashFlow >= 0 {
				return Safe
			}
		}
		return Risk
	},

	40: needsPrevious(func(w *Window) Verdict {
		c, p := w.Current(), w.Previous()
		cur, ok := ratio(c.Receivables, c.Revenue)
		if !ok {
			return w.Undefined()
		}
		prev, ok := ratio(p.Receivables, p.Revenue)
		if !ok {
			return w.Undefined()
		}
		return when(cur > prev*2, Risk)
	}),
	41: currentRatio(func(c snap) (float64, float64) { return c.TotalLiabilities, c.TotalAssets }, above(0.80, Risk)),
	42: currentRatio(func(c snap) (float64, float64) { return c.Inventory, c.Revenue }, above(0.70, Risk)),
	43: currentRatio(func(c snap) (float64, float64) { return c.NetProfit, c.Equity }, below(0.05, Warning)),
	44: currentRatio(func(c snap) (float64, float64) { return c.NetProfit, c.TotalAssets }, below(0.02, Warning)),
	45: currentRatio(func(c snap) (float64, float64) { return c.CurrentAssets - c.Inventory, c.CurrentLiabilities }, below(0.5, Risk)),
}

// needsPrevious resolves Unknown when year-1 is absent.
func needsPrevious(p Predicate) Predicate {
	return func(w *Window) Verdict {
		if w.Previous() == nil {
			return Unknown
		}
		return p(w)
	}
}

// currentRatio builds a single-year ratio check against the evaluation year.
func currentRatio(terms func(c snap) (num, den float64), test func(float64) Verdict) Predicate {
	return func(w *Window) Verdict {
		num, den := terms(w.Current())
		r, ok := ratio(num, den)
		if !ok {
			return w.Undefined()
		}
		return test(r)
	}
}

func above(limit float64, v Verdict) func(float64) Verdict {
	return func(r float64) Verdict { return when(r > limit, v) }
}

func below(limit float64, v Verdict) func(float64) Verdict {
	return func(r float64) Verdict { return when(r < limit, v) }
}
