package analysis

import (
	"math"

	"FinRisk/internal/domain/models"
)

// div returns num/den, or nil when the ratio is undefined.
func div(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	return &r
}

func pct(num, den float64) *float64 {
	r := div(num, den)
	if r == nil {
		return nil
	}
	v := *r * 100
	return &v
}

// CalculateRatios computes the liquidity, profitability, leverage and activity ratios of one year.
func CalculateRatios(s models.FinancialSnapshot) models.Ratios {
	return models.Ratios{
		Year: s.Year,
		Liquidity: models.LiquidityRatios{
			Current: div(s.CurrentAssets, s.CurrentLiabilities),
			Quick:   div(s.CurrentAssets-s.Inventory, s.CurrentLiabilities),
			Cash:    div(s.CashAndEquivalents, s.CurrentLiabilities),
		},
		Profitability: models.ProfitabilityRatios{
			GrossMargin:     div(s.GrossProfit, s.Revenue),
			OperatingMargin: div(s.OperatingProfit, s.Revenue),
			NetMargin:       div(s.NetProfit, s.Revenue),
			ROE:             div(s.NetProfit, s.Equity),
			ROA:             div(s.NetProfit, s.TotalAssets),
		},
		Leverage: models.LeverageRatios{
			DebtToEquity: div(s.TotalLiabilities, s.Equity),
			DebtToAssets: div(s.TotalLiabilities, s.TotalAssets),
		},
		Activity: models.ActivityRatios{
			AssetTurnover:       div(s.Revenue, s.TotalAssets),
			InventoryTurnover:   div(s.CostOfGoodsSold, s.Inventory),
			ReceivablesTurnover: div(s.Revenue, s.Receivables),
		},
		Structure: Structure(s),
	}
}

// Structure returns the capital and asset structure in percent of total assets.
func Structure(s models.FinancialSnapshot) models.CapitalStructure {
	return models.CapitalStructure{
		DebtRatio:             pct(s.TotalLiabilities, s.TotalAssets),
		EquityRatio:           pct(s.Equity, s.TotalAssets),
		CurrentAssetsRatio:    pct(s.CurrentAssets, s.TotalAssets),
		NonCurrentAssetsRatio: pct(s.NonCurrentAssets, s.TotalAssets),
	}
}
