package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinRisk/internal/domain/models"
)

func snapshot(year int, revenue float64) models.FinancialSnapshot {
	return models.FinancialSnapshot{
		Year:                  year,
		Revenue:               revenue,
		CostOfGoodsSold:       revenue * 0.7,
		GrossProfit:           revenue * 0.3,
		OperatingExpenses:     revenue * 0.1,
		OperatingProfit:       revenue * 0.2,
		NetProfit:             revenue * 0.1,
		TotalAssets:           200,
		CurrentAssets:         120,
		CashAndEquivalents:    20,
		Receivables:           50,
		Inventory:             40,
		NonCurrentAssets:      80,
		FixedAssets:           70,
		TotalLiabilities:      80,
		CurrentLiabilities:    60,
		NonCurrentLiabilities: 20,
		Equity:                120,
		RetainedEarnings:      30,
		NetCashOperating:      15,
		NetCashInvesting:      -5,
		NetCashFinancing:      -4,
		NetCashFlow:           6,
	}
}

func TestCalculateRatios(t *testing.T) {
	r := CalculateRatios(snapshot(2024, 100))

	assert.Equal(t, 2024, r.Year)
	require.NotNil(t, r.Liquidity.Current)
	assert.InDelta(t, 2.0, *r.Liquidity.Current, 1e-9)
	assert.InDelta(t, 80.0/60.0, *r.Liquidity.Quick, 1e-9)
	assert.InDelta(t, 20.0/60.0, *r.Liquidity.Cash, 1e-9)

	assert.InDelta(t, 0.3, *r.Profitability.GrossMargin, 1e-9)
	assert.InDelta(t, 0.2, *r.Profitability.OperatingMargin, 1e-9)
	assert.InDelta(t, 0.1, *r.Profitability.NetMargin, 1e-9)
	assert.InDelta(t, 10.0/120.0, *r.Profitability.ROE, 1e-9)
	assert.InDelta(t, 0.05, *r.Profitability.ROA, 1e-9)

	assert.InDelta(t, 80.0/120.0, *r.Leverage.DebtToEquity, 1e-9)
	assert.InDelta(t, 0.4, *r.Leverage.DebtToAssets, 1e-9)

	assert.InDelta(t, 0.5, *r.Activity.AssetTurnover, 1e-9)
	assert.InDelta(t, 70.0/40.0, *r.Activity.InventoryTurnover, 1e-9)
	assert.InDelta(t, 2.0, *r.Activity.ReceivablesTurnover, 1e-9)

	assert.InDelta(t, 40.0, *r.Structure.DebtRatio, 1e-9)
	assert.InDelta(t, 60.0, *r.Structure.EquityRatio, 1e-9)
	assert.InDelta(t, 60.0, *r.Structure.CurrentAssetsRatio, 1e-9)
	assert.InDelta(t, 40.0, *r.Structure.NonCurrentAssetsRatio, 1e-9)
}

func TestCalculateRatiosZeroDivisors(t *testing.T) {
	r := CalculateRatios(models.FinancialSnapshot{Year: 2024, NetProfit: 5})

	assert.Nil(t, r.Liquidity.Current)
	assert.Nil(t, r.Profitability.NetMargin)
	assert.Nil(t, r.Profitability.ROE)
	assert.Nil(t, r.Activity.InventoryTurnover)
	assert.Nil(t, r.Activity.ReceivablesTurnover)
	assert.Nil(t, r.Structure.DebtRatio)
}

func TestTrendsHorizontal(t *testing.T) {
	series := models.FinancialSeries{snapshot(2022, 100), snapshot(2024, 150), snapshot(2023, 120)}

	table, err := Trends(series, StatementIncome, ModeHorizontal)
	require.NoError(t, err)

	assert.Equal(t, []int{2024, 2023, 2022}, table.Years)
	assert.Empty(t, table.Base)
	require.Len(t, table.Rows, 10)

	rev := table.Rows[0]
	assert.Equal(t, "revenue", rev.Key)
	assert.True(t, rev.Bold)
	require.Len(t, rev.Cells, 3)
	assert.Equal(t, 150.0, rev.Cells[0].Value)
	require.NotNil(t, rev.Cells[0].YoY)
	assert.InDelta(t, 0.25, *rev.Cells[0].YoY, 1e-9)
	assert.InDelta(t, 0.2, *rev.Cells[1].YoY, 1e-9)
	assert.Nil(t, rev.Cells[2].YoY, "oldest year has no prior")
	assert.Nil(t, rev.Cells[0].Share)
	assert.Equal(t, "150 ₫", rev.Cells[0].Display)
	assert.Equal(t, "25.00%", rev.Cells[0].Ratio)
	assert.Empty(t, rev.Cells[2].Ratio)
}

func TestTrendsHorizontalSkipsGapsAndZeroBase(t *testing.T) {
	zero := snapshot(2023, 0)
	series := models.FinancialSeries{snapshot(2024, 150), zero, snapshot(2021, 80)}

	table, err := Trends(series, StatementIncome, ModeHorizontal)
	require.NoError(t, err)

	rev := table.Rows[0]
	assert.Nil(t, rev.Cells[0].YoY, "prior revenue is zero")
	assert.Nil(t, rev.Cells[1].YoY, "2022 is missing")
}

func TestTrendsVertical(t *testing.T) {
	series := models.FinancialSeries{snapshot(2024, 100)}

	balance, err := Trends(series, StatementBalance, ModeVertical)
	require.NoError(t, err)
	assert.Equal(t, "totalAssets", balance.Base)
	require.Len(t, balance.Rows, 13)
	assert.InDelta(t, 0.6, *balance.Rows[0].Cells[0].Share, 1e-9)
	assert.True(t, balance.Rows[1].Indent)
	last := balance.Rows[len(balance.Rows)-1]
	assert.Equal(t, "totalSources", last.Key)
	assert.InDelta(t, 1.0, *last.Cells[0].Share, 1e-9)

	cash, err := Trends(series, StatementCashFlow, ModeVertical)
	require.NoError(t, err)
	assert.Equal(t, "revenue", cash.Base)
	require.Len(t, cash.Rows, 5)
	assert.InDelta(t, 0.15, *cash.Rows[0].Cells[0].Share, 1e-9)
	assert.Nil(t, cash.Rows[0].Cells[0].YoY)
}

func TestTrendsVerticalZeroBase(t *testing.T) {
	table, err := Trends(models.FinancialSeries{snapshot(2024, 0)}, StatementIncome, ModeVertical)
	require.NoError(t, err)
	assert.Nil(t, table.Rows[0].Cells[0].Share)
}

func TestTrendsRejectsUnknownInput(t *testing.T) {
	_, err := Trends(nil, "tax", ModeVertical)
	assert.Error(t, err)

	_, err = Trends(nil, StatementIncome, "diagonal")
	assert.Error(t, err)

	table, err := Trends(nil, StatementIncome, ModeVertical)
	require.NoError(t, err)
	assert.Empty(t, table.Years)
	assert.Len(t, table.Rows, 10)
}
