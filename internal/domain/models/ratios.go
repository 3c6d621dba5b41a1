package models

// Ratios groups the standard financial ratios for one year.
// A nil value means the ratio is undefined because its divisor is zero.
type Ratios struct {
	Year          int                 `json:"year"`
	Liquidity     LiquidityRatios     `json:"liquidity"`
	Profitability ProfitabilityRatios `json:"profitability"`
	Leverage      LeverageRatios      `json:"leverage"`
	Activity      ActivityRatios      `json:"activity"`
	Structure     CapitalStructure    `json:"structure"`
}

type LiquidityRatios struct {
	Current *float64 `json:"currentRatio"`
	Quick   *float64 `json:"quickRatio"`
	Cash    *float64 `json:"cashRatio"`
}

type ProfitabilityRatios struct {
	GrossMargin     *float64 `json:"grossMargin"`
	OperatingMargin *float64 `json:"operatingMargin"`
	NetMargin       *float64 `json:"netMargin"`
	ROE             *float64 `json:"roe"`
	ROA             *float64 `json:"roa"`
}

type LeverageRatios struct {
	DebtToEquity *float64 `json:"debtToEquity"`
	DebtToAssets *float64 `json:"debtToAssets"`
}

type ActivityRatios struct {
	AssetTurnover       *float64 `json:"assetTurnover"`
	InventoryTurnover   *float64 `json:"inventoryTurnover"`
	ReceivablesTurnover *float64 `json:"receivablesTurnover"`
}

// CapitalStructure holds shares of total assets in percent.
type CapitalStructure struct {
	DebtRatio             *float64 `json:"debtRatio"`
	EquityRatio           *float64 `json:"equityRatio"`
	CurrentAssetsRatio    *float64 `json:"currentAssetsRatio"`
	NonCurrentAssetsRatio *float64 `json:"nonCurrentAssetsRatio"`
}

// TrendCell is one line item value for one year.
type TrendCell struct {
	Year  int      `json:"year"`
	Value float64  `json:"value"`
	Share *float64 `json:"share,omitempty"`  // vertical mode, fraction of the statement base
	YoY   *float64 `json:"change,omitempty"` // horizontal mode, fraction vs year-1

	Display string `json:"display"`         // "80.000.000.000 ₫"
	Axis    string `json:"axis"`            // chart label, "80.0B"
	Ratio   string `json:"ratio,omitempty"` // share or change as a percentage
}

// TrendRow is one statement line across the series.
type TrendRow struct {
	Key    string      `json:"key"`
	Label  string      `json:"label"`
	Bold   bool        `json:"bold,omitempty"`
	Indent bool        `json:"indent,omitempty"`
	Cells  []TrendCell `json:"cells"`
}

// TrendTable is a statement rendered for horizontal or vertical analysis.
type TrendTable struct {
	Statement string     `json:"statement"`
	Mode      string     `json:"mode"`
	Base      string     `json:"base,omitempty"`
	Years     []int      `json:"years"`
	Rows      []TrendRow `json:"rows"`
}
