package repository

import "FinRisk/internal/domain/models"

// snapshotColumn maps a financial_snapshots column to its snapshot field.
type snapshotColumn struct {
	name  string
	field func(*models.FinancialSnapshot) *float64
}

var snapshotColumns = []snapshotColumn{
	{"revenue", func(s *models.FinancialSnapshot) *float64 { return &s.Revenue }},
	{"cost_of_goods_sold", func(s *models.FinancialSnapshot) *float64 { return &s.CostOfGoodsSold }},
	{"gross_profit", func(s *models.FinancialSnapshot) *float64 { return &s.GrossProfit }},
	{"operating_expenses", func(s *models.FinancialSnapshot) *float64 { return &s.OperatingExpenses }},
	{"operating_profit", func(s *models.FinancialSnapshot) *float64 { return &s.OperatingProfit }},
	{"financial_income", func(s *models.FinancialSnapshot) *float64 { return &s.FinancialIncome }},
	{"financial_expenses", func(s *models.FinancialSnapshot) *float64 { return &s.FinancialExpenses }},
	{"other_income", func(s *models.FinancialSnapshot) *float64 { return &s.OtherIncome }},
	{"other_expenses", func(s *models.FinancialSnapshot) *float64 { return &s.OtherExpenses }},
	{"net_profit", func(s *models.FinancialSnapshot) *float64 { return &s.NetProfit }},
	{"total_assets", func(s *models.FinancialSnapshot) *float64 { return &s.TotalAssets }},
	{"current_assets", func(s *models.FinancialSnapshot) *float64 { return &s.CurrentAssets }},
	{"cash_and_equivalents", func(s *models.FinancialSnapshot) *float64 { return &s.CashAndEquivalents }},
	{"receivables", func(s *models.FinancialSnapshot) *float64 { return &s.Receivables }},
	{"inventory", func(s *models.FinancialSnapshot) *float64 { return &s.Inventory }},
	{"non_current_assets", func(s *models.FinancialSnapshot) *float64 { return &s.NonCurrentAssets }},
	{"fixed_assets", func(s *models.FinancialSnapshot) *float64 { return &s.FixedAssets }},
	{"total_liabilities", func(s *models.FinancialSnapshot) *float64 { return &s.TotalLiabilities }},
	{"current_liabilities", func(s *models.FinancialSnapshot) *float64 { return &s.CurrentLiabilities }},
	{"non_current_liabilities", func(s *models.FinancialSnapshot) *float64 { return &s.NonCurrentLiabilities }},
	{"equity", func(s *models.FinancialSnapshot) *float64 { return &s.Equity }},
	{"retained_earnings", func(s *models.FinancialSnapshot) *float64 { return &s.RetainedEarnings }},
	{"net_cash_operating", func(s *models.FinancialSnapshot) *float64 { return &s.NetCashOperating }},
	{"net_cash_investing", func(s *models.FinancialSnapshot) *float64 { return &s.NetCashInvesting }},
	{"net_cash_financing", func(s *models.FinancialSnapshot) *float64 { return &s.NetCashFinancing }},
	{"net_cash_flow", func(s *models.FinancialSnapshot) *float64 { return &s.NetCashFlow }},
	{"trial_balance_debit", func(s *models.FinancialSnapshot) *float64 { return &s.TrialBalanceTotalDebit }},
	{"trial_balance_credit", func(s *models.FinancialSnapshot) *float64 { return &s.TrialBalanceTotalCredit }},
}
