package analysis

import (
	"fmt"

	"FinRisk/internal/domain/models"
	"FinRisk/pkg/format"
)

// Statement names accepted by Trends.
const (
	StatementIncome   = "income"
	StatementBalance  = "balance"
	StatementCashFlow = "cashflow"
)

// Analysis modes accepted by Trends.
const (
	ModeHorizontal = "horizontal"
	ModeVertical   = "vertical"
)

type lineItem struct {
	key    string
	label  string
	bold   bool
	indent bool
	value  func(*models.FinancialSnapshot) float64
}

type statement struct {
	base  string
	baseV func(*models.FinancialSnapshot) float64
	items []lineItem
}

func revenue(s *models.FinancialSnapshot) float64     { return s.Revenue }
func totalAssets(s *models.FinancialSnapshot) float64 { return s.TotalAssets }

var statements = map[string]statement{
	StatementIncome: {
		base:  "revenue",
		baseV: revenue,
		items: []lineItem{
			{"revenue", "1. Doanh thu thuần", true, false, revenue},
			{"costOfGoodsSold", "2. Giá vốn hàng bán", false, false, func(s *models.FinancialSnapshot) float64 { return s.CostOfGoodsSold }},
			{"grossProfit", "3. Lợi nhuận gộp", true, false, func(s *models.FinancialSnapshot) float64 { return s.GrossProfit }},
			{"financialIncome", "4. Doanh thu tài chính", false, false, func(s *models.FinancialSnapshot) float64 { return s.FinancialIncome }},
			{"financialExpenses", "5. Chi phí tài chính", false, false, func(s *models.FinancialSnapshot) float64 { return s.FinancialExpenses }},
			{"operatingExpenses", "6. Chi phí bán hàng & QLDN", false, false, func(s *models.FinancialSnapshot) float64 { return s.OperatingExpenses }},
			{"operatingProfit", "7. Lợi nhuận thuần từ HĐKD", true, false, func(s *models.FinancialSnapshot) float64 { return s.OperatingProfit }},
			{"otherIncome", "8. Thu nhập khác", false, false, func(s *models.FinancialSnapshot) float64 { return s.OtherIncome }},
			{"otherExpenses", "9. Chi phí khác", false, false, func(s *models.FinancialSnapshot) float64 { return s.OtherExpenses }},
			{"netProfit", "10. Lợi nhuận sau thuế", true, false, func(s *models.FinancialSnapshot) float64 { return s.NetProfit }},
		},
	},
	StatementBalance: {
		base:  "totalAssets",
		baseV: totalAssets,
		items: []lineItem{
			{"currentAssets", "A. TÀI SẢN NGẮN HẠN", true, false, func(s *models.FinancialSnapshot) float64 { return s.CurrentAssets }},
			{"cashAndEquivalents", "I. Tiền và tương đương tiền", false, true, func(s *models.FinancialSnapshot) float64 { return s.CashAndEquivalents }},
			{"receivables", "II. Các khoản phải thu ngắn hạn", false, true, func(s *models.FinancialSnapshot) float64 { return s.Receivables }},
			{"inventory", "III. Hàng tồn kho", false, true, func(s *models.FinancialSnapshot) float64 { return s.Inventory }},
			{"nonCurrentAssets", "B. TÀI SẢN DÀI HẠN", true, false, func(s *models.FinancialSnapshot) float64 { return s.NonCurrentAssets }},
			{"fixedAssets", "I. Tài sản cố định", false, true, func(s *models.FinancialSnapshot) float64 { return s.FixedAssets }},
			{"totalAssets", "TỔNG CỘNG TÀI SẢN", true, false, totalAssets},
			{"totalLiabilities", "C. NỢ PHẢI TRẢ", true, false, func(s *models.FinancialSnapshot) float64 { return s.TotalLiabilities }},
			{"currentLiabilities", "I. Nợ ngắn hạn", false, true, func(s *models.FinancialSnapshot) float64 { return s.CurrentLiabilities }},
			{"nonCurrentLiabilities", "II. Nợ dài hạn", false, true, func(s *models.FinancialSnapshot) float64 { return s.NonCurrentLiabilities }},
			{"equity", "D. VỐN CHỦ SỞ HỮU", true, false, func(s *models.FinancialSnapshot) float64 { return s.Equity }},
			{"retainedEarnings", "I. Lợi nhuận sau thuế chưa PP", false, true, func(s *models.FinancialSnapshot) float64 { return s.RetainedEarnings }},
			{"totalSources", "TỔNG NGUỒN VỐN", true, false, func(s *models.FinancialSnapshot) float64 { return s.TotalLiabilities + s.Equity }},
		},
	},
	StatementCashFlow: {
		base:  "revenue",
		baseV: revenue,
		items: []lineItem{
			{"netCashOperating", "I. Lưu chuyển tiền từ HĐKD", true, false, func(s *models.FinancialSnapshot) float64 { return s.NetCashOperating }},
			{"netCashInvesting", "II. Lưu chuyển tiền từ HĐĐT", true, false, func(s *models.FinancialSnapshot) float64 { return s.NetCashInvesting }},
			{"netCashFinancing", "III. Lưu chuyển tiền từ HĐTC", true, false, func(s *models.FinancialSnapshot) float64 { return s.NetCashFinancing }},
			{"netCashFlow", "Lưu chuyển tiền thuần trong kỳ", true, false, func(s *models.FinancialSnapshot) float64 { return s.NetCashFlow }},
			{"cashAndEquivalents", "Tiền và TĐ tiền cuối kỳ", true, false, func(s *models.FinancialSnapshot) float64 { return s.CashAndEquivalents }},
		},
	},
}

// Trends renders a statement across the series, newest year first.
// Horizontal mode adds the change against year-1; vertical mode adds the share of the statement base.
func Trends(series models.FinancialSeries, stmt, mode string) (models.TrendTable, error) {
	st, ok := statements[stmt]
	if !ok {
		return models.TrendTable{}, fmt.Errorf("unknown statement %q", stmt)
	}
	if mode != ModeHorizontal && mode != ModeVertical {
		return models.TrendTable{}, fmt.Errorf("unknown mode %q", mode)
	}

	years := series.Years()
	byYear := make(map[int]models.FinancialSnapshot, len(years))
	for _, y := range years {
		byYear[y], _ = series.Find(y)
	}

	table := models.TrendTable{
		Statement: stmt,
		Mode:      mode,
		Years:     years,
		Rows:      make([]models.TrendRow, 0, len(st.items)),
	}
	if mode == ModeVertical {
		table.Base = st.base
	}

	for _, item := range st.items {
		row := models.TrendRow{
			Key:    item.key,
			Label:  item.label,
			Bold:   item.bold,
			Indent: item.indent,
			Cells:  make([]models.TrendCell, 0, len(years)),
		}
		for _, y := range years {
			cur := byYear[y]
			v := item.value(&cur)
			cell := models.TrendCell{Year: y, Value: v, Display: format.VND(v), Axis: format.Short(v)}
			switch mode {
			case ModeVertical:
				cell.Share = div(v, st.baseV(&cur))
				cell.Ratio = format.PercentPtr(cell.Share)
			case ModeHorizontal:
				// only a contiguous prior year gives a year-over-year change
				if prev, ok := byYear[y-1]; ok {
					pv := item.value(&prev)
					cell.YoY = div(v-pv, pv)
					cell.Ratio = format.PercentPtr(cell.YoY)
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
