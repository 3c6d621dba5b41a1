package risk

import "FinRisk/internal/domain/models"

// Verdict is the outcome of one rule for one evaluation year.
type Verdict string

const (
	Safe    Verdict = "SAFE"
	Risk    Verdict = "RISK"
	Warning Verdict = "WARNING"
	Unknown Verdict = "UNKNOWN"
)

// Verdicts lists every verdict in display order.
var Verdicts = []Verdict{Risk, Warning, Safe, Unknown}

// Valid reports whether v is one of the four known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case Safe, Risk, Warning, Unknown:
		return true
	}
	return false
}

// Flagged reports whether v needs reviewer attention.
func (v Verdict) Flagged() bool { return v == Risk || v == Warning }

// Group is the statement category a rule belongs to.
type Group string

const (
	BalanceSheet    Group = "BALANCE_SHEET"
	IncomeStatement Group = "INCOME_STATEMENT"
	CashFlow        Group = "CASH_FLOW"
	Analysis        Group = "HORIZONTAL_VERTICAL_ANALYSIS"
)

// Groups lists the groups in catalog order.
var Groups = []Group{BalanceSheet, IncomeStatement, CashFlow, Analysis}

// groupSize is the number of rules each group must carry.
var groupSize = map[Group]int{
	BalanceSheet:    15,
	IncomeStatement: 14,
	CashFlow:        6,
	Analysis:        10,
}

// Title returns the section heading shown to reviewers.
func (g Group) Title() string {
	switch g {
	case BalanceSheet:
		return "I. RỦI RO BẢNG CÂN ĐỐI KẾ TOÁN"
	case IncomeStatement:
		return "II. RỦI RO KẾT QUẢ KINH DOANH"
	case CashFlow:
		return "III. RỦI RO LƯU CHUYỂN TIỀN TỆ"
	case Analysis:
		return "IV. PHÂN TÍCH NGANG & DỌC"
	}
	return string(g)
}

func (g Group) order() int {
	for i, x := range Groups {
		if x == g {
			return i
		}
	}
	return -1
}

// Rule is one catalog entry. Rules without a predicate are descriptive only
// and always resolve to Unknown.
type Rule struct {
	ID          int    `json:"id" yaml:"id"`
	Group       Group  `json:"group" yaml:"group"`
	Name        string `json:"name" yaml:"name"`
	Condition   string `json:"condition" yaml:"condition"`
	Explanation string `json:"explanation" yaml:"explanation"`
	Quantified  bool   `json:"quantified" yaml:"-"`
}

// Predicate decides a verdict from the evaluation window.
type Predicate func(w *Window) Verdict

// Finding pairs a rule with its verdict.
type Finding struct {
	Rule
	Verdict Verdict `json:"verdict"`
	Label   string  `json:"label"`
}

// Section is one group's share of a report.
type Section struct {
	Group    Group     `json:"group"`
	Title    string    `json:"title"`
	Count    int       `json:"count"`
	Findings []Finding `json:"findings"`
}

// Summary counts verdicts across a report.
type Summary struct {
	Risk          int `json:"risk"`
	Warning       int `json:"warning"`
	Safe          int `json:"safe"`
	Unknown       int `json:"unknown"`
	NotQuantified int `json:"notQuantified"`
}

// Counts returns the summary keyed by verdict.
func (s Summary) Counts() map[string]int {
	return map[string]int{
		string(Risk):    s.Risk,
		string(Warning): s.Warning,
		string(Safe):    s.Safe,
		string(Unknown): s.Unknown,
	}
}

// Report is the grouped outcome of screening one evaluation year.
type Report struct {
	Year        int       `json:"year"`
	HasCurrent  bool      `json:"hasCurrent"`
	HasPrevious bool      `json:"hasPrevious"`
	HasTwoBack  bool      `json:"hasTwoBack"`
	Sections    []Section `json:"sections"`
	Summary     Summary   `json:"summary"`
}

// Findings flattens the report back into catalog order.
func (r Report) Findings() []Finding {
	out := make([]Finding, 0, len(defaultCatalog))
	for _, s := range r.Sections {
		out = append(out, s.Findings...)
	}
	return out
}

// Flagged converts RISK and WARNING findings for event payloads.
func (r Report) Flagged() []models.FlaggedRule {
	var out []models.FlaggedRule
	for _, f := range r.Findings() {
		if f.Verdict.Flagged() {
			out = append(out, models.FlaggedRule{
				ID:      f.ID,
				Group:   string(f.Group),
				Name:    f.Name,
				Verdict: string(f.Verdict),
			})
		}
	}
	return out
}
