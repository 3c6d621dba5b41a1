package models

// Request models bound by the HTTP layer.

type EvaluateRequest struct {
	Series FinancialSeries `json:"series" validate:"required,min=1,dive"`
	Year   int             `json:"year" validate:"omitempty,gte=1900,lte=2200"`
}

type CompanyRiskRequest struct {
	TaxID string `param:"taxId" validate:"required,taxid"`
	Year  int    `query:"year" validate:"omitempty,gte=1900,lte=2200"`
}

type TrendRequest struct {
	TaxID     string `param:"taxId" validate:"required,taxid"`
	Statement string `query:"statement" default:"income" validate:"oneof=income balance cashflow"`
	Mode      string `query:"mode" default:"horizontal" validate:"oneof=horizontal vertical"`
}

type CompanyRequest struct {
	TaxID string `param:"taxId" validate:"required,taxid"`
}

type DemoPeriodsRequest struct {
	Year int    `query:"year" default:"2024" validate:"gte=1900,lte=2200"`
	Seed uint64 `query:"seed"`
}
