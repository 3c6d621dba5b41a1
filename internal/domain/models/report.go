package models

import "time"

// FlaggedRule is a rule that resolved to RISK or WARNING.
type FlaggedRule struct {
	ID      int    `json:"id"`
	Group   string `json:"group"`
	Name    string `json:"name"`
	Verdict string `json:"verdict"`
}

// ReportEvent is the digest published after a company's series changes.
type ReportEvent struct {
	ID          string         `json:"id"`
	TaxID       string         `json:"taxId"`
	CompanyName string         `json:"companyName,omitempty"`
	Year        int            `json:"year"`
	Summary     map[string]int `json:"summary"`
	Flagged     []FlaggedRule  `json:"flagged"`
	Anomalies   []string       `json:"anomalies,omitempty"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// SnapshotBatch is the ingest payload shared by HTTP and Kafka.
type SnapshotBatch struct {
	Company   CompanyInfo         `json:"company"`
	Snapshots []FinancialSnapshot `json:"snapshots" validate:"required,min=1,dive"`
}
