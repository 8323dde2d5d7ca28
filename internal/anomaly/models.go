// Package anomaly implements the scoring engine: three domain detectors, the
// aggregator that fans them out, and the persisted anomaly records.
package anomaly

import "time"

// Type discriminates which domain detector produced an anomaly.
type Type string

const (
	TypeBudgetVariance  Type = "budget_variance"
	TypeContractPattern Type = "contract_pattern"
	TypePaymentPattern  Type = "payment_pattern"
)

// Severity buckets an anomaly by its rule score. Thresholds are
// domain-specific; see the detector files.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Candidate is an anomaly produced by a detector, before persistence.
// Exactly one of BudgetID/ContractID/PaymentID is set, matching Type.
type Candidate struct {
	Type          Type
	BudgetID      string
	ContractID    string
	PaymentID     string
	Description   string
	RuleScore     float64
	MLScore       float64
	CombinedScore float64
	Severity      Severity
}

// Record is a persisted anomaly. Investigated is always false at creation
// and is only flipped later by the audit workflow.
type Record struct {
	ID string
	Candidate
	Investigated bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TypeCounts breaks a scan's results down by detector.
type TypeCounts struct {
	BudgetVariance  int `json:"budget_variance"`
	ContractPattern int `json:"contract_pattern"`
	PaymentPattern  int `json:"payment_pattern"`
}

// SeverityCounts breaks a scan's results down by severity bucket.
type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// HighPriority is the trimmed view of a high-severity candidate returned in
// scan summaries.
type HighPriority struct {
	Type        Type    `json:"type"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// Summary is the result of one scan. It is both the scan endpoint's response
// body and the value cached for dashboard reads.
type Summary struct {
	Success               bool           `json:"success"`
	ScanTimestamp         time.Time      `json:"scan_timestamp"`
	TotalAnomalies        int            `json:"total_anomalies"`
	AnomaliesByType       TypeCounts     `json:"anomalies_by_type"`
	AnomaliesBySeverity   SeverityCounts `json:"anomalies_by_severity"`
	HighPriorityAnomalies []HighPriority `json:"high_priority_anomalies"`
}

// BuildSummary folds a merged candidate list into the summary shape.
func BuildSummary(at time.Time, candidates []Candidate) Summary {
	s := Summary{
		Success:               true,
		ScanTimestamp:         at,
		TotalAnomalies:        len(candidates),
		HighPriorityAnomalies: []HighPriority{},
	}
	for _, c := range candidates {
		switch c.Type {
		case TypeBudgetVariance:
			s.AnomaliesByType.BudgetVariance++
		case TypeContractPattern:
			s.AnomaliesByType.ContractPattern++
		case TypePaymentPattern:
			s.AnomaliesByType.PaymentPattern++
		}
		switch c.Severity {
		case SeverityHigh:
			s.AnomaliesBySeverity.High++
			s.HighPriorityAnomalies = append(s.HighPriorityAnomalies, HighPriority{
				Type:        c.Type,
				Description: c.Description,
				Score:       c.CombinedScore,
			})
		case SeverityMedium:
			s.AnomaliesBySeverity.Medium++
		case SeverityLow:
			s.AnomaliesBySeverity.Low++
		}
	}
	return s
}
