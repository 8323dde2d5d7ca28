package anomaly

import (
	"fmt"
	"math"
	"strings"

	"fundwatch/internal/records"
)

// VendorCounts indexes contracts-per-vendor for the concentration rule. It
// is precomputed and passed in explicitly so the detector stays a pure
// function of its inputs.
type VendorCounts map[string]int

// CountVendors builds the vendor index from a contract list. Contracts with
// no resolvable vendor are left out.
func CountVendors(contracts []records.Contract) VendorCounts {
	counts := make(VendorCounts)
	for _, contract := range contracts {
		if vendor := contract.Vendor(); vendor != "" {
			counts[vendor]++
		}
	}
	return counts
}

// DetectContracts scans contracts for award-pattern anomalies. This is pure
// domain logic - no I/O, no side effects.
func DetectContracts(contracts []records.Contract, vendors VendorCounts) []Candidate {
	var candidates []Candidate

	for _, contract := range contracts {
		value := contract.Value()
		var ruleScore float64
		var reasons []string

		// 100M+
		if value > 100_000_000 {
			ruleScore += 25
			reasons = append(reasons, "High-value contract")
		}

		// same vendor holding many awards
		if vendors[contract.Vendor()] > 5 {
			ruleScore += 20
			reasons = append(reasons, "Vendor concentration risk")
		}

		// short takes precedence; long is only checked on the else branch
		if contract.StartDate.Valid && contract.TargetEndDate.Valid {
			durationDays := contract.TargetEndDate.Time.Sub(contract.StartDate.Time).Hours() / 24
			if durationDays < 7 {
				ruleScore += 30
				reasons = append(reasons, "Unusually short contract duration")
			} else if durationDays > 1825 { // 5+ years
				ruleScore += 15
				reasons = append(reasons, "Unusually long contract duration")
			}
		}

		if value > 0 && math.Mod(value, 1_000_000) == 0 {
			ruleScore += 10
			reasons = append(reasons, "Suspicious round number value")
		}

		mlScore := math.Min((value/10_000_000)*10, 100)

		if ruleScore > 15 || len(reasons) > 0 {
			candidates = append(candidates, Candidate{
				Type:       TypeContractPattern,
				ContractID: contract.ContractID,
				Description: fmt.Sprintf("Contract anomaly: %s - %s",
					contract.Vendor(), strings.Join(reasons, ", ")),
				RuleScore:     ruleScore,
				MLScore:       mlScore,
				CombinedScore: (ruleScore + mlScore) / 2,
				Severity:      contractSeverity(ruleScore),
			})
		}
	}

	return candidates
}

func contractSeverity(ruleScore float64) Severity {
	switch {
	case ruleScore > 40:
		return SeverityHigh
	case ruleScore > 25:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
