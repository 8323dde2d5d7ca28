package anomaly

import (
	"fmt"
	"math"
	"strings"
	"time"

	"fundwatch/internal/records"
)

// DetectPayments scans payments for timing and amount anomalies. This is
// pure domain logic - no I/O, no side effects.
func DetectPayments(payments []records.Payment) []Candidate {
	var candidates []Candidate

	for _, payment := range payments {
		amount := payment.Amount()
		contractValue := payment.LinkedContractValue()
		var ruleScore float64
		var reasons []string

		// 10% over the linked contract
		if contractValue > 0 && amount > contractValue*1.1 {
			ruleScore += 40
			reasons = append(reasons, "Payment exceeds contract value")
		}

		// 50M+
		if amount > 50_000_000 {
			ruleScore += 20
			reasons = append(reasons, "Large payment amount")
		}

		if payment.PaymentDate.Valid {
			day := payment.PaymentDate.Time.Weekday()
			if day == time.Saturday || day == time.Sunday {
				ruleScore += 15
				reasons = append(reasons, "Weekend payment")
			}
		}

		if amount > 0 && math.Mod(amount, 1_000_000) == 0 {
			ruleScore += 10
			reasons = append(reasons, "Round number payment")
		}

		// upstream risk engine already flagged it; carry a fifth of its score
		if payment.RiskScore.Valid && payment.RiskScore.Float64 > 70 {
			ruleScore += payment.RiskScore.Float64 / 5
			reasons = append(reasons, "High system risk score")
		}

		mlScore := math.Min((amount/5_000_000)*10, 100)

		if ruleScore > 15 || len(reasons) > 0 {
			vendor := payment.Vendor()
			if vendor == "" {
				vendor = "Unknown vendor"
			}
			candidates = append(candidates, Candidate{
				Type:      TypePaymentPattern,
				PaymentID: payment.PaymentID,
				Description: fmt.Sprintf("Payment anomaly: %s - %s",
					vendor, strings.Join(reasons, ", ")),
				RuleScore:     ruleScore,
				MLScore:       mlScore,
				CombinedScore: (ruleScore + mlScore) / 2,
				Severity:      paymentSeverity(ruleScore),
			})
		}
	}

	return candidates
}

func paymentSeverity(ruleScore float64) Severity {
	switch {
	case ruleScore > 40:
		return SeverityHigh
	case ruleScore > 25:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
