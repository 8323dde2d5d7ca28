package anomaly

import (
	"fmt"
	"math"
	"strings"

	"fundwatch/internal/records"
)

// DetectBudgets scans budget lines for allocation-versus-spending anomalies.
// This is pure domain logic - no I/O, no side effects. Rules are additive and
// independent; several may fire for one budget line.
func DetectBudgets(budgets []records.Budget) []Candidate {
	var candidates []Candidate

	for _, budget := range budgets {
		// Rows with either amount missing carry no variance signal.
		if !budget.AllocatedAmount.Valid || !budget.ActualExpenditure.Valid {
			continue
		}
		allocated := budget.Allocated()
		actual := budget.Actual()
		if allocated == 0 {
			continue
		}

		variance := math.Abs(actual-allocated) / allocated
		var ruleScore float64
		var reasons []string

		// 20% over budget
		if actual > allocated*1.2 {
			ruleScore += 30
			reasons = append(reasons, "Over-expenditure detected")
		}

		// less than half spent
		if actual < allocated*0.5 {
			ruleScore += 20
			reasons = append(reasons, "Significant under-expenditure")
		}

		// exact millions are a classic fabrication tell
		if actual > 0 && math.Mod(actual, 1_000_000) == 0 {
			ruleScore += 15
			reasons = append(reasons, "Suspicious round number spending")
		}

		// 10M+ allocated but nothing spent
		if actual == 0 && allocated > 10_000_000 {
			ruleScore += 40
			reasons = append(reasons, "No expenditure despite high allocation")
		}

		mlScore := math.Min(variance*50, 100)

		if ruleScore > 15 || len(reasons) > 0 {
			candidates = append(candidates, Candidate{
				Type:     TypeBudgetVariance,
				BudgetID: budget.BudgetID,
				Description: fmt.Sprintf("Budget anomaly in %s - %s: %s",
					budget.Ministry, budget.Programme, strings.Join(reasons, ", ")),
				RuleScore:     ruleScore,
				MLScore:       mlScore,
				CombinedScore: (ruleScore + mlScore) / 2,
				Severity:      budgetSeverity(ruleScore),
			})
		}
	}

	return candidates
}

// budgetSeverity buckets a budget rule score. Budget thresholds are lower
// than the contract/payment ones; both boundaries are strict.
func budgetSeverity(ruleScore float64) Severity {
	switch {
	case ruleScore > 35:
		return SeverityHigh
	case ruleScore > 20:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
