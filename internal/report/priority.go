package report

import "strings"

const maxPriority = 5

var (
	sensitiveSectors = []string{"health", "education", "security", "disaster", "emergency"}
	corruptionTerms  = []string{"embezzlement", "kickback", "bribery", "ghost"}
)

// CalculatePriority scores a report 1-5 from its content. This is pure
// domain logic - no I/O, no side effects. Larger estimated amounts,
// sensitive sectors, and named corruption schemes move a report up the
// review queue.
func CalculatePriority(req SubmitRequest) int {
	priority := 1

	amountRange := strings.ToLower(req.EstimatedAmountRange)
	if strings.Contains(amountRange, "billion") || strings.Contains(amountRange, "million") {
		priority = min(priority+2, maxPriority)
	} else if strings.Contains(amountRange, "thousand") {
		priority = min(priority+1, maxPriority)
	}

	content := strings.ToLower(req.DetailedDescription) + " " + strings.ToLower(req.Summary)

	for _, sector := range sensitiveSectors {
		if strings.Contains(content, sector) {
			priority = min(priority+1, maxPriority)
			break
		}
	}

	for _, term := range corruptionTerms {
		if strings.Contains(content, term) {
			priority = min(priority+1, maxPriority)
			break
		}
	}

	return priority
}
