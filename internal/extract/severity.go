package extract

import (
	"strings"

	"RecordsScanner/internal/domain"
)

var severityTiers = []struct {
	severity domain.Severity
	keywords []string
}{
	{domain.SeverityCritical, []string{"murder", "homicide", "kidnapping"}},
	{domain.SeverityHigh, []string{"assault", "robbery", "burglary"}},
	{domain.SeverityMedium, []string{"theft", "drug", "dui"}},
}

// ClassifySeverity returns the highest tier whose keyword appears in the
// charge text, or low when none do.
func ClassifySeverity(charges string) domain.Severity {
	text := strings.ToLower(charges)
	for _, tier := range severityTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(text, kw) {
				return tier.severity
			}
		}
	}
	return domain.SeverityLow
}
