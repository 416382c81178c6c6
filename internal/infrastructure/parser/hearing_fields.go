package parser

import (
	"regexp"
	"strings"
	"time"

	"RecordsScanner/internal/domain"
)

var (
	hearingDateExprs = []struct {
		expr    *regexp.Regexp
		layouts []string
	}{
		{regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), []string{"2006-01-02"}},
		{regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`), []string{"1/2/2006"}},
		{regexp.MustCompile(`(?i)[a-z]{3,9}\.? \d{1,2}, \d{4}`), []string{"January 2, 2006", "Jan 2, 2006", "Jan. 2, 2006"}},
	}
	hearingTimeExpr = regexp.MustCompile(`(?i)\d{1,2}:\d{2}(?:\s*[ap]\.?m\.?)?`)
	casePrefixExpr  = regexp.MustCompile(`^\d*([A-Za-z]+)`)
)

// parseHearingDate finds the first date in text and any clock time after it.
func parseHearingDate(text string) (time.Time, string, bool) {
	for _, candidate := range hearingDateExprs {
		loc := candidate.expr.FindStringIndex(text)
		if loc == nil {
			continue
		}
		raw := text[loc[0]:loc[1]]
		for _, layout := range candidate.layouts {
			parsed, err := time.Parse(layout, raw)
			if err != nil {
				continue
			}
			clock := strings.ToUpper(hearingTimeExpr.FindString(text[loc[1]:]))
			return parsed, clock, true
		}
	}
	return time.Time{}, "", false
}

// categorize normalizes a case-type cell, falling back to the case-number prefix.
func categorize(caseType, caseNumber string) domain.CaseCategory {
	t := strings.ToLower(caseType)
	switch {
	case strings.Contains(t, "traffic"):
		return domain.CategoryTraffic
	case strings.Contains(t, "civil"):
		return domain.CategoryCivil
	case strings.Contains(t, "criminal") || strings.Contains(t, "felony") || strings.Contains(t, "misdemeanor"):
		return domain.CategoryCriminal
	}

	m := casePrefixExpr.FindStringSubmatch(strings.TrimSpace(caseNumber))
	if m == nil {
		return ""
	}
	prefix := strings.ToUpper(m[1])
	switch {
	case strings.HasPrefix(prefix, "CR"), strings.HasPrefix(prefix, "CP"), strings.HasPrefix(prefix, "FC"), strings.HasPrefix(prefix, "DCW"):
		return domain.CategoryCriminal
	case strings.HasPrefix(prefix, "TR"), strings.HasPrefix(prefix, "TC"), strings.HasPrefix(prefix, "DT"):
		return domain.CategoryTraffic
	case strings.HasPrefix(prefix, "CV"), strings.HasPrefix(prefix, "CC"), strings.HasPrefix(prefix, "RC"), strings.HasPrefix(prefix, "DC"):
		return domain.CategoryCivil
	default:
		return ""
	}
}
