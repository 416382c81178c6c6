// Package names splits client names into search variants and grades how
// closely a discovered record name matches the queried one.
package names

import (
	"strings"

	"RecordsScanner/internal/domain"
)

// ParsedName holds the components of a whitespace-separated full name.
type ParsedName struct {
	Full   string
	First  string
	Middle string
	Last   string
}

// Parse splits fullName on whitespace. Names with fewer than two tokens
// leave First, Middle and Last empty.
func Parse(fullName string) ParsedName {
	trimmed := strings.TrimSpace(fullName)
	parsed := ParsedName{Full: trimmed}

	parts := strings.Fields(trimmed)
	if len(parts) < 2 {
		return parsed
	}

	parsed.First = parts[0]
	parsed.Last = parts[len(parts)-1]
	parsed.Middle = strings.Join(parts[1:len(parts)-1], " ")
	return parsed
}

// OK reports whether both first and last names were found.
func (p ParsedName) OK() bool {
	return p.First != "" && p.Last != ""
}

// FullName rebuilds "First Middle Last" from the parsed components.
func (p ParsedName) FullName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.First, p.Middle, p.Last} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// Variants returns the search strings for a name: as given, "Last, First"
// and "First Last". The middle name is dropped from the last form to widen
// recall. Equal strings are returned once.
func Variants(fullName string) []string {
	parsed := Parse(fullName)
	if parsed.Full == "" {
		return nil
	}

	candidates := []string{parsed.Full}
	if parsed.OK() {
		candidates = append(candidates,
			parsed.Last+", "+parsed.First,
			parsed.First+" "+parsed.Last,
		)
	}

	seen := make(map[string]struct{}, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		variants = append(variants, c)
	}
	return variants
}

// Matches is the coarse validator used to filter discovered records: some
// record token must overlap the query's first name and some record token must
// overlap the query's last name. Overlap is substring containment either way,
// so common surnames produce false positives.
func Matches(recordName, queryName string) bool {
	record := tokens(recordName)
	query := tokens(queryName)
	if len(record) == 0 || len(query) == 0 {
		return false
	}

	first := query[0]
	last := query[len(query)-1]
	return anyOverlap(record, first) && anyOverlap(record, last)
}

// Confidence grades a record name against the queried name.
func Confidence(recordName, queryName string) domain.MatchConfidence {
	if sameTokens(tokens(recordName), tokens(queryName)) {
		return domain.ConfidenceExact
	}
	if Matches(recordName, queryName) {
		return domain.ConfidencePartial
	}
	return domain.ConfidenceWeak
}

func tokens(name string) []string {
	name = strings.ToLower(strings.ReplaceAll(name, ",", " "))
	return strings.Fields(name)
}

func anyOverlap(parts []string, target string) bool {
	for _, part := range parts {
		if strings.Contains(part, target) || strings.Contains(target, part) {
			return true
		}
	}
	return false
}

func sameTokens(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, t := range a {
		counts[t]++
	}
	for _, t := range b {
		counts[t]--
		if counts[t] < 0 {
			return false
		}
	}
	return true
}
