package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type lineKind int

const (
	lineOther lineKind = iota
	lineName
	lineBooking
	lineDate
	lineTime
	lineAge
	lineAddress
	lineCharge
	lineLocation
)

var (
	nameLineExpr = regexp.MustCompile(`^[A-Z ]{5,50}$`)
	bookingExpr  = regexp.MustCompile(`(?i)\b(?:BOOKING|BK|CASE|ARREST)\b[\s#:.]*(?:NO\.?|NUMBER|NUM)?[\s#:.]*([A-Z0-9-]*\d[A-Z0-9-]*)`)
	dateExpr     = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{4})\b`)
	timeExpr     = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})(?:\s*([AP]M))?\b`)
	ageExpr      = regexp.MustCompile(`(?i)\bAGE\s*:?\s*(\d{1,3})\b|\b(\d{1,3})\s*YRS\b`)
	addressExpr  = regexp.MustCompile(`(?i)\b\d+\s+(?:[A-Z0-9'.-]+\s+)+(?:STREET|ST|AVENUE|AVE|ROAD|RD|DRIVE|DR|BOULEVARD|BLVD|LANE|LN|PLACE|PL|WAY|HIGHWAY|HWY|CIRCLE|CIR|COURT|CT|LOOP|PARKWAY|PKWY)\b\.?`)
	chargeLabel  = regexp.MustCompile(`(?i)^CHARGES?\s*[:#-]\s*`)
)

var chargeKeywords = []string{
	"ASSAULT", "THEFT", "BURGLARY", "ROBBERY", "DUI", "DRUG", "POSSESSION",
	"WARRANT", "TRESPASS", "FRAUD", "BATTERY", "VANDALISM",
	"MURDER", "HOMICIDE", "KIDNAPPING",
}

var placeKeywords = []string{
	"HONOLULU", "WAIKIKI", "KALIHI", "MANOA", "KAIMUKI", "MAKIKI", "MOILIILI", "KAHALA",
	"HAWAII KAI", "SALT LAKE", "AIEA", "PEARL CITY", "WAIPAHU", "EWA BEACH", "KAPOLEI",
	"MAKAKILO", "NANAKULI", "WAIANAE", "MILILANI", "WAHIAWA", "HALEIWA", "KAHUKU",
	"LAIE", "KANEOHE", "KAILUA", "WAIMANALO",
}

// classified is a line tagged with the single field it populates.
type classified struct {
	kind  lineKind
	value string
	date  time.Time
	age   int
}

// classify applies the checks in fixed priority; the first one that applies
// wins. Checks for single-valued fields only apply while that field is
// unset on the record being built, so a second date line falls through to
// the later checks.
func classify(line string, cur *draft) classified {
	if nameLineExpr.MatchString(line) {
		return classified{kind: lineName, value: line}
	}
	if cur == nil {
		return classified{kind: lineOther}
	}

	upper := strings.ToUpper(line)

	if cur.booking == "" {
		if m := bookingExpr.FindStringSubmatch(line); m != nil {
			return classified{kind: lineBooking, value: strings.ToUpper(m[1])}
		}
	}
	if cur.date.IsZero() {
		if m := dateExpr.FindStringSubmatch(line); m != nil {
			if d, ok := parseNumericDate(m[1], m[2], m[3]); ok {
				return classified{kind: lineDate, date: d}
			}
		}
	}
	if cur.clock == "" {
		if m := timeExpr.FindStringSubmatch(line); m != nil {
			if clock, ok := normalizeClock(m[1], m[2], m[3]); ok {
				return classified{kind: lineTime, value: clock}
			}
		}
	}
	if cur.age == nil {
		if m := ageExpr.FindStringSubmatch(line); m != nil {
			raw := m[1]
			if raw == "" {
				raw = m[2]
			}
			if n, err := strconv.Atoi(raw); err == nil {
				return classified{kind: lineAge, age: n}
			}
		}
	}
	if cur.address == "" {
		if m := addressExpr.FindString(line); m != "" {
			return classified{kind: lineAddress, value: strings.TrimSpace(m)}
		}
	}
	if containsAny(upper, chargeKeywords) {
		return classified{kind: lineCharge, value: strings.TrimSpace(chargeLabel.ReplaceAllString(line, ""))}
	}
	if cur.location == "" && containsAny(upper, placeKeywords) {
		return classified{kind: lineLocation, value: line}
	}
	return classified{kind: lineOther}
}

func containsAny(upper string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func parseNumericDate(month, day, year string) (time.Time, bool) {
	m, err1 := strconv.Atoi(month)
	d, err2 := strconv.Atoi(day)
	y, err3 := strconv.Atoi(year)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func normalizeClock(hour, minute, meridiem string) (string, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(minute)
	if err != nil || m > 59 {
		return "", false
	}

	switch strings.ToUpper(meridiem) {
	case "AM":
		if h < 1 || h > 12 {
			return "", false
		}
		if h == 12 {
			h = 0
		}
	case "PM":
		if h < 1 || h > 12 {
			return "", false
		}
		if h != 12 {
			h += 12
		}
	default:
		if h > 23 {
			return "", false
		}
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}
