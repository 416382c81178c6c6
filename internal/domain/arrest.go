package domain

import "time"

// Severity is the alerting tier derived from charge keywords.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities so callers can compare thresholds; unknown values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// ParseSeverity maps free text onto a Severity, defaulting to critical.
func ParseSeverity(value string) Severity {
	switch Severity(value) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(value)
	default:
		return SeverityCritical
	}
}

// ArrestStatusActive is stamped on every record at extraction time.
const ArrestStatusActive = "Active"

// ArrestRecord is one booking entry extracted from a bulletin.
type ArrestRecord struct {
	BookingNumber string    `json:"bookingNumber"`
	FullName      string    `json:"fullName"`
	ArrestDate    time.Time `json:"arrestDate"`
	ArrestTime    string    `json:"arrestTime"`
	Location      string    `json:"location"`
	Charges       []string  `json:"charges"`
	Agency        string    `json:"agency"`
	County        string    `json:"county"`
	Status        string    `json:"status"`
	Severity      Severity  `json:"severity"`
	Age           *int      `json:"age,omitempty"`
	Address       string    `json:"address,omitempty"`
}

// BulletinReference is a discovered arrest-log document.
type BulletinReference struct {
	URL         string    `json:"url"`
	Filename    string    `json:"filename"`
	PublishedAt time.Time `json:"publishedAt"`
	DateFound   bool      `json:"dateFound"`
}
