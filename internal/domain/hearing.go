package domain

import "time"

// CaseCategory is the coarse court-case kind reported by a source.
type CaseCategory string

const (
	CategoryCriminal CaseCategory = "criminal"
	CategoryTraffic  CaseCategory = "traffic"
	CategoryCivil    CaseCategory = "civil"
)

// MatchConfidence grades how well a record's subject name matches the queried name.
type MatchConfidence string

const (
	ConfidenceExact   MatchConfidence = "exact"
	ConfidencePartial MatchConfidence = "partial"
	ConfidenceWeak    MatchConfidence = "weak"
)

// HearingRecord is one court appearance discovered for a named person.
type HearingRecord struct {
	SubjectName string          `json:"subjectName"`
	CaseNumber  string          `json:"caseNumber,omitempty"`
	HearingDate *time.Time      `json:"hearingDate,omitempty"`
	HearingTime string          `json:"hearingTime,omitempty"`
	Location    string          `json:"location,omitempty"`
	Category    CaseCategory    `json:"caseType,omitempty"`
	Charge      string          `json:"charge,omitempty"`
	Status      string          `json:"status"`
	Source      string          `json:"source"`
	Confidence  MatchConfidence `json:"confidence,omitempty"`
	LowValue    bool            `json:"lowValue,omitempty"`
}

// HasDate reports whether the source supplied a hearing date.
func (h HearingRecord) HasDate() bool {
	return h.HearingDate != nil && !h.HearingDate.IsZero()
}
