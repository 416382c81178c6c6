package parser

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/infrastructure/fetch"
	"RecordsScanner/internal/scanner"
)

// PublicRecordsScanner queries aggregator APIs that answer name searches with JSON.
type PublicRecordsScanner struct {
	client  *fetch.Client
	timeout time.Duration
	logger  *slog.Logger
}

var _ scanner.Scanner = (*PublicRecordsScanner)(nil)

// NewPublicRecordsScanner wires a fetch client with the shared search timeout.
func NewPublicRecordsScanner(client *fetch.Client, log *slog.Logger) *PublicRecordsScanner {
	if client == nil {
		client = fetch.New(nil, "")
	}
	return &PublicRecordsScanner{client: client, timeout: courtSearchTimeout, logger: log}
}

// Name identifies the strategy inside the registry.
func (s *PublicRecordsScanner) Name() string {
	return "json"
}

type publicRecordsResponse struct {
	Results []struct {
		Name        string `json:"name"`
		CaseNumber  string `json:"caseNumber"`
		HearingDate string `json:"hearingDate"`
		HearingTime string `json:"hearingTime"`
		Location    string `json:"location"`
		CaseType    string `json:"caseType"`
		Charge      string `json:"charge"`
		Status      string `json:"status"`
	} `json:"results"`
}

// Search fetches the aggregator response; a body that does not decode counts as no hits.
func (s *PublicRecordsScanner) Search(ctx context.Context, req scanner.Request) ([]domain.HearingRecord, error) {
	searchURL, err := buildSearchURL(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Get(ctx, searchURL, s.timeout)
	if err != nil {
		return nil, err
	}

	var payload publicRecordsResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		if s.logger != nil {
			s.logger.Warn("malformed public records response", "source", req.SourceName, "error", err)
		}
		return nil, nil
	}

	records := make([]domain.HearingRecord, 0, len(payload.Results))
	for _, r := range payload.Results {
		rec := domain.HearingRecord{
			SubjectName: cleanText(r.Name),
			CaseNumber:  cleanText(r.CaseNumber),
			HearingTime: cleanText(r.HearingTime),
			Location:    cleanText(r.Location),
			Charge:      cleanText(r.Charge),
			Status:      strings.ToLower(cleanText(r.Status)),
			Category:    categorize(r.CaseType, r.CaseNumber),
		}
		if date, clock, ok := parseHearingDate(r.HearingDate); ok {
			rec.HearingDate = &date
			if rec.HearingTime == "" {
				rec.HearingTime = clock
			}
		}
		if rec.Status == "" {
			rec.Status = "pending"
		}
		records = append(records, rec)
	}
	return records, nil
}
