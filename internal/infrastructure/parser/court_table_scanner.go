package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/infrastructure/fetch"
	"RecordsScanner/internal/scanner"
)

const courtSearchTimeout = 30 * time.Second

type column int

const (
	colUnknown column = iota
	colCase
	colName
	colDate
	colTime
	colLocation
	colCategory
	colCharge
	colStatus
)

// CourtTableScanner queries a court portal's name search and reads the
// results table, mapping columns from their header text.
type CourtTableScanner struct {
	client  *fetch.Client
	timeout time.Duration
	logger  *slog.Logger
}

var _ scanner.Scanner = (*CourtTableScanner)(nil)

// NewCourtTableScanner wires a fetch client; timeout defaults to 30s.
func NewCourtTableScanner(client *fetch.Client, log *slog.Logger) *CourtTableScanner {
	if client == nil {
		client = fetch.New(nil, "")
	}
	return &CourtTableScanner{client: client, timeout: courtSearchTimeout, logger: log}
}

// Name identifies the strategy inside the registry.
func (s *CourtTableScanner) Name() string {
	return "table"
}

// Search runs one name query against the source and returns every parsable result row.
func (s *CourtTableScanner) Search(ctx context.Context, req scanner.Request) ([]domain.HearingRecord, error) {
	searchURL, err := buildSearchURL(req)
	if err != nil {
		return nil, err
	}

	doc, err := s.client.Document(ctx, searchURL, s.timeout)
	if err != nil {
		return nil, err
	}

	records := parseHearingTables(doc, req.Option("table", "table"))
	if s.logger != nil {
		s.logger.Debug("court table parsed", "source", req.SourceName, "query", req.Query, "rows", len(records))
	}
	return records, nil
}

func buildSearchURL(req scanner.Request) (string, error) {
	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("invalid source url %q", req.URL)
	}

	query := parsed.Query()
	query.Set(req.Option("searchParam", "name"), req.Query)
	if p := req.Option("stateParam", ""); p != "" && req.State != "" {
		query.Set(p, req.State)
	}
	if p := req.Option("countyParam", ""); p != "" && req.County != "" {
		query.Set(p, req.County)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func parseHearingTables(doc *goquery.Document, selector string) []domain.HearingRecord {
	var records []domain.HearingRecord
	doc.Find(selector).Each(func(_ int, table *goquery.Selection) {
		columns := headerColumns(table)
		if len(columns) == 0 {
			return
		}

		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() == 0 {
				return
			}
			values := make([]string, cells.Length())
			cells.Each(func(i int, td *goquery.Selection) {
				values[i] = cleanText(td.Text())
			})
			if rec, ok := hearingFromRow(columns, values); ok {
				records = append(records, rec)
			}
		})
	})
	return records
}

func headerColumns(table *goquery.Selection) []column {
	headers := table.Find("thead th")
	if headers.Length() == 0 {
		headers = table.Find("tr").First().Find("th")
	}

	columns := make([]column, headers.Length())
	mapped := false
	headers.Each(func(i int, th *goquery.Selection) {
		columns[i] = classifyHeader(th.Text())
		if columns[i] != colUnknown {
			mapped = true
		}
	})
	if !mapped {
		return nil
	}
	return columns
}

func classifyHeader(text string) column {
	h := strings.ToLower(cleanText(text))
	switch {
	case strings.Contains(h, "type") || strings.Contains(h, "category"):
		return colCategory
	case strings.Contains(h, "status"):
		return colStatus
	case strings.Contains(h, "case") || strings.Contains(h, "docket"):
		return colCase
	case strings.Contains(h, "name") || strings.Contains(h, "party") || strings.Contains(h, "defendant"):
		return colName
	case strings.Contains(h, "date"):
		return colDate
	case strings.Contains(h, "time"):
		return colTime
	case strings.Contains(h, "location") || strings.Contains(h, "court") || strings.Contains(h, "room"):
		return colLocation
	case strings.Contains(h, "charge") || strings.Contains(h, "offense"):
		return colCharge
	default:
		return colUnknown
	}
}

func hearingFromRow(columns []column, values []string) (domain.HearingRecord, bool) {
	var (
		rec      domain.HearingRecord
		category string
		found    bool
	)

	for i, value := range values {
		if i >= len(columns) || value == "" {
			continue
		}
		switch columns[i] {
		case colCase:
			rec.CaseNumber = value
		case colName:
			rec.SubjectName = value
		case colDate:
			if date, clock, ok := parseHearingDate(value); ok {
				rec.HearingDate = &date
				if rec.HearingTime == "" {
					rec.HearingTime = clock
				}
			}
		case colTime:
			rec.HearingTime = value
		case colLocation:
			rec.Location = value
		case colCategory:
			category = value
		case colCharge:
			rec.Charge = value
		case colStatus:
			rec.Status = strings.ToLower(value)
		default:
			continue
		}
		found = true
	}
	if !found {
		return domain.HearingRecord{}, false
	}

	rec.Category = categorize(category, rec.CaseNumber)
	if rec.Status == "" {
		rec.Status = "scheduled"
	}
	return rec, true
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
