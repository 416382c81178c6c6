package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/infrastructure/fetch"
	"RecordsScanner/internal/scanner"
)

const courtResultsPage = `<!doctype html>
<html><body>
<table class="nav"><tr><td>Home</td><td>Search</td></tr></table>
<table id="results">
  <thead>
    <tr><th>Case Number</th><th>Party Name</th><th>Hearing Date</th><th>Courtroom</th><th>Case Type</th><th>Charge</th><th>Status</th></tr>
  </thead>
  <tbody>
    <tr><td>1CPC-24-0000123</td><td>DOE, JOHN</td><td>03/20/2024 9:00 AM</td><td>Circuit Court 5C</td><td>Felony</td><td>Assault 2</td><td>Continued</td></tr>
    <tr><td>1DTA-24-00456</td><td>DOE, JOHN</td><td>April 15, 2024</td><td>District Court 2B</td><td></td><td>DUI</td><td></td></tr>
    <tr><td></td><td></td><td></td><td></td><td></td><td></td><td></td></tr>
  </tbody>
</table>
</body></html>`

func TestCourtTableScannerParsesResults(t *testing.T) {
	t.Parallel()

	var gotQuery, gotState string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("partyName")
		gotState = r.URL.Query().Get("st")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(courtResultsPage))
	}))
	defer srv.Close()

	s := NewCourtTableScanner(fetch.New(srv.Client(), ""), nil)
	recs, err := s.Search(context.Background(), scanner.Request{
		SourceName: "Circuit",
		URL:        srv.URL + "/search?mode=party",
		Query:      "Doe, John",
		State:      "HI",
		Options:    map[string]string{"searchParam": "partyName", "stateParam": "st"},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotQuery != "Doe, John" || gotState != "HI" {
		t.Fatalf("query params not sent: name=%q state=%q", gotQuery, gotState)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(recs), recs)
	}

	first := recs[0]
	if first.CaseNumber != "1CPC-24-0000123" || first.SubjectName != "DOE, JOHN" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.HearingDate == nil || !first.HearingDate.Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", first.HearingDate)
	}
	if first.HearingTime != "9:00 AM" || first.Location != "Circuit Court 5C" {
		t.Fatalf("unexpected time/location: %q %q", first.HearingTime, first.Location)
	}
	if first.Category != domain.CategoryCriminal || first.Charge != "Assault 2" || first.Status != "continued" {
		t.Fatalf("unexpected category/charge/status: %+v", first)
	}

	second := recs[1]
	if second.HearingDate == nil || !second.HearingDate.Equal(time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("long-form date not parsed: %v", second.HearingDate)
	}
	if second.Category != domain.CategoryTraffic {
		t.Fatalf("category should come from the case prefix, got %q", second.Category)
	}
	if second.Status != "scheduled" {
		t.Fatalf("status should default to scheduled, got %q", second.Status)
	}
}

func TestCourtTableScannerReportsHTTPFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewCourtTableScanner(fetch.New(srv.Client(), ""), nil)
	_, err := s.Search(context.Background(), scanner.Request{URL: srv.URL, Query: "John Doe"})

	var fe *fetch.FetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected FetchError 503, got %v", err)
	}
}

func TestBuildSearchURLRejectsInvalidSource(t *testing.T) {
	t.Parallel()

	if _, err := buildSearchURL(scanner.Request{URL: "not a url"}); err == nil {
		t.Fatalf("expected error for url without host")
	}
}

func TestClassifyHeader(t *testing.T) {
	t.Parallel()

	cases := map[string]column{
		"Case Type":    colCategory,
		"Case Status":  colStatus,
		"Docket #":     colCase,
		"Defendant":    colName,
		"Hearing Date": colDate,
		"Time":         colTime,
		"Courtroom":    colLocation,
		"Offense":      colCharge,
		"Judge":        colUnknown,
	}
	for header, want := range cases {
		if got := classifyHeader(header); got != want {
			t.Fatalf("%q: want %d, got %d", header, want, got)
		}
	}
}

func TestParseHearingDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		want  time.Time
		clock string
	}{
		{"2024-03-20T09:00", time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), "09:00"},
		{"3/5/2024 1:30 pm", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "1:30 PM"},
		{"Mar 20, 2024", time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), ""},
		{"September 9, 2024 at 8:15 a.m.", time.Date(2024, 9, 9, 0, 0, 0, 0, time.UTC), "8:15 A.M."},
	}
	for _, tc := range cases {
		got, clock, ok := parseHearingDate(tc.in)
		if !ok || !got.Equal(tc.want) || clock != tc.clock {
			t.Fatalf("%q: got %v %q %v", tc.in, got, clock, ok)
		}
	}

	if _, _, ok := parseHearingDate("TBD"); ok {
		t.Fatalf("expected no date for TBD")
	}
}
