package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/usecase"
)

type stubLookup struct {
	gotName string
	gotOpts usecase.ResolveOptions
	stored  []domain.HearingRecord
}

func (s *stubLookup) Lookup(_ context.Context, fullName string, opts usecase.ResolveOptions) usecase.ResolveResult {
	s.gotName, s.gotOpts = fullName, opts
	return usecase.ResolveResult{
		Success:         true,
		HearingRecords:  []domain.HearingRecord{{SubjectName: fullName, CaseNumber: "CR-1", Source: "Circuit", Status: "scheduled"}},
		Errors:          []string{},
		SourcesSearched: []string{"Circuit"},
	}
}

func (s *stubLookup) Stored(context.Context, string) ([]domain.HearingRecord, error) {
	return s.stored, nil
}

type stubIngest struct {
	report usecase.IngestReport
	err    error
}

func (s *stubIngest) Run(context.Context) (usecase.IngestReport, error) {
	return s.report, s.err
}

type stubArrests struct {
	gotLimit int
	err      error
}

func (s *stubArrests) SaveArrests(_ context.Context, recs []domain.ArrestRecord) ([]domain.ArrestRecord, error) {
	return recs, nil
}

func (s *stubArrests) RecentArrests(_ context.Context, limit int) ([]domain.ArrestRecord, error) {
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return []domain.ArrestRecord{{BookingNumber: "2024-001234", FullName: "JOHN DOE"}}, nil
}

func do(t *testing.T, deps Deps, req *http.Request) (int, map[string]interface{}, string) {
	t.Helper()

	resp, err := New(deps).Test(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var obj map[string]interface{}
	_ = json.Unmarshal(raw, &obj)
	return resp.StatusCode, obj, string(raw)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	code, body, _ := do(t, Deps{}, httptest.NewRequest(http.MethodGet, "/health", nil))
	if code != http.StatusOK || body["ok"] != true {
		t.Fatalf("unexpected health response: %d %v", code, body)
	}
}

func TestSearchCourtDates(t *testing.T) {
	t.Parallel()

	lookup := &stubLookup{}
	req := httptest.NewRequest(http.MethodPost, "/api/court-dates/search",
		strings.NewReader(`{"fullName":" Travis Hong-Ah Nee ","state":"HI","maxResults":3}`))
	req.Header.Set("Content-Type", "application/json")

	code, body, _ := do(t, Deps{Lookup: lookup}, req)
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d: %v", code, body)
	}
	if lookup.gotName != "Travis Hong-Ah Nee" || lookup.gotOpts.State != "HI" || lookup.gotOpts.MaxResults != 3 {
		t.Fatalf("unexpected lookup call: %q %+v", lookup.gotName, lookup.gotOpts)
	}
	if body["success"] != true {
		t.Fatalf("expected success flag, got %v", body)
	}
	records, ok := body["hearingRecords"].([]interface{})
	if !ok || len(records) != 1 {
		t.Fatalf("unexpected hearingRecords: %v", body["hearingRecords"])
	}
	if _, ok := body["sourcesSearched"]; !ok {
		t.Fatalf("missing sourcesSearched: %v", body)
	}
}

func TestSearchCourtDatesRequiresName(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/court-dates/search", strings.NewReader(`{"fullName":"  "}`))
	req.Header.Set("Content-Type", "application/json")

	code, body, _ := do(t, Deps{Lookup: &stubLookup{}}, req)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body["error"] == nil {
		t.Fatalf("expected error body, got %v", body)
	}
}

func TestStoredCourtDates(t *testing.T) {
	t.Parallel()

	lookup := &stubLookup{stored: []domain.HearingRecord{{SubjectName: "Jane Roe", Source: "Circuit"}}}
	code, _, raw := do(t, Deps{Lookup: lookup}, httptest.NewRequest(http.MethodGet, "/api/court-dates?name=Jane+Roe", nil))
	if code != http.StatusOK || !strings.Contains(raw, `"subjectName":"Jane Roe"`) {
		t.Fatalf("unexpected response: %d %s", code, raw)
	}

	code, _, _ = do(t, Deps{Lookup: lookup}, httptest.NewRequest(http.MethodGet, "/api/court-dates", nil))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 without name, got %d", code)
	}
}

func TestIngestConflict(t *testing.T) {
	t.Parallel()

	deps := Deps{Ingest: &stubIngest{err: usecase.ErrRunInProgress}}
	code, body, _ := do(t, deps, httptest.NewRequest(http.MethodPost, "/api/arrests/ingest", nil))
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if body["error"] != usecase.ErrRunInProgress.Error() {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestIngestReport(t *testing.T) {
	t.Parallel()

	deps := Deps{Ingest: &stubIngest{report: usecase.IngestReport{RunID: "run-1", Records: []domain.ArrestRecord{}, Errors: []string{}, UsedFallback: true}}}
	code, body, _ := do(t, deps, httptest.NewRequest(http.MethodPost, "/api/arrests/ingest", nil))
	if code != http.StatusOK || body["runId"] != "run-1" || body["usedFallback"] != true {
		t.Fatalf("unexpected response: %d %v", code, body)
	}
}

func TestRecentArrests(t *testing.T) {
	t.Parallel()

	arrests := &stubArrests{}
	code, _, raw := do(t, Deps{Arrests: arrests}, httptest.NewRequest(http.MethodGet, "/api/arrests", nil))
	if code != http.StatusOK || !strings.Contains(raw, "2024-001234") {
		t.Fatalf("unexpected response: %d %s", code, raw)
	}
	if arrests.gotLimit != defaultArrestLimit {
		t.Fatalf("expected default limit, got %d", arrests.gotLimit)
	}

	_, _, _ = do(t, Deps{Arrests: arrests}, httptest.NewRequest(http.MethodGet, "/api/arrests?limit=5", nil))
	if arrests.gotLimit != 5 {
		t.Fatalf("expected limit 5, got %d", arrests.gotLimit)
	}

	failing := &stubArrests{err: errors.New("db down")}
	code, body, _ := do(t, Deps{Arrests: failing}, httptest.NewRequest(http.MethodGet, "/api/arrests", nil))
	if code != http.StatusInternalServerError || body["error"] != "db down" {
		t.Fatalf("unexpected failure response: %d %v", code, body)
	}
}
