package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"RecordsScanner/internal/infrastructure/fetch"
)

func serveIndex(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLocatorPicksNewestDatedBulletin(t *testing.T) {
	t.Parallel()

	srv := serveIndex(t, `<html><body>
		<a href="/logs/jan.pdf">Arrest Log 2024-01-01</a>
		<a href="/logs/mar.pdf">Arrest Log 2024-03-15</a>
		<a href="/logs/feb.pdf">Arrest Log 2024-02-20</a>
	</body></html>`)

	loc := NewBulletinLocator(fetch.New(srv.Client(), ""), srv.URL+"/information/arrest-logs/", nil)
	ref := loc.Latest(context.Background())
	if ref == nil {
		t.Fatalf("expected a bulletin")
	}
	if ref.URL != srv.URL+"/logs/mar.pdf" {
		t.Fatalf("unexpected url: %s", ref.URL)
	}
	if ref.Filename != "mar.pdf" || !ref.DateFound {
		t.Fatalf("unexpected reference: %+v", ref)
	}
	if !ref.PublishedAt.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", ref.PublishedAt)
	}
}

func TestLocatorFallsBackToFilenameDate(t *testing.T) {
	t.Parallel()

	srv := serveIndex(t, `<html><body>
		<a href="/logs/arrest-log-2024-01-01.pdf">Arrest Log</a>
		<a href="/logs/arrest-log-2024-03-15.pdf">Arrest Log</a>
		<a href="/logs/arrest-log-2024-02-20.pdf">Arrest Log</a>
	</body></html>`)

	loc := NewBulletinLocator(fetch.New(srv.Client(), ""), srv.URL+"/information/arrest-logs/", nil)
	ref := loc.Latest(context.Background())
	if ref == nil || ref.Filename != "arrest-log-2024-03-15.pdf" || !ref.DateFound {
		t.Fatalf("unexpected reference: %+v", ref)
	}
}

func TestLocatorTextDateWinsOverFilename(t *testing.T) {
	t.Parallel()

	srv := serveIndex(t, `<html><body>
		<a href="/logs/arrest-log-2024-12-31.pdf">Arrest Log 2024-01-05</a>
		<a href="/logs/arrest-log-2024-01-01.pdf">Arrest Log 2024-02-10</a>
	</body></html>`)

	loc := NewBulletinLocator(fetch.New(srv.Client(), ""), srv.URL+"/", nil)
	ref := loc.Latest(context.Background())
	if ref == nil {
		t.Fatalf("expected a bulletin")
	}
	if ref.Filename != "arrest-log-2024-01-01.pdf" {
		t.Fatalf("link text date should decide ranking, got %s", ref.Filename)
	}
	if !ref.PublishedAt.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", ref.PublishedAt)
	}
}

func TestLocatorNoCandidates(t *testing.T) {
	t.Parallel()

	srv := serveIndex(t, `<html><body><a href="/about">About us</a><a href="#top">Top</a></body></html>`)
	loc := NewBulletinLocator(fetch.New(srv.Client(), ""), srv.URL+"/", nil)

	ref, err := loc.Find(context.Background())
	if err != nil || ref != nil {
		t.Fatalf("expected nil reference and no error, got %+v %v", ref, err)
	}
}

func TestLocatorFiltersAndDedupesLinks(t *testing.T) {
	t.Parallel()

	srv := serveIndex(t, `<html><body>
		<a href="javascript:void(0)">Arrest log popup</a>
		<a href="mailto:records@hpd.test">Booking questions</a>
		<a href="/information/arrest-logs/">Arrest Logs</a>
		<a href="docs/booking%20report.txt">Booking report March 3, 2024</a>
		<a href="docs/booking%20report.txt#page=2">Booking report March 3, 2024</a>
		<a href="/files/summary.xlsx">Weekly summary 1/2/2024</a>
	</body></html>`)

	page := srv.URL + "/information/arrest-logs/"
	loc := NewBulletinLocator(fetch.New(srv.Client(), ""), page, nil)
	doc, err := loc.client.Document(context.Background(), page, time.Second)
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	pageURL, err := url.Parse(page)
	if err != nil {
		t.Fatalf("parse page url: %v", err)
	}
	refs := collectBulletins(doc, pageURL, time.Now())
	if len(refs) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(refs), refs)
	}

	if refs[0].URL != srv.URL+"/docs/booking%20report.txt" {
		t.Fatalf("relative link should resolve against the origin: %s", refs[0].URL)
	}
	if refs[0].Filename != "booking report.txt" {
		t.Fatalf("filename should be unescaped: %q", refs[0].Filename)
	}
	if !refs[0].PublishedAt.Equal(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date should come from link text: %v", refs[0].PublishedAt)
	}
	if !refs[1].PublishedAt.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("slash date not parsed: %v", refs[1].PublishedAt)
	}
}

func TestLocatorUndatedLinksRankAsNow(t *testing.T) {
	t.Parallel()

	srv := serveIndex(t, `<html><body>
		<a href="/logs/2024-03-15.pdf">March bulletin</a>
		<a href="/logs/current.pdf">Current arrest log</a>
	</body></html>`)

	now := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	loc := NewBulletinLocator(fetch.New(srv.Client(), ""), srv.URL+"/", nil)
	loc.now = func() time.Time { return now }

	ref := loc.Latest(context.Background())
	if ref == nil || ref.DateFound || !ref.PublishedAt.Equal(now) {
		t.Fatalf("undated link should be stamped with now and win: %+v", ref)
	}
}

func TestLocatorFetchFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	loc := NewBulletinLocator(fetch.New(srv.Client(), ""), srv.URL+"/", nil)
	if ref := loc.Latest(context.Background()); ref != nil {
		t.Fatalf("expected nil on fetch failure, got %+v", ref)
	}

	_, err := loc.Find(context.Background())
	var fe *fetch.FetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusNotFound {
		t.Fatalf("expected FetchError 404, got %v", err)
	}

	bad := NewBulletinLocator(nil, "::not a url", nil)
	if _, err := bad.Find(context.Background()); err == nil {
		t.Fatalf("expected invalid url error")
	}
}
