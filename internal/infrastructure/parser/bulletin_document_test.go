package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/infrastructure/fetch"
)

func TestDocumentLoaderHTML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><style>p{color:red}</style></head><body>
<h1>Arrest Log</h1>
<p>JOHN DOE<br>Booking: 2024-001234<br/>03/15/2024</p>
<table><tr><td>MARY SMITH</td><td>THEFT 3</td></tr></table>
<script>var x = 1;</script>
</body></html>`))
	}))
	defer srv.Close()

	loader := NewDocumentLoader(fetch.New(srv.Client(), ""), nil)
	text, err := loader.Text(context.Background(), domain.BulletinReference{URL: srv.URL + "/log.html"})
	if err != nil {
		t.Fatalf("text: %v", err)
	}

	want := []string{"Arrest Log", "JOHN DOE", "Booking: 2024-001234", "03/15/2024", "MARY SMITH", "THEFT 3"}
	got := strings.Split(text, "\n")
	if len(got) != len(want) {
		t.Fatalf("unexpected lines: %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestDocumentLoaderPlainText(t *testing.T) {
	t.Parallel()

	body := "JOHN DOE\nBooking: 2024-001234\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	loader := NewDocumentLoader(fetch.New(srv.Client(), ""), nil)
	text, err := loader.Text(context.Background(), domain.BulletinReference{URL: srv.URL + "/log.txt"})
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if text != body {
		t.Fatalf("plain text should pass through, got %q", text)
	}
}

func TestDocumentLoaderBrokenPDF(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("%PDF-1.4\nthis is not really a pdf"))
	}))
	defer srv.Close()

	loader := NewDocumentLoader(fetch.New(srv.Client(), ""), nil)
	if _, err := loader.Text(context.Background(), domain.BulletinReference{URL: srv.URL + "/log.pdf"}); err == nil {
		t.Fatalf("expected error for a corrupt pdf")
	}
}

func TestDetectKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		resp fetch.Response
		want documentKind
	}{
		{fetch.Response{ContentType: "application/pdf"}, kindPDF},
		{fetch.Response{Body: []byte("%PDF-1.7")}, kindPDF},
		{fetch.Response{ContentType: "text/html"}, kindHTML},
		{fetch.Response{Body: []byte("  <!DOCTYPE html><html></html>")}, kindHTML},
		{fetch.Response{ContentType: "text/plain", Body: []byte("JOHN DOE")}, kindText},
	}
	for _, tc := range cases {
		if got := detectKind(tc.resp); got != tc.want {
			t.Fatalf("%+v: want %s, got %s", tc.resp, tc.want, got)
		}
	}
}
