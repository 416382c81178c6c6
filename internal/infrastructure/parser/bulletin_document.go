package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/infrastructure/fetch"
	"RecordsScanner/internal/ports"
)

const documentFetchTimeout = 60 * time.Second

type documentKind int

const (
	kindText documentKind = iota
	kindHTML
	kindPDF
)

func (k documentKind) String() string {
	switch k {
	case kindHTML:
		return "html"
	case kindPDF:
		return "pdf"
	default:
		return "text"
	}
}

// DocumentLoader downloads a bulletin and reduces it to plain lines of text.
type DocumentLoader struct {
	client  *fetch.Client
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.BulletinDownloader = (*DocumentLoader)(nil)

// NewDocumentLoader wires a fetch client; downloads are bounded by 60s.
func NewDocumentLoader(client *fetch.Client, log *slog.Logger) *DocumentLoader {
	if client == nil {
		client = fetch.New(nil, "")
	}
	return &DocumentLoader{client: client, timeout: documentFetchTimeout, logger: log}
}

// WithTimeout overrides the download timeout when d is positive.
func (d *DocumentLoader) WithTimeout(timeout time.Duration) *DocumentLoader {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

// Text downloads ref and extracts its text according to the detected format.
func (d *DocumentLoader) Text(ctx context.Context, ref domain.BulletinReference) (string, error) {
	resp, err := d.client.Get(ctx, ref.URL, d.timeout)
	if err != nil {
		return "", err
	}

	kind := detectKind(resp)
	if d.logger != nil {
		d.logger.Debug("bulletin downloaded", "url", ref.URL, "bytes", len(resp.Body), "kind", kind)
	}

	switch kind {
	case kindPDF:
		return pdfText(resp.Body)
	case kindHTML:
		doc, err := resp.HTML()
		if err != nil {
			return "", err
		}
		return htmlText(doc), nil
	default:
		return string(resp.Body), nil
	}
}

func detectKind(resp fetch.Response) documentKind {
	ct := strings.ToLower(resp.ContentType)
	switch {
	case strings.Contains(ct, "pdf"), bytes.HasPrefix(resp.Body, []byte("%PDF-")):
		return kindPDF
	case strings.Contains(ct, "html"):
		return kindHTML
	}

	head := bytes.TrimSpace(resp.Body)
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	if bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html")) {
		return kindHTML
	}
	return kindText
}

// pdfText joins each page's text rows into lines. The pdf reader panics on
// some malformed cross-reference tables, so panics become errors here.
func pdfText(body []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", i, err)
		}
		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				line.WriteString(word.S)
			}
			b.WriteString(cleanText(line.String()))
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// htmlText flattens markup so every block element and <br> ends a line.
func htmlText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, tr, td, th, h1, h2, h3, h4, h5, h6, pre").AppendHtml("\n")

	lines := strings.Split(doc.Find("body").Text(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = cleanText(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
