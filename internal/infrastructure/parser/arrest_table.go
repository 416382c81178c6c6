package parser

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"RecordsScanner/internal/extract"
	"RecordsScanner/internal/infrastructure/fetch"
	"RecordsScanner/internal/ports"
)

// ArrestTable reads arrest rows straight from the index page's HTML table.
// It is the lower-fidelity path used when the bulletin itself yields nothing.
type ArrestTable struct {
	client   *fetch.Client
	indexURL string
	timeout  time.Duration
	logger   *slog.Logger
}

var _ ports.ArrestTableSource = (*ArrestTable)(nil)

// NewArrestTable targets the same index page the locator scans.
func NewArrestTable(client *fetch.Client, indexURL string, log *slog.Logger) *ArrestTable {
	if client == nil {
		client = fetch.New(nil, "")
	}
	return &ArrestTable{client: client, indexURL: indexURL, timeout: indexFetchTimeout, logger: log}
}

// Rows returns name, charges and booking number from the first three cells of each table row.
func (a *ArrestTable) Rows(ctx context.Context) ([]extract.Row, error) {
	doc, err := a.client.Document(ctx, a.indexURL, a.timeout)
	if err != nil {
		return nil, err
	}

	rows := parseArrestRows(doc)
	if a.logger != nil {
		a.logger.Debug("arrest table parsed", "index", a.indexURL, "rows", len(rows))
	}
	return rows, nil
}

func parseArrestRows(doc *goquery.Document) []extract.Row {
	var rows []extract.Row
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			return
		}

		name := cleanText(cells.Eq(0).Text())
		if name == "" {
			return
		}

		chargesCell := cells.Eq(1)
		chargesCell.Find("br").ReplaceWithHtml("\n")

		rows = append(rows, extract.Row{
			Name:          name,
			Charges:       splitCharges(chargesCell.Text()),
			BookingNumber: cleanText(cells.Eq(2).Text()),
		})
	})
	return rows
}

func splitCharges(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '\n'
	})
	charges := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = cleanText(p); p != "" {
			charges = append(charges, p)
		}
	}
	return charges
}
