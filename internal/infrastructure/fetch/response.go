package fetch

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// HTML parses the body as a goquery document.
func (r Response) HTML() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", r.URL, err)
	}
	return doc, nil
}
