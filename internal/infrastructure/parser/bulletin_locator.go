package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/infrastructure/fetch"
	"RecordsScanner/internal/ports"
)

const indexFetchTimeout = 30 * time.Second

var (
	documentExtensions = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".txt"}

	isoDateExpr     = regexp.MustCompile(`(\d{4})[-_](\d{1,2})[-_](\d{1,2})`)
	slashDateExpr   = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	longFormDateExp = regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})`)
)

// BulletinLocator finds the newest arrest-log document linked from the publisher's index page.
type BulletinLocator struct {
	client   *fetch.Client
	indexURL string
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

var _ ports.BulletinLocator = (*BulletinLocator)(nil)

// NewBulletinLocator targets indexURL; the page fetch is bounded by 30s.
func NewBulletinLocator(client *fetch.Client, indexURL string, log *slog.Logger) *BulletinLocator {
	if client == nil {
		client = fetch.New(nil, "")
	}
	return &BulletinLocator{
		client:   client,
		indexURL: indexURL,
		timeout:  indexFetchTimeout,
		logger:   log,
		now:      time.Now,
	}
}

// WithTimeout overrides the index page timeout when d is positive.
func (l *BulletinLocator) WithTimeout(d time.Duration) *BulletinLocator {
	if d > 0 {
		l.timeout = d
	}
	return l
}

// Latest returns the newest bulletin or nil. Failures are logged, never returned.
func (l *BulletinLocator) Latest(ctx context.Context) *domain.BulletinReference {
	ref, err := l.Find(ctx)
	if err != nil {
		if l.logger != nil {
			l.logger.Error("locate bulletin", "index", l.indexURL, "error", err)
		}
		return nil
	}
	return ref
}

// Find fetches the index page and returns the candidate with the newest inferred date.
// A page without candidates yields nil and no error.
func (l *BulletinLocator) Find(ctx context.Context) (*domain.BulletinReference, error) {
	page, err := url.Parse(l.indexURL)
	if err != nil || page.Host == "" {
		return nil, fmt.Errorf("invalid index url %q", l.indexURL)
	}

	doc, err := l.client.Document(ctx, l.indexURL, l.timeout)
	if err != nil {
		return nil, err
	}

	candidates := collectBulletins(doc, page, l.now())
	if l.logger != nil {
		l.logger.Debug("bulletin candidates", "index", l.indexURL, "count", len(candidates))
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PublishedAt.After(candidates[j].PublishedAt)
	})
	newest := candidates[0]
	return &newest, nil
}

func collectBulletins(doc *goquery.Document, page *url.URL, now time.Time) []domain.BulletinReference {
	origin := &url.URL{Scheme: page.Scheme, Host: page.Host, Path: "/"}
	seen := map[string]struct{}{}

	var candidates []domain.BulletinReference
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lowerHref := strings.ToLower(href)
		if strings.HasPrefix(lowerHref, "javascript:") || strings.HasPrefix(lowerHref, "mailto:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := origin.ResolveReference(ref)
		resolved.Fragment = ""
		abs := resolved.String()
		if abs == page.String() {
			return
		}

		text := cleanText(a.Text())
		if !isBulletinLink(resolved, text) {
			return
		}
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}

		filename := path.Base(resolved.Path)
		if unescaped, err := url.PathUnescape(filename); err == nil {
			filename = unescaped
		}
		if filename == "" || filename == "/" || filename == "." {
			filename = text
		}

		published, found := inferPublished(text)
		if !found {
			published, found = inferPublished(filename)
		}
		if !found {
			published = now
		}

		candidates = append(candidates, domain.BulletinReference{
			URL:         abs,
			Filename:    filename,
			PublishedAt: published,
			DateFound:   found,
		})
	})
	return candidates
}

func isBulletinLink(u *url.URL, text string) bool {
	lowerPath := strings.ToLower(u.Path)
	for _, ext := range documentExtensions {
		if strings.HasSuffix(lowerPath, ext) {
			return true
		}
	}

	haystack := strings.ToLower(text + " " + u.String())
	return strings.Contains(haystack, "arrest") || strings.Contains(haystack, "booking")
}

// inferPublished tries YYYY-MM-DD (or underscores), M/D/YYYY, then "Month D, YYYY".
func inferPublished(text string) (time.Time, bool) {
	if m := isoDateExpr.FindStringSubmatch(text); m != nil {
		if t, ok := buildDate(m[1], m[2], m[3]); ok {
			return t, true
		}
	}
	if m := slashDateExpr.FindStringSubmatch(text); m != nil {
		if t, ok := buildDate(m[3], m[1], m[2]); ok {
			return t, true
		}
	}
	if m := longFormDateExp.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("January 2 2006", m[1]+" "+m[2]+" "+m[3]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func buildDate(year, month, day string) (time.Time, bool) {
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil || m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
