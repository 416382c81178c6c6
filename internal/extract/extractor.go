// Package extract turns arrest-log bulletin text into arrest records.
//
// Bulletins are inconsistently laid out, so extraction is a single greedy
// pass: an all-caps name line opens a record and every following line fills
// at most one field until the next name line. Nothing here returns an error;
// unreadable input just yields fewer records.
package extract

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"RecordsScanner/internal/domain"
)

const defaultArrestTime = "00:00"

// Defaults are the per-source values applied when a record is finalized.
type Defaults struct {
	Agency            string
	County            string
	Location          string
	ChargePlaceholder string
	IDPrefix          string
}

// Row is one entry of the index page's HTML arrest table.
type Row struct {
	Name          string
	Charges       []string
	BookingNumber string
}

// Extractor builds arrest records from bulletin text or table rows.
type Extractor struct {
	defaults Defaults
	now      func() time.Time
	stamp    string
}

// New returns an Extractor; blank defaults fall back to Honolulu values.
func New(defaults Defaults) *Extractor {
	if defaults.Agency == "" {
		defaults.Agency = "Honolulu Police Department"
	}
	if defaults.County == "" {
		defaults.County = "Honolulu"
	}
	if defaults.Location == "" {
		defaults.Location = "Honolulu, HI"
	}
	if defaults.ChargePlaceholder == "" {
		defaults.ChargePlaceholder = "Charges pending"
	}
	if defaults.IDPrefix == "" {
		defaults.IDPrefix = "ARR"
	}
	return &Extractor{defaults: defaults, now: time.Now}
}

// ForBulletin returns a copy whose generated booking numbers derive from ref
// instead of the clock, so re-reading the same bulletin yields the same ids.
// The publication date is used when known, otherwise a hash of the URL.
func (e *Extractor) ForBulletin(ref domain.BulletinReference) *Extractor {
	scoped := *e
	scoped.stamp = bulletinStamp(ref)
	return &scoped
}

func bulletinStamp(ref domain.BulletinReference) string {
	if ref.DateFound && !ref.PublishedAt.IsZero() {
		return strconv.FormatInt(ref.PublishedAt.UnixMilli(), 10)
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(ref.URL))
	return strconv.FormatUint(h.Sum64(), 16)
}

// draft accumulates one record between name lines.
type draft struct {
	name     string
	booking  string
	date     time.Time
	clock    string
	age      *int
	address  string
	charges  []string
	location string
}

// Extract scans text line by line and returns records in document order.
func (e *Extractor) Extract(text string) []domain.ArrestRecord {
	batch := e.newBatch()

	var cur *draft
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		c := classify(line, cur)
		switch c.kind {
		case lineName:
			if cur != nil {
				batch.add(*cur)
			}
			cur = &draft{name: c.value}
		case lineBooking:
			cur.booking = c.value
		case lineDate:
			cur.date = c.date
		case lineTime:
			cur.clock = c.value
		case lineAge:
			age := c.age
			cur.age = &age
		case lineAddress:
			cur.address = c.value
		case lineCharge:
			cur.charges = append(cur.charges, c.value)
		case lineLocation:
			cur.location = c.value
		}
	}
	if cur != nil {
		batch.add(*cur)
	}

	return batch.records
}

// FromRows finalizes table rows with the same defaults as Extract.
func (e *Extractor) FromRows(rows []Row) []domain.ArrestRecord {
	batch := e.newBatch()
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		var charges []string
		for _, c := range row.Charges {
			if c = strings.TrimSpace(c); c != "" {
				charges = append(charges, c)
			}
		}
		batch.add(draft{
			name:    name,
			booking: strings.TrimSpace(row.BookingNumber),
			charges: charges,
		})
	}
	return batch.records
}

type batch struct {
	defaults Defaults
	started  time.Time
	stamp    string
	records  []domain.ArrestRecord
}

func (e *Extractor) newBatch() *batch {
	b := &batch{defaults: e.defaults, started: e.now(), stamp: e.stamp}
	if b.stamp == "" {
		b.stamp = strconv.FormatInt(b.started.UnixMilli(), 10)
	}
	return b
}

func (b *batch) add(d draft) {
	b.records = append(b.records, b.finalize(d, len(b.records)))
}

func (b *batch) finalize(d draft, index int) domain.ArrestRecord {
	booking := d.booking
	if booking == "" {
		booking = fmt.Sprintf("%s-%s-%d", b.defaults.IDPrefix, b.stamp, index)
	}

	charges := d.charges
	if len(charges) == 0 {
		charges = []string{b.defaults.ChargePlaceholder}
	}

	date := d.date
	if date.IsZero() {
		y, m, day := b.started.Date()
		date = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}

	clock := d.clock
	if clock == "" {
		clock = defaultArrestTime
	}

	location := d.location
	if location == "" {
		location = b.defaults.Location
	}

	return domain.ArrestRecord{
		BookingNumber: booking,
		FullName:      d.name,
		ArrestDate:    date,
		ArrestTime:    clock,
		Location:      location,
		Charges:       charges,
		Agency:        b.defaults.Agency,
		County:        b.defaults.County,
		Status:        domain.ArrestStatusActive,
		Severity:      ClassifySeverity(strings.Join(charges, " ")),
		Age:           d.age,
		Address:       d.address,
	}
}
