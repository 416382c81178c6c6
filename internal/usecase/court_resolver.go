package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/names"
	"RecordsScanner/internal/ports"
)

// ResolveOptions narrows one resolver run. State and County are forwarded to sources as hints.
type ResolveOptions struct {
	State      string `json:"state,omitempty"`
	County     string `json:"county,omitempty"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// ResolveResult is the aggregate outcome of searching every configured source.
type ResolveResult struct {
	Success         bool                   `json:"success"`
	HearingRecords  []domain.HearingRecord `json:"hearingRecords"`
	Errors          []string               `json:"errors"`
	SourcesSearched []string               `json:"sourcesSearched"`
}

// CourtResolverDeps wires the sources searched by the resolver.
type CourtResolverDeps struct {
	Sources       []ports.HearingSource
	PublicRecords ports.HearingSource
	Delay         time.Duration
	Defaults      ResolveOptions
	Logger        *slog.Logger
}

// CourtResolver searches court sources for a client's upcoming hearings.
type CourtResolver struct {
	sources       []ports.HearingSource
	publicRecords ports.HearingSource
	delay         time.Duration
	defaults      ResolveOptions
	logger        *slog.Logger
}

// NewCourtResolver constructs the resolver; sources are searched in the given order.
func NewCourtResolver(deps CourtResolverDeps) *CourtResolver {
	return &CourtResolver{
		sources:       deps.Sources,
		publicRecords: deps.PublicRecords,
		delay:         deps.Delay,
		defaults:      deps.Defaults,
		logger:        deps.Logger,
	}
}

// Resolve queries each enabled source with every name variant, then the
// public-records aggregator with the full name. A failing source is abandoned
// and reported once in Errors; the remaining sources still run.
func (r *CourtResolver) Resolve(ctx context.Context, fullName string, opts ResolveOptions) ResolveResult {
	opts = r.withDefaults(opts)
	fullName = strings.TrimSpace(fullName)

	result := ResolveResult{
		HearingRecords:  []domain.HearingRecord{},
		Errors:          []string{},
		SourcesSearched: []string{},
	}

	variants := names.Variants(fullName)
	limiter := r.newLimiter()

	type plan struct {
		source  ports.HearingSource
		queries []string
	}
	var plans []plan
	for _, src := range r.sources {
		if src != nil && src.Enabled() {
			plans = append(plans, plan{source: src, queries: variants})
		}
	}
	if r.publicRecords != nil && r.publicRecords.Enabled() && fullName != "" {
		plans = append(plans, plan{source: r.publicRecords, queries: []string{fullName}})
	}

	for _, p := range plans {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("search cancelled: %v", err))
			break
		}

		name := p.source.Name()
		result.SourcesSearched = append(result.SourcesSearched, name)

		found, err := r.searchSource(ctx, limiter, p.source, p.queries, opts)
		if err != nil && ctx.Err() != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("search cancelled: %v", ctx.Err()))
			break
		}
		if err != nil {
			r.warn("court source failed", "source", name, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		for _, rec := range found {
			result.HearingRecords = append(result.HearingRecords, finalizeHearing(rec, name, fullName))
		}
		r.debug("court source searched", "source", name, "records", len(found))
	}

	if opts.MaxResults > 0 && len(result.HearingRecords) > opts.MaxResults {
		result.HearingRecords = result.HearingRecords[:opts.MaxResults]
	}

	result.Success = !(len(result.Errors) > 0 && len(result.HearingRecords) == 0)
	return result
}

// searchSource runs every query against one source. Records are kept only
// when all queries succeed, so an abandoned source contributes nothing.
func (r *CourtResolver) searchSource(ctx context.Context, limiter *rate.Limiter, src ports.HearingSource, queries []string, opts ResolveOptions) ([]domain.HearingRecord, error) {
	var found []domain.HearingRecord
	for _, q := range queries {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		recs, err := src.Search(ctx, ports.HearingQuery{Name: q, State: opts.State, County: opts.County})
		if err != nil {
			return nil, err
		}
		found = append(found, recs...)
	}
	return found, nil
}

func (r *CourtResolver) newLimiter() *rate.Limiter {
	if r.delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(r.delay), 1)
}

func (r *CourtResolver) withDefaults(opts ResolveOptions) ResolveOptions {
	if opts.State == "" {
		opts.State = r.defaults.State
	}
	if opts.County == "" {
		opts.County = r.defaults.County
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = r.defaults.MaxResults
	}
	return opts
}

func finalizeHearing(rec domain.HearingRecord, source, queried string) domain.HearingRecord {
	rec.Source = source
	if strings.TrimSpace(rec.SubjectName) == "" {
		rec.SubjectName = queried
	}
	rec.Confidence = names.Confidence(rec.SubjectName, queried)
	rec.LowValue = !rec.HasDate() && strings.TrimSpace(rec.CaseNumber) == ""
	return rec
}

func (r *CourtResolver) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *CourtResolver) warn(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
