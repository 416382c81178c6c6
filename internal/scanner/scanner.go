package scanner

import (
	"context"
	"fmt"

	"RecordsScanner/internal/domain"
)

// Request carries everything a strategy needs to query one court source for one name.
type Request struct {
	SourceName string
	URL        string
	Query      string
	State      string
	County     string
	Options    map[string]string
}

// Option returns the named option or fallback when unset.
func (r Request) Option(key, fallback string) string {
	if v, ok := r.Options[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Scanner captures a single search strategy (HTML results table, JSON API, etc.).
type Scanner interface {
	Name() string
	Search(ctx context.Context, req Request) ([]domain.HearingRecord, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}
