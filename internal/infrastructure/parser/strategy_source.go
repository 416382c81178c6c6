package parser

import (
	"context"
	"fmt"
	"log/slog"

	"RecordsScanner/internal/config"
	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/ports"
	"RecordsScanner/internal/scanner"
)

// StrategySource binds one configured court source to its registered scanner strategy.
type StrategySource struct {
	site     config.CourtSourceConfig
	strategy scanner.Scanner
	logger   *slog.Logger
}

var _ ports.HearingSource = (*StrategySource)(nil)

// NewStrategySource resolves site.Scanner in the registry.
func NewStrategySource(reg *scanner.Registry, site config.CourtSourceConfig, log *slog.Logger) (*StrategySource, error) {
	if reg == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}
	strategy, err := reg.Resolve(site.Scanner)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", site.Name, err)
	}
	return &StrategySource{site: site, strategy: strategy, logger: log}, nil
}

// NewStrategySources resolves every configured source, keeping config order.
func NewStrategySources(reg *scanner.Registry, sites []config.CourtSourceConfig, log *slog.Logger) ([]ports.HearingSource, error) {
	sources := make([]ports.HearingSource, 0, len(sites))
	for _, site := range sites {
		src, err := NewStrategySource(reg, site, log)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// Name is the display label stamped on every record from this source.
func (s *StrategySource) Name() string {
	return s.site.Name
}

// Enabled reports the configured flag.
func (s *StrategySource) Enabled() bool {
	return s.site.Enabled
}

// Search forwards one name query to the strategy.
func (s *StrategySource) Search(ctx context.Context, q ports.HearingQuery) ([]domain.HearingRecord, error) {
	s.debug("search source", "source", s.site.Name, "scanner", s.site.Scanner, "query", q.Name)

	req := scanner.Request{
		SourceName: s.site.Name,
		URL:        s.site.URL,
		Query:      q.Name,
		State:      q.State,
		County:     q.County,
		Options:    s.site.Options,
	}
	return s.strategy.Search(ctx, req)
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
