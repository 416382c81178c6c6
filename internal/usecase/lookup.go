package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/ports"
)

// LookupService resolves a client's hearings and keeps what it finds.
type LookupService struct {
	resolver   *CourtResolver
	repository ports.HearingRepository
	logger     *slog.Logger
}

// NewLookupService wires the resolver with an optional repository.
func NewLookupService(resolver *CourtResolver, repo ports.HearingRepository, log *slog.Logger) *LookupService {
	return &LookupService{resolver: resolver, repository: repo, logger: log}
}

// Lookup runs the resolver once. A storage failure is appended to the
// result's errors; the hearing records are still returned.
func (s *LookupService) Lookup(ctx context.Context, fullName string, opts ResolveOptions) ResolveResult {
	result := s.resolver.Resolve(ctx, fullName, opts)

	if s.repository == nil || len(result.HearingRecords) == 0 {
		return result
	}

	stored, err := s.repository.SaveHearings(ctx, result.HearingRecords)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("persist: %v", err))
		if s.logger != nil {
			s.logger.Error("persist hearings", "subject", fullName, "error", err)
		}
		return result
	}
	if s.logger != nil {
		s.logger.Debug("hearings stored", "subject", fullName, "new", stored)
	}
	return result
}

// Stored returns previously persisted hearings for subject.
func (s *LookupService) Stored(ctx context.Context, subject string) ([]domain.HearingRecord, error) {
	if s.repository == nil {
		return []domain.HearingRecord{}, nil
	}
	return s.repository.HearingsFor(ctx, subject)
}
