package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"RecordsScanner/internal/ports"
)

// Scheduler wires the interval driver with the ingestion use case.
type Scheduler struct {
	driver   ports.Scheduler
	ingestor *Ingestor
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring ingestion.
func NewScheduler(driver ports.Scheduler, ingestor *Ingestor, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, ingestor: ingestor, logger: log}
}

// Start registers ingestion with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.ingestor == nil {
		return nil
	}

	job := func(trigger time.Time) {
		report, err := s.ingestor.Run(ctx)
		if s.logger == nil {
			return
		}
		switch {
		case errors.Is(err, ErrRunInProgress):
			s.logger.Info("scheduled ingestion skipped", "trigger", trigger, "reason", err)
		case err != nil:
			s.logger.Error("scheduled ingestion failed", "trigger", trigger, "error", err)
		default:
			s.logger.Info("scheduled ingestion", "trigger", trigger, "run", report.RunID, "summary", report.Summary())
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
