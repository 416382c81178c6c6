// Package httpapi exposes the resolver and arrest ingestion to the CRUD application as JSON.
package httpapi

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/ports"
	"RecordsScanner/internal/usecase"
)

// HearingLookup runs and lists court-date searches.
type HearingLookup interface {
	Lookup(ctx context.Context, fullName string, opts usecase.ResolveOptions) usecase.ResolveResult
	Stored(ctx context.Context, subject string) ([]domain.HearingRecord, error)
}

// IngestRunner triggers one arrest-log ingestion.
type IngestRunner interface {
	Run(ctx context.Context) (usecase.IngestReport, error)
}

// Deps wires the use cases served over HTTP. Nil members disable their routes' work.
type Deps struct {
	Lookup    HearingLookup
	Ingest    IngestRunner
	Arrests   ports.ArrestRepository
	Logger    *slog.Logger
	AccessLog bool
}

// New builds the fiber app with every route registered.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "RecordsScanner",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(deps.Logger),
	})

	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}

	h := &handlers{lookup: deps.Lookup, ingest: deps.Ingest, arrests: deps.Arrests, logger: deps.Logger}

	app.Get("/health", h.health)

	api := app.Group("/api")
	api.Post("/court-dates/search", h.searchCourtDates)
	api.Get("/court-dates", h.storedCourtDates)
	api.Post("/arrests/ingest", h.runIngest)
	api.Get("/arrests", h.recentArrests)

	return app
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError && log != nil {
			log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
