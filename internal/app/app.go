package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"RecordsScanner/internal/config"
	"RecordsScanner/internal/domain"
	"RecordsScanner/internal/extract"
	"RecordsScanner/internal/httpapi"
	"RecordsScanner/internal/infrastructure/fetch"
	"RecordsScanner/internal/infrastructure/lock"
	"RecordsScanner/internal/infrastructure/parser"
	"RecordsScanner/internal/infrastructure/scheduler"
	"RecordsScanner/internal/infrastructure/storage"
	"RecordsScanner/internal/infrastructure/telegram"
	"RecordsScanner/internal/logging"
	"RecordsScanner/internal/ports"
	"RecordsScanner/internal/scanner"
	"RecordsScanner/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *storage.DB
	arrests  ports.ArrestRepository
	lookup   *usecase.LookupService
	ingestor *usecase.Ingestor
}

// New builds every adapter from cfg. Storage is optional: an empty DSN runs without persistence.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	client := fetch.New(&http.Client{}, cfg.HTTP.UserAgent)

	registry := scanner.NewRegistry()
	registry.Register(parser.NewCourtTableScanner(client, logging.Component(baseLogger, "scanner.table")))
	registry.Register(parser.NewPublicRecordsScanner(client, logging.Component(baseLogger, "scanner.json")))

	sourceLog := logging.Component(baseLogger, "source")
	sources, err := parser.NewStrategySources(registry, cfg.Courts.Sources, sourceLog)
	if err != nil {
		return nil, fmt.Errorf("court sources: %w", err)
	}

	var publicRecords ports.HearingSource
	if cfg.Courts.PublicRecords.Name != "" {
		publicRecords, err = parser.NewStrategySource(registry, cfg.Courts.PublicRecords, sourceLog)
		if err != nil {
			return nil, fmt.Errorf("public records source: %w", err)
		}
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	var hearings ports.HearingRepository
	if cfg.Database.DSN != "" {
		db, err := storage.Open(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.db = db
		a.arrests = storage.NewArrestRepository(db)
		hearings = storage.NewHearingRepository(db)
	}

	resolver := usecase.NewCourtResolver(usecase.CourtResolverDeps{
		Sources:       sources,
		PublicRecords: publicRecords,
		Delay:         cfg.Courts.Delay,
		Defaults: usecase.ResolveOptions{
			State:      cfg.Courts.State,
			County:     cfg.Courts.County,
			MaxResults: cfg.Courts.MaxResults,
		},
		Logger: logging.Component(baseLogger, "resolver"),
	})
	a.lookup = usecase.NewLookupService(resolver, hearings, logging.Component(baseLogger, "lookup"))

	var notifier ports.Notifier
	tg := telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	if tg.Configured() {
		notifier = tg
	}

	var runLock ports.RunLock
	if cfg.Scheduler.LockFile != "" {
		runLock = lock.NewRunLock(cfg.Scheduler.LockFile)
	}

	arrestLog := logging.Component(baseLogger, "arrests")
	a.ingestor = usecase.NewIngestor(usecase.IngestDeps{
		Locator:    parser.NewBulletinLocator(client, cfg.Arrests.IndexURL, arrestLog).WithTimeout(cfg.HTTP.IndexTimeout),
		Downloader: parser.NewDocumentLoader(client, arrestLog).WithTimeout(cfg.HTTP.DocumentTimeout),
		Table:      parser.NewArrestTable(client, cfg.Arrests.IndexURL, arrestLog),
		Extractor: extract.New(extract.Defaults{
			Agency:            cfg.Arrests.Agency,
			County:            cfg.Arrests.County,
			Location:          cfg.Arrests.DefaultLocation,
			ChargePlaceholder: cfg.Arrests.ChargePlaceholder,
			IDPrefix:          cfg.Arrests.IDPrefix,
		}),
		Repository:  a.arrests,
		Notifier:    notifier,
		Lock:        runLock,
		MinSeverity: domain.ParseSeverity(cfg.Notifications.Telegram.MinSeverity),
		Logger:      logging.Component(baseLogger, "ingest"),
	})

	return a, nil
}

// Close releases the database pool.
func (a *Application) Close() error {
	return a.db.Close()
}

// Ingest performs a single arrest-log ingestion run.
func (a *Application) Ingest(ctx context.Context) (usecase.IngestReport, error) {
	return a.ingestor.Run(ctx)
}

// Lookup performs a single court-date search for one client.
func (a *Application) Lookup(ctx context.Context, fullName string, opts usecase.ResolveOptions) usecase.ResolveResult {
	return a.lookup.Lookup(ctx, fullName, opts)
}

// Serve runs the HTTP API and the ingestion scheduler until ctx is cancelled or either fails.
func (a *Application) Serve(ctx context.Context, port string) error {
	if port == "" {
		port = a.cfg.Server.Port
	}

	api := httpapi.New(httpapi.Deps{
		Lookup:    a.lookup,
		Ingest:    a.ingestor,
		Arrests:   a.arrests,
		Logger:    logging.Component(a.logger, "http"),
		AccessLog: true,
	})
	sched := usecase.NewScheduler(
		scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval, a.cfg.Scheduler.Location()),
		a.ingestor,
		logging.Component(a.logger, "scheduler"),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http api listening", "port", port)
		if err := api.Listen(":" + port); err != nil {
			return fmt.Errorf("http api: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := sched.Start(gctx); err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
		<-gctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		stopErr := sched.Stop(stopCtx)
		shutdownErr := api.ShutdownWithContext(stopCtx)
		return errors.Join(stopErr, shutdownErr)
	})

	return g.Wait()
}
