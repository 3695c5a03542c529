package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/creditscope/credit-analyzer/constants"
	"github.com/creditscope/credit-analyzer/internal/analysis"
	"github.com/creditscope/credit-analyzer/internal/async"
	"github.com/creditscope/credit-analyzer/internal/common"
	"github.com/creditscope/credit-analyzer/internal/export"
	"github.com/creditscope/credit-analyzer/internal/ingest"
	"github.com/creditscope/credit-analyzer/internal/llm/openai"
	"github.com/creditscope/credit-analyzer/internal/merge"
	"github.com/creditscope/credit-analyzer/internal/pipeline"
	"github.com/creditscope/credit-analyzer/internal/raster"
	"github.com/creditscope/credit-analyzer/internal/recovery"
	"github.com/creditscope/credit-analyzer/internal/repository"
	"github.com/creditscope/credit-analyzer/internal/tracker"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("opening store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()
	logger.Info("store ready", "backend", storeBackend(cfg))

	extractor := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	rasterizer := raster.NewPopplerRasterizer(raster.Config{
		Pdftoppm: cfg.Raster.Pdftoppm,
		DPI:      cfg.Raster.DPI,
		MaxPages: cfg.Raster.MaxPages,
	}, logger)

	proc := pipeline.NewProcessor(logger,
		rasterizer,
		extractor,
		recovery.NewRecoverer(logger),
		merge.NewMerger(logger),
	)

	trk := tracker.New(logger, store, store, proc,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(cfg.Pipeline.QueueSize),
		async.WithProcessTimeout(cfg.Pipeline.ProcessTimeout),
	)

	// analysis + export services are wired here so operators can trigger a
	// workbook dump with SIGUSR1 without a separate process
	analyzer := analysis.NewService(store, logger)
	exporter := export.NewService(logger)
	go exportOnSignal(ctx, logger, analyzer, exporter)

	if len(cfg.Ingest.WatchDirs) > 0 {
		evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       cfg.Ingest.WatchDirs,
			InitialScan: cfg.Ingest.InitialScan,
			Debounce:    cfg.Ingest.Debounce,
		})
		if err != nil {
			logger.Error("starting watcher", "error", err)
			os.Exit(1)
		}
		logger.Info("watching for documents", "dirs", cfg.Ingest.WatchDirs)
		go drainWatchErrors(logger, errCh)
		go ingestLoop(ctx, logger, trk, evCh)
	} else {
		logger.Warn("WATCH_DIRS not set; no documents will be ingested")
	}

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	trk.Shutdown(shutdownCtx)
	logger.Info("stopped")
}

func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.Store, error) {
	if cfg.Database.DSN != "" {
		pg, err := repository.OpenPostgres(ctx, repository.PostgresConfig{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := pg.HealthCheck(ctx, cfg.Database.DialTimeout); err != nil {
			_ = pg.Close()
			return nil, err
		}
		return pg, nil
	}
	return repository.OpenSQLite(ctx, cfg.Database.Path, logger)
}

func storeBackend(cfg *common.Config) string {
	if cfg.Database.DSN != "" {
		return "postgres"
	}
	return "sqlite"
}

func ingestLoop(ctx context.Context, logger *slog.Logger, trk *tracker.Tracker, evCh <-chan string) {
	for path := range evCh {
		mimeType, ok := constants.MimeForExt(filepath.Ext(path))
		if !ok {
			logger.Warn("skipping unsupported file", "path", path)
			continue
		}
		id, err := trk.Enqueue(ctx, filepath.Base(path), path, mimeType)
		if err != nil {
			logger.Error("enqueue failed", "path", path, "error", err)
			continue
		}
		if err := trk.Start(ctx, id); err != nil {
			logger.Error("start failed", "job_id", id, "error", err)
		}
	}
}

func drainWatchErrors(logger *slog.Logger, errCh <-chan error) {
	for err := range errCh {
		logger.Error("ingest watcher", "error", err)
	}
}

// exportOnSignal writes an XLSX snapshot of all stored documents when the
// process receives SIGUSR1.
func exportOnSignal(ctx context.Context, logger *slog.Logger, analyzer *analysis.Service, exporter *export.Service) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGUSR1)
	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			result, err := analyzer.Analyze(ctx, nil)
			if err != nil {
				logger.Error("analysis failed", "error", err)
				continue
			}
			data, err := exporter.ExportAnalysisXLSX(result)
			if err != nil {
				logger.Error("export failed", "error", err)
				continue
			}
			name := "analysis-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
			if err := os.WriteFile(name, data, 0o644); err != nil {
				logger.Error("writing workbook", "path", name, "error", err)
				continue
			}
			logger.Info("wrote analysis workbook", "path", name)
		}
	}
}
