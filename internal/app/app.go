// Package app wires configuration, storage, the ingestion pipeline and
// the HTTP server into runnable commands.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/config"
	"github.com/MrSnakeDoc/toolscout/internal/httpserver"
	"github.com/MrSnakeDoc/toolscout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolscout/internal/ingest"
	"github.com/MrSnakeDoc/toolscout/internal/logger"
	"github.com/MrSnakeDoc/toolscout/internal/redis"
	"github.com/MrSnakeDoc/toolscout/internal/scheduler"
	"github.com/MrSnakeDoc/toolscout/internal/store/cache"
	"github.com/MrSnakeDoc/toolscout/internal/store/sqlstore"
	"github.com/MrSnakeDoc/toolscout/internal/sweep"
	"github.com/MrSnakeDoc/toolscout/internal/version"
)

// App is the long-running serve mode: HTTP read API plus background
// ingestion and sweep schedulers.
type App struct {
	cfg            *config.Config
	logger         logger.Logger
	store          *sqlstore.Store
	cache          *cache.Cache
	server         *httpserver.Server
	ingestSchedule *scheduler.IngestScheduler
	sweepSchedule  *scheduler.SweepScheduler
}

// New builds the serve-mode application.
func New() (*App, error) {
	cfg, log, err := bootstrap()
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}

	// The cache is best effort. An unreachable Redis means serving
	// without it, never refusing to start.
	var toolCache *cache.Cache
	if cfg.RedisAddr != "" {
		client, err := redis.New(redis.ConnectOptions{
			Addr:     cfg.RedisAddr,
			User:     cfg.RedisUser,
			Password: cfg.RedisPassword,
			RedisDB:  cfg.RedisDB,
		}, log)
		if err != nil {
			log.Warn("redis unavailable, serving without cache", logger.Error(err))
		} else {
			toolCache = cache.New(client, cfg.CacheTTL)
		}
	}

	var flusher ingest.Flusher
	if toolCache != nil {
		flusher = toolCache
	}
	runner := buildRunner(cfg, store, flusher, log)
	sweeper := sweep.New(store, cfg.ProbeTimeout, log)

	ingestTrigger := make(chan struct{}, 1)
	ingestSchedule := scheduler.NewIngestScheduler(runner.Run, log, cfg.IngestInterval, ingestTrigger)
	sweepSchedule := scheduler.NewSweepScheduler(sweeper.Sweep, log, cfg.SweepInterval)

	d := deps.Deps{
		Logger:        log,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		Store:         store,
		Cache:         toolCache,
		IngestTrigger: ingestTrigger,
	}

	return &App{
		cfg:            cfg,
		logger:         log,
		store:          store,
		cache:          toolCache,
		server:         httpserver.New(cfg, log, d),
		ingestSchedule: ingestSchedule,
		sweepSchedule:  sweepSchedule,
	}, nil
}

// Run starts the schedulers and the HTTP server, then blocks until a
// termination signal or a server error.
func (a *App) Run() error {
	a.logger.Infof("toolscout %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.ingestSchedule.Start(ctx)
	a.logger.Info("ingest scheduler started",
		logger.Duration("interval", a.cfg.IngestInterval))

	a.sweepSchedule.Start(ctx)
	a.logger.Info("sweep scheduler started",
		logger.Duration("interval", a.cfg.SweepInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.ingestSchedule.Stop()
	a.sweepSchedule.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warnf("failed to close store: %v", err)
	}

	a.logger.Info("toolscout stopped cleanly")
	return nil
}

// RunIngest performs one complete ingestion run and exits. Source fetch
// failures are tolerated inside the run; only storage faults fail it.
func RunIngest() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return buildRunner(cfg, store, nil, log).Run(ctx)
}

// RunSweep performs one standalone liveness sweep and exits.
func RunSweep() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return sweep.New(store, cfg.ProbeTimeout, log).Sweep(ctx)
}

// bootstrap loads configuration (with the optional sources file) and
// builds the logger.
func bootstrap() (*config.Config, logger.Logger, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)

	if cfg.SourcesFile != "" {
		if err := config.LoadSourcesFile(cfg, cfg.SourcesFile); err != nil {
			return nil, nil, fmt.Errorf("failed to load sources file: %w", err)
		}
		log.Info("sources file loaded", logger.String("path", cfg.SourcesFile))
	}
	return cfg, log, nil
}

func openStore(cfg *config.Config, log logger.Logger) (*sqlstore.Store, error) {
	store, err := sqlstore.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = store.Close()
		return nil, err
	}
	log.Info("database ready", logger.String("url", cfg.DatabaseURL))
	return store, nil
}
