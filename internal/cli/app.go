package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/sandeepkv93/vitalday/internal/config"
	"github.com/sandeepkv93/vitalday/internal/logging"
	"github.com/sandeepkv93/vitalday/internal/planner"
	"github.com/sandeepkv93/vitalday/internal/source"
	"github.com/sandeepkv93/vitalday/internal/storage"
	"github.com/sandeepkv93/vitalday/internal/tracker"
	"go.uber.org/zap"
)

type app struct {
	cfg      config.Config
	logger   *zap.Logger
	repo     storage.Repository
	provider *source.Provider
	tracker  *tracker.Tracker
	table    planner.Table
	now      func() time.Time
	close    func() error
}

// openApp resolves configuration and opens every backing service. The TUI
// logs to a file so log lines never land on the alternate screen.
func openApp(ctx context.Context, flags *globalFlags, opts Options, forTUI bool) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.user != "" {
		cfg.User = flags.user
	}
	if flags.db != "" {
		cfg.DBPath = flags.db
	}
	if flags.catalog != "" {
		cfg.CatalogPath = flags.catalog
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logFile, level := cfg.LogFile, cfg.LogLevel
	if forTUI && logFile == "" {
		logFile = config.DefaultLogFile()
	}
	if !forTUI && logFile == "" && (level == "debug" || level == "info") {
		level = "warn"
	}
	logger, err := logging.New(level, logFile)
	if err != nil {
		return nil, err
	}

	table, err := planner.NewTable(cfg.WindowVariant)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, table: table, now: opts.Now}
	closers := []func() error{func() error { _ = logger.Sync(); return nil }}

	if flags.ephemeral {
		a.repo = storage.NewMemoryRepository()
		logger.Debug("using in-memory store")
	} else {
		repo, err := storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			_ = logger.Sync()
			return nil, err
		}
		a.repo = repo
		closers = append(closers, repo.Close)
	}
	a.close = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	cat, err := loadCatalog(ctx, cfg.CatalogPath, logger)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	a.provider = source.NewProvider(cat, cfg.Locale)
	a.tracker, err = tracker.New(a.repo, a.provider, cfg.User, tracker.WithLogger(logger), tracker.WithClock(opts.Now))
	if err != nil {
		_ = a.close()
		return nil, err
	}
	logger.Debug("app ready",
		zap.String("user", cfg.User), zap.String("db", cfg.DBPath),
		zap.String("catalog", cfg.CatalogPath), zap.String("config", cfg.File))
	return a, nil
}

// loadCatalog treats a missing catalog as an empty one so a fresh install
// still starts.
func loadCatalog(ctx context.Context, path string, logger *zap.Logger) (source.Catalog, error) {
	cat, err := source.Load(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("catalog not found, starting empty", zap.String("path", path))
		return source.Catalog{}, nil
	}
	if err != nil {
		return source.Catalog{}, fmt.Errorf("load catalog %s: %w", path, err)
	}
	for _, w := range cat.Warnings {
		logger.Warn("catalog warning", zap.String("detail", w))
	}
	return cat, nil
}

// withApp opens the app for one CLI command and closes it afterwards.
func withApp(ctx context.Context, flags *globalFlags, opts Options, fn func(*app) error) (err error) {
	a, err := openApp(ctx, flags, opts, false)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
