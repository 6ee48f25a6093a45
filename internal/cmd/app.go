package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/runger/launcher/internal/config"
	"github.com/runger/launcher/internal/content"
	"github.com/runger/launcher/internal/desktop"
	"github.com/runger/launcher/internal/engine"
	"github.com/runger/launcher/internal/history"
	"github.com/runger/launcher/internal/logging"
	"github.com/runger/launcher/internal/rates"
	"github.com/runger/launcher/internal/search"
	"github.com/runger/launcher/internal/storage"
)

// app holds what the launcher commands share: configuration, logger,
// database, index and engine.
type app struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
	logOut io.Closer

	store  *storage.SQLiteStore
	index  *desktop.Index
	pool   *ants.Pool
	engine *engine.Engine
	rates  *rates.Source
}

// loadConfig reads the config file named by --config, or the default
// one, and applies --debug.
func loadConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		path = config.DefaultPaths().ConfigFile()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if debugMode {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// configPath returns the config file in use.
func configPath() string {
	if configFile != "" {
		return configFile
	}
	return config.DefaultPaths().ConfigFile()
}

type appOptions struct {
	// logToFile sends logs to the log file even when log.file is unset,
	// keeping the terminal clean for the picker.
	logToFile bool
}

// newLogger opens the logger described by cfg.
func newLogger(cfg *config.Config, paths *config.Paths, opts appOptions) (*slog.Logger, io.Closer, error) {
	file := config.ExpandPath(cfg.Log.File)
	if file == "" && opts.logToFile {
		file = paths.LogFile()
	}
	return logging.Open(cfg.Log.Level, cfg.Log.Format, file)
}

// openApp loads the configuration, opens the database, builds the index
// and restores the history.
func openApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	paths := config.DefaultPaths()

	logger, logOut, err := newLogger(cfg, paths, opts)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, paths: paths, logger: logger, logOut: logOut}

	a.store, err = storage.NewSQLiteStore(paths.DatabaseFile())
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	dirs := cfg.Index.Dirs
	if len(dirs) == 0 {
		dirs = config.ApplicationDirs()
	} else {
		for i, d := range dirs {
			dirs[i] = config.ExpandPath(d)
		}
	}
	a.index = desktop.New(desktop.Config{
		Dirs:   dirs,
		Locale: cfg.Index.Locale,
		Icons:  desktop.NewThemeIcons(cfg.Index.IconTheme, iconRoots(dirs)),
		Logger: logger,
	})
	if err := a.index.Rebuild(ctx); err != nil {
		// An empty index still answers executables and smart content.
		logger.Warn("application index incomplete", "error", err)
	}

	a.pool, err = search.NewPool(cfg.Search.PoolSize)
	if err != nil {
		logger.Warn("matcher pool unavailable", "error", err)
	}
	searcher := search.NewSearcher(search.Config{
		Paths:  search.NewPathMatcher(logger),
		Pool:   a.pool,
		Logger: logger,
	})

	mode, err := content.ParseURLMode(cfg.Content.URLMode)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	classifier := content.NewClassifier(content.Options{
		URLMode:            mode,
		DynamicConversions: cfg.Content.DynamicConversions,
	}, nil)

	hist := history.Load(ctx, a.store, a.index, cfg.History.MaxEntries, logger)

	a.engine = engine.New(engine.Config{
		Index:                a.index,
		Searcher:             searcher,
		Classifier:           classifier,
		History:              hist,
		Store:                a.store,
		DefaultCurrency:      cfg.Content.DefaultCurrency,
		MinIncrementalPrefix: cfg.Search.IncrementalMinPrefix,
		MaxResults:           cfg.Search.MaxResults,
		Logger:               logger,
	})

	a.rates = rates.NewSource(rates.Config{
		BaseURL: cfg.Content.RatesURL,
		Timeout: time.Duration(cfg.Content.RatesTimeoutMs) * time.Millisecond,
		Cache:   a.store,
		Logger:  logger,
	})
	return a, nil
}

// iconRoots returns the data directories holding the given application
// directories, which is where icon themes live.
func iconRoots(appDirs []string) []string {
	roots := make([]string, 0, len(appDirs))
	for _, d := range appDirs {
		roots = append(roots, filepath.Dir(d))
	}
	return roots
}

// loadRates fetches currency rates (or reads today's cached copy) and
// hands them to the engine. It does nothing when currency conversion is
// disabled.
func (a *app) loadRates(ctx context.Context) error {
	if !a.cfg.Content.DynamicConversions {
		return nil
	}
	currencies, err := a.rates.Load(ctx, a.engine.DefaultCurrency())
	if err != nil {
		return err
	}
	a.engine.SetCurrencies(currencies)
	return nil
}

// close saves the history and releases everything openApp acquired.
func (a *app) close(ctx context.Context) {
	if a.engine != nil {
		if err := a.engine.Close(ctx); err != nil {
			logging.LogSQLiteError(a.logger, "save history", err)
		}
	}
	if a.pool != nil {
		a.pool.Release()
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.logOut != nil {
		a.logOut.Close()
	}
}
