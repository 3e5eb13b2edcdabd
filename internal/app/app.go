package app

import (
	"fmt"
	"os"

	"igpages/internal/archive"
	"igpages/internal/config"
	"igpages/internal/database"
	"igpages/internal/fs"
	"igpages/internal/render"

	"github.com/google/uuid"
)

// App is the application layer between the CLI and the archive Service.
// It constructs all dependencies from config and manages their lifecycle
// on Close.
type App struct {
	cfg     *config.Config
	store   *database.SQLiteStore
	service *archive.Service
	logFile *os.File
}

// NewApp creates a fully wired App from the given config. feedMonths
// overrides the configured feed window when positive. The caller must call
// Close when done.
func NewApp(cfg *config.Config, feedMonths int) (*App, error) {
	runID := uuid.New().String()
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	store, err := database.NewStoreFromConfig(cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	if err := store.CheckMigrations(); err != nil {
		store.Close()
		logFile.Close()
		return nil, fmt.Errorf("archive schema out of date: %w", err)
	}

	renderer, err := render.NewHTMLRenderer(cfg.TemplateDir)
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	if feedMonths <= 0 {
		feedMonths = cfg.Feed.Months
	}

	svc := archive.NewService(store, fs.NewOSFilesystem(), renderer,
		&slogAdapter{l: logger}, archive.RealClock{}, archive.Options{
			DataDir:         cfg.DataDir,
			OutputDir:       cfg.OutputDir,
			StaticDir:       cfg.StaticDir,
			ExcludeAccounts: cfg.ExcludeAccounts,
			FeedMonths:      feedMonths,
		})

	return &App{
		cfg:     cfg,
		store:   store,
		service: svc,
		logFile: logFile,
	}, nil
}

// Build renders the full site and returns the run summary.
func (a *App) Build() (*archive.RunSummary, error) {
	return a.service.BuildSite()
}

// ListAccounts returns the accounts in the archive store.
func (a *App) ListAccounts() ([]archive.Account, error) {
	return a.store.ListAccounts()
}

// Close closes the database and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
