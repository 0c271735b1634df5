package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/recipegrid/internal/ctxlog"
	"github.com/specialistvlad/recipegrid/internal/journal"
	"github.com/specialistvlad/recipegrid/internal/objectstore"
	"github.com/specialistvlad/recipegrid/internal/registry"
	"github.com/specialistvlad/recipegrid/internal/storage"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	storage  *storage.Router
	journal  journal.Journal
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Program output such as the plan goes to outW and log records to logW.
// When no modules are given the core modules are registered.
//
// An invalid module set is a programmer error and panics.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := reg.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.", "algorithms", len(reg.Keys()))

	router, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var j journal.Journal = journal.Nop{}
	if cfg.JournalPath != "" {
		sqlJournal, err := journal.OpenSQLite(cfg.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		j = sqlJournal
		logger.Debug("Journal opened.", "path", cfg.JournalPath)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		storage:  router,
		journal:  j,
	}, nil
}

// newStorage mounts the backends for every supported location scheme. The
// s3 scheme is only available when an object store is configured. mem
// locations live for the lifetime of the App.
func newStorage(ctx context.Context, cfg *Config) (*storage.Router, error) {
	logger := ctxlog.FromContext(ctx)
	router := storage.NewRouter()

	web := &storage.HTTP{Client: http.DefaultClient}
	router.Handle("http", web)
	router.Handle("https", web)
	router.Handle("mem", storage.NewMemory())

	if cfg.S3.Enabled() {
		client, err := objectstore.NewMinIOClient(cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create object store client: %w", err)
		}
		router.Handle("s3", &storage.S3{Client: client})
		logger.Debug("Object store mounted.", "endpoint", cfg.S3.Endpoint)
	} else {
		logger.Debug("No object store configured, s3 locations are unavailable.")
	}
	return router, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Storage returns the application's storage router. This is primarily for
// testing.
func (a *App) Storage() *storage.Router {
	return a.storage
}

// Close releases the journal.
func (a *App) Close() error {
	return a.journal.Close()
}
