// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/frontmatter"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/library"
	"github.com/starford/folio/internal/markdown"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (a *application) newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
}

// newStore builds the content provider selected by cfg. The returned FS is
// nil unless the site is read from local disk.
func newStore(cfg SiteConfig) (storage.Provider, *storage.FS, error) {
	if cfg.Source == SourceHTTP {
		h, err := storage.NewHTTP(cfg.BaseURL, cfg.FetchTimeout)
		if err != nil {
			return nil, nil, err
		}
		return h, nil, nil
	}
	fs, err := storage.NewFS(cfg.Root)
	if err != nil {
		return nil, nil, err
	}
	return fs, fs, nil
}

// NewLibrary wires storage, the markdown engine and the front matter parser
// described by cfg into a library service.
func NewLibrary(cfg *Config, logger *slog.Logger) (*library.Service, *storage.FS, error) {
	store, fs, err := newStore(cfg.Site)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	renderer, err := markdown.NewRenderer(cfg.Render.Engine)
	if err != nil {
		return nil, nil, fmt.Errorf("init renderer: %w", err)
	}
	lib := library.NewService(store, cfg.LibrarySections(),
		library.WithRenderer(renderer),
		library.WithExtractor(frontmatter.ForMode(cfg.Render.FrontMatter)),
		library.WithFields(cfg.Fields),
		library.WithConcurrency(cfg.Site.Concurrency),
		library.WithLogger(logger),
	)
	return lib, fs, nil
}

// RenderDocument converts a single markdown document with the configured
// engine, without touching the site.
func RenderDocument(cfg *Config, text string) (library.Rendered, error) {
	renderer, err := markdown.NewRenderer(cfg.Render.Engine)
	if err != nil {
		return library.Rendered{}, err
	}
	lib := library.NewService(nil, nil,
		library.WithRenderer(renderer),
		library.WithExtractor(frontmatter.ForMode(cfg.Render.FrontMatter)),
	)
	return lib.Render(text), nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := app.newLogger()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("source", cfg.Site.Source),
		slog.String("site_root", cfg.Site.Root),
		slog.String("base_url", cfg.Site.BaseURL),
		slog.String("engine", cfg.Render.Engine),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	lib, fs, err := NewLibrary(cfg, logger)
	if err != nil {
		return err
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if changes, err := index.Sync(ctx, db, lib, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	} else {
		logger.Info("initial sync done", slog.Int("changes", len(changes)))
	}

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	apiRouter := api.NewRouter(lib, db, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", healthHandler)
	r.Get("/health/ready", healthHandler)

	r.Mount("/api", apiRouter)

	// The site's own pages and assets.
	if fs != nil {
		r.Handle("/*", http.FileServer(http.Dir(fs.Root())))
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if fs != nil && cfg.Watch.Enabled {
		g.Go(func() error {
			err := index.Watch(gCtx, db, lib, fs.Root(), cfg.Watch.Debounce, logger, func(c index.Change) {
				broker.PublishArticleEvent(c.Kind, c.Section, c.Path)
			})
			if err != nil {
				logger.Warn("watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher exits with the server.
var errShutdown = errors.New("shutdown")

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// RunMCP serves the library over MCP on stdin/stdout. Logs go to stderr
// unless redirected with WithLogOutput.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.newLogger()
	slog.SetDefault(logger)

	lib, _, err := NewLibrary(cfg, logger)
	if err != nil {
		return err
	}

	var idx index.ArticleIndex
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		logger.Warn("index unavailable, search disabled", slog.String("error", err.Error()))
	} else {
		defer db.Close()
		if _, err := index.Sync(ctx, db, lib, logger); err != nil {
			logger.Warn("initial sync failed", slog.String("error", err.Error()))
		}
		idx = db
	}

	logger.Info("Starting MCP server on stdio", slog.String("version", app.version))
	return mcpserver.New(lib, idx, app.version).ServeStdio()
}
