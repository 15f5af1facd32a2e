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

	"github.com/quranhifz/hifzd/internal/api"
	"github.com/quranhifz/hifzd/internal/command"
	"github.com/quranhifz/hifzd/internal/highlight"
	"github.com/quranhifz/hifzd/internal/layout"
	"github.com/quranhifz/hifzd/internal/mcpserver"
	"github.com/quranhifz/hifzd/internal/mushaf"
	"github.com/quranhifz/hifzd/internal/quranapi"
	"github.com/quranhifz/hifzd/internal/sse"
	"github.com/quranhifz/hifzd/internal/store"
	"github.com/quranhifz/hifzd/internal/studyservice"
	"github.com/quranhifz/hifzd/internal/versecache"
)

// pageEventThrottle caps how often page.changed events reach SSE clients.
const pageEventThrottle = 100 * time.Millisecond

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("edition", cfg.Edition.ID),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("cache_backend", cfg.Cache.Backend),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Verse cache backend.
	var kv versecache.KV
	switch cfg.Cache.Backend {
	case CacheBackendRedis:
		redisKV, err := versecache.NewRedisKV(cfg.Cache.RedisURI)
		if err != nil {
			return fmt.Errorf("init redis cache: %w", err)
		}
		defer redisKV.Close()
		kv = redisKV
	default:
		kv = versecache.NewMemoryKV()
	}

	fetcher := quranapi.NewClient(cfg.Upstream.BaseURL)
	verses := versecache.New(fetcher, kv, logger)

	rebuilder, err := mushaf.NewRebuilder(verses, cfg.Edition.ID, logger)
	if err != nil {
		return fmt.Errorf("init rebuilder: %w", err)
	}

	// SQLite store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// SSE broker doubles as the highlight drawing surface.
	broker := sse.NewBroker(pageEventThrottle)
	defer broker.Close()

	// Recorded word timings, optional.
	var timings *highlight.Registry
	if cfg.Timings.Dir != "" {
		timings, err = highlight.NewRegistry(cfg.Timings.Dir, logger)
		if err != nil {
			return fmt.Errorf("init timing registry: %w", err)
		}
	}

	fp := rebuilder.Fingerprint()
	grid := layout.GridFromFingerprint(fp, layout.DefaultGrid().PageWidth, layout.DefaultGrid().PageHeight)

	svc := studyservice.NewService(studyservice.Deps{
		Rebuilder:   rebuilder,
		Verses:      verses,
		Index:       store.NewVerseRepo(db),
		Cards:       store.NewFlashcardRepo(db),
		Annotations: store.NewAnnotationRepo(db),
		History:     command.NewStack(),
		Notifier:    broker,
		Grid:        grid,
		Logger:      logger,
		Surface:     broker,
		Timings:     timings,
	})
	defer svc.StopPlayback(context.Background())

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the timing directory for new or updated recordings.
	if timings != nil && cfg.Timings.Watch {
		g.Go(func() error {
			if err := highlight.Watch(gCtx, timings, logger); err != nil {
				logger.Warn("timing watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// MCP server on stdio, when requested.
	if app.mcpStdio {
		g.Go(func() error {
			logger.Info("Starting MCP server on stdio")
			if err := mcpserver.New(svc).ServeStdio(); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
