package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"vocabquiz/internal/logging"
	"vocabquiz/internal/session"
	"vocabquiz/internal/wordbank"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// runServer loads the word bank, wires the session backend and serves
// until ctx is cancelled or a termination signal arrives.
func runServer(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	setLogger(logging.New(AppName, cfg.Env, cfg.LogLevel))
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logInfo("Starting %s in %s mode", AppName, map[bool]string{true: "production", false: "development"}[cfg.IsProduction()])

	bank, err := wordbank.LoadFile(cfg.WordsFile, wordbank.WithSampling(cfg.Sampling()))
	if err != nil {
		logFatal("Failed to load words: %v", err)
	}
	logInfo("Loaded %d words in %d buckets from %s (%d lines skipped, %s sampling)",
		bank.Len(), len(bank.BucketKeys()), cfg.WordsFile, bank.Skipped(), bank.Sampling())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	app := NewApp(cfg, bank, store, logger)
	session.StartCleanup(ctx, session.CleanerFunc(app.pruneLimiters), cfg.SessionCleanupInterval, cfg.RateLimitIdle,
		func(removed int, _ error) {
			if removed > 0 {
				logInfo("Dropped %d idle rate limiters", removed)
			}
		})
	return app.serve(ctx, app.setupRouter())
}

// newSessionStore builds the configured backend and starts its expiry sweeper.
func newSessionStore(ctx context.Context, cfg *Config) (session.Store, func(), error) {
	report := func(removed int, err error) {
		if err != nil {
			logWarn("Session cleanup finished with errors: %v", err)
		}
		if removed > 0 {
			logInfo("Session cleanup removed %d expired sessions", removed)
		}
	}

	switch cfg.SessionBackend {
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := session.NewRedisStore(client, cfg.SessionTimeout)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logInfo("Using Redis session store at %s", cfg.Redis.Addr)
		return store, func() { _ = client.Close() }, nil
	case BackendFile:
		store, err := session.NewFileStore(cfg.SessionDir, cfg.SessionTimeout)
		if err != nil {
			return nil, nil, err
		}
		session.StartCleanup(ctx, store, cfg.SessionCleanupInterval, cfg.SessionTimeout, report)
		logInfo("Using file session store in %s", cfg.SessionDir)
		return store, func() {}, nil
	default:
		store := session.NewMemoryStore()
		session.StartCleanup(ctx, store, cfg.SessionCleanupInterval, cfg.SessionTimeout, report)
		logInfo("Using in-memory session store")
		return store, func() {}, nil
	}
}

// setupRouter registers middleware, templates and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), app.requestIDMiddleware(), app.accessLogMiddleware())

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"}),
		ginGzip.WithExcludedPaths([]string{"/static/fonts", RouteMetrics})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(app.cacheHeadersMiddleware())

	router.SetFuncMap(template.FuncMap{
		"upper": strings.ToUpper,
	})
	if app.Config.IsProduction() && dirExists("dist") {
		logInfo("Serving assets from dist/ directory")
		router.LoadHTMLGlob("dist/templates/*.html")
		router.Static("/static", "./dist/static")
	} else {
		logInfo("Serving development assets from source directories")
		router.LoadHTMLGlob("templates/*.html")
		router.Static("/static", "./static")
	}

	router.GET(RouteHome, app.questionHandler)
	router.POST(RouteHome, app.rateLimitMiddleware(), app.answerHandler)
	router.GET(RouteReset, app.resetHandler)
	router.GET(RouteError, app.errorHandler)
	router.GET(RouteHealthz, app.healthzHandler)
	router.GET(RouteMetrics, app.Metrics.handler())

	return router
}

// serve runs the HTTP server until ctx is done, then shuts down gracefully.
func (app *App) serve(ctx context.Context, router *gin.Engine) error {
	srv := &http.Server{
		Addr:              app.Config.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logInfo("Server starting on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
		logInfo("Shutdown signal received, shutting down server gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logWarn("HTTP server Shutdown: %v", err)
		return err
	}
	logInfo("Server shutdown complete")
	return nil
}
