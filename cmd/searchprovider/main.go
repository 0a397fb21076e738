package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchprovider"
	"github.com/kailas-cloud/searchprovider/internal/config"
	logpkg "github.com/kailas-cloud/searchprovider/internal/logger"
	"github.com/kailas-cloud/searchprovider/internal/metrics"
	"github.com/kailas-cloud/searchprovider/internal/settings"
	settingsRedis "github.com/kailas-cloud/searchprovider/internal/settings/redis"
	chiTransport "github.com/kailas-cloud/searchprovider/internal/transport/chi"
	"github.com/kailas-cloud/searchprovider/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting search provider API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("search_provider", cfg.Search.Provider),
		zap.String("scope", cfg.Search.Scope),
		zap.String("settings_driver", cfg.Settings.Driver),
	)

	ctx := context.Background()
	checks := make(map[string]chiTransport.HealthCheck)

	// Platform settings source
	var src settings.Source
	switch cfg.Settings.Driver {
	case config.SettingsDriverRedis:
		store, err := settingsRedis.NewStore(settingsRedis.Config{
			Addrs:     cfg.Settings.Redis.Addrs,
			Username:  cfg.Settings.Redis.Username,
			Password:  cfg.Settings.Redis.Password,
			DB:        cfg.Settings.Redis.DB,
			KeyPrefix: cfg.Settings.Redis.KeyPrefix,
		})
		if err != nil {
			logger.Fatal("Failed to create settings store", zap.Error(err))
		}
		defer store.Close()

		timeout := time.Duration(cfg.Settings.Redis.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			logger.Fatal("Settings store not ready", zap.Error(err))
		}
		logger.Info("Connected to settings store", zap.Strings("addrs", cfg.Settings.Redis.Addrs))
		checks["settings"] = store.Ping
		src = store
	default:
		src = settings.Static(cfg.Settings.Values)
	}

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	// The provider is only built when it is the active search provider.
	var provider chiTransport.SearchProvider
	if cfg.Search.IsEnabled() {
		p, err := searchprovider.New(
			searchprovider.WithAlgolia(cfg.Algolia.AppID, cfg.Algolia.APIKey),
			searchprovider.WithScope(cfg.Search.Scope),
			searchprovider.WithSettings(src),
			searchprovider.WithLogger(logger),
		)
		if err != nil {
			logger.Fatal("Failed to create search provider", zap.Error(err))
		}
		provider = p
		logger.Info("Search provider enabled", zap.String("app_id", cfg.Algolia.AppID))
	} else {
		logger.Info("Search provider disabled, index and search routes are not registered")
	}

	server := chiTransport.NewServer(provider, checks, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("document_type", chi.URLParam(r, "documentType")),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
