// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/config"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/handler"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/history"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/llm"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/middleware"
	natsclient "github.com/emtechbytes-cpu/ThreadSmith/internal/nats"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/prompt"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/service"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/logger"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if err := prompt.CheckTables(); err != nil {
		log.Fatal("prompt tables are incomplete", zap.Error(err))
	}

	log.Info("starting API server",
		zap.String("provider", cfg.LLMProvider),
		zap.String("history_backend", cfg.HistoryBackend),
		zap.Bool("events_enabled", cfg.EventsEnabled),
		zap.Bool("auth_enabled", cfg.JWTSecret != ""),
	)

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "threadsmith", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS when events or the KV history backend need it
	var (
		natsClient    *natsclient.Client
		streamManager *natsclient.StreamManager
	)
	if cfg.NATSRequired() {
		natsClient, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()

		streamManager = natsclient.NewStreamManager(natsClient)
		if cfg.EventsEnabled {
			if err := streamManager.EnsureStream(ctx); err != nil {
				log.Fatal("failed to ensure stream", zap.Error(err))
			}
		}
	}

	// Open the history store
	store, closeStore, err := openHistory(ctx, cfg, streamManager)
	if err != nil {
		log.Fatal("failed to open history store", zap.String("backend", cfg.HistoryBackend), zap.Error(err))
	}
	defer closeStore()

	// Initialize the generation gateway; without a credential it degrades
	gateway, err := llm.New(ctx, llm.Settings{
		Provider:   llm.Provider(cfg.LLMProvider),
		APIKey:     cfg.APIKey(),
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
	})
	if err != nil {
		log.Fatal("failed to create generation gateway", zap.Error(err))
	}
	if !llm.Available(gateway) {
		log.Warn("no API key configured, generation features disabled", zap.String("provider", cfg.LLMProvider))
	}
	instrumented := llm.Instrument(gateway, log.Component("gateway"))

	// Initialize services
	var events service.EventPublisher = service.DiscardEvents
	if cfg.EventsEnabled {
		events = streamManager
	}
	sessionSvc := service.NewSessionService(log.Component("sessions"))
	historySvc := service.NewHistoryService(store, log.Component("history"))
	generator := service.NewGenerator(sessionSvc, instrumented, historySvc, events, log.Component("generator"))

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(instrumented, natsClient, store)
	api := &handler.Handlers{
		Sessions:   handler.NewSessionHandler(sessionSvc, log),
		Operations: handler.NewOperationHandler(generator, log),
		Stream:     handler.NewStreamHandler(generator, sessionSvc, log),
		History:    handler.NewHistoryHandler(historySvc),
	}
	if cfg.EventsEnabled {
		api.Events = handler.NewEventHandler(streamManager, log)
	}

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests*2, cfg.RateLimitWindow))
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.OwnerRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		api.Mount(r)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// openHistory opens the configured history backend and returns it with its
// close function.
func openHistory(ctx context.Context, cfg *config.Config, streams *natsclient.StreamManager) (history.Store, func(), error) {
	switch cfg.HistoryBackend {
	case config.HistoryBolt:
		store, err := history.OpenBolt(cfg.HistoryBoltPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil

	case config.HistoryPostgres:
		store, err := history.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.HistoryNATS:
		kv, err := streams.EnsureHistoryBucket(ctx, natsclient.HistoryBucket)
		if err != nil {
			return nil, nil, err
		}
		return history.NewKVStore(kv, streams.MaxPayload()), func() {}, nil

	default:
		return history.NewMemoryStore(), func() {}, nil
	}
}
