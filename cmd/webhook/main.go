// Package main is the entry point for the webhook server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/capitalize-ai/datastore-webhooks/internal/config"
	"github.com/capitalize-ai/datastore-webhooks/internal/discovery"
	"github.com/capitalize-ai/datastore-webhooks/internal/events"
	"github.com/capitalize-ai/datastore-webhooks/internal/handler"
	"github.com/capitalize-ai/datastore-webhooks/internal/middleware"
	"github.com/capitalize-ai/datastore-webhooks/internal/service"
	"github.com/capitalize-ai/datastore-webhooks/pkg/logger"
	"github.com/capitalize-ai/datastore-webhooks/pkg/tracing"
)

const serviceName = "datastore-webhooks"

func main() {
	// A missing .env file is fine; the environment may be set by the platform.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	log.Info("starting webhook server", zap.String("datastore_id", cfg.DataStoreID))

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, serviceName, cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	searchOptions, err := discovery.LoadSearchOptions(cfg.SearchConfigFile)
	if err != nil {
		log.Fatal("failed to load search options", zap.String("path", cfg.SearchConfigFile), zap.Error(err))
	}

	httpClient, err := discovery.NewHTTPClient(ctx, cfg.DiscoveryAccessToken, cfg.DiscoveryTimeout)
	if err != nil {
		log.Fatal("failed to create backend credentials", zap.Error(err))
	}

	backend, err := discovery.New(discovery.Config{
		DataStoreID: cfg.DataStoreID,
		Endpoint:    cfg.DiscoveryEndpoint,
		APIVersion:  cfg.DiscoveryAPIVersion,
		Options:     searchOptions,
		HTTPClient:  httpClient,
	}, log)
	if err != nil {
		log.Fatal("failed to create backend client", zap.Error(err))
	}

	// Turn events are optional.
	var (
		publisher events.Publisher = events.NoopPublisher{}
		natsCheck handler.ConnectionChecker
	)
	if cfg.NATSURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		natsClient, err := events.Connect(connectCtx, events.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err == nil {
			err = events.EnsureStream(connectCtx, natsClient.JetStream())
			if err != nil {
				natsClient.Close()
			}
		}
		cancel()
		if err != nil {
			log.Fatal("failed to set up turn events", zap.Error(err))
		}
		defer natsClient.Close()

		publisher = events.NewJetStreamPublisher(natsClient.JetStream())
		natsCheck = natsClient
	}

	searchSvc := service.NewSearchService(backend, cfg.SearchMaxResults, log)
	answerSvc := service.NewAnswerService(backend, cfg.AnswerRelated, log)
	conversationSvc := service.NewConversationService(backend, log)

	healthHandler := handler.NewHealthHandler(natsCheck, log)
	webhookHandler := handler.NewWebhookHandler(searchSvc, answerSvc, conversationSvc, publisher, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.WebhookJWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Get("/search", webhookHandler.Search)
		r.Post("/search", webhookHandler.Search)
		r.Get("/answer", webhookHandler.Answer)
		r.Post("/answer", webhookHandler.Answer)
		r.Get("/conversation", webhookHandler.Conversation)
		r.Post("/conversation", webhookHandler.Conversation)
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      otelhttp.NewHandler(r, serviceName),
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	webhookHandler.Wait()

	log.Info("server stopped")
}

func newLogger(level string) (*logger.Logger, error) {
	if os.Getenv("ENV") == "development" {
		return logger.NewDevelopment()
	}
	return logger.New(level)
}
