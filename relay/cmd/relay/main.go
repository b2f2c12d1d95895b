package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lotwire-systems/lotwire-relay/common/logging"
	"github.com/lotwire-systems/lotwire-relay/common/messaging"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/config"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/destclient"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/dlq"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/handlers"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/idempotency"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/middleware"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/server"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/service"

	natsclient "github.com/lotwire-systems/lotwire-relay/common/messaging/nats"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("relay"))
	logging.SetDefault(logger)

	slog.Info("Starting relay service",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	// Initialize idempotency cache
	var cache idempotency.Cache
	if cfg.Redis.URL != "" {
		log.Printf("Connecting idempotency cache: %s", cfg.Redis.URL)
		redisCache, err := idempotency.NewRedisCache(cfg.Redis.URL, cfg.Redis.TTL)
		if err != nil {
			log.Printf("WARNING: Failed to connect idempotency cache: %v", err)
			log.Println("Continuing without dedup; upstream redeliveries will re-forward")
			cache = idempotency.NoOpCache{}
		} else {
			cache = redisCache
			log.Printf("Idempotency cache enabled (ttl: %s)", cfg.Redis.TTL)
		}
	} else {
		cache = idempotency.NoOpCache{}
		log.Println("Redis not configured - duplicate deliveries will not be detected")
	}
	defer cache.Close()

	// Initialize dead letter queue
	var queue dlq.Queue
	var msgClient messaging.Client
	switch cfg.DLQ.Backend {
	case config.DLQBackendJetStream:
		// JetStream backend (supports multiple relay instances)
		jsClient, err := natsclient.NewJetStreamClient(natsclient.Config{
			URL: cfg.NATS.URL,
		})
		if err != nil {
			log.Fatalf("Failed to connect to NATS for DLQ: %v", err)
		}
		msgClient = jsClient
		jsQueue, err := dlq.NewJetStreamQueue(context.Background(), jsClient)
		if err != nil {
			log.Fatalf("Failed to initialize JetStream DLQ: %v", err)
		}
		queue = jsQueue
		log.Printf("Dead letter queue enabled (backend: jetstream, nats: %s)", cfg.NATS.URL)
	case config.DLQBackendFile:
		// File backend (single instance only, for development)
		fileQueue, err := dlq.NewFileQueue(cfg.DLQ.Path)
		if err != nil {
			log.Fatalf("Failed to initialize file DLQ: %v", err)
		}
		queue = fileQueue
		log.Printf("Dead letter queue enabled (backend: file, path: %s)", cfg.DLQ.Path)
		log.Println("WARNING: File-based DLQ does not support multiple relay instances")
	case config.DLQBackendNone:
		queue = dlq.Noop{}
		log.Println("Dead letter queue disabled - failed deliveries will not be preserved")
	}
	defer queue.Close()

	// Initialize destination client
	var dest *destclient.Client
	if cfg.Destination.URL != "" {
		dest = destclient.New(cfg.Destination.URL, cfg.Destination.APIKey, cfg.Destination.Timeout)
		log.Printf("Destination forwarding enabled: %s (timeout: %s)", cfg.Destination.URL, cfg.Destination.Timeout)
	} else {
		log.Println("Destination not configured - classified deliveries will not be forwarded")
	}

	// Initialize relay service
	relayService := service.NewRelayService(cache, queue, dest, msgClient)

	// Initialize HTTP handlers
	if cfg.Webhook.SigningSecret == "" {
		log.Println("WARNING: webhook signing secret not configured - intake accepts unsigned deliveries")
	}
	if cfg.Auth.JWTSecret == "" {
		log.Println("JWT secret not configured - admin endpoints disabled")
	}

	webhookHandler := handlers.NewWebhookHandler(relayService, cfg.Webhook.SigningSecret, cfg.Webhook.MaxBodyBytes)
	adminHandler := handlers.NewAdminHandler(queue)
	adminAuth := middleware.NewAdminAuth(cfg.Auth.JWTSecret)
	router := server.NewRouter(webhookHandler, adminHandler, adminAuth)

	// Create server with config values
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Relay service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
