package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/seminar-service/internal/auth"
	"github.com/SAP-F-2025/seminar-service/internal/config"
	"github.com/SAP-F-2025/seminar-service/internal/events"
	"github.com/SAP-F-2025/seminar-service/internal/handlers"
	"github.com/SAP-F-2025/seminar-service/internal/mailer"
	"github.com/SAP-F-2025/seminar-service/internal/pending"
	"github.com/SAP-F-2025/seminar-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/seminar-service/internal/services"
	"github.com/SAP-F-2025/seminar-service/internal/storage"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
	"github.com/SAP-F-2025/seminar-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	repo := repoManager.GetRepository()

	// Pending stores: Redis-backed when Redis is available so verification
	// sessions survive a restart of a single node, in-memory otherwise.
	var regStore pending.Store[services.RegistrationPayload]
	var resetStore pending.Store[services.ResetPayload]
	if redisClient != nil {
		regStore = pending.NewRedisStore[services.RegistrationPayload](redisClient, "pending:register")
		resetStore = pending.NewRedisStore[services.ResetPayload](redisClient, "pending:reset")
	} else {
		regStore = pending.NewMemoryStore[services.RegistrationPayload](pending.DefaultSweepInterval)
		resetStore = pending.NewMemoryStore[services.ResetPayload](pending.DefaultSweepInterval)
	}

	// File storage
	var fileStore storage.FileStore
	switch cfg.Storage.Type {
	case config.StorageS3:
		fileStore, err = storage.NewS3Store(context.Background(), cfg.Storage.S3)
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	default:
		fileStore, err = storage.NewLocalStore(cfg.Storage.UploadDir)
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
	}

	// Outbound email: bus + worker. Without SMTP configured the console
	// mailer logs the full message, which keeps OTP codes reachable in
	// development.
	bus := events.NewBus(slogLogger)
	var mail mailer.Mailer
	if cfg.SMTP.Enabled() {
		mail = mailer.NewSMTPMailer(cfg.SMTP)
	} else {
		logger.Warn("SMTP not configured, emails are logged to the console")
		mail = mailer.NewConsoleMailer(slogLogger)
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if err := mailer.NewWorker(bus, mail, slogLogger).Start(workerCtx); err != nil {
		log.Fatalf("Failed to start email worker: %v", err)
	}

	// Domain event publisher: Kafka when brokers are configured, log fallback
	// otherwise.
	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			log.Printf("Warning: Failed to initialize Kafka publisher: %v", err)
			publisher = events.NewLogPublisher(slogLogger)
		}
	} else {
		publisher = events.NewLogPublisher(slogLogger)
	}

	// Initialize services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:       repo,
		Tokens:     tokens,
		RegStore:   regStore,
		ResetStore: resetStore,
		Files:      fileStore,
		Bus:        bus,
		Publisher:  publisher,
		Validator:  validator.New(),
		Logger:     logger,
		OTPTTL:     cfg.OTPTTL,
	})

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, tokens, repo, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Setup middleware
	handlers.SetupMiddleware(router, logger, cfg.CORSOrigins)

	// Setup routes
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Stop the email worker, then flush the bus
	stopWorker()
	if err := bus.Close(); err != nil {
		log.Printf("Failed to close event bus: %v", err)
	}

	// Shutdown services (pending stores, event publisher)
	if err := serviceManager.Shutdown(); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	// Close database connection
	if err := repoManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown repositories: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
