package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/auth"
	"github.com/vcisolabs/vciso-engine/pkg/config"
	"github.com/vcisolabs/vciso-engine/pkg/database"
	"github.com/vcisolabs/vciso-engine/pkg/handlers"
	"github.com/vcisolabs/vciso-engine/pkg/llm"
	"github.com/vcisolabs/vciso-engine/pkg/middleware"
	"github.com/vcisolabs/vciso-engine/pkg/repositories"
	"github.com/vcisolabs/vciso-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

//go:embed migrations/*.sql
var migrationFiles embed.FS

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", cfg.Database.Database),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("ai_model", cfg.AI.Model))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Migrations run over database/sql; the pool below uses pgx directly.
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, migrationFiles, "migrations", logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	conversationRepo := repositories.NewConversationRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Completion provider
	provider, err := llm.NewProvider(&cfg.AI, logger)
	if err != nil {
		logger.Fatal("Failed to create completion provider", zap.Error(err))
	}

	// Services
	completionService := services.NewCompletionService(provider, logger)
	notificationService := services.NewNotificationService(notificationRepo, logger)

	// Auth
	verifier, err := auth.NewVerifier(&auth.VerifierConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSURL:            cfg.Auth.JWKSURL,
	})
	if err != nil {
		logger.Fatal("Failed to create token verifier", zap.Error(err))
	}
	authMiddleware := auth.NewMiddleware(verifier, logger)

	// Handlers
	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewChatHandler(completionService, conversationRepo, messageRepo, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewDocumentHandler(completionService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewNotificationHandler(notificationService, logger).RegisterRoutes(mux, authMiddleware)

	middleware.InitMetrics(cfg.Version, cfg.Env)
	mux.Handle("GET /metrics", middleware.MetricsHandler())

	rateLimiter := middleware.NewRateLimiter(cfg.Chat.RateLimitPerSecond, cfg.Chat.RateLimitBurst)

	var handler http.Handler = mux
	handler = rateLimiter.Limit(handler)
	handler = middleware.Instrument(handler)
	handler = middleware.CORS(nil)(handler)
	handler = middleware.RequestLogger(logger)(handler)

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting vciso-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}

// newLogger builds the root logger for the configured environment.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
