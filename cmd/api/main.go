// Package main provides the entry point for the SchoolPortal API server
// @title SchoolPortal API
// @version 1.0
// @description School portal authentication and session-security API.
// @host localhost:8080
// @BasePath /
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"schoolportal/internal/api/routes"
	"schoolportal/internal/config"
	"schoolportal/internal/database"
	"schoolportal/internal/email"
	"schoolportal/internal/jobs"
	"schoolportal/internal/logging"
	"schoolportal/internal/ratelimit"
	"schoolportal/internal/repository/postgres"
	"schoolportal/internal/security"
	"schoolportal/internal/session"
	"schoolportal/internal/validation"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	flag.Parse()

	// Load environment file
	if err := godotenv.Load(*envFile); err != nil && *envFile == ".env" {
		log.Printf("Warning: %v", err)
	}

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize loggers
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Dev)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	auditLogger, err := logging.NewAuditLogger(cfg.SecurityLog.Path, cfg.SecurityLog.MaxAgeDays)
	if err != nil {
		logger.Fatal("Failed to initialize audit logger", zap.Error(err))
	}
	defer auditLogger.Sync()

	// Initialize database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.Database); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize validators
	validation.Initialize()

	// Initialize repositories and shared services
	userRepo := postgres.NewUserRepository(db)
	resetRepo := postgres.NewPasswordResetRepository(db)
	eventRepo := postgres.NewSecurityEventRepository(db)

	sessions := session.NewManager(cfg.Session.CookieSecure)
	limiter := ratelimit.NewStore()
	events := security.NewEventLogger(auditLogger, eventRepo)
	emailService := email.NewService(cfg.Email)
	defer emailService.Close()

	// Start background maintenance
	retention := time.Duration(cfg.SecurityLog.RetentionDays) * 24 * time.Hour
	cleanup := jobs.NewCleanup(resetRepo, eventRepo, sessions, limiter, retention, logger)
	if err := cleanup.Start(); err != nil {
		logger.Fatal("Failed to start maintenance jobs", zap.Error(err))
	}
	defer cleanup.Stop()

	// Setup routes
	router := routes.Setup(cfg, db, routes.Deps{
		UserRepo:  userRepo,
		ResetRepo: resetRepo,
		EventRepo: eventRepo,
		Sessions:  sessions,
		Limiter:   limiter,
		Events:    events,
		Email:     emailService,
		Logger:    logger,
	})

	// Create server with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.API.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.API.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
