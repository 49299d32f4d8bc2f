package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/CreativeDragon1/Earn2Die/internal/config"
	"github.com/CreativeDragon1/Earn2Die/internal/database"
	"github.com/CreativeDragon1/Earn2Die/internal/handlers"
	"github.com/CreativeDragon1/Earn2Die/internal/middleware"
	"github.com/CreativeDragon1/Earn2Die/internal/notifier"
	"github.com/CreativeDragon1/Earn2Die/internal/repositories"
	"github.com/CreativeDragon1/Earn2Die/internal/services"
	"github.com/CreativeDragon1/Earn2Die/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting Earn2Die server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Validate production security settings
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Telegram announcements are optional; unconfigured means silent
	announcer := notifier.New(cfg)

	playerRepo := repositories.NewPlayerRepository(db)
	townRepo := repositories.NewTownRepository(db)
	warRepo := repositories.NewWarRepository(db)
	tradeRepo := repositories.NewTradeRepository(db)
	legalRepo := repositories.NewLegalRepository(db)
	espionageRepo := repositories.NewEspionageRepository(db)

	router := &handlers.Router{
		Auth:        middleware.NewAuthenticator(playerRepo, cfg.JWTSecret),
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimitPerPlayer, cfg.RateLimitPerIP, time.Minute),

		Players:   handlers.NewPlayerHandler(services.NewPlayerService(playerRepo, townRepo)),
		Towns:     handlers.NewTownHandler(services.NewTownService(townRepo, playerRepo, announcer)),
		Wars:      handlers.NewWarHandler(services.NewWarService(warRepo, townRepo, announcer)),
		Trade:     handlers.NewTradeHandler(services.NewTradeService(tradeRepo)),
		Legal:     handlers.NewLegalHandler(services.NewLegalService(legalRepo, playerRepo, announcer)),
		Espionage: handlers.NewEspionageHandler(services.NewEspionageService(espionageRepo)),
	}

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router.Build(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
