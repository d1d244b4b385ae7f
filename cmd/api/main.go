package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/gatherly/internal/config"
	"github.com/joshua-takyi/gatherly/internal/connect"
	"github.com/joshua-takyi/gatherly/internal/container"
	"github.com/joshua-takyi/gatherly/internal/helpers"
	"github.com/joshua-takyi/gatherly/internal/models"
	"github.com/joshua-takyi/gatherly/internal/routes"
	"github.com/joshua-takyi/gatherly/internal/services"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg)
	logger.Info("Starting Gatherly API server", "environment", cfg.Environment, "store", cfg.StoreBackend)

	ctx := context.Background()

	store, err := connect.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open event store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}

	validator, err := helpers.NewTokenValidator(ctx, cfg.JWKSURL, cfg.JWTSecret)
	if err != nil {
		logger.Error("Failed to initialize token validator", "error", err)
		os.Exit(1)
	}

	var sessions models.SessionRepo
	if cfg.HasSupabase() {
		supaClient, err := connect.InitSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			logger.Error("Failed to connect to Supabase", "error", err)
			os.Exit(1)
		}
		sessions = models.SupabaseNewRepo(supaClient)
		logger.Info("Connected to Supabase successfully")
	}

	var images services.ImageUploader
	if cfg.HasCloudinary() {
		cld, err := connect.CloudinaryCredentials(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Error("Failed to connect to Cloudinary", "error", err)
			os.Exit(1)
		}
		images = helpers.NewCloudinaryUploader(cld, helpers.EventsFolder)
		logger.Info("Cloudinary image uploads enabled")
	}

	// Initialize dependency container
	appContainer := container.NewContainer(logger, cfg, store, validator, sessions, images)

	// Setup routes
	router := routes.SetupRoutes(appContainer)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	validator.Close()
	if err := store.Close(); err != nil {
		logger.Error("Error closing event store", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})
	}

	return slog.New(handler)
}
