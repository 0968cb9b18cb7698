package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lmoretti/sentiment-be/internal/api"
	"github.com/lmoretti/sentiment-be/internal/auth"
	"github.com/lmoretti/sentiment-be/internal/config"
	"github.com/lmoretti/sentiment-be/internal/content"
	"github.com/lmoretti/sentiment-be/internal/database"
	"github.com/lmoretti/sentiment-be/internal/logger"
	"github.com/lmoretti/sentiment-be/internal/ml"
	"github.com/lmoretti/sentiment-be/internal/monitoring"
	"github.com/lmoretti/sentiment-be/internal/services"
	"github.com/lmoretti/sentiment-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set; tokens are signed with an empty key")
	}
	auth.Init(cfg.JWTSecret)

	// Model artifacts are a deployment precondition; verify the directory
	// exists up front. Individual artifacts are still decoded per request.
	if _, err := os.Stat(cfg.ModelDir); err != nil {
		log.Fatal().Err(err).Str("model_dir", cfg.ModelDir).Msg("Model directory is not readable")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the model registry
	registry := ml.NewRegistry(cfg.Models)

	// Set up the content fetcher; without a configured base URL the
	// remote input mode stays disabled.
	var fetcher content.Fetcher = content.Disabled{}
	if cfg.FeedBaseURL != "" {
		fetcher = content.NewFeedClient(cfg.FeedBaseURL)
	} else {
		log.Warn().Msg("FEED_BASE_URL not set; remote feed analysis disabled")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	analysisService := services.NewAnalysisService(db, registry, fetcher, hub)
	watchService := services.NewWatchService(db)

	// Set up and run the background stats updater
	statUpdater := monitoring.NewStatUpdater(hub)
	go statUpdater.Run()

	// Set up and run the background watch scheduler
	scheduler := monitoring.NewScheduler(watchService, analysisService)
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(hub, userService, analysisService, watchService, statUpdater)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	statUpdater.Stop()
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
