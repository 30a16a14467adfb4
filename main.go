package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avelinof/linkup-be/internal/api"
	"github.com/avelinof/linkup-be/internal/api/handlers"
	"github.com/avelinof/linkup-be/internal/auth"
	"github.com/avelinof/linkup-be/internal/config"
	"github.com/avelinof/linkup-be/internal/database"
	"github.com/avelinof/linkup-be/internal/logger"
	"github.com/avelinof/linkup-be/internal/mailer"
	"github.com/avelinof/linkup-be/internal/services"
	"github.com/avelinof/linkup-be/internal/storage"
)

const sessionTTL = 3 * 24 * time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel, cfg.LogJSON)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the image store
	images, err := storage.NewImageStore(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image store")
	}

	// Set up services
	userService := services.NewUserService(db, images)
	connectionService := services.NewConnectionService(db)
	postService := services.NewPostService(db, images)

	// Session tokens; cookies are Secure whenever the client is on HTTPS
	secureCookies := strings.HasPrefix(cfg.ClientOrigin, "https://")
	tokens := auth.NewTokenManager(cfg.JWTSecret, sessionTTL, secureCookies)

	// Set up and run the background email dispatcher
	outbox := mailer.NewOutbox(db)
	dispatcher, err := mailer.NewDispatcher(outbox, mailer.NewAPIMailer(cfg), cfg.EmailFlushSchedule, cfg.EmailMaxAttempts)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid email flush schedule")
	}
	go dispatcher.Run()

	// Set up router
	authHandler := handlers.NewAuthHandler(userService, tokens, outbox, cfg.ClientOrigin)
	userHandler := handlers.NewUserHandler(userService, connectionService)
	postHandler := handlers.NewPostHandler(postService)
	router := api.NewRouter(tokens, authHandler, userHandler, postHandler, cfg.ClientOrigin)

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

	dispatcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
