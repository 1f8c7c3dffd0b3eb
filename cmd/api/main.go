package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/roomsync/roomsync-backend/internal/auth"
	"github.com/roomsync/roomsync-backend/internal/config"
	"github.com/roomsync/roomsync-backend/internal/database"
	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/repository"
	"github.com/roomsync/roomsync-backend/internal/server"
	"github.com/roomsync/roomsync-backend/internal/service"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server gets 5 seconds to finish the requests it is currently
	// handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if dbService != nil {
		log.Info().Msg("Closing database connection pool...")
		if err := dbService.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection pool")
		}
	}

	log.Info().Msg("Server exiting")

	done <- true
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	dbService, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	gormDB := dbService.GetDB()

	// Auto-migrate schema (use cautiously in production; run via a separate
	// migration command there).
	log.Info().Msg("Running database auto-migration...")
	err = gormDB.AutoMigrate(
		&domain.User{},
		&domain.TodoList{},
		&domain.TodoListMember{},
		&domain.Todo{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to auto-migrate database")
	}
	log.Info().Msg("Database auto-migration complete.")

	listRepo := repository.NewGormListRepository(gormDB)
	todoRepo := repository.NewGormTodoRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)

	listService := service.NewListService(listRepo)
	todoService := service.NewTodoService(todoRepo)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireHour)

	chiServer := server.NewServer(cfg, listService, todoService, userRepo, tokens, dbService)

	done := make(chan bool, 1)

	go gracefulShutdown(chiServer, dbService, done)

	log.Info().Str("addr", chiServer.Addr).Msg("Starting server")
	err = chiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("HTTP server ListenAndServe error")
	}

	<-done
	log.Info().Msg("Graceful shutdown complete.")
}
