package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/roomsync/roomsync-backend/internal/auth"
	"github.com/roomsync/roomsync-backend/internal/config"
	"github.com/roomsync/roomsync-backend/internal/database"
	"github.com/roomsync/roomsync-backend/internal/repository"
	"github.com/roomsync/roomsync-backend/internal/service"
)

type Server struct {
	port        int
	listService service.ListService
	todoService service.TodoService
	users       repository.UserRepository
	tokens      *auth.TokenManager
	db          database.Service
}

func NewServer(
	cfg *config.Config,
	listService service.ListService,
	todoService service.TodoService,
	users repository.UserRepository,
	tokens *auth.TokenManager,
	dbService database.Service,
) *http.Server {
	port, err := strconv.Atoi(cfg.Server.Port)
	if err != nil {
		fmt.Printf("Warning: Invalid port '%s'. Using default 8080. Error: %v", cfg.Server.Port, err)
		port = 8080
	}

	appServer := &Server{
		port:        port,
		listService: listService,
		todoService: todoService,
		users:       users,
		tokens:      tokens,
		db:          dbService,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
