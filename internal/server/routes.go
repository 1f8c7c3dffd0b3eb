package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/roomsync/roomsync-backend/internal/auth"
	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/service"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.HelloWorldHandler)

	r.Get("/health", s.healthHandler)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.tokens, s.users))

		r.Route("/lists", func(r chi.Router) {
			r.Post("/", s.createListHandler)
			r.Post("/join", s.joinListHandler)
			r.Get("/", s.getListsHandler)
			r.Post("/{listID}/todos", s.addItemHandler)
			r.Get("/{listID}/todos", s.getItemsHandler)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Patch("/{todoID}/toggle", s.toggleTodoHandler)
			r.Patch("/{todoID}/complete", s.completeTodoHandler)
		})
	})

	return r
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World from RoomSync Backend!"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) createListHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateListRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	listResp, err := s.listService.CreateList(r.Context(), actorID(r), req)
	if err != nil {
		s.respondServiceError(w, err, "Failed to create list")
		return
	}

	respondWithJSON(w, http.StatusCreated, listResp)
}

func (s *Server) joinListHandler(w http.ResponseWriter, r *http.Request) {
	var req service.JoinListRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	listResp, err := s.listService.JoinList(r.Context(), actorID(r), req)
	if err != nil {
		s.respondServiceError(w, err, "Failed to join list")
		return
	}

	respondWithJSON(w, http.StatusOK, listResp)
}

func (s *Server) getListsHandler(w http.ResponseWriter, r *http.Request) {
	lists, err := s.listService.GetVisibleLists(r.Context(), actorID(r))
	if err != nil {
		s.respondServiceError(w, err, "Failed to retrieve lists")
		return
	}

	respondWithJSON(w, http.StatusOK, lists)
}

func (s *Server) addItemHandler(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	if listID == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid list ID provided")
		return
	}

	var req service.AddItemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	todoResp, err := s.todoService.AddItem(r.Context(), actorID(r), listID, req)
	if err != nil {
		s.respondServiceError(w, err, "Failed to add item")
		return
	}

	respondWithJSON(w, http.StatusCreated, todoResp)
}

func (s *Server) getItemsHandler(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	if listID == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid list ID provided")
		return
	}

	todos, err := s.todoService.GetItems(r.Context(), actorID(r), listID)
	if err != nil {
		s.respondServiceError(w, err, "Failed to retrieve items")
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) toggleTodoHandler(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "todoID")
	if todoID == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid todo ID provided")
		return
	}

	todoResp, err := s.todoService.ToggleCompletion(r.Context(), actorID(r), todoID)
	if err != nil {
		s.respondServiceError(w, err, "Failed to toggle item")
		return
	}

	respondWithJSON(w, http.StatusOK, todoResp)
}

func (s *Server) completeTodoHandler(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "todoID")
	if todoID == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid todo ID provided")
		return
	}

	todoResp, err := s.todoService.MarkCompleted(r.Context(), actorID(r), todoID)
	if err != nil {
		s.respondServiceError(w, err, "Failed to complete item")
		return
	}

	respondWithJSON(w, http.StatusOK, todoResp)
}

// actorID pulls the authenticated user out of the request context. Empty
// when the auth middleware did not run; services reject that as
// unauthenticated.
func actorID(r *http.Request) string {
	if actor, ok := auth.ActorFromContext(r.Context()); ok {
		return actor.ID
	}
	return ""
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConstraintViolation):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Error calling service: %v", err)
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// decodeJSONBody decodes a request body into dst and writes the appropriate
// 4xx/5xx response itself when decoding fails. Returns false in that case.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &syntaxError) {
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	} else if errors.Is(err, io.ErrUnexpectedEOF) {
		msg := "Request body contains badly-formed JSON"
		respondWithError(w, http.StatusBadRequest, msg)
	} else if errors.As(err, &unmarshalTypeError) {
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	} else if strings.HasPrefix(err.Error(), "json: unknown field ") {
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		msg := fmt.Sprintf("Request body contains unknown field %s", fieldName)
		respondWithError(w, http.StatusBadRequest, msg)
	} else if errors.Is(err, io.EOF) {
		msg := "Request body must not be empty"
		respondWithError(w, http.StatusBadRequest, msg)
	} else {
		log.Printf("Error decoding request body: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Error processing request")
	}
	return false
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
