package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/repository"
)

const maxTitleLength = 256

// AddItemRequest holds the data needed to add an item to a list.
type AddItemRequest struct {
	Title string `json:"title"`
}

// TodoResponse is the standard representation of an item returned by the
// service.
type TodoResponse struct {
	ID         string `json:"id"`
	TodoListID string `json:"todo_list_id"`
	Title      string `json:"title"`
	Completed  bool   `json:"completed"`
	CreatedBy  string `json:"created_by"`
	CreatedAt  string `json:"created_at"`
}

// TodoService defines the operations for managing items on shared lists.
type TodoService interface {
	// AddItem inserts a new, not-completed item into a list.
	AddItem(ctx context.Context, actorID, listID string, req AddItemRequest) (*TodoResponse, error)

	// GetItems retrieves every item of a list, newest first.
	GetItems(ctx context.Context, actorID, listID string) ([]TodoResponse, error)

	// ToggleCompletion flips an item's completed flag.
	ToggleCompletion(ctx context.Context, actorID, todoID string) (*TodoResponse, error)

	// MarkCompleted sets an item's completed flag to true unconditionally.
	MarkCompleted(ctx context.Context, actorID, todoID string) (*TodoResponse, error)
}

type todoService struct {
	todos repository.TodoRepository
}

// NewTodoService creates a new instance of todoService.
func NewTodoService(todos repository.TodoRepository) TodoService {
	return &todoService{todos: todos}
}

func (s *todoService) AddItem(ctx context.Context, actorID, listID string, req AddItemRequest) (*TodoResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if req.Title == "" {
		return nil, fmt.Errorf("item title cannot be empty: %w", domain.ErrInvalidInput)
	}
	if len(req.Title) > maxTitleLength {
		return nil, fmt.Errorf("item title exceeds %d characters: %w", maxTitleLength, domain.ErrInvalidInput)
	}

	exists, err := s.todos.ListExists(ctx, listID)
	if err != nil {
		log.Error().Err(err).Str("list", listID).Msg("checking list existence")
		return nil, fmt.Errorf("add item: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("list %s: %w", listID, domain.ErrNotFound)
	}

	// Membership is not checked: any authenticated user who knows the list's
	// internal id may add items. Matches the original behavior; tightening it
	// would change what existing clients can do.
	todo, err := s.todos.Create(ctx, listID, req.Title, actorID)
	if err != nil {
		log.Error().Err(err).Str("list", listID).Msg("creating item")
		return nil, fmt.Errorf("add item: %w", err)
	}

	resp := toTodoResponse(*todo)
	return &resp, nil
}

func (s *todoService) GetItems(ctx context.Context, actorID, listID string) ([]TodoResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}

	todos, err := s.todos.ListByList(ctx, listID)
	if err != nil {
		log.Error().Err(err).Str("list", listID).Msg("fetching items")
		return nil, fmt.Errorf("get items: %w", err)
	}

	responses := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, toTodoResponse(todo))
	}
	return responses, nil
}

func (s *todoService) ToggleCompletion(ctx context.Context, actorID, todoID string) (*TodoResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}

	todo, err := s.todos.Toggle(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("toggle completion: %w", err)
	}

	resp := toTodoResponse(*todo)
	return &resp, nil
}

func (s *todoService) MarkCompleted(ctx context.Context, actorID, todoID string) (*TodoResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}

	todo, err := s.todos.Complete(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}

	resp := toTodoResponse(*todo)
	return &resp, nil
}

func toTodoResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:         todo.ID,
		TodoListID: todo.TodoListID,
		Title:      todo.Title,
		Completed:  todo.Completed,
		CreatedBy:  todo.CreatedBy,
		CreatedAt:  todo.CreatedAt.Format(time.RFC3339),
	}
}
