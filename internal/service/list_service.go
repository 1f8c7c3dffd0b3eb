package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/repository"
)

const maxNameLength = 256

// CreateListRequest holds the data needed to create a new shared list.
type CreateListRequest struct {
	Name string `json:"name"`
}

// JoinListRequest carries the public join token of the list to join.
type JoinListRequest struct {
	ShortID string `json:"short_id"`
}

// MemberResponse is one entry of a list's member array. Duplicate joins
// produce duplicate entries.
type MemberResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ListResponse is the standard representation of a shared list returned by
// the service, items and members included.
type ListResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	ShortID   string           `json:"short_id"`
	CreatedBy string           `json:"created_by"`
	CreatedAt string           `json:"created_at"`
	Todos     []TodoResponse   `json:"todos"`
	Members   []MemberResponse `json:"members"`
}

// ListService defines the operations for managing shared lists. Every
// operation takes the acting user explicitly; an empty actor fails with
// domain.ErrUnauthenticated before any store access.
type ListService interface {
	// CreateList creates a list and makes the actor its first member.
	CreateList(ctx context.Context, actorID string, req CreateListRequest) (*ListResponse, error)

	// JoinList adds the actor as a member of the list behind the join token.
	JoinList(ctx context.Context, actorID string, req JoinListRequest) (*ListResponse, error)

	// GetVisibleLists returns every list the actor is a member of, fully
	// populated with items and members.
	GetVisibleLists(ctx context.Context, actorID string) ([]ListResponse, error)
}

type listService struct {
	lists repository.ListRepository
}

// NewListService creates a new instance of listService.
func NewListService(lists repository.ListRepository) ListService {
	return &listService{lists: lists}
}

func (s *listService) CreateList(ctx context.Context, actorID string, req CreateListRequest) (*ListResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if req.Name == "" {
		return nil, fmt.Errorf("list name cannot be empty: %w", domain.ErrInvalidInput)
	}
	if len(req.Name) > maxNameLength {
		return nil, fmt.Errorf("list name exceeds %d characters: %w", maxNameLength, domain.ErrInvalidInput)
	}

	list, err := s.lists.Create(ctx, req.Name, actorID)
	if err != nil {
		log.Error().Err(err).Str("actor", actorID).Msg("creating list")
		return nil, fmt.Errorf("create list: %w", err)
	}

	// The creator's membership row exists already; the populated member set
	// comes from the dashboard re-fetch, as with every mutation.
	resp := toListResponse(*list)
	return &resp, nil
}

func (s *listService) JoinList(ctx context.Context, actorID string, req JoinListRequest) (*ListResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if req.ShortID == "" {
		return nil, fmt.Errorf("short id cannot be empty: %w", domain.ErrInvalidInput)
	}

	list, err := s.lists.FindByShortID(ctx, req.ShortID)
	if err != nil {
		return nil, fmt.Errorf("join list: %w", err)
	}

	if err := s.lists.AddMember(ctx, list.ID, actorID); err != nil {
		log.Error().Err(err).Str("actor", actorID).Str("list", list.ID).Msg("adding member")
		return nil, fmt.Errorf("join list: %w", err)
	}

	resp := toListResponse(*list)
	return &resp, nil
}

func (s *listService) GetVisibleLists(ctx context.Context, actorID string) ([]ListResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}

	lists, err := s.lists.VisibleTo(ctx, actorID)
	if err != nil {
		log.Error().Err(err).Str("actor", actorID).Msg("fetching visible lists")
		return nil, fmt.Errorf("get visible lists: %w", err)
	}

	responses := make([]ListResponse, 0, len(lists))
	for _, list := range lists {
		responses = append(responses, toListResponse(list))
	}
	return responses, nil
}

func toListResponse(list domain.TodoList) ListResponse {
	todos := make([]TodoResponse, 0, len(list.Todos))
	for _, todo := range list.Todos {
		todos = append(todos, toTodoResponse(todo))
	}
	members := make([]MemberResponse, 0, len(list.Members))
	for _, member := range list.Members {
		members = append(members, MemberResponse{ID: member.ID, Email: member.Email})
	}
	return ListResponse{
		ID:        list.ID,
		Name:      list.Name,
		ShortID:   list.ShortID,
		CreatedBy: list.CreatedBy,
		CreatedAt: list.CreatedAt.Format(time.RFC3339),
		Todos:     todos,
		Members:   members,
	}
}
