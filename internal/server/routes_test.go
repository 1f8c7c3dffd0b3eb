package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/roomsync/roomsync-backend/internal/auth"
	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/service"
)

type fakeListService struct {
	createResp *service.ListResponse
	createErr  error
	joinResp   *service.ListResponse
	joinErr    error
	lists      []service.ListResponse
	listsErr   error

	lastActor string
}

func (f *fakeListService) CreateList(ctx context.Context, actorID string, req service.CreateListRequest) (*service.ListResponse, error) {
	f.lastActor = actorID
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return f.createResp, f.createErr
}

func (f *fakeListService) JoinList(ctx context.Context, actorID string, req service.JoinListRequest) (*service.ListResponse, error) {
	f.lastActor = actorID
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return f.joinResp, f.joinErr
}

func (f *fakeListService) GetVisibleLists(ctx context.Context, actorID string) ([]service.ListResponse, error) {
	f.lastActor = actorID
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return f.lists, f.listsErr
}

type fakeTodoService struct {
	addResp    *service.TodoResponse
	addErr     error
	items      []service.TodoResponse
	itemsErr   error
	toggleResp *service.TodoResponse
	toggleErr  error
}

func (f *fakeTodoService) AddItem(ctx context.Context, actorID, listID string, req service.AddItemRequest) (*service.TodoResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return f.addResp, f.addErr
}

func (f *fakeTodoService) GetItems(ctx context.Context, actorID, listID string) ([]service.TodoResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return f.items, f.itemsErr
}

func (f *fakeTodoService) ToggleCompletion(ctx context.Context, actorID, todoID string) (*service.TodoResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return f.toggleResp, f.toggleErr
}

func (f *fakeTodoService) MarkCompleted(ctx context.Context, actorID, todoID string) (*service.TodoResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return f.toggleResp, f.toggleErr
}

type fakeUserRepository struct{}

func (fakeUserRepository) Upsert(ctx context.Context, id, email string) (*domain.User, error) {
	return &domain.User{ID: id, Email: email}, nil
}

type fakeDBService struct {
	health map[string]string
}

func (f *fakeDBService) Health() map[string]string { return f.health }
func (f *fakeDBService) Close() error              { return nil }
func (f *fakeDBService) GetDB() *gorm.DB           { return nil }

func newTestServer(listSvc *fakeListService, todoSvc *fakeTodoService) (*Server, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", 1)
	s := &Server{
		port:        8080,
		listService: listSvc,
		todoService: todoSvc,
		users:       fakeUserRepository{},
		tokens:      tokens,
		db:          &fakeDBService{health: map[string]string{"status": "up"}},
	}
	return s, tokens
}

func bearer(t *testing.T, tokens *auth.TokenManager, userID string) string {
	t.Helper()
	signed, err := tokens.Issue(userID, userID+"@example.com")
	require.NoError(t, err)
	return "Bearer " + signed
}

func doRequest(handler http.Handler, method, path, authorization string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHelloWorldHandler(t *testing.T) {
	s, _ := newTestServer(&fakeListService{}, &fakeTodoService{})
	rec := doRequest(s.RegisterRoutes(), http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	s, _ := newTestServer(&fakeListService{}, &fakeTodoService{})
	rec := doRequest(s.RegisterRoutes(), http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	s.db = &fakeDBService{health: map[string]string{"status": "down", "error": "db down"}}
	rec = doRequest(s.RegisterRoutes(), http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateListHandler_RequiresAuth(t *testing.T) {
	s, _ := newTestServer(&fakeListService{}, &fakeTodoService{})
	rec := doRequest(s.RegisterRoutes(), http.MethodPost, "/lists", "", service.CreateListRequest{Name: "Groceries"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateListHandler(t *testing.T) {
	listSvc := &fakeListService{
		createResp: &service.ListResponse{ID: "list-1", Name: "Groceries", ShortID: "ab12cd34ef"},
	}
	s, tokens := newTestServer(listSvc, &fakeTodoService{})

	rec := doRequest(s.RegisterRoutes(), http.MethodPost, "/lists", bearer(t, tokens, "user-a"),
		service.CreateListRequest{Name: "Groceries"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "user-a", listSvc.lastActor)

	var resp service.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ab12cd34ef", resp.ShortID)
}

func TestCreateListHandler_BadJSON(t *testing.T) {
	s, tokens := newTestServer(&fakeListService{}, &fakeTodoService{})

	req := httptest.NewRequest(http.MethodPost, "/lists", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", bearer(t, tokens, "user-a"))
	rec := httptest.NewRecorder()
	s.RegisterRoutes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateListHandler_ValidationError(t *testing.T) {
	listSvc := &fakeListService{
		createErr: fmt.Errorf("list name cannot be empty: %w", domain.ErrInvalidInput),
	}
	s, tokens := newTestServer(listSvc, &fakeTodoService{})

	rec := doRequest(s.RegisterRoutes(), http.MethodPost, "/lists", bearer(t, tokens, "user-a"),
		service.CreateListRequest{Name: ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoinListHandler_NotFound(t *testing.T) {
	listSvc := &fakeListService{
		joinErr: fmt.Errorf("list with short id nosuchlist: %w", domain.ErrNotFound),
	}
	s, tokens := newTestServer(listSvc, &fakeTodoService{})

	rec := doRequest(s.RegisterRoutes(), http.MethodPost, "/lists/join", bearer(t, tokens, "user-b"),
		service.JoinListRequest{ShortID: "nosuchlist"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetListsHandler(t *testing.T) {
	listSvc := &fakeListService{
		lists: []service.ListResponse{{ID: "list-1", Name: "Groceries"}},
	}
	s, tokens := newTestServer(listSvc, &fakeTodoService{})

	rec := doRequest(s.RegisterRoutes(), http.MethodGet, "/lists", bearer(t, tokens, "user-a"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var lists []service.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lists))
	require.Len(t, lists, 1)
}

func TestAddItemHandler(t *testing.T) {
	todoSvc := &fakeTodoService{
		addResp: &service.TodoResponse{ID: "todo-1", Title: "Milk", TodoListID: "list-1"},
	}
	s, tokens := newTestServer(&fakeListService{}, todoSvc)

	rec := doRequest(s.RegisterRoutes(), http.MethodPost, "/lists/list-1/todos", bearer(t, tokens, "user-a"),
		service.AddItemRequest{Title: "Milk"})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestAddItemHandler_UnknownList(t *testing.T) {
	todoSvc := &fakeTodoService{
		addErr: fmt.Errorf("list list-9: %w", domain.ErrNotFound),
	}
	s, tokens := newTestServer(&fakeListService{}, todoSvc)

	rec := doRequest(s.RegisterRoutes(), http.MethodPost, "/lists/list-9/todos", bearer(t, tokens, "user-a"),
		service.AddItemRequest{Title: "Milk"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleTodoHandler(t *testing.T) {
	todoSvc := &fakeTodoService{
		toggleResp: &service.TodoResponse{ID: "todo-1", Title: "Milk", Completed: true},
	}
	s, tokens := newTestServer(&fakeListService{}, todoSvc)

	rec := doRequest(s.RegisterRoutes(), http.MethodPatch, "/todos/todo-1/toggle", bearer(t, tokens, "user-b"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp service.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Completed)
}

func TestToggleTodoHandler_NotFound(t *testing.T) {
	todoSvc := &fakeTodoService{
		toggleErr: fmt.Errorf("todo todo-9: %w", domain.ErrNotFound),
	}
	s, tokens := newTestServer(&fakeListService{}, todoSvc)

	rec := doRequest(s.RegisterRoutes(), http.MethodPatch, "/todos/todo-9/toggle", bearer(t, tokens, "user-b"), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteTodoHandler(t *testing.T) {
	todoSvc := &fakeTodoService{
		toggleResp: &service.TodoResponse{ID: "todo-1", Title: "Milk", Completed: true},
	}
	s, tokens := newTestServer(&fakeListService{}, todoSvc)

	rec := doRequest(s.RegisterRoutes(), http.MethodPatch, "/todos/todo-1/complete", bearer(t, tokens, "user-b"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetItemsHandler(t *testing.T) {
	todoSvc := &fakeTodoService{
		items: []service.TodoResponse{{ID: "todo-1", Title: "Milk"}},
	}
	s, tokens := newTestServer(&fakeListService{}, todoSvc)

	rec := doRequest(s.RegisterRoutes(), http.MethodGet, "/lists/list-1/todos", bearer(t, tokens, "user-a"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []service.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
}
