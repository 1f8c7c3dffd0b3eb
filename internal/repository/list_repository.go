package repository

import (
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

// Length of the public join token. Collisions are treated as negligible and
// surface as a constraint violation rather than being retried.
const shortIDLength = 10

// ListRepository defines the data operations for shared lists.
type ListRepository interface {
	Create(ctx context.Context, name, actorID string) (*domain.TodoList, error)
	FindByShortID(ctx context.Context, shortID string) (*domain.TodoList, error)
	AddMember(ctx context.Context, listID, userID string) error
	VisibleTo(ctx context.Context, actorID string) ([]domain.TodoList, error)
}

// gormListRepository implements ListRepository using GORM
type gormListRepository struct {
	db *gorm.DB
}

// NewGormListRepository creates a new GORM list repository
func NewGormListRepository(db *gorm.DB) ListRepository {
	return &gormListRepository{db: db}
}

// Create inserts the list row and the creator's membership row in a single
// transaction, so a failed membership insert rolls the list back.
func (r *gormListRepository) Create(ctx context.Context, name, actorID string) (*domain.TodoList, error) {
	shortID, err := gonanoid.New(shortIDLength)
	if err != nil {
		return nil, fmt.Errorf("generate short id: %w", err)
	}

	list := &domain.TodoList{
		Name:      name,
		ShortID:   shortID,
		CreatedBy: actorID,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(list).Error; err != nil {
			return err
		}
		member := &domain.TodoListMember{
			TodoListID: list.ID,
			UserID:     actorID,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return list, nil
}

// FindByShortID looks a list up by its exact join token.
func (r *gormListRepository) FindByShortID(ctx context.Context, shortID string) (*domain.TodoList, error) {
	var list domain.TodoList
	err := r.db.WithContext(ctx).Where("short_id = ?", shortID).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("list with short id %s: %w", shortID, domain.ErrNotFound)
		}
		return nil, err
	}
	return &list, nil
}

// AddMember records a membership. There is no (todo_list_id, user_id) unique
// constraint, so joining twice creates a second row and the user shows up
// twice in member listings. Known gap, kept for compatibility.
func (r *gormListRepository) AddMember(ctx context.Context, listID, userID string) error {
	member := &domain.TodoListMember{
		TodoListID: listID,
		UserID:     userID,
	}
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// VisibleTo returns every list the actor has a membership row for, each
// populated with its items (newest first) and its members (no dedup).
func (r *gormListRepository) VisibleTo(ctx context.Context, actorID string) ([]domain.TodoList, error) {
	var lists []domain.TodoList
	err := r.db.WithContext(ctx).
		Select("todo_list.*").
		Joins("JOIN todo_list_member ON todo_list_member.todo_list_id = todo_list.id").
		Where("todo_list_member.user_id = ?", actorID).
		Group("todo_list.id").
		Preload("Todos", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Find(&lists).Error
	if err != nil {
		return nil, err
	}

	for i := range lists {
		if lists[i].Todos == nil {
			lists[i].Todos = []domain.Todo{}
		}
		lists[i].Members = []domain.User{}
	}
	if len(lists) == 0 {
		return lists, nil
	}

	ids := make([]string, len(lists))
	index := make(map[string]int, len(lists))
	for i := range lists {
		ids[i] = lists[i].ID
		index[lists[i].ID] = i
	}

	// Explicit join instead of an association: one membership row yields one
	// member entry, duplicates included.
	type memberRow struct {
		TodoListID string
		UserID     string
		Email      string
	}
	var rows []memberRow
	err = r.db.WithContext(ctx).
		Table("todo_list_member").
		Select(`todo_list_member.todo_list_id AS todo_list_id, "user".id AS user_id, "user".email AS email`).
		Joins(`JOIN "user" ON "user".id = todo_list_member.user_id`).
		Where("todo_list_member.todo_list_id IN ?", ids).
		Order("todo_list_member.joined_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		i := index[row.TodoListID]
		lists[i].Members = append(lists[i].Members, domain.User{ID: row.UserID, Email: row.Email})
	}

	return lists, nil
}
