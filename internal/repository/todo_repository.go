package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

// TodoRepository defines the interface for todo item data operations
type TodoRepository interface {
	Create(ctx context.Context, listID, title, actorID string) (*domain.Todo, error)
	ListByList(ctx context.Context, listID string) ([]domain.Todo, error)
	Toggle(ctx context.Context, todoID string) (*domain.Todo, error)
	Complete(ctx context.Context, todoID string) (*domain.Todo, error)
	ListExists(ctx context.Context, listID string) (bool, error)
}

// gormTodoRepository implements TodoRepository using GORM
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

// Create adds a new item to a list, not completed.
func (r *gormTodoRepository) Create(ctx context.Context, listID, title, actorID string) (*domain.Todo, error) {
	todo := &domain.Todo{
		TodoListID: listID,
		Title:      title,
		Completed:  false,
		CreatedBy:  actorID,
	}
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return nil, translateError(err)
	}
	return todo, nil
}

// ListByList retrieves every item of a list.
func (r *gormTodoRepository) ListByList(ctx context.Context, listID string) ([]domain.Todo, error) {
	var todos []domain.Todo
	err := r.db.WithContext(ctx).
		Where("todo_list_id = ?", listID).
		Order("created_at DESC").
		Find(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// Toggle flips the completed flag in a single UPDATE, so concurrent togglers
// cannot lose each other's flips. The row is re-read to return the new state.
func (r *gormTodoRepository) Toggle(ctx context.Context, todoID string) (*domain.Todo, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("id = ?", todoID).
		Update("completed", gorm.Expr("NOT completed"))
	if res.Error != nil {
		return nil, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("todo %s: %w", todoID, domain.ErrNotFound)
	}

	var todo domain.Todo
	if err := r.db.WithContext(ctx).First(&todo, "id = ?", todoID).Error; err != nil {
		return nil, translateError(err)
	}
	return &todo, nil
}

// Complete marks an item done regardless of its current state.
func (r *gormTodoRepository) Complete(ctx context.Context, todoID string) (*domain.Todo, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("id = ?", todoID).
		Update("completed", true)
	if res.Error != nil {
		return nil, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("todo %s: %w", todoID, domain.ErrNotFound)
	}

	var todo domain.Todo
	if err := r.db.WithContext(ctx).First(&todo, "id = ?", todoID).Error; err != nil {
		return nil, translateError(err)
	}
	return &todo, nil
}

// ListExists reports whether a list row exists.
func (r *gormTodoRepository) ListExists(ctx context.Context, listID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.TodoList{}).
		Where("id = ?", listID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
