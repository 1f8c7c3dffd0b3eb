package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

// UserRepository mirrors users from the identity provider into the store.
type UserRepository interface {
	Upsert(ctx context.Context, id, email string) (*domain.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Upsert creates the user row on first sign-in and refreshes the email on
// subsequent requests. Email is the only mutable field.
func (r *gormUserRepository) Upsert(ctx context.Context, id, email string) (*domain.User, error) {
	user := &domain.User{ID: id, Email: email}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email"}),
		}).
		Create(user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return user, nil
}
