package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

// translateError maps GORM's translated driver errors onto the domain
// sentinels. Requires gorm.Config{TranslateError: true} on the connection.
func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%v: %w", err, domain.ErrConstraintViolation)
	default:
		return err
	}
}
