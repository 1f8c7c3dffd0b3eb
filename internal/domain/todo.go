package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Todo is a single item on a list. Items are never deleted; the only
// mutation is flipping Completed.
type Todo struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	TodoListID string    `gorm:"type:uuid;not null;index" json:"todo_list_id"`
	Title      string    `gorm:"size:256;not null" json:"title"`
	Completed  bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  string    `gorm:"type:text;not null" json:"created_by"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (Todo) TableName() string { return "todo" }

func (t *Todo) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
