package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TodoList is a shared list. ShortID is the 10-character public join token;
// knowing it is the only way to join a list.
type TodoList struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	ShortID   string    `gorm:"column:short_id;size:10;not null;uniqueIndex" json:"short_id"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `gorm:"type:text;not null" json:"created_by"`

	Todos []Todo `gorm:"foreignKey:TodoListID" json:"todos"`
	// Members is filled by the repository with an explicit join; it is not a
	// GORM association. Duplicate membership rows show up as duplicate entries.
	Members []User `gorm:"-" json:"members"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (TodoList) TableName() string { return "todo_list" }

func (l *TodoList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// TodoListMember grants a user visibility of a list and the right to mutate
// its items. One row per join; nothing prevents a second row for the same
// (list, user) pair.
type TodoListMember struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	TodoListID string    `gorm:"type:uuid;not null;index" json:"todo_list_id"`
	UserID     string    `gorm:"type:text;not null;index" json:"user_id"`
	JoinedAt   time.Time `gorm:"autoCreateTime" json:"joined_at"`

	List *TodoList `gorm:"foreignKey:TodoListID" json:"-"`
	User *User     `gorm:"foreignKey:UserID" json:"-"`
}

func (TodoListMember) TableName() string { return "todo_list_member" }

func (m *TodoListMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
