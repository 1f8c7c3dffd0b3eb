package domain

import "time"

// User rows are provisioned by the identity provider on first sign-in.
// The ID is the provider's opaque subject string, not a UUID.
type User struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Email     string    `gorm:"size:256;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "user" }
