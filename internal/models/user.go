package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"` // Never serialized
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Birthday     time.Time `json:"birthday"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
