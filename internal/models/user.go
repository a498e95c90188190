package models

import "time"

// User is a registered account. Email is the unique login key; PasswordHash
// is never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email" validate:"required"`
	PasswordHash string    `json:"-" validate:"required"`
	CreatedAt    time.Time `json:"created_at"`
}
