package models

import "time"

type Quote struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// QuotePatch is a partial update; nil fields are left unchanged.
type QuotePatch struct {
	Title       *string
	Description *string
}
