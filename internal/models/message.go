package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"-"` // owner, never exposed to senders
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
