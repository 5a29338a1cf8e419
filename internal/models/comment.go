package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment lifecycle states. A deleted comment stays in the table for
// audit history and is excluded from list reads.
const (
	CommentStatusActive  = "active"
	CommentStatusDeleted = "deleted"
)

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Status    string    `gorm:"size:20;not null;default:'active'" json:"status"`

	// Flat reply model: at most one reply per comment, set only by the
	// recipe owner. Reply text and timestamp move together.
	Reply     string     `gorm:"type:text" json:"reply,omitempty"`
	RepliedAt *time.Time `json:"replied_at,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CommentStatusActive
	}
	return nil
}
