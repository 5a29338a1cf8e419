package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationKindLike    = "like"
	NotificationKindComment = "comment"
)

type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipient_id"`
	SenderID    uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null" json:"recipe_id"`
	Kind        string    `gorm:"size:20;not null" json:"kind"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	Read        bool      `gorm:"not null;default:false;index" json:"read"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
