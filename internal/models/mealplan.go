package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealPlanEntry attaches a recipe to a calendar day and a meal slot for a
// user. Duplicate (date, category, recipe) entries are permitted.
type MealPlanEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null" json:"recipe_id"`
	Date      string    `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD, day granularity
	Category  string    `gorm:"size:50;not null" json:"category"`   // breakfast, lunch, dinner, snack
}

func (MealPlanEntry) TableName() string {
	return "meal_plan_entries"
}

func (e *MealPlanEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
