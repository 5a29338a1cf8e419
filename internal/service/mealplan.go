package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/plateful-backend/internal/models"
)

// MealPlanService handles a user's date/category-tagged recipe plan.
type MealPlanService struct {
	db *gorm.DB
}

func NewMealPlanService(db *gorm.DB) *MealPlanService {
	return &MealPlanService{db: db}
}

// MealPlanEntryInput is one entry to append to the plan.
type MealPlanEntryInput struct {
	RecipeID uuid.UUID
	Date     string // YYYY-MM-DD
	Category string
}

// AddEntries appends entries to the user's plan. The same
// (date, category, recipe) combination may appear more than once.
func (s *MealPlanService) AddEntries(ctx context.Context, userID uuid.UUID, entries []MealPlanEntryInput) ([]models.MealPlanEntry, error) {
	rows := make([]models.MealPlanEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.MealPlanEntry{
			UserID:   userID,
			RecipeID: e.RecipeID,
			Date:     e.Date,
			Category: e.Category,
		})
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListForDate filters the plan by exact calendar-day match.
func (s *MealPlanService) ListForDate(ctx context.Context, userID uuid.UUID, date string) ([]models.MealPlanEntry, error) {
	var entries []models.MealPlanEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

// DeleteEntry removes by composite match on entry id and date, scoped to
// the owning user.
func (s *MealPlanService) DeleteEntry(ctx context.Context, userID uuid.UUID, date string, entryID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND date = ?", entryID, userID, date).
		Delete(&models.MealPlanEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
