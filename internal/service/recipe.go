package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/plateful-backend/internal/models"
)

// RecipeService handles recipe CRUD. Mutations are owner-only.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// RecipeUpdate holds the editable recipe fields. Nil fields keep their
// current values; identity and ownership are not editable.
type RecipeUpdate struct {
	Title        *string
	Description  *string
	Category     *string
	ImageURL     *string
	Servings     *int
	Ingredients  *models.JSONBStringArray
	Instructions *models.JSONBStringArray
	Notes        *string
	Public       *bool
	PrepTime     *string
	Calories     *float64
}

func (u RecipeUpdate) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if u.Title != nil {
		changes["title"] = *u.Title
	}
	if u.Description != nil {
		changes["description"] = *u.Description
	}
	if u.Category != nil {
		changes["category"] = *u.Category
	}
	if u.ImageURL != nil {
		changes["image_url"] = *u.ImageURL
	}
	if u.Servings != nil {
		changes["servings"] = *u.Servings
	}
	if u.Ingredients != nil {
		changes["ingredients"] = *u.Ingredients
	}
	if u.Instructions != nil {
		changes["instructions"] = *u.Instructions
	}
	if u.Notes != nil {
		changes["notes"] = *u.Notes
	}
	if u.Public != nil {
		changes["public"] = *u.Public
	}
	if u.PrepTime != nil {
		changes["prep_time"] = *u.PrepTime
	}
	if u.Calories != nil {
		changes["calories"] = *u.Calories
	}
	return changes
}

// UpdateRecipe applies the given fields to a recipe the user owns. The
// explicit column map lets an owner set zero values (flip public off,
// clear notes) and keeps id/user_id out of reach of the request body.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, userID uuid.UUID, update RecipeUpdate) (*models.Recipe, error) {
	existing, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrForbidden
	}

	changes := update.changes()
	if len(changes) == 0 {
		return existing, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", id).Updates(changes).Error; err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, id)
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error {
	existing, err := s.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}

// RecipeFilters narrows ListRecipes output.
type RecipeFilters struct {
	Query    string
	Category string
	UserID   *uuid.UUID
}

// ListRecipes lists public recipes matching the filters.
func (s *RecipeService) ListRecipes(ctx context.Context, filters RecipeFilters) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Where("public = ?", true)

	if filters.Query != "" {
		like := "%" + strings.ToLower(filters.Query) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}

	var recipes []models.Recipe
	if err := query.Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListUserRecipes returns every recipe owned by the user, private included.
func (s *RecipeService) ListUserRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}
