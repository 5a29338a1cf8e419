package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plateful/plateful-backend/internal/models"
)

// InteractionService handles likes, comments, replies, and the
// notification fan-out they produce.
type InteractionService struct {
	db *gorm.DB
}

func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

// ToggleLike flips the (user, recipe) membership in the recipe's liker set
// and returns the new state plus the resulting like count. The delete and
// insert both contend on the composite unique index inside one transaction,
// so concurrent toggles by distinct users never lose updates.
func (s *InteractionService) ToggleLike(ctx context.Context, recipeID, userID uuid.UUID) (liked bool, count int64, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		res := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).
			Delete(&models.RecipeLike{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// ON CONFLICT DO NOTHING instead of catching the duplicate
			// error: on Postgres a unique violation would abort the whole
			// transaction. Zero rows inserted means a concurrent toggle
			// won the race; membership holds either way.
			like := models.RecipeLike{RecipeID: recipeID, UserID: userID}
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
			if ins.Error != nil {
				return ins.Error
			}
			liked = true
		} else {
			liked = false
		}

		return tx.Model(&models.RecipeLike{}).
			Where("recipe_id = ?", recipeID).Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// LikeCount returns the cardinality of a recipe's liker set.
func (s *InteractionService) LikeCount(ctx context.Context, recipeID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.RecipeLike{}).
		Where("recipe_id = ?", recipeID).Count(&count).Error
	return count, err
}

// PostComment inserts a comment and, when the commenter is not the recipe
// owner, a comment notification for the owner. Both inserts run in one
// transaction: either both land or neither does.
func (s *InteractionService) PostComment(ctx context.Context, recipeID, userID uuid.UUID, text string) (*models.Comment, error) {
	var comment models.Comment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var commenter models.User
		if err := tx.First(&commenter, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		comment = models.Comment{
			Text:     text,
			UserID:   userID,
			RecipeID: recipeID,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		// Self-action suppression: no notification when the owner
		// comments on their own recipe.
		if recipe.UserID != userID {
			notification := models.Notification{
				RecipientID: recipe.UserID,
				SenderID:    userID,
				RecipeID:    recipeID,
				Kind:        models.NotificationKindComment,
				Message:     fmt.Sprintf("%s commented on your recipe %q", commenter.Name, recipe.Title),
			}
			if err := tx.Create(&notification).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Reply sets the single reply on a comment. Only the recipe owner may
// reply; the reply text and timestamp are written together.
func (s *InteractionService) Reply(ctx context.Context, recipeID, commentID, userID uuid.UUID, text string) (*models.Comment, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if recipe.UserID != userID {
		return nil, ErrForbidden
	}

	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ? AND recipe_id = ?", commentID, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	comment.Reply = text
	comment.RepliedAt = &now
	if err := s.db.WithContext(ctx).Save(&comment).Error; err != nil {
		return nil, err
	}

	return &comment, nil
}

// DeleteComment transitions a comment to the deleted state. Only the
// recipe owner may delete; the row stays for audit history.
func (s *InteractionService) DeleteComment(ctx context.Context, recipeID, commentID, userID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if recipe.UserID != userID {
		return ErrForbidden
	}

	res := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND recipe_id = ?", commentID, recipeID).
		Update("status", models.CommentStatusDeleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListComments returns the active comments on a recipe, oldest first.
// Deleted comments are excluded here but remain reachable via GetComment.
func (s *InteractionService) ListComments(ctx context.Context, recipeID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND status = ?", recipeID, models.CommentStatusActive).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// GetComment fetches a comment by ID regardless of lifecycle state.
func (s *InteractionService) GetComment(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}
