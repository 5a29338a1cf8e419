package database

import (
	"gorm.io/gorm"

	"github.com/plateful/plateful-backend/internal/models"
)

// Migrate runs the schema migrations for every model the services touch.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.RecipeLike{},
		&models.Comment{},
		&models.Notification{},
		&models.MealPlanEntry{},
	)
}
