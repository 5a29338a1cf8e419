package testhelpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/plateful/plateful-backend/internal/models"
)

// CreateTestUser inserts a user with the given name/email and password
// "password123".
func CreateTestUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

// CreateTestRecipe inserts a public recipe owned by the given user.
func CreateTestRecipe(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.Recipe {
	t.Helper()

	recipe := models.Recipe{
		Title:        title,
		Description:  "A test recipe",
		Category:     "dinner",
		Servings:     4,
		Ingredients:  models.JSONBStringArray{"flour", "eggs", "milk"},
		Instructions: models.JSONBStringArray{"mix", "cook"},
		Public:       true,
		UserID:       owner.ID,
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return &recipe
}
