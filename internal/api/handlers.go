package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/plateful/plateful-backend/config"
	"github.com/plateful/plateful-backend/internal/middleware"
	"github.com/plateful/plateful-backend/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Plateful API is running",
	})
}

// RegisterRoutes wires every handler under /api/v1. The Redis client is
// optional; without it rate limiting and the reset cooldown are skipped.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, imageStore service.IImageStore, mailer service.IMailer, cfg *config.Config) {
	router.GET("/health", HealthCheck)

	// Locally stored uploads are served as static files.
	if cfg.StorageBackend == config.StorageBackendLocal {
		router.Static("/uploads", cfg.UploadDir)
	}

	var creationLimiter, commentLimiter *middleware.RateLimiter
	if redisClient != nil {
		creationLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
		commentLimiter = middleware.NewCommentRateLimiter(redisClient)
	} else {
		log.Printf("Warning: Redis unavailable, rate limiting disabled")
	}

	authService := service.NewAuthService(db, cfg.JWTSecret, mailer, redisClient)
	profileService := service.NewProfileService(db)
	mealPlanService := service.NewMealPlanService(db)
	recipeService := service.NewRecipeService(db)
	interactionService := service.NewInteractionService(db)
	notificationService := service.NewNotificationService(db)

	authHandler := NewAuthHandler(authService, profileService, mealPlanService, imageStore)
	recipeHandler := NewRecipeHandler(recipeService, interactionService, authService, imageStore, creationLimiter)
	commentHandler := NewCommentHandler(interactionService, authService, commentLimiter)
	notificationHandler := NewNotificationHandler(notificationService, authService)

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	commentHandler.RegisterRoutes(v1)
	notificationHandler.RegisterRoutes(v1)
}
