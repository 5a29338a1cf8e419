package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plateful/plateful-backend/internal/middleware"
	"github.com/plateful/plateful-backend/internal/service"
)

// AuthHandler exposes registration, login, password reset, profile, and
// meal-plan routes under /auth.
type AuthHandler struct {
	authService     service.IAuthService
	profileService  *service.ProfileService
	mealPlanService *service.MealPlanService
	imageStore      service.IImageStore
}

func NewAuthHandler(authService service.IAuthService, profileService *service.ProfileService, mealPlanService *service.MealPlanService, imageStore service.IImageStore) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		profileService:  profileService,
		mealPlanService: mealPlanService,
		imageStore:      imageStore,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(h.authService))
		{
			protected.GET("/profile", h.GetProfile)
			protected.PUT("/update-profile", h.UpdateProfile)

			protected.POST("/meal-plans", h.AddMealPlanEntries)
			protected.GET("/meal-plans/:date", h.ListMealPlanForDate)
			protected.DELETE("/meal-plans/:date/:entryId", h.DeleteMealPlanEntry)
		}
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Bio)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user_id": user.ID,
	})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reset code sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	user, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile handles a multipart form carrying optional name/bio fields
// and an optional profile picture file.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var update service.ProfileUpdate
	if name, ok := c.GetPostForm("name"); ok {
		update.Name = &name
	}
	if bio, ok := c.GetPostForm("bio"); ok {
		update.Bio = &bio
	}

	if file, err := c.FormFile("picture"); err == nil {
		url, err := h.imageStore.Store(c.Request.Context(), file, "profile-pictures")
		if err != nil {
			respondError(c, err)
			return
		}
		update.ProfilePictureURL = &url
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) AddMealPlanEntries(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req AddMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	entries := make([]service.MealPlanEntryInput, 0, len(req.Entries))
	for _, e := range req.Entries {
		recipeID, err := uuid.Parse(e.RecipeID)
		if err != nil {
			respondValidationError(c, err)
			return
		}
		entries = append(entries, service.MealPlanEntryInput{
			RecipeID: recipeID,
			Date:     e.Date,
			Category: e.Category,
		})
	}

	created, err := h.mealPlanService.AddEntries(c.Request.Context(), userID, entries)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entries": created})
}

func (h *AuthHandler) ListMealPlanForDate(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	date := c.Param("date")

	entries, err := h.mealPlanService.ListForDate(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *AuthHandler) DeleteMealPlanEntry(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	date := c.Param("date")

	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.mealPlanService.DeleteEntry(c.Request.Context(), userID, date, entryID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "entry removed"})
}
