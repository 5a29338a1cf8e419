package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plateful/plateful-backend/internal/middleware"
	"github.com/plateful/plateful-backend/internal/models"
	"github.com/plateful/plateful-backend/internal/service"
)

// RecipeHandler exposes recipe CRUD and the like toggle.
type RecipeHandler struct {
	recipeService      *service.RecipeService
	interactionService *service.InteractionService
	authService        service.IAuthService
	imageStore         service.IImageStore
	creationLimiter    *middleware.RateLimiter
}

func NewRecipeHandler(recipeService *service.RecipeService, interactionService *service.InteractionService, authService service.IAuthService, imageStore service.IImageStore, creationLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService:      recipeService,
		interactionService: interactionService,
		authService:        authService,
		imageStore:         imageStore,
		creationLimiter:    creationLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/:id", h.GetRecipe)

		auth := middleware.AuthMiddleware(h.authService)
		recipes.GET("", auth, h.ListRecipes)
		if h.creationLimiter != nil {
			recipes.POST("", auth, h.creationLimiter.RateLimitMiddleware(), h.CreateRecipe)
		} else {
			recipes.POST("", auth, h.CreateRecipe)
		}
		recipes.PUT("/:id", auth, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/like", auth, h.ToggleLike)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filters := service.RecipeFilters{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, err)
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	likeCount, err := h.interactionService.LikeCount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	comments, err := h.interactionService.ListComments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe":     recipe,
		"like_count": likeCount,
		"comments":   comments,
	})
}

// CreateRecipe accepts a multipart form: a "recipe" JSON field plus an
// optional "image" file.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	recipe, err := h.bindRecipeForm(c)
	if err != nil {
		respondValidationError(c, err)
		return
	}
	recipe.UserID = userID

	if file, ferr := c.FormFile("image"); ferr == nil {
		url, serr := h.imageStore.Store(c.Request.Context(), file, "recipe-images")
		if serr != nil {
			respondError(c, serr)
			return
		}
		recipe.ImageURL = url
	}

	created, err := h.recipeService.CreateRecipe(c.Request.Context(), recipe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": created})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, err)
		return
	}

	req, err := h.bindRecipeUpdateForm(c)
	if err != nil {
		respondValidationError(c, err)
		return
	}
	update := req.toUpdate()

	if file, ferr := c.FormFile("image"); ferr == nil {
		url, serr := h.imageStore.Store(c.Request.Context(), file, "recipe-images")
		if serr != nil {
			respondError(c, serr)
			return
		}
		update.ImageURL = &url
	}

	updated, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, userID, update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": updated})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted", "id": id})
}

func (h *RecipeHandler) ToggleLike(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, err)
		return
	}

	liked, count, err := h.interactionService.ToggleLike(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked":      liked,
		"like_count": count,
	})
}

// bindRecipeForm decodes the recipe payload from either a plain JSON body
// or the "recipe" field of a multipart form (the upload path).
func (h *RecipeHandler) bindRecipeForm(c *gin.Context) (*models.Recipe, error) {
	var recipe models.Recipe

	if raw, ok := c.GetPostForm("recipe"); ok {
		if err := json.Unmarshal([]byte(raw), &recipe); err != nil {
			return nil, err
		}
		return &recipe, nil
	}

	if err := c.ShouldBindJSON(&recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// bindRecipeUpdateForm decodes the edit payload from either a plain JSON
// body or the "recipe" field of a multipart form.
func (h *RecipeHandler) bindRecipeUpdateForm(c *gin.Context) (*UpdateRecipeRequest, error) {
	var req UpdateRecipeRequest

	if raw, ok := c.GetPostForm("recipe"); ok {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *UpdateRecipeRequest) toUpdate() service.RecipeUpdate {
	update := service.RecipeUpdate{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Servings:    r.Servings,
		Notes:       r.Notes,
		Public:      r.Public,
		PrepTime:    r.PrepTime,
		Calories:    r.Calories,
	}
	if r.Ingredients != nil {
		ingredients := models.JSONBStringArray(*r.Ingredients)
		update.Ingredients = &ingredients
	}
	if r.Instructions != nil {
		instructions := models.JSONBStringArray(*r.Instructions)
		update.Instructions = &instructions
	}
	return update
}
