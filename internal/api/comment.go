package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plateful/plateful-backend/internal/middleware"
	"github.com/plateful/plateful-backend/internal/service"
)

// CommentHandler exposes the comment routes of the interaction pipeline.
type CommentHandler struct {
	interactionService *service.InteractionService
	authService        service.IAuthService
	commentLimiter     *middleware.RateLimiter
}

func NewCommentHandler(interactionService *service.InteractionService, authService service.IAuthService, commentLimiter *middleware.RateLimiter) *CommentHandler {
	return &CommentHandler{
		interactionService: interactionService,
		authService:        authService,
		commentLimiter:     commentLimiter,
	}
}

func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/recipes/:id/comments")
	comments.Use(middleware.AuthMiddleware(h.authService))
	{
		if h.commentLimiter != nil {
			comments.POST("", h.commentLimiter.RateLimitMiddleware(), h.PostComment)
		} else {
			comments.POST("", h.PostComment)
		}
		comments.POST("/:cid/reply", h.Reply)
		comments.DELETE("/:cid", h.DeleteComment)
	}
}

func (h *CommentHandler) PostComment(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, err)
		return
	}

	var req PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	comment, err := h.interactionService.PostComment(c.Request.Context(), recipeID, userID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *CommentHandler) Reply(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, err)
		return
	}
	commentID, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		respondValidationError(c, err)
		return
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	comment, err := h.interactionService.Reply(c.Request.Context(), recipeID, commentID, userID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, err)
		return
	}
	commentID, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.interactionService.DeleteComment(c.Request.Context(), recipeID, commentID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
