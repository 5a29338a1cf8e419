package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plateful/plateful-backend/internal/service"
)

// respondError maps service-layer sentinel errors onto HTTP status codes
// with stable machine-readable codes. Unanticipated failures collapse to
// a generic 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found", "code": "NOT_FOUND"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this resource", "code": "FORBIDDEN"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered", "code": "EMAIL_TAKEN"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials", "code": "INVALID_CREDENTIALS"})
	case errors.Is(err, service.ErrInvalidResetCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired reset code", "code": "INVALID_RESET_CODE"})
	case errors.Is(err, service.ErrResetCooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "a reset code was requested recently, try again later", "code": "RESET_COOLDOWN"})
	case errors.Is(err, service.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type", "code": "INVALID_IMAGE"})
	case errors.Is(err, service.ErrImageTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds the size limit", "code": "IMAGE_TOO_LARGE"})
	case errors.Is(err, service.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "a dependent service failed", "code": "UPSTREAM_FAILURE"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "INTERNAL"})
	}
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
}
