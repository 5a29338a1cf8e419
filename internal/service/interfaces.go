package service

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/plateful/plateful-backend/internal/models"
	"github.com/plateful/plateful-backend/internal/types"
)

// IAuthService defines the identity operations used by handlers and middleware.
type IAuthService interface {
	Register(ctx context.Context, name, email, password, bio string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GenerateToken(userID uuid.UUID) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// IMailer is the mail-delivery collaborator.
type IMailer interface {
	SendPasswordResetEmail(user *models.User, code string) error
	SendWelcomeEmail(user *models.User) error
	SendEmail(to, subject, body string) error
}

// IImageStore persists uploaded images and returns their public URL.
type IImageStore interface {
	Store(ctx context.Context, file *multipart.FileHeader, keyPrefix string) (string, error)
}

var (
	_ IAuthService = (*AuthService)(nil)
	_ IMailer      = (*Mailer)(nil)
)
