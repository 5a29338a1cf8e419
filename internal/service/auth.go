package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/plateful/plateful-backend/internal/models"
	"github.com/plateful/plateful-backend/internal/types"
)

const (
	tokenValidity   = 30 * time.Minute
	resetCodeTTL    = time.Hour
	resetCooldown   = time.Minute
	resetCodeDigits = 6
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	mailer    IMailer
	redis     *redis.Client
}

// NewAuthService creates a new AuthService instance. The Redis client is
// optional; without it the reset-request cooldown is not enforced.
func NewAuthService(db *gorm.DB, jwtSecret string, mailer IMailer, redisClient *redis.Client) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		mailer:    mailer,
		redis:     redisClient,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, bio string) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Bio:          bio,
	}
	// The existence check above races with concurrent registrations and
	// misses soft-deleted accounts; the unique index on email is the
	// real arbiter.
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// Welcome mail is best effort; registration succeeds regardless.
	if s.mailer != nil {
		if err := s.mailer.SendWelcomeEmail(&user); err != nil {
			log.Printf("failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return &user, nil
}

// Login checks credentials and returns the user plus a signed token.
// Unknown email and wrong password are indistinguishable to callers.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

func (s *AuthService) GenerateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(tokenValidity).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userIDStr, ok := claims["user_id"].(string)
		if !ok {
			return nil, errors.New("invalid token claims")
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return nil, err
		}

		return &types.TokenClaims{UserID: userID}, nil
	}

	return nil, errors.New("invalid token")
}

// RequestPasswordReset issues a fresh 6-digit code, overwriting any earlier
// unexpired one, and mails it to the user. A short Redis-backed cooldown
// keyed by email stops request flooding.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return ErrNotFound
	}

	if s.redis != nil {
		key := "reset_cooldown:" + email
		set, err := s.redis.SetNX(ctx, key, 1, resetCooldown).Result()
		if err == nil && !set {
			return ErrResetCooldown
		}
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}

	expires := time.Now().Add(resetCodeTTL)
	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"reset_code":         code,
		"reset_code_expires": expires,
	}).Error; err != nil {
		return err
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordResetEmail(&user, code); err != nil {
			return fmt.Errorf("%w: dispatching reset code: %v", ErrUpstream, err)
		}
	}

	return nil
}

// ResetPassword consumes a reset code. Only the latest unexpired code
// validates, and it is cleared on success.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return ErrInvalidResetCode
	}

	if user.ResetCode == "" || user.ResetCode != code {
		return ErrInvalidResetCode
	}
	if user.ResetCodeExpires == nil || time.Now().After(*user.ResetCodeExpires) {
		return ErrInvalidResetCode
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"password_hash":      string(hashed),
		"reset_code":         "",
		"reset_code_expires": nil,
	}).Error
}

func generateResetCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < resetCodeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", resetCodeDigits, n), nil
}
