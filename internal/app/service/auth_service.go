package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	apperrors "github.com/homeheartcreation/shop-backend/internal/errors"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"github.com/homeheartcreation/shop-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrTokenRevoked = errors.New("token has been revoked")

// TokenBlacklist remembers logged-out tokens until they expire.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type ProfileInput struct {
	Name  *string
	Email *string
	Image *string
}

type AuthService interface {
	Register(input RegisterInput, requester *model.User) (*model.User, string, error)
	Login(email, password string) (*model.User, string, error)
	VerifyToken(ctx context.Context, token string) (*model.User, *util.Claims, error)
	Logout(ctx context.Context, token string, claims *util.Claims) error
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, input ProfileInput) (*model.User, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
	VerifyPassword(userID uint, password string) (bool, error)
}

type authService struct {
	userRepo  repository.UserRepository
	blacklist TokenBlacklist
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService builds the auth service. blacklist may be nil when Redis is
// not configured; logout is then client-side only.
func NewAuthService(userRepo repository.UserRepository, blacklist TokenBlacklist, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		blacklist: blacklist,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an admin. The first account can be created anonymously;
// after that only an admin may add another.
func (s *authService) Register(input RegisterInput, requester *model.User) (*model.User, string, error) {
	email := normalizeEmail(input.Email)
	logger.Info("Attempting admin registration", map[string]interface{}{
		"email": email,
	})

	if strings.TrimSpace(input.Name) == "" {
		return nil, "", newValidationError("name", "is required")
	}
	if email == "" {
		return nil, "", newValidationError("email", "is required")
	}

	count, err := s.userRepo.Count()
	if err != nil {
		return nil, "", err
	}
	if count > 0 && (requester == nil || !requester.IsAdmin()) {
		logger.Warn("Registration rejected: bootstrap already done", map[string]interface{}{
			"email": email,
		})
		return nil, "", ErrRegistrationClosed
	}

	existing, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailAlreadyExists
	}

	hashed, err := util.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, util.ErrPasswordTooShort) {
			return nil, "", newTooShortError("password", "must be at least %d characters", util.MinPasswordLength)
		}
		return nil, "", err
	}

	user := &model.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
	}
	if err := s.userRepo.Create(user); err != nil {
		if apperrors.ParseError(err, "register").Code == apperrors.AuthEmailAlreadyExists {
			return nil, "", ErrEmailAlreadyExists
		}
		return nil, "", err
	}

	token, _, err := util.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	logger.Info("Admin registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, token, nil
}

func (s *authService) Login(email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: unknown email", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := util.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, token, nil
}

// VerifyToken checks the signature and expiry, then reloads the user so a
// deleted account is rejected even with a still-valid token.
func (s *authService) VerifyToken(ctx context.Context, token string) (*model.User, *util.Claims, error) {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, nil, err
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, token)
		if err != nil {
			// Revocation store down: fall back to signature-only validation.
			logger.Error("Failed to check token blacklist", err, map[string]interface{}{
				"user_id": claims.UserID,
			})
		} else if revoked {
			return nil, nil, ErrTokenRevoked
		}
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	return user, claims, nil
}

func (s *authService) Logout(ctx context.Context, token string, claims *util.Claims) error {
	if s.blacklist == nil || claims == nil {
		return nil
	}
	ttl := claims.RemainingLifetime()
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, token, ttl); err != nil {
		logger.Error("Failed to revoke token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, input ProfileInput) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, newValidationError("name", "is required")
		}
		user.Name = name
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return nil, newValidationError("email", "is required")
		}
		user.Email = email
	}
	if input.Image != nil {
		user.Image = *input.Image
	}

	if err := s.userRepo.Update(user); err != nil {
		if apperrors.ParseError(err, "update profile").Code == apperrors.AuthEmailAlreadyExists {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	logger.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}

// ChangePassword requires the current password before setting a new one.
func (s *authService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		logger.Warn("Password change rejected: current password mismatch", map[string]interface{}{
			"user_id": userID,
		})
		return ErrIncorrectPassword
	}

	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		if errors.Is(err, util.ErrPasswordTooShort) {
			return newTooShortError("newPassword", "must be at least %d characters", util.MinPasswordLength)
		}
		return err
	}

	if err := s.userRepo.UpdatePassword(userID, hashed); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *authService) VerifyPassword(userID uint, password string) (bool, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return false, err
	}
	return util.VerifyPassword(user.PasswordHash, password), nil
}
