package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/service"
	"github.com/homeheartcreation/shop-backend/internal/errors"
	"github.com/homeheartcreation/shop-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
	UserKey     = "user"
	TokenKey    = "token"
	ClaimsKey   = "claims"
)

// TokenVerifier resolves a bearer token to the current user.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*model.User, *util.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Authenticate validates the bearer token and reloads the user (required).
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Missing or malformed authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Not authorized, no token")
			c.Abort()
			return
		}

		user, claims, err := m.verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			switch {
			case stderrors.Is(err, util.ErrExpiredToken):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Not authorized, token expired")
			case stderrors.Is(err, service.ErrTokenRevoked):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Not authorized, token revoked")
			case stderrors.Is(err, util.ErrInvalidToken), stderrors.Is(err, service.ErrUserNotFound):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Not authorized, token failed")
			default:
				log.Error("Failed to verify token", err)
				errors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserRoleKey, user.Role)
		c.Set(UserKey, user)
		c.Set(TokenKey, token)
		c.Set(ClaimsKey, claims)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": user.ID,
			"role":    user.Role,
		})

		c.Next()
	}
}

// OptionalAuthenticate sets the user when a valid token is present and
// continues as a guest otherwise.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		user, claims, err := m.verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			GetLoggerFromContext(c).Debug("Token validation failed - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserRoleKey, user.Role)
		c.Set(UserKey, user)
		c.Set(TokenKey, token)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole checks the role re-read from storage by Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		errors.Forbidden(c, errors.AuthzAdminOnly, "")
		c.Abort()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(model.RoleAdmin)
}

func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(model.UserRole)
	return r, ok
}

// GetUser returns the user loaded by Authenticate, or nil.
func GetUser(c *gin.Context) *model.User {
	if user, exists := c.Get(UserKey); exists {
		if u, ok := user.(*model.User); ok {
			return u
		}
	}
	return nil
}

func GetToken(c *gin.Context) (string, *util.Claims) {
	token := c.GetString(TokenKey)
	if claims, exists := c.Get(ClaimsKey); exists {
		if cl, ok := claims.(*util.Claims); ok {
			return token, cl
		}
	}
	return token, nil
}
