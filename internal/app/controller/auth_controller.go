package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/service"
	"github.com/homeheartcreation/shop-backend/internal/errors"
	"github.com/homeheartcreation/shop-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Image *string `json:"image"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type VerifyPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ProfileResponse is the public view of an admin account. Token is only set
// by login and register.
type ProfileResponse struct {
	ID    uint           `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Role  model.UserRole `json:"role"`
	Image string         `json:"image"`
	Token string         `json:"token,omitempty"`
}

func newProfileResponse(user *model.User, token string) ProfileResponse {
	return ProfileResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Image: user.Image,
		Token: token,
	}
}

// Register creates the first admin, or another admin when called by one
// POST /api/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := ctrl.authService.Register(service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, middleware.GetUser(c))
	if err != nil {
		respondError(c, err, "Register")
		return
	}
	c.JSON(http.StatusCreated, newProfileResponse(user, token))
}

// Login
// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Login")
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(user, token))
}

// Logout revokes the presented token when a revocation store is configured
// POST /api/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	token, claims := middleware.GetToken(c)
	if err := ctrl.authService.Logout(c.Request.Context(), token, claims); err != nil {
		respondError(c, err, "Logout")
		return
	}
	messageResponse(c, "Logged out successfully")
}

// GetProfile
// GET /api/auth/profile
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		errors.Unauthorized(c, "")
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(user, ""))
}

// UpdateProfile
// PUT /api/auth/profile
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, service.ProfileInput{
		Name:  req.Name,
		Email: req.Email,
		Image: req.Image,
	})
	if err != nil {
		respondError(c, err, "Update profile")
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(user, ""))
}

// ChangePassword requires the current password
// PUT /api/auth/profile/password
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err, "Change password")
		return
	}
	messageResponse(c, "Password updated successfully")
}

// VerifyPassword checks the current password without changing it
// POST /api/auth/profile/password/verify
func (ctrl *AuthController) VerifyPassword(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	var req VerifyPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	verified, err := ctrl.authService.VerifyPassword(userID, req.Password)
	if err != nil {
		respondError(c, err, "Verify password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": verified})
}
