package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/pkg/response"
)

type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Register handles account creation.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, resp)
}

// Login handles user login.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// Profile returns the current user.
// GET /api/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.userService.Profile(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateProfile updates the current user's name and avatar.
// PUT /api/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}
