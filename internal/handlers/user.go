package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/pkg/response"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns all users. Admin only.
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

// GetRole returns the role of a user by id.
// GET /api/users/:id/role
func (h *UserHandler) GetRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	role, err := h.userService.GetRole(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"role": role})
}

// Delete removes a user account. Admin only, self-deletion refused.
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
