package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/pkg/response"
)

type CommentHandler struct {
	commentService    *services.CommentService
	membershipService *services.MembershipService
}

func NewCommentHandler(commentService *services.CommentService, membershipService *services.MembershipService) *CommentHandler {
	return &CommentHandler{commentService: commentService, membershipService: membershipService}
}

// Add posts a comment on a task.
// POST /api/tasks/:id/comments
func (h *CommentHandler) Add(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	task, err := h.commentService.GetTask(taskID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.membershipService.RequireAccess(task.ProjectID, userID); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := h.commentService.Add(taskID, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// List returns all comments on a task.
// GET /api/tasks/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.commentService.GetTask(taskID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.membershipService.RequireAccess(task.ProjectID, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	comments, err := h.commentService.ListByTask(taskID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

// Delete removes a comment. Allowed for its author or an admin.
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.commentService.Delete(commentID, middleware.GetUserID(c), middleware.GetRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
