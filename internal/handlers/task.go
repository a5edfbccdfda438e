package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/pkg/response"
)

type TaskHandler struct {
	taskService       *services.TaskService
	membershipService *services.MembershipService
}

func NewTaskHandler(taskService *services.TaskService, membershipService *services.MembershipService) *TaskHandler {
	return &TaskHandler{taskService: taskService, membershipService: membershipService}
}

// Create creates a task in a project the current user can access.
// POST /api/projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if _, err := h.membershipService.RequireAccess(projectID, userID); err != nil {
		response.Error(c, err)
		return
	}

	task, err := h.taskService.Create(projectID, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// List returns all tasks in a project.
// GET /api/projects/:id/tasks
func (h *TaskHandler) List(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.membershipService.RequireAccess(projectID, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	tasks, err := h.taskService.ListByProject(projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tasks)
}

// Update modifies a task's fields and notifies the assignee about changes.
// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	task, err := h.taskService.GetByID(taskID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.membershipService.RequireAccess(task.ProjectID, userID); err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.taskService.Update(taskID, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, updated)
}

// Delete removes a task.
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(taskID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.membershipService.RequireAccess(task.ProjectID, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.taskService.Delete(taskID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
