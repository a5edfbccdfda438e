package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/pkg/response"
)

type ProjectHandler struct {
	projectService    *services.ProjectService
	membershipService *services.MembershipService
}

func NewProjectHandler(projectService *services.ProjectService, membershipService *services.MembershipService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, membershipService: membershipService}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// Create creates a project owned by the current user.
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, project)
}

// List returns projects the current user owns or belongs to.
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, projects)
}

// GetByID returns a single project with its tasks.
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(id, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

// Update updates project fields. Owner only.
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(id, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

// Delete removes a project and everything under it. Owner only.
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// AddMember adds a user to the project. Owner only.
// POST /api/projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.membershipService.Add(id, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// RemoveMember removes a member from the project. Owner only.
// DELETE /api/projects/:id/members/:userId
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	if err := h.membershipService.Remove(id, middleware.GetUserID(c), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListMembers returns the project's owner and members.
// GET /api/projects/:id/members
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	list, err := h.membershipService.List(id, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
