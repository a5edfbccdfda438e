package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/pkg/response"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns per-user workload counters.
// GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
