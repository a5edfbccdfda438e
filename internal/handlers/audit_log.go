package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/pkg/response"
)

type AuditLogHandler struct {
	auditService  *services.AuditLogService
	retentionDays int
}

func NewAuditLogHandler(auditService *services.AuditLogService, retentionDays int) *AuditLogHandler {
	return &AuditLogHandler{auditService: auditService, retentionDays: retentionDays}
}

// List returns a filtered page of the audit trail. Admin only.
// GET /api/audit-logs
func (h *AuditLogHandler) List(c *gin.Context) {
	var req services.AuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.auditService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Cleanup purges audit entries older than the retention window. Admin only.
// POST /api/audit-logs/cleanup
func (h *AuditLogHandler) Cleanup(c *gin.Context) {
	removed, err := h.auditService.Cleanup(h.retentionDays)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"removed": removed})
}
