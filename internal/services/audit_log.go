package services

import (
	"encoding/json"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/pkg/logger"
	"gorm.io/gorm"
)

// AuditLogService stores and queries the audit trail. It implements the
// audit middleware's recorder interface.
type AuditLogService struct {
	db *gorm.DB
}

func NewAuditLogService(db *gorm.DB) *AuditLogService {
	return &AuditLogService{db: db}
}

// Record persists one audit entry. Failures are logged, never surfaced:
// auditing must not fail a request that already completed.
func (s *AuditLogService) Record(level, module, action, message string, userID *uint, ip, userAgent string, extra map[string]interface{}) {
	var extraStr string
	if extra != nil {
		if b, err := json.Marshal(extra); err == nil {
			extraStr = string(b)
		}
	}

	entry := models.AuditLog{
		Level:     level,
		Module:    module,
		Action:    action,
		Message:   message,
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
		Extra:     extraStr,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		logger.Errorf("[Audit] failed to record entry: %v", err)
	}
}

type AuditLogListRequest struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Level     string `form:"level"`
	Module    string `form:"module"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type AuditLogListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []models.AuditLog `json:"items"`
}

// List returns a filtered, paginated slice of the audit trail.
func (s *AuditLogService) List(req *AuditLogListRequest) (*AuditLogListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	var items []models.AuditLog
	var total int64

	query := s.db.Model(&models.AuditLog{})
	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}
	if req.StartDate != "" {
		query = query.Where("created_at >= ?", req.StartDate)
	}
	if req.EndDate != "" {
		query = query.Where("created_at <= ?", req.EndDate+" 23:59:59")
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &AuditLogListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// Cleanup deletes audit entries older than retentionDays and returns the
// number removed.
func (s *AuditLogService) Cleanup(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}

// RetentionScheduler purges old audit entries and old read notifications
// on a nightly cron.
type RetentionScheduler struct {
	cron          *cron.Cron
	db            *gorm.DB
	retentionDays int
}

func NewRetentionScheduler(db *gorm.DB, retentionDays int) *RetentionScheduler {
	return &RetentionScheduler{
		cron:          cron.New(),
		db:            db,
		retentionDays: retentionDays,
	}
}

// Start schedules the nightly purge and runs one pass immediately.
func (r *RetentionScheduler) Start() error {
	if _, err := r.cron.AddFunc("0 3 * * *", r.run); err != nil {
		return err
	}
	r.cron.Start()
	go r.run()
	return nil
}

// Stop halts the scheduler; running jobs finish.
func (r *RetentionScheduler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *RetentionScheduler) run() {
	svc := NewAuditLogService(r.db)
	deleted, err := svc.Cleanup(r.retentionDays)
	if err != nil {
		logger.Errorf("[Retention] audit log cleanup failed: %v", err)
	} else if deleted > 0 {
		logger.Infof("[Retention] removed %d audit entries older than %d days", deleted, r.retentionDays)
	}

	cutoff := time.Now().AddDate(0, 0, -r.retentionDays)
	result := r.db.Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		logger.Errorf("[Retention] notification cleanup failed: %v", result.Error)
	} else if result.RowsAffected > 0 {
		logger.Infof("[Retention] removed %d read notifications older than %d days", result.RowsAffected, r.retentionDays)
	}
}
