package services

import (
	"time"

	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

// DashboardService aggregates per-user counters for the dashboard and
// analytics screens.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStats struct {
	ProjectsOwned       int64            `json:"projects_owned"`
	ProjectsJoined      int64            `json:"projects_joined"`
	TasksAssigned       int64            `json:"tasks_assigned"`
	TasksByStatus       map[string]int64 `json:"tasks_by_status"`
	TasksOverdue        int64            `json:"tasks_overdue"`
	UnreadNotifications int64            `json:"unread_notifications"`
}

// Stats computes the caller's dashboard counters.
func (s *DashboardService) Stats(userID uint) (*DashboardStats, error) {
	stats := &DashboardStats{
		TasksByStatus: make(map[string]int64),
	}

	if err := s.db.Model(&models.Project{}).
		Where("owner_id = ?", userID).
		Count(&stats.ProjectsOwned).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Count(&stats.ProjectsJoined).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Task{}).
		Where("assignee_id = ?", userID).
		Count(&stats.TasksAssigned).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var byStatus []statusCount
	if err := s.db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Where("assignee_id = ?", userID).
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, sc := range byStatus {
		stats.TasksByStatus[sc.Status] = sc.Count
	}

	if err := s.db.Model(&models.Task{}).
		Where("assignee_id = ? AND due_date < ? AND status != ?",
			userID, time.Now(), models.StatusCompleted).
		Count(&stats.TasksOverdue).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&stats.UnreadNotifications).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
