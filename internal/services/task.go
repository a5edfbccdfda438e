package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/pkg/response"
	"gorm.io/gorm"
)

type TaskService struct {
	db       *gorm.DB
	dispatch *Dispatcher
}

func NewTaskService(db *gorm.DB, dispatch *Dispatcher) *TaskService {
	return &TaskService{db: db, dispatch: dispatch}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	AssigneeID  *uint      `json:"assigneeId"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	AssigneeID  *uint      `json:"assigneeId"`
}

// Create inserts a task into the project. The route must have checked
// project access already. The assignee defaults to the creator; a
// different assignee gets a "task_assigned" notification.
func (s *TaskService) Create(projectID, actorID uint, req *CreateTaskRequest) (*models.Task, error) {
	if req.Status != "" && !models.ValidStatus(req.Status) {
		return nil, response.NewValidation("invalid status")
	}
	if req.Priority != "" && !models.ValidPriority(req.Priority) {
		return nil, response.NewValidation("invalid priority")
	}

	assigneeID := actorID
	if req.AssigneeID != nil {
		assigneeID = *req.AssigneeID
	}

	var assignee models.User
	if err := s.db.First(&assignee, assigneeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewValidation("assignee does not exist")
		}
		return nil, err
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ProjectID:   projectID,
		AssigneeID:  &assigneeID,
	}
	if task.Status == "" {
		task.Status = models.StatusToDo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	if assigneeID != actorID {
		s.dispatch.Notify(&assignee, models.NotifyTaskAssigned,
			fmt.Sprintf("New task: %s", task.Title),
			fmt.Sprintf("You were assigned the task %q.", task.Title),
			taskLink(&task))
	}

	task.Assignee = &assignee
	return &task, nil
}

// ListByProject returns the project's tasks with assignees, newest first.
func (s *TaskService) ListByProject(projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Where("project_id = ?", projectID).
		Preload("Assignee").
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetByID loads one task.
func (s *TaskService) GetByID(taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.Preload("Assignee").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}
	return &task, nil
}

// Update applies the patch and emits up to three independent
// notifications, each compared against the pre-update snapshot and each
// addressed to the (possibly just-changed) assignee:
//
//	assignee changed → task_reassigned
//	status changed   → task_updated
//	priority changed → task_updated
//
// All are skipped when the task ends up with no assignee. A no-op
// reassignment (new assignee equals the old one) emits nothing.
func (s *TaskService) Update(taskID, actorID uint, req *UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}

	if req.Status != "" && !models.ValidStatus(req.Status) {
		return nil, response.NewValidation("invalid status")
	}
	if req.Priority != "" && !models.ValidPriority(req.Priority) {
		return nil, response.NewValidation("invalid priority")
	}

	// Pre-update snapshot for the notification rules
	prevStatus := task.Status
	prevPriority := task.Priority
	prevAssignee := task.AssigneeID

	reassigned := false
	if req.AssigneeID != nil {
		if prevAssignee == nil || *req.AssigneeID != *prevAssignee {
			var count int64
			if err := s.db.Model(&models.User{}).Where("id = ?", *req.AssigneeID).Count(&count).Error; err != nil {
				return nil, err
			}
			if count == 0 {
				return nil, response.NewValidation("assignee does not exist")
			}
			reassigned = true
		}
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Priority != "" {
		updates["priority"] = req.Priority
	}
	if req.DueDate != nil {
		updates["due_date"] = req.DueDate
	}
	if reassigned {
		updates["assignee_id"] = *req.AssigneeID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Preload("Assignee").First(&task, taskID).Error; err != nil {
		return nil, err
	}

	if task.Assignee != nil {
		if reassigned {
			s.dispatch.Notify(task.Assignee, models.NotifyTaskReassigned,
				fmt.Sprintf("Task reassigned: %s", task.Title),
				fmt.Sprintf("The task %q is now assigned to you.", task.Title),
				taskLink(&task))
		}
		if req.Status != "" && req.Status != prevStatus {
			s.dispatch.Notify(task.Assignee, models.NotifyTaskUpdated,
				fmt.Sprintf("Task updated: %s", task.Title),
				fmt.Sprintf("Status of %q changed from %s to %s.", task.Title, prevStatus, req.Status),
				taskLink(&task))
		}
		if req.Priority != "" && req.Priority != prevPriority {
			s.dispatch.Notify(task.Assignee, models.NotifyTaskUpdated,
				fmt.Sprintf("Task updated: %s", task.Title),
				fmt.Sprintf("Priority of %q changed from %s to %s.", task.Title, prevPriority, req.Priority),
				taskLink(&task))
		}
	}

	return &task, nil
}

// Delete removes a task by id. Project access is enforced by the route
// before this is called.
func (s *TaskService) Delete(taskID uint) error {
	result := s.db.Delete(&models.Task{}, taskID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("task not found")
	}
	return nil
}

func taskLink(task *models.Task) string {
	return fmt.Sprintf("/projects/%d/tasks/%d", task.ProjectID, task.ID)
}
