package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/pkg/response"
	"gorm.io/gorm"
)

type CommentService struct {
	db       *gorm.DB
	dispatch *Dispatcher
}

func NewCommentService(db *gorm.DB, dispatch *Dispatcher) *CommentService {
	return &CommentService{db: db, dispatch: dispatch}
}

type AddCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Add creates a comment on the task. When the task has an assignee other
// than the commenter, the assignee gets a "task_commented" notification.
func (s *CommentService) Add(taskID, authorID uint, req *AddCommentRequest) (*models.Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, response.NewValidation("comment content is required")
	}

	var task models.Task
	if err := s.db.Preload("Assignee").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}

	comment := models.Comment{
		Content:  req.Content,
		TaskID:   taskID,
		AuthorID: authorID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	if task.Assignee != nil && task.Assignee.ID != authorID {
		s.dispatch.Notify(task.Assignee, models.NotifyTaskCommented,
			fmt.Sprintf("New comment on %s", task.Title),
			fmt.Sprintf("Someone commented on the task %q.", task.Title),
			fmt.Sprintf("/projects/%d/tasks/%d", task.ProjectID, task.ID))
	}

	if err := s.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTask returns the task's comments newest first with authors.
func (s *CommentService) ListByTask(taskID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.Where("task_id = ?", taskID).
		Preload("Author").
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment. One rule, enforced here: the author or an
// ADMIN, nobody else.
func (s *CommentService) Delete(commentID, actorID uint, actorRole string) error {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("comment not found")
		}
		return err
	}

	if comment.AuthorID != actorID && actorRole != models.RoleAdmin {
		return response.NewForbidden("only the author or an admin may delete this comment")
	}

	return s.db.Delete(&comment).Error
}

// GetTask loads the parent task of a comment target; used by routes to
// run the project access check before reading or writing comments.
func (s *CommentService) GetTask(taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}
	return &task, nil
}
