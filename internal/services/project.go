package services

import (
	"errors"

	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db         *gorm.DB
	membership *MembershipService
}

func NewProjectService(db *gorm.DB, membership *MembershipService) *ProjectService {
	return &ProjectService{db: db, membership: membership}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ColorCode   string `json:"colorCode"`
}

type UpdateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ColorCode   string  `json:"colorCode"`
}

// Create inserts a project owned by the caller.
func (s *ProjectService) Create(ownerID uint, req *CreateProjectRequest) (*models.Project, error) {
	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		ColorCode:   req.ColorCode,
		OwnerID:     ownerID,
	}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns every project the caller owns or is a member of, with
// nested members and tasks.
func (s *ProjectService) List(userID uint) ([]models.Project, error) {
	var memberProjectIDs []uint
	if err := s.db.Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &memberProjectIDs).Error; err != nil {
		return nil, err
	}

	var projects []models.Project
	query := s.db.
		Preload("Owner").
		Preload("Members.User").
		Preload("Tasks").
		Order("created_at DESC")

	if len(memberProjectIDs) > 0 {
		query = query.Where("owner_id = ? OR id IN ?", userID, memberProjectIDs)
	} else {
		query = query.Where("owner_id = ?", userID)
	}

	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// GetByID returns one project with nested members and tasks. The access
// check lives here: owner or member only.
func (s *ProjectService) GetByID(projectID, userID uint) (*models.Project, error) {
	if _, err := s.membership.RequireAccess(projectID, userID); err != nil {
		return nil, err
	}

	var project models.Project
	if err := s.db.
		Preload("Owner").
		Preload("Members.User").
		Preload("Tasks.Assignee").
		First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	return &project, nil
}

// Update applies the whitelisted patch; owner only.
func (s *ProjectService) Update(projectID, userID uint, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := s.loadOwned(projectID, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ColorCode != "" {
		updates["color_code"] = req.ColorCode
	}

	if len(updates) > 0 {
		if err := s.db.Model(project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return project, nil
}

// Delete removes the project; owner only. Tasks, members, and comments
// go with it via the schema's cascades.
func (s *ProjectService) Delete(projectID, userID uint) error {
	project, err := s.loadOwned(projectID, userID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint
		if err := tx.Model(&models.Task{}).Where("project_id = ?", projectID).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
}

func (s *ProjectService) loadOwned(projectID, userID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	if project.OwnerID != userID {
		return nil, response.NewForbidden("only the project owner may modify it")
	}
	return &project, nil
}
