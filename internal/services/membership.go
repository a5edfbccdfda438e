package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/pkg/response"
	"gorm.io/gorm"
)

// MembershipService is the single owner of the project access policy:
// owner-or-member read, owner-only write. Task and comment managers use
// CanAccess as their authorization primitive instead of growing policies
// of their own.
type MembershipService struct {
	db       *gorm.DB
	dispatch *Dispatcher
}

func NewMembershipService(db *gorm.DB, dispatch *Dispatcher) *MembershipService {
	return &MembershipService{db: db, dispatch: dispatch}
}

// CanAccess reports whether userID is the owner or a member of the
// project, returning the loaded project alongside. A missing project is
// a NotFound error.
func (s *MembershipService) CanAccess(projectID, userID uint) (bool, *models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, response.NewNotFound("project not found")
		}
		return false, nil, err
	}

	if project.OwnerID == userID {
		return true, &project, nil
	}

	var count int64
	if err := s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return false, nil, err
	}

	return count > 0, &project, nil
}

// RequireAccess is CanAccess with the negative case turned into a 403.
func (s *MembershipService) RequireAccess(projectID, userID uint) (*models.Project, error) {
	ok, project, err := s.CanAccess(projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("not a member of this project")
	}
	return project, nil
}

// requireOwner loads the project and rejects anyone but its owner.
func (s *MembershipService) requireOwner(projectID, userID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	if project.OwnerID != userID {
		return nil, response.NewForbidden("only the project owner may manage members")
	}
	return &project, nil
}

type AddMemberRequest struct {
	// Email or numeric user id of the user to add
	User string `json:"user" binding:"required"`
}

// resolveUser finds the target user by email or decimal id.
func (s *MembershipService) resolveUser(emailOrID string) (*models.User, error) {
	var user models.User

	emailOrID = strings.TrimSpace(emailOrID)
	if id, err := strconv.ParseUint(emailOrID, 10, 32); err == nil {
		if err := s.db.First(&user, uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFound("user not found")
			}
			return nil, err
		}
		return &user, nil
	}

	if err := s.db.Where("email = ?", strings.ToLower(emailOrID)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// Add makes the resolved user a member. Owner-only; adding the owner or
// an existing member is a conflict. The new member is notified.
func (s *MembershipService) Add(projectID, actorID uint, req *AddMemberRequest) (*models.ProjectMember, error) {
	project, err := s.requireOwner(projectID, actorID)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveUser(req.User)
	if err != nil {
		return nil, err
	}

	if user.ID == project.OwnerID {
		return nil, response.NewConflict("the owner is already part of the project")
	}

	var count int64
	if err := s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, user.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, response.NewConflict("user is already a member of this project")
	}

	member := models.ProjectMember{ProjectID: projectID, UserID: user.ID}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, err
	}

	s.dispatch.Notify(user, models.NotifyProjectAdded,
		fmt.Sprintf("Added to project %q", project.Name),
		fmt.Sprintf("You were added to project %q and can now see its tasks.", project.Name),
		fmt.Sprintf("/projects/%d", project.ID))

	member.User = user
	return &member, nil
}

// Remove deletes the membership row. Owner-only; removing the owner is
// rejected, removing a non-member is a 404.
func (s *MembershipService) Remove(projectID, actorID, memberUserID uint) error {
	project, err := s.requireOwner(projectID, actorID)
	if err != nil {
		return err
	}

	if memberUserID == project.OwnerID {
		return response.NewValidation("the project owner cannot be removed")
	}

	result := s.db.Where("project_id = ? AND user_id = ?", projectID, memberUserID).
		Delete(&models.ProjectMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("user is not a member of this project")
	}
	return nil
}

// MemberList is the owner plus the plain members of a project.
type MemberList struct {
	Owner   *models.User           `json:"owner"`
	Members []models.ProjectMember `json:"members"`
}

// List returns the owner and member users; viewable by the owner or any
// existing member.
func (s *MembershipService) List(projectID, actorID uint) (*MemberList, error) {
	project, err := s.RequireAccess(projectID, actorID)
	if err != nil {
		return nil, err
	}

	var owner models.User
	if err := s.db.First(&owner, project.OwnerID).Error; err != nil {
		return nil, err
	}

	var members []models.ProjectMember
	if err := s.db.Where("project_id = ?", projectID).
		Preload("User").
		Find(&members).Error; err != nil {
		return nil, err
	}

	return &MemberList{Owner: &owner, Members: members}, nil
}
