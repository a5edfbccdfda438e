package services

import (
	"errors"
	"strings"

	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/pkg/response"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns all users; admin only (enforced by the route).
func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetRole returns a user's role.
func (s *UserService) GetRole(id uint) (string, error) {
	var user models.User
	if err := s.db.Select("role").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", response.NewNotFound("user not found")
		}
		return "", err
	}
	return user.Role, nil
}

// Delete removes a user; admin only, and admins cannot delete themselves.
func (s *UserService) Delete(id, actorID uint) error {
	if id == actorID {
		return response.NewValidation("cannot delete your own account")
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("user not found")
		}
		return err
	}

	return s.db.Delete(&user).Error
}

type UpdateProfileRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// Profile returns the caller's own record.
func (s *UserService) Profile(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the caller's display name and avatar.
func (s *UserService) UpdateProfile(id uint, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.Profile(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if strings.TrimSpace(req.Name) != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return user, nil
}
