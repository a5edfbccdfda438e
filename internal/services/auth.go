package services

import (
	"errors"
	"strings"
	"time"

	"github.com/taskhub-dev/taskhub/internal/config"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/utils"
	"github.com/taskhub-dev/taskhub/pkg/logger"
	"github.com/taskhub-dev/taskhub/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the token/user pair. The user's password hash is
// excluded by the model's json tag, never by handler-side projection.
type AuthResponse struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

// Register creates a new USER account and logs it in.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, response.NewConflict("email already registered")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashed,
		Role:     models.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return s.issueToken(&user)
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the same 401 so the two cannot be told apart.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("invalid email or password")
		}
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewUnauthorized("invalid email or password")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		logger.Errorf("[Auth] failed to record last login for user %d: %v", user.ID, err)
	}

	return s.issueToken(&user)
}

func (s *AuthService) issueToken(user *models.User) (*AuthResponse, error) {
	hours := s.jwtConfig.ExpireHour
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, hours)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:    token,
		User:     user,
		ExpireAt: time.Now().Add(time.Duration(hours) * time.Hour),
	}, nil
}

// GetUserByID retrieves a user by ID.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// CreateAdminIfNotExists bootstraps a default ADMIN account on first
// start so the instance is never locked out.
func (s *AuthService) CreateAdminIfNotExists() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword("admin")
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    "admin@taskhub.local",
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Warn().Msg("default admin account created (admin@taskhub.local); change its password")
	return nil
}
