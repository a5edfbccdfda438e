package models

import "time"

// Roles. Role-gated UI on the client decodes these from the token, but
// the server re-verifies the role on every admin request.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User represents an account. The password hash is never serialized.
// Deletion is hard: a removed account frees its email for re-registration.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Email     string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Role      string     `gorm:"size:20;default:USER" json:"role"`
	AvatarURL string     `gorm:"size:500" json:"avatarUrl"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }
