package models

import "time"

// Project is a container for tasks, owned by exactly one user. The owner
// is implicitly authorized on all project sub-resources and never appears
// in the member list.
type Project struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	ColorCode   string          `gorm:"size:20" json:"colorCode"`
	OwnerID     uint            `gorm:"index;not null" json:"ownerId"`
	Owner       *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members     []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Tasks       []Task          `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }
