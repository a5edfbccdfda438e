package models

import "time"

// Comment is authored by one user on one task. Only the author or an
// ADMIN may delete it.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	TaskID    uint      `gorm:"index;not null" json:"taskId"`
	AuthorID  uint      `gorm:"not null" json:"authorId"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Comment) TableName() string { return "comments" }
