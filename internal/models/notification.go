package models

import "time"

// Notification types emitted by the record managers.
const (
	NotifyTaskAssigned   = "task_assigned"
	NotifyTaskReassigned = "task_reassigned"
	NotifyTaskUpdated    = "task_updated"
	NotifyTaskCommented  = "task_commented"
	NotifyProjectAdded   = "project_added"
)

// Notification is a per-recipient record describing a side effect of
// someone else's mutation. It is only ever created by the record
// managers, never directly by a client.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	Title     string    `gorm:"size:200" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Link      string    `gorm:"size:500" json:"link"`
	Read      bool      `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
