package models

import "time"

// Task statuses (kanban columns).
const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Task priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Task belongs to exactly one project and optionally one assignee.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:20;default:To Do" json:"status"`
	Priority    string     `gorm:"size:10;default:Medium" json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	ProjectID   uint       `gorm:"index;not null" json:"projectId"`
	AssigneeID  *uint      `json:"assigneeId"`
	Assignee    *User      `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Comments    []Comment  `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }

// ValidStatus reports whether s is one of the three kanban columns.
func ValidStatus(s string) bool {
	return s == StatusToDo || s == StatusInProgress || s == StatusCompleted
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
