package model

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked, TaskStatusCancelled:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Task struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	ProjectID          uint       `gorm:"index;not null" json:"project_id"`
	RequirementID      *uint      `gorm:"index" json:"requirement_id"`
	Title              string     `gorm:"size:200;not null" json:"title"`
	Description        string     `json:"description"`
	Status             TaskStatus `gorm:"size:50;not null;default:todo" json:"status"`
	Priority           Priority   `gorm:"size:20;not null;default:medium" json:"priority"`
	Category           string     `gorm:"size:100" json:"category"`
	AssignedUserID     *uint      `gorm:"index" json:"assigned_user_id"`
	CreatedBy          uint       `gorm:"not null" json:"created_by"`
	DueDate            *time.Time `json:"due_date"`
	EstimatedHours     int        `json:"estimated_hours"`
	ActualHours        int        `json:"actual_hours"`
	ProgressPercentage int        `json:"progress_percentage"`
	Blockers           string     `json:"blockers"`
	Notes              string     `json:"notes"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	StartedAt          *time.Time `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`

	TimeLogs []TaskTimeLog `gorm:"foreignKey:TaskID" json:"time_logs,omitempty"`
}

type TaskTimeLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TaskID      uint      `gorm:"index;not null" json:"task_id"`
	UserID      uint      `gorm:"not null" json:"user_id"`
	Description string    `json:"description"`
	HoursWorked float64   `gorm:"not null" json:"hours_worked"`
	WorkDate    time.Time `json:"work_date"`
	CreatedAt   time.Time `json:"created_at"`
}
