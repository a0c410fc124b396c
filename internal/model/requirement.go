package model

import "time"

type RequirementStatus string

const (
	RequirementStatusPending    RequirementStatus = "pending"
	RequirementStatusInProgress RequirementStatus = "in_progress"
	RequirementStatusCompleted  RequirementStatus = "completed"
	RequirementStatusBlocked    RequirementStatus = "blocked"
)

func (s RequirementStatus) Valid() bool {
	switch s {
	case RequirementStatusPending, RequirementStatusInProgress, RequirementStatusCompleted, RequirementStatusBlocked:
		return true
	}
	return false
}

type Requirement struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	ProjectID          uint              `gorm:"index;not null" json:"project_id"`
	Title              string            `gorm:"size:200;not null" json:"title"`
	Description        string            `json:"description"`
	Priority           Priority          `gorm:"size:20;not null;default:medium" json:"priority"`
	Status             RequirementStatus `gorm:"size:50;not null;default:pending" json:"status"`
	Category           string            `gorm:"size:100" json:"category"`
	AcceptanceCriteria string            `json:"acceptance_criteria"`
	EstimatedHours     int               `json:"estimated_hours"`
	AssignedUserID     *uint             `gorm:"index" json:"assigned_user_id"`
	DueDate            *time.Time        `json:"due_date"`
	CreatedBy          uint              `gorm:"not null" json:"created_by"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	CompletedAt        *time.Time        `json:"completed_at"`
}
