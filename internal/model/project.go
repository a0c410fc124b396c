package model

import "time"

type ProjectStatus string

const (
	ProjectStatusProposal  ProjectStatus = "proposal"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusProposal, ProjectStatusActive, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

type Project struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	ClientID       uint          `gorm:"index;not null" json:"client_id"`
	Name           string        `gorm:"size:200;not null" json:"name"`
	Description    string        `json:"description"`
	Status         ProjectStatus `gorm:"size:50;not null;default:proposal" json:"status"`
	ServiceType    string        `gorm:"size:100" json:"service_type"`
	StartDate      *time.Time    `json:"start_date"`
	EndDate        *time.Time    `json:"end_date"`
	Budget         float64       `json:"budget"`
	AssignedUserID *uint         `json:"assigned_user_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
