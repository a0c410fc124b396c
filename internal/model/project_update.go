package model

import "time"

type UpdateType string

const (
	UpdateTypeProgress          UpdateType = "progress"
	UpdateTypeMilestone         UpdateType = "milestone"
	UpdateTypeIssue             UpdateType = "issue"
	UpdateTypeNextSteps         UpdateType = "next_steps"
	UpdateTypeRequirementChange UpdateType = "requirement_change"
)

func (t UpdateType) Valid() bool {
	switch t {
	case UpdateTypeProgress, UpdateTypeMilestone, UpdateTypeIssue, UpdateTypeNextSteps, UpdateTypeRequirementChange:
		return true
	}
	return false
}

// ProjectUpdate is an append-only history entry; updates replace its own
// fields only and never trigger recomputation elsewhere.
type ProjectUpdate struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	ProjectID           uint       `gorm:"index;not null" json:"project_id"`
	Title               string     `gorm:"size:200;not null" json:"title"`
	Description         string     `json:"description"`
	UpdateType          UpdateType `gorm:"size:50;not null;default:progress" json:"update_type"`
	StatusBefore        string     `gorm:"size:50" json:"status_before"`
	StatusAfter         string     `gorm:"size:50" json:"status_after"`
	ProgressPercentage  int        `json:"progress_percentage"`
	NextSteps           string     `json:"next_steps"`
	Blockers            string     `json:"blockers"`
	EstimatedCompletion *time.Time `json:"estimated_completion"`
	CreatedBy           uint       `gorm:"not null" json:"created_by"`
	CreatedAt           time.Time  `json:"created_at"`

	Attachments []ProjectUpdateAttachment `gorm:"foreignKey:UpdateID" json:"attachments,omitempty"`
}

type ProjectUpdateAttachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UpdateID    uint      `gorm:"index;not null" json:"update_id"`
	Filename    string    `gorm:"size:255;not null" json:"filename"`
	FilePath    string    `gorm:"size:500;not null" json:"file_path"`
	FileType    string    `gorm:"size:50" json:"file_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
