package model

import "time"

type CommunicationType string

const (
	CommunicationEmail   CommunicationType = "email"
	CommunicationCall    CommunicationType = "call"
	CommunicationMeeting CommunicationType = "meeting"
	CommunicationNote    CommunicationType = "note"
)

func (t CommunicationType) Valid() bool {
	switch t {
	case CommunicationEmail, CommunicationCall, CommunicationMeeting, CommunicationNote:
		return true
	}
	return false
}

type Communication struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ClientID  uint              `gorm:"index;not null" json:"client_id"`
	ProjectID *uint             `gorm:"index" json:"project_id"`
	UserID    uint              `gorm:"not null" json:"user_id"`
	Type      CommunicationType `gorm:"size:50;not null" json:"type"`
	Subject   string            `gorm:"size:200" json:"subject"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"created_at"`
}
