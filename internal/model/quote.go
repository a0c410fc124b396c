package model

import "time"

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusViewed   QuoteStatus = "viewed"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusViewed, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// TotalAmount is always the sum of the current items' TotalPrice; it is
// recomputed from the item rows on every mutation and never written directly.
type Quote struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	ClientID    uint        `gorm:"index;not null" json:"client_id"`
	ProjectID   *uint       `gorm:"index" json:"project_id"`
	QuoteNumber string      `gorm:"size:50;uniqueIndex;not null" json:"quote_number"`
	Title       string      `gorm:"size:200;not null" json:"title"`
	Description string      `json:"description"`
	TotalAmount float64     `json:"total_amount"`
	Status      QuoteStatus `gorm:"size:50;not null;default:draft" json:"status"`
	ValidUntil  *time.Time  `json:"valid_until"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Items []QuoteItem `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
}

type QuoteItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	QuoteID     uint    `gorm:"index;not null" json:"quote_id"`
	ServiceName string  `gorm:"size:200;not null" json:"service_name"`
	Description string  `json:"description"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	TotalPrice  float64 `gorm:"not null" json:"total_price"`
}
