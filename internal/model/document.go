package model

import "time"

// Document references an uploaded file by path; file storage itself is
// outside this service.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProjectID  *uint     `gorm:"index" json:"project_id"`
	QuoteID    *uint     `gorm:"index" json:"quote_id"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	FilePath   string    `gorm:"size:500;not null" json:"file_path"`
	FileType   string    `gorm:"size:50" json:"file_type"`
	UploadedBy uint      `gorm:"not null" json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
