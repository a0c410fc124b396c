package model

import "time"

type Client struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyName string    `gorm:"size:200;not null" json:"company_name"`
	ContactName string    `gorm:"size:100;not null" json:"contact_name"`
	Email       string    `gorm:"size:120;not null" json:"email"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Address     string    `json:"address"`
	Industry    string    `gorm:"size:100" json:"industry"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
