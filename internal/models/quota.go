package models

import (
	"time"
)

// QuotaRecord 每用户每日操作配额计数，按访问时惰性清零
type QuotaRecord struct {
	UserID        string    `gorm:"primaryKey;size:64" json:"user_id"`
	LastResetDate string    `gorm:"size:10;not null" json:"last_date"` // YYYY-MM-DD
	Adds          int       `gorm:"default:0" json:"adds"`
	Edits         int       `gorm:"default:0" json:"edits"`
	Deletes       int       `gorm:"default:0" json:"deletes"`
	Applies       int       `gorm:"default:0" json:"applies"`
	UpdatedAt     time.Time `json:"-"`
}
