package models

import (
	"time"

	"github.com/lib/pq"
)

type Prayer struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string         `gorm:"index;not null" json:"user_id"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Category  *string        `gorm:"index" json:"category"`
	Tags      pq.StringArray `gorm:"type:text[]" json:"tags"`
	IsPublic  bool           `gorm:"not null;index" json:"is_public"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Favorite links a user to a prayer they saved. The pair is the key, so
// favoriting twice is a no-op.
type Favorite struct {
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	PrayerID  string    `gorm:"type:uuid;primaryKey" json:"prayer_id"`
	Prayer    Prayer    `gorm:"foreignKey:PrayerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
