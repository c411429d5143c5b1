package models

import "time"

// DefaultBadgeIcon is used when a badge is created without an icon.
const DefaultBadgeIcon = "trophy"

// Badge represents an achievement earned by a user. EarnedAt is set
// once at creation and never updated.
type Badge struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:50;not null;default:trophy" json:"icon"`
	EarnedAt    time.Time `gorm:"not null" json:"earned_at"`
}
