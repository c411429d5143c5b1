package models

import "time"

// User represents an account holder. Password is empty for accounts
// created through Google sign-in; such accounts cannot log in with
// a password.
type User struct {
	Base
	Username            string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email               string     `gorm:"size:255;not null" json:"email"`
	Password            string     `gorm:"size:255" json:"-"`
	FirstName           string     `gorm:"size:150" json:"first_name"`
	LastName            string     `gorm:"size:150" json:"last_name"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	Profile      *UserProfile  `gorm:"foreignKey:UserID" json:"profile"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Badges       []Badge       `gorm:"foreignKey:UserID" json:"badges,omitempty"`
}

// HasUsablePassword reports whether the user can authenticate with a
// password. Google-created accounts store no credential.
func (u *User) HasUsablePassword() bool {
	return u.Password != ""
}

// UserProfile stores per-user preferences and gamification state.
// Exactly zero or one profile exists per user; it is created at
// registration and ensured lazily on first profile access.
type UserProfile struct {
	Base
	UserID         string  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	ProfilePicture *string `gorm:"size:255" json:"profile_picture"`
	Points         int     `gorm:"not null;default:0" json:"points"`
}
