package models

import (
	"time"
)

// User represents a registered account. Identity is the sole key referenced
// by tokens and by key ownership.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `json:"-"`

	// Relationships
	APIKeys []APIKey `gorm:"foreignKey:UserID" json:"apiKeys,omitempty"`
}
