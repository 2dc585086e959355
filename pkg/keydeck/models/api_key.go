package models

import (
	"time"
)

// KeyStatus represents whether a stored key is usable
type KeyStatus string

const (
	KeyStatusActive   KeyStatus = "active"
	KeyStatusInactive KeyStatus = "inactive"
)

// KeyType represents the billing tier of a stored key
type KeyType string

const (
	KeyTypePaid KeyType = "paid"
	KeyTypeFree KeyType = "free"
)

// Providers is the fixed set of third-party providers a key can be tagged with
var Providers = []string{
	"openai",
	"google_gemini",
	"groq",
	"openrouter",
	"gitazure",
	"anthropic",
}

// ValidProvider reports whether tag is one of the known provider tags
func ValidProvider(tag string) bool {
	for _, p := range Providers {
		if tag == p {
			return true
		}
	}
	return false
}

// APIKey represents a stored third-party credential owned by a user.
// KeyName is unique across the whole store, not per owner. The secret value
// is stored and returned in plaintext - a known weakness of the current
// design, kept as documented behavior.
type APIKey struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	KeyName   string    `gorm:"uniqueIndex;not null" json:"keyName"`
	Key       string    `gorm:"not null" json:"apiKey"`
	UserID    string    `gorm:"not null;index" json:"userId"`
	Providers []string  `gorm:"serializer:json" json:"providers"`
	Status    KeyStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	Type      KeyType   `gorm:"type:varchar(10);default:'free'" json:"type"`
}
