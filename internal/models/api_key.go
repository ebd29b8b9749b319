package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"gorm.io/gorm"
)

// APIKey lets staff scripts (bank statement reconciliation, chat bots) call
// the admin API. Only the SHA-256 of the key is stored.
type APIKey struct {
	gorm.Model
	UserID     uint       `json:"userId" gorm:"index;not null"`
	User       User       `json:"-"`
	KeyHash    string     `json:"-" gorm:"uniqueIndex;not null"`
	Last4      string     `json:"last4"`
	Name       string     `json:"name"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
}

func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
