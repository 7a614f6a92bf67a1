package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// UserSettings stores per-user preferences and the hashed bearer token used by
// the check-in API.
type UserSettings struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"uniqueIndex" json:"user_id"`
	Timezone         string     `gorm:"type:varchar(64);default:''" json:"timezone"`
	APIKeyHash       string     `gorm:"type:char(64);default:'';index" json:"-"`
	APIKeyPrefix     string     `gorm:"type:varchar(20);default:''" json:"api_key_prefix"`
	APIKeyCreatedAt  *time.Time `json:"api_key_created_at"`
	APIKeyLastUsedAt *time.Time `json:"api_key_last_used_at"`
	APIKeyRevokedAt  *time.Time `json:"api_key_revoked_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

var apiKeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

const apiKeyPrefix = "lbe_"

// HasActiveAPIKey reports whether the user has an active access token configured
func (us *UserSettings) HasActiveAPIKey() bool {
	return us != nil && us.APIKeyHash != "" && us.APIKeyRevokedAt == nil
}

// Location resolves the stored timezone, falling back to def when empty or unknown.
func (us *UserSettings) Location(def *time.Location) *time.Location {
	if us == nil || strings.TrimSpace(us.Timezone) == "" {
		return def
	}
	loc, err := time.LoadLocation(strings.TrimSpace(us.Timezone))
	if err != nil {
		return def
	}
	return loc
}

// IssueAPIKey generates a new access token, stores its hash on the struct and
// returns the raw secret. Callers must persist the struct afterwards.
func (us *UserSettings) IssueAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	rawKey := apiKeyPrefix + strings.ToLower(apiKeyEncoding.EncodeToString(b))
	if len(rawKey) < 16 {
		return "", fmt.Errorf("api key generation failed: key too short")
	}

	now := time.Now()
	us.APIKeyHash = HashAPIKey(rawKey)
	us.APIKeyPrefix = rawKey[:16]
	us.APIKeyCreatedAt = &now
	us.APIKeyRevokedAt = nil
	us.APIKeyLastUsedAt = nil
	return rawKey, nil
}

// RevokeAPIKey clears the stored token metadata without deleting the record.
func (us *UserSettings) RevokeAPIKey() {
	us.APIKeyHash = ""
	us.APIKeyPrefix = ""
	now := time.Now()
	us.APIKeyRevokedAt = &now
	us.APIKeyLastUsedAt = nil
}

// HashAPIKey returns the SHA-256 hash for the provided token.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}
