package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

// User is an SSO-style identity synchronised from the CRM. There is no local
// password; sign-in happens elsewhere.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"type:varchar(150)" json:"name" validate:"max=150"`
	Email      string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,max=200"`
	ExternalID string         `gorm:"type:varchar(191);index" json:"external_id,omitempty" validate:"max=191"`
	Role       string         `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Status     string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	Phone      string         `gorm:"type:varchar(50);default:null" json:"phone,omitempty" validate:"max=50"`
	AvatarURL  string         `gorm:"type:varchar(255);default:null" json:"avatar_url,omitempty" validate:"max=255"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// NormalizeEmail lowercases and trims an address so lookups by email are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}
