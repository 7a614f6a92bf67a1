package models

import "time"

// Entitlement grants a user access to a single course. Revocation keeps the row
// so a later payment can restore it.
type Entitlement struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index:ux_entitlements_user_course,unique,priority:1" json:"user_id"`
	CourseID      string     `gorm:"type:varchar(191);not null;index:ux_entitlements_user_course,unique,priority:2" json:"course_id"`
	GrantedAt     time.Time  `gorm:"type:timestamp;not null" json:"granted_at"`
	ExpiresAt     *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	RevokedAt     *time.Time `gorm:"type:timestamp;default:null;index" json:"revoked_at,omitempty"`
	SourceEventID string     `gorm:"type:char(36);default:''" json:"source_event_id"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the entitlement currently grants access.
func (e *Entitlement) IsActive(now time.Time) bool {
	if e.RevokedAt != nil {
		return false
	}
	return e.ExpiresAt == nil || e.ExpiresAt.After(now)
}
