package models

import "time"

// UserBadge records an earned achievement. Rows are never deleted.
type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;index:ux_user_badges_user_slug,unique,priority:1" json:"user_id"`
	BadgeSlug string    `gorm:"type:varchar(64);not null;index:ux_user_badges_user_slug,unique,priority:2" json:"badge_slug"`
	EarnedAt  time.Time `gorm:"type:timestamp;not null" json:"earned_at"`
}
