package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationKindNewMessage     = "new_message"
	NotificationKindMessageReply   = "message_reply"
	NotificationKindContactRequest = "contact_request"
	NotificationKindBadgeEarned    = "badge_earned"
)

type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index" json:"user_id"`
	Kind      string         `gorm:"type:varchar(50)" json:"kind"`
	Title     string         `gorm:"type:varchar(255)" json:"title"`
	Message   string         `gorm:"type:varchar(255)" json:"message"`
	ActionURL string         `gorm:"type:varchar(255)" json:"action_url"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
