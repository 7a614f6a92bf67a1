package models

import (
	"time"

	"gorm.io/datatypes"
)

// Webhook sources accepted by the gateway.
const (
	WebhookSourcePayments     = "payments"
	WebhookSourceSubscription = "subscription"
	WebhookSourceCRM          = "crm"
	WebhookSourceMessaging    = "messaging"
)

// Derived processing status of a webhook event.
const (
	WebhookStatusPending   = "pending"
	WebhookStatusProcessed = "processed"
	WebhookStatusErrored   = "errored"
)

// WebhookEvent is one row of the event log. Every inbound delivery that passes
// signature and schema checks produces exactly one row; rows are never deleted.
type WebhookEvent struct {
	ID          string         `gorm:"type:char(36);primaryKey" json:"id"`
	Source      string         `gorm:"type:varchar(20);not null;index:idx_webhook_events_source_type,priority:1" json:"source"`
	EventType   string         `gorm:"type:varchar(100);not null;index:idx_webhook_events_source_type,priority:2" json:"event_type"`
	Payload     datatypes.JSON `gorm:"type:json;not null" json:"payload"`
	ReceivedAt  time.Time      `gorm:"type:timestamp;not null;index" json:"received_at"`
	ProcessedAt *time.Time     `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	Error       *string        `gorm:"type:text" json:"error,omitempty"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// Status derives pending/processed/errored from the outcome columns. A
// processed event wins over a stale error left by an earlier replay attempt.
func (e *WebhookEvent) Status() string {
	switch {
	case e.ProcessedAt != nil:
		return WebhookStatusProcessed
	case e.Error != nil && *e.Error != "":
		return WebhookStatusErrored
	default:
		return WebhookStatusPending
	}
}
