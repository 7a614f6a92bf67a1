package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"gorm.io/gorm"
)

type webhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates an event log repository backed by GORM.
func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) Create(ctx context.Context, event *models.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *webhookEventRepository) GetByID(ctx context.Context, id string) (*models.WebhookEvent, error) {
	var event models.WebhookEvent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *webhookEventRepository) MarkProcessed(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("id = ? AND processed_at IS NULL", id).
		Updates(map[string]interface{}{"processed_at": &at}).Error
}

func (r *webhookEventRepository) MarkFailed(ctx context.Context, id string, message string) error {
	return r.db.WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"error": &message}).Error
}

func (r *webhookEventRepository) List(ctx context.Context, filter WebhookEventFilter) ([]models.WebhookEvent, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.WebhookEvent{})
	if filter.Source != "" {
		q = q.Where("source = ?", filter.Source)
	}
	switch filter.Status {
	case models.WebhookStatusProcessed:
		q = q.Where("processed_at IS NOT NULL")
	case models.WebhookStatusErrored:
		q = q.Where("processed_at IS NULL AND error IS NOT NULL AND error <> ''")
	case models.WebhookStatusPending:
		q = q.Where("processed_at IS NULL AND (error IS NULL OR error = '')")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.WebhookEvent
	err := q.Order("received_at DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&events).Error
	return events, total, err
}

func (r *webhookEventRepository) ListReceivedBetween(ctx context.Context, from, to time.Time) ([]models.WebhookEvent, error) {
	var events []models.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("received_at >= ? AND received_at < ?", from, to).
		Order("received_at ASC").
		Find(&events).Error
	return events, err
}
