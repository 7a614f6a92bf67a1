package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type badgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository creates a badge repository backed by GORM.
func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

// Award relies on the unique (user_id, badge_slug) index so that concurrent
// evaluations never produce two rows. On MySQL DoNothing renders as a no-op
// ON DUPLICATE KEY UPDATE, which reports zero affected rows for existing badges.
func (r *badgeRepository) Award(ctx context.Context, userID uint, slug string, at time.Time) (bool, error) {
	badge := models.UserBadge{UserID: userID, BadgeSlug: slug, EarnedAt: at}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "badge_slug"},
		},
		DoNothing: true,
	}).Create(&badge)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *badgeRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	var badges []models.UserBadge
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("earned_at ASC").Find(&badges).Error
	return badges, err
}
