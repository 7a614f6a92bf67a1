package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"gorm.io/gorm"
)

type checkInRepository struct {
	db *gorm.DB
}

// NewCheckInRepository creates a check-in repository backed by GORM.
func NewCheckInRepository(db *gorm.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

// Create inserts the check-in. A second row for the same user and day fails
// with gorm.ErrDuplicatedKey (the DB handle runs with TranslateError).
func (r *checkInRepository) Create(ctx context.Context, checkIn *models.CheckIn) error {
	return r.db.WithContext(ctx).Create(checkIn).Error
}

func (r *checkInRepository) FindByUserAndDay(ctx context.Context, userID uint, day string) (*models.CheckIn, error) {
	var checkIn models.CheckIn
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND check_in_day = ?", userID, day).
		First(&checkIn).Error
	if err != nil {
		return nil, err
	}
	return &checkIn, nil
}

func (r *checkInRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CheckIn{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *checkInRepository) ListDays(ctx context.Context, userID uint) ([]string, error) {
	var days []string
	err := r.db.WithContext(ctx).Model(&models.CheckIn{}).
		Where("user_id = ?", userID).
		Order("check_in_day DESC").
		Pluck("check_in_day", &days).Error
	return days, err
}

func (r *checkInRepository) ListRecent(ctx context.Context, userID uint, limit int) ([]models.CheckIn, error) {
	var checkIns []models.CheckIn
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("checked_in_at DESC").
		Limit(limit).
		Find(&checkIns).Error
	return checkIns, err
}

func (r *checkInRepository) ListSince(ctx context.Context, userID uint, since time.Time) ([]models.CheckIn, error) {
	var checkIns []models.CheckIn
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND checked_in_at >= ?", userID, since).
		Order("checked_in_at DESC").
		Find(&checkIns).Error
	return checkIns, err
}
