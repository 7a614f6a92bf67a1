package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type entitlementRepository struct {
	db *gorm.DB
}

// NewEntitlementRepository creates an entitlement repository backed by GORM.
func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepository{db: db}
}

// Upsert grants access and clears a previous revocation.
func (r *entitlementRepository) Upsert(ctx context.Context, entitlement *models.Entitlement) error {
	entitlement.RevokedAt = nil
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "course_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"granted_at",
			"expires_at",
			"revoked_at",
			"source_event_id",
			"updated_at",
		}),
	}).Create(entitlement).Error; err != nil {
		return err
	}

	return db.Where("user_id = ? AND course_id = ?", entitlement.UserID, entitlement.CourseID).
		First(entitlement).Error
}

func (r *entitlementRepository) Revoke(ctx context.Context, userID uint, courseID string, at time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Entitlement{}).
		Where("user_id = ? AND revoked_at IS NULL", userID)
	if courseID != "" {
		q = q.Where("course_id = ?", courseID)
	}
	tx := q.Updates(map[string]interface{}{"revoked_at": &at})
	return tx.RowsAffected, tx.Error
}

func (r *entitlementRepository) ListByUser(ctx context.Context, userID uint) ([]models.Entitlement, error) {
	var entitlements []models.Entitlement
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("course_id ASC").Find(&entitlements).Error
	return entitlements, err
}
