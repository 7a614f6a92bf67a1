package repository

import (
	"context"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a tenant repository backed by GORM.
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) UpsertTenant(ctx context.Context, tenant *models.Tenant) error {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(tenant).Error; err != nil {
		return err
	}
	return db.Where("slug = ?", tenant.Slug).First(tenant).Error
}

func (r *tenantRepository) UpsertMembership(ctx context.Context, membership *models.Membership) error {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "tenant_id"},
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(membership).Error; err != nil {
		return err
	}
	return db.Where("tenant_id = ? AND user_id = ?", membership.TenantID, membership.UserID).First(membership).Error
}
