package models

import "time"

const (
	MEMBERSHIP_ROLE_MEMBER = "member"
	MEMBERSHIP_ROLE_COACH  = "coach"
	MEMBERSHIP_ROLE_ADMIN  = "admin"
)

// Tenant is an organisation synchronised from the CRM.
type Tenant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"slug"`
	Name      string    `gorm:"type:varchar(200)" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Membership links a user to a tenant with a role.
type Membership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"not null;index:ux_memberships_tenant_user,unique,priority:1" json:"tenant_id"`
	UserID    uint      `gorm:"not null;index:ux_memberships_tenant_user,unique,priority:2;index" json:"user_id"`
	Role      string    `gorm:"type:varchar(50);not null;default:'member'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
