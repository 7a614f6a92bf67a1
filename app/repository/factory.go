package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// NewFactoryFromRepositories wraps an already assembled set of repositories,
// e.g. the in-memory ones used by tests.
func NewFactoryFromRepositories(repos *Repositories) *Factory {
	f := &Factory{repos: repos}
	f.once.Do(func() {})
	return f
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetWebhookEventRepository returns the event log repository instance
func (f *Factory) GetWebhookEventRepository() WebhookEventRepository {
	return f.GetRepositories().WebhookEvent
}

// GetJourneyRepository returns the journey repository instance
func (f *Factory) GetJourneyRepository() JourneyRepository {
	return f.GetRepositories().Journey
}

// GetCheckInRepository returns the check-in repository instance
func (f *Factory) GetCheckInRepository() CheckInRepository {
	return f.GetRepositories().CheckIn
}

// GetBadgeRepository returns the badge repository instance
func (f *Factory) GetBadgeRepository() BadgeRepository {
	return f.GetRepositories().Badge
}

// GetEntitlementRepository returns the entitlement repository instance
func (f *Factory) GetEntitlementRepository() EntitlementRepository {
	return f.GetRepositories().Entitlement
}

// GetTenantRepository returns the tenant repository instance
func (f *Factory) GetTenantRepository() TenantRepository {
	return f.GetRepositories().Tenant
}

// GetNotificationRepository returns the notification repository instance
func (f *Factory) GetNotificationRepository() NotificationRepository {
	return f.GetRepositories().Notification
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
