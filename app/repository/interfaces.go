package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertByEmail(ctx context.Context, user *models.User) error
	GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, *models.UserSettings, error)
	GetOrCreateSettings(ctx context.Context, userID uint) (*models.UserSettings, error)
	SaveSettings(ctx context.Context, settings *models.UserSettings) error
	TouchAPIKeyUsage(ctx context.Context, settingsID uint, at time.Time) error
}

// WebhookEventRepository is the event log. Rows are appended by the gateway
// and only their outcome columns change afterwards.
type WebhookEventRepository interface {
	Create(ctx context.Context, event *models.WebhookEvent) error
	GetByID(ctx context.Context, id string) (*models.WebhookEvent, error)
	// MarkProcessed sets processed_at once; later calls leave the row untouched.
	MarkProcessed(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, message string) error
	List(ctx context.Context, filter WebhookEventFilter) ([]models.WebhookEvent, int64, error)
	ListReceivedBetween(ctx context.Context, from, to time.Time) ([]models.WebhookEvent, error)
}

// WebhookEventFilter narrows event log listings.
type WebhookEventFilter struct {
	Source string
	Status string
	Offset int
	Limit  int
}

// JourneyRepository persists user journeys. The two save methods map to the
// two writers of the journey: subscription events and check-in progress.
type JourneyRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.UserJourney, error)
	SaveSubscription(ctx context.Context, journey *models.UserJourney) error
	// SaveProgress writes counters and the onboarding stage. The resolved state
	// column is only touched while no subscription tier or subscription state
	// is recorded on the stored row.
	SaveProgress(ctx context.Context, journey *models.UserJourney) error
}

// CheckInRepository defines the interface for check-in operations
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *models.CheckIn) error
	FindByUserAndDay(ctx context.Context, userID uint, day string) (*models.CheckIn, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	// ListDays returns the stored calendar days (YYYY-MM-DD), newest first.
	ListDays(ctx context.Context, userID uint) ([]string, error)
	ListRecent(ctx context.Context, userID uint, limit int) ([]models.CheckIn, error)
	ListSince(ctx context.Context, userID uint, since time.Time) ([]models.CheckIn, error)
}

// BadgeRepository defines the interface for earned badges
type BadgeRepository interface {
	// Award inserts the badge if absent and reports whether a row was created.
	Award(ctx context.Context, userID uint, slug string, at time.Time) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]models.UserBadge, error)
}

// EntitlementRepository defines the interface for course access grants
type EntitlementRepository interface {
	Upsert(ctx context.Context, entitlement *models.Entitlement) error
	// Revoke revokes the active grant for courseID, or every active grant of
	// the user when courseID is empty, returning the number of rows changed.
	Revoke(ctx context.Context, userID uint, courseID string, at time.Time) (int64, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Entitlement, error)
}

// TenantRepository defines the interface for CRM tenants and memberships
type TenantRepository interface {
	UpsertTenant(ctx context.Context, tenant *models.Tenant) error
	UpsertMembership(ctx context.Context, membership *models.Membership) error
}

// NotificationRepository defines the interface for stored notifications
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	WebhookEvent WebhookEventRepository
	Journey      JourneyRepository
	CheckIn      CheckInRepository
	Badge        BadgeRepository
	Entitlement  EntitlementRepository
	Tenant       TenantRepository
	Notification NotificationRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
		Journey:      NewJourneyRepository(db),
		CheckIn:      NewCheckInRepository(db),
		Badge:        NewBadgeRepository(db),
		Entitlement:  NewEntitlementRepository(db),
		Tenant:       NewTenantRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
