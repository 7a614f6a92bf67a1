package models

import "time"

// Journey states. Onboarding stages are derived from check-in counters; the
// trial and tier states are assigned by subscription webhooks.
const (
	JourneyStateOnboardingStart       = "onboarding_start"
	JourneyStateOnboardingCheckIn     = "onboarding_checkin"
	JourneyStateOnboardingFirstModule = "onboarding_first_module"
	JourneyStateTrialActive           = "trial_active"
	JourneyStateLebensenergieActive   = "lebensenergie_active"
	JourneyStateResilienzActive       = "resilienz_active"
)

const (
	SubscriptionTierLebensenergie = "lebensenergie"
	SubscriptionTierResilienz     = "resilienz"
)

// UserJourney is the per-user progress record that gates feature access.
//
// State is never written directly: it is the resolved value of
// SubscriptionState (event-sourced) and OnboardingStage (counter-derived).
type UserJourney struct {
	ID                  uint       `gorm:"primaryKey" json:"-"`
	UserID              uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	State               string     `gorm:"type:varchar(40);not null;default:'onboarding_start';index" json:"state"`
	SubscriptionState   *string    `gorm:"type:varchar(40);default:null" json:"-"`
	OnboardingStage     string     `gorm:"type:varchar(40);not null;default:'onboarding_start'" json:"-"`
	SubscriptionTier    *string    `gorm:"type:varchar(20);default:null;index" json:"subscription_tier"`
	TrialStartedAt      *time.Time `gorm:"type:timestamp;default:null" json:"trial_started_at"`
	TrialEndsAt         *time.Time `gorm:"type:timestamp;default:null" json:"trial_ends_at"`
	SubscriptionStartAt *time.Time `gorm:"type:timestamp;default:null" json:"subscription_start_at"`
	SubscriptionEndsAt  *time.Time `gorm:"type:timestamp;default:null" json:"subscription_ends_at"`
	CheckInsCompleted   int        `gorm:"not null;default:0" json:"check_ins_completed"`
	ModulesCompleted    int        `gorm:"not null;default:0" json:"modules_completed"`
	DaysActive          int        `gorm:"not null;default:0" json:"days_active"`
	CurrentLevel        int        `gorm:"not null;default:1" json:"current_level"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasSubscriptionTier reports whether a paid tier is recorded for the user.
func (j *UserJourney) HasSubscriptionTier() bool {
	return j.SubscriptionTier != nil && *j.SubscriptionTier != ""
}
