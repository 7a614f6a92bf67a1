package repository

import (
	"context"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type journeyRepository struct {
	db *gorm.DB
}

// NewJourneyRepository creates a journey repository backed by GORM.
func NewJourneyRepository(db *gorm.DB) JourneyRepository {
	return &journeyRepository{db: db}
}

// GetOrCreate lazily creates the journey on first touch by either writer.
func (r *journeyRepository) GetOrCreate(ctx context.Context, userID uint) (*models.UserJourney, error) {
	db := r.db.WithContext(ctx)
	fresh := models.UserJourney{
		UserID:          userID,
		State:           models.JourneyStateOnboardingStart,
		OnboardingStage: models.JourneyStateOnboardingStart,
		CurrentLevel:    1,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	var journey models.UserJourney
	if err := db.Where("user_id = ?", userID).First(&journey).Error; err != nil {
		return nil, err
	}
	return &journey, nil
}

func (r *journeyRepository) SaveSubscription(ctx context.Context, journey *models.UserJourney) error {
	return r.db.WithContext(ctx).Model(&models.UserJourney{}).
		Where("user_id = ?", journey.UserID).
		Updates(map[string]interface{}{
			"subscription_state":    journey.SubscriptionState,
			"subscription_tier":     journey.SubscriptionTier,
			"trial_started_at":      journey.TrialStartedAt,
			"trial_ends_at":         journey.TrialEndsAt,
			"subscription_start_at": journey.SubscriptionStartAt,
			"subscription_ends_at":  journey.SubscriptionEndsAt,
			"onboarding_stage":      journey.OnboardingStage,
			"state":                 journey.State,
		}).Error
}

func (r *journeyRepository) SaveProgress(ctx context.Context, journey *models.UserJourney) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserJourney{}).
			Where("user_id = ?", journey.UserID).
			Updates(map[string]interface{}{
				"check_ins_completed": journey.CheckInsCompleted,
				"modules_completed":   journey.ModulesCompleted,
				"days_active":         journey.DaysActive,
				"current_level":       journey.CurrentLevel,
				"onboarding_stage":    journey.OnboardingStage,
			}).Error; err != nil {
			return err
		}

		// A trial window opened by check-in progress never replaces one that
		// a trial event has already recorded.
		if journey.TrialStartedAt != nil {
			if err := tx.Model(&models.UserJourney{}).
				Where("user_id = ? AND trial_started_at IS NULL", journey.UserID).
				Updates(map[string]interface{}{
					"trial_started_at": journey.TrialStartedAt,
					"trial_ends_at":    journey.TrialEndsAt,
				}).Error; err != nil {
				return err
			}
		}

		// Subscription truth outranks onboarding progress: the state column is
		// left alone as soon as an event has written subscription data.
		return tx.Model(&models.UserJourney{}).
			Where("user_id = ? AND subscription_tier IS NULL AND subscription_state IS NULL", journey.UserID).
			Update("state", journey.State).Error
	})
}
