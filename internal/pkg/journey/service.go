package journey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/gofiber/fiber/v2/log"
)

// ErrUnknownTier is returned for subscription events naming no known tier.
var ErrUnknownTier = errors.New("unknown subscription tier")

// Window is an optional validity window carried by subscription events.
type Window struct {
	StartsAt *time.Time
	EndsAt   *time.Time
}

// Progress is the check-in side input for counter-driven recomputation.
type Progress struct {
	CheckIns   int
	Streak     int
	DaysActive int
}

// Service mutates journeys. Subscription methods are the event writer;
// RecordProgress is the counter writer. Both store State as Resolve(journey).
type Service struct {
	repo repository.JourneyRepository
	cfg  Config
	now  func() time.Time
}

// NewService creates a journey service.
func NewService(repo repository.JourneyRepository, cfg Config) *Service {
	return &Service{repo: repo, cfg: cfg, now: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get returns the journey of userID, creating it on first touch.
func (s *Service) Get(ctx context.Context, userID uint) (*models.UserJourney, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *Service) mutateSubscription(ctx context.Context, userID uint, fn func(j *models.UserJourney, now time.Time) error) (*models.UserJourney, error) {
	j, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load journey: %w", err)
	}
	if err := fn(j, s.now()); err != nil {
		return nil, err
	}
	j.State = Resolve(j)
	if err := s.repo.SaveSubscription(ctx, j); err != nil {
		return nil, fmt.Errorf("save journey: %w", err)
	}
	return j, nil
}

func setTier(j *models.UserJourney, tier string) error {
	t, ok := NormalizeTier(tier)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	state, _ := ActiveStateForTier(t)
	j.SubscriptionTier = &t
	j.SubscriptionState = &state
	return nil
}

func applyWindow(j *models.UserJourney, w Window, now time.Time, keepStart bool) {
	switch {
	case w.StartsAt != nil:
		start := *w.StartsAt
		j.SubscriptionStartAt = &start
	case !keepStart || j.SubscriptionStartAt == nil:
		start := now
		j.SubscriptionStartAt = &start
	}
	if w.EndsAt != nil {
		end := *w.EndsAt
		j.SubscriptionEndsAt = &end
	} else {
		j.SubscriptionEndsAt = nil
	}
}

// Activate handles subscription.created: the tier's active state, the tier
// and a fresh validity window.
func (s *Service) Activate(ctx context.Context, userID uint, tier string, w Window) (*models.UserJourney, error) {
	return s.mutateSubscription(ctx, userID, func(j *models.UserJourney, now time.Time) error {
		if err := setTier(j, tier); err != nil {
			return err
		}
		applyWindow(j, w, now, false)
		return nil
	})
}

// Renew handles subscription.renewed. An existing start date is kept.
func (s *Service) Renew(ctx context.Context, userID uint, tier string, w Window) (*models.UserJourney, error) {
	return s.mutateSubscription(ctx, userID, func(j *models.UserJourney, now time.Time) error {
		if err := setTier(j, tier); err != nil {
			return err
		}
		applyWindow(j, w, now, true)
		return nil
	})
}

// Upgrade moves the user to the resilienz tier.
func (s *Service) Upgrade(ctx context.Context, userID uint, w Window) (*models.UserJourney, error) {
	return s.changeTier(ctx, userID, models.SubscriptionTierResilienz, w)
}

// Downgrade moves the user to the lebensenergie tier.
func (s *Service) Downgrade(ctx context.Context, userID uint, w Window) (*models.UserJourney, error) {
	return s.changeTier(ctx, userID, models.SubscriptionTierLebensenergie, w)
}

func (s *Service) changeTier(ctx context.Context, userID uint, tier string, w Window) (*models.UserJourney, error) {
	return s.mutateSubscription(ctx, userID, func(j *models.UserJourney, now time.Time) error {
		if err := setTier(j, tier); err != nil {
			return err
		}
		if w.StartsAt != nil || w.EndsAt != nil {
			applyWindow(j, w, now, true)
		}
		return nil
	})
}

// End handles cancellation and expiry: only the end of the validity window
// is recorded, the state stays as it is.
func (s *Service) End(ctx context.Context, userID uint, endsAt *time.Time) (*models.UserJourney, error) {
	return s.mutateSubscription(ctx, userID, func(j *models.UserJourney, now time.Time) error {
		end := now
		if endsAt != nil {
			end = *endsAt
		}
		j.SubscriptionEndsAt = &end
		return nil
	})
}

// StartTrial opens the trial window. A user with a paid tier keeps the
// tier's state; only the window is recorded.
func (s *Service) StartTrial(ctx context.Context, userID uint, w Window) (*models.UserJourney, error) {
	return s.mutateSubscription(ctx, userID, func(j *models.UserJourney, now time.Time) error {
		start := now
		if w.StartsAt != nil {
			start = *w.StartsAt
		}
		end := start.Add(s.cfg.TrialLength())
		if w.EndsAt != nil {
			end = *w.EndsAt
		}
		j.TrialStartedAt = &start
		j.TrialEndsAt = &end
		if !j.HasSubscriptionTier() {
			state := models.JourneyStateTrialActive
			j.SubscriptionState = &state
		}
		return nil
	})
}

// EndTrial closes the trial and hands the state back to onboarding progress.
func (s *Service) EndTrial(ctx context.Context, userID uint) (*models.UserJourney, error) {
	return s.mutateSubscription(ctx, userID, func(j *models.UserJourney, now time.Time) error {
		if j.TrialStartedAt == nil {
			start := now
			j.TrialStartedAt = &start
		}
		if j.TrialEndsAt == nil || j.TrialEndsAt.After(now) {
			end := now
			j.TrialEndsAt = &end
		}
		if j.SubscriptionState != nil && *j.SubscriptionState == models.JourneyStateTrialActive {
			j.SubscriptionState = nil
		}
		if j.CheckInsCompleted >= 3 {
			j.OnboardingStage = models.JourneyStateOnboardingFirstModule
		} else {
			j.OnboardingStage = models.JourneyStateOnboardingCheckIn
		}
		return nil
	})
}

func trialConsumed(j *models.UserJourney, now time.Time) bool {
	if j.TrialStartedAt == nil {
		return false
	}
	return j.TrialEndsAt == nil || !now.Before(*j.TrialEndsAt)
}

// RecordProgress applies check-in counters. Counters never decrease and the
// onboarding stage never regresses. The stored state changes only for users
// without subscription data.
func (s *Service) RecordProgress(ctx context.Context, userID uint, p Progress) (*models.UserJourney, error) {
	j, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load journey: %w", err)
	}
	now := s.now()

	if p.CheckIns > j.CheckInsCompleted {
		j.CheckInsCompleted = p.CheckIns
	}
	if p.DaysActive > j.DaysActive {
		j.DaysActive = p.DaysActive
	}
	j.CurrentLevel = Level(j.CheckInsCompleted, p.Streak)

	candidate := StageFromCounters(j.CheckInsCompleted, trialConsumed(j, now))
	j.OnboardingStage = AdvanceStage(j.OnboardingStage, candidate)

	if j.OnboardingStage == models.JourneyStateTrialActive && j.TrialStartedAt == nil && !j.HasSubscriptionTier() {
		start := now
		end := now.Add(s.cfg.TrialLength())
		j.TrialStartedAt = &start
		j.TrialEndsAt = &end
		log.Infof("[Journey] User %d unlocked the trial through check-ins", userID)
	}

	j.State = Resolve(j)
	if err := s.repo.SaveProgress(ctx, j); err != nil {
		return nil, fmt.Errorf("save journey progress: %w", err)
	}
	return j, nil
}
