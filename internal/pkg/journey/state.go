package journey

import (
	"strings"

	"github.com/ManuelReschke/Lebensenergie/app/models"
)

const maxLevel = 10

// Resolve returns the effective state of a journey. An event-assigned
// subscription state wins; a recorded tier without one falls back to the
// tier's active state; otherwise the counter-derived onboarding stage
// applies.
func Resolve(j *models.UserJourney) string {
	if j.SubscriptionState != nil && *j.SubscriptionState != "" {
		return *j.SubscriptionState
	}
	if j.HasSubscriptionTier() {
		if state, ok := ActiveStateForTier(*j.SubscriptionTier); ok {
			return state
		}
	}
	if j.OnboardingStage == "" {
		return models.JourneyStateOnboardingStart
	}
	return j.OnboardingStage
}

// NormalizeTier maps an inbound tier name to a known tier.
func NormalizeTier(tier string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case models.SubscriptionTierLebensenergie:
		return models.SubscriptionTierLebensenergie, true
	case models.SubscriptionTierResilienz:
		return models.SubscriptionTierResilienz, true
	default:
		return "", false
	}
}

// TierRank orders tiers; unknown tiers rank lowest.
func TierRank(tier string) int {
	t, _ := NormalizeTier(tier)
	switch t {
	case models.SubscriptionTierResilienz:
		return 2
	case models.SubscriptionTierLebensenergie:
		return 1
	default:
		return 0
	}
}

// ActiveStateForTier returns the journey state that a paid tier grants.
func ActiveStateForTier(tier string) (string, bool) {
	t, ok := NormalizeTier(tier)
	if !ok {
		return "", false
	}
	if t == models.SubscriptionTierResilienz {
		return models.JourneyStateResilienzActive, true
	}
	return models.JourneyStateLebensenergieActive, true
}

// StageFromCounters derives the onboarding stage from completed check-ins.
// Three check-ins open the trial unless one was already consumed.
func StageFromCounters(checkIns int, trialConsumed bool) string {
	switch {
	case checkIns >= 3 && trialConsumed:
		return models.JourneyStateOnboardingFirstModule
	case checkIns >= 3:
		return models.JourneyStateTrialActive
	case checkIns >= 1:
		return models.JourneyStateOnboardingCheckIn
	default:
		return models.JourneyStateOnboardingStart
	}
}

func stageRank(stage string) int {
	switch stage {
	case models.JourneyStateOnboardingFirstModule, models.JourneyStateTrialActive:
		return 2
	case models.JourneyStateOnboardingCheckIn:
		return 1
	default:
		return 0
	}
}

// AdvanceStage returns candidate unless it would move the stage backwards.
func AdvanceStage(current, candidate string) string {
	if stageRank(candidate) < stageRank(current) {
		return current
	}
	return candidate
}

// Level is min(10, checkIns/5 + streak/7 + 1).
func Level(checkIns, streak int) int {
	if checkIns < 0 {
		checkIns = 0
	}
	if streak < 0 {
		streak = 0
	}
	level := checkIns/5 + streak/7 + 1
	if level > maxLevel {
		return maxLevel
	}
	return level
}
