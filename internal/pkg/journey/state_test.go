package journey

import (
	"testing"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		journey models.UserJourney
		want    string
	}{
		{name: "empty", journey: models.UserJourney{}, want: models.JourneyStateOnboardingStart},
		{name: "onboarding stage", journey: models.UserJourney{OnboardingStage: models.JourneyStateOnboardingCheckIn}, want: models.JourneyStateOnboardingCheckIn},
		{name: "subscription state wins", journey: models.UserJourney{
			OnboardingStage:   models.JourneyStateOnboardingFirstModule,
			SubscriptionState: strPtr(models.JourneyStateTrialActive),
		}, want: models.JourneyStateTrialActive},
		{name: "tier without state", journey: models.UserJourney{
			OnboardingStage:  models.JourneyStateOnboardingCheckIn,
			SubscriptionTier: strPtr(models.SubscriptionTierResilienz),
		}, want: models.JourneyStateResilienzActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(&tt.journey))
		})
	}
}

func TestNormalizeTierAndRank(t *testing.T) {
	tier, ok := NormalizeTier("  Resilienz ")
	assert.True(t, ok)
	assert.Equal(t, models.SubscriptionTierResilienz, tier)

	_, ok = NormalizeTier("gold")
	assert.False(t, ok)

	assert.Greater(t, TierRank("resilienz"), TierRank("lebensenergie"))
	assert.Greater(t, TierRank("lebensenergie"), TierRank("gold"))
}

func TestStageFromCounters(t *testing.T) {
	assert.Equal(t, models.JourneyStateOnboardingStart, StageFromCounters(0, false))
	assert.Equal(t, models.JourneyStateOnboardingCheckIn, StageFromCounters(1, false))
	assert.Equal(t, models.JourneyStateOnboardingCheckIn, StageFromCounters(2, true))
	assert.Equal(t, models.JourneyStateTrialActive, StageFromCounters(3, false))
	assert.Equal(t, models.JourneyStateOnboardingFirstModule, StageFromCounters(3, true))
}

func TestAdvanceStage_NeverRegresses(t *testing.T) {
	assert.Equal(t, models.JourneyStateOnboardingFirstModule,
		AdvanceStage(models.JourneyStateOnboardingFirstModule, models.JourneyStateOnboardingCheckIn))
	assert.Equal(t, models.JourneyStateOnboardingCheckIn,
		AdvanceStage(models.JourneyStateOnboardingStart, models.JourneyStateOnboardingCheckIn))
	assert.Equal(t, models.JourneyStateOnboardingFirstModule,
		AdvanceStage(models.JourneyStateTrialActive, models.JourneyStateOnboardingFirstModule))
}

func TestLevel(t *testing.T) {
	tests := []struct {
		checkIns, streak, want int
	}{
		{0, 0, 1},
		{4, 6, 1},
		{5, 0, 2},
		{10, 7, 4},
		{20, 14, 7},
		{100, 100, 10},
		{-3, -1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.checkIns, tt.streak), "checkIns=%d streak=%d", tt.checkIns, tt.streak)
	}
}
