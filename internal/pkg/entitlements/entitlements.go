package entitlements

import "github.com/ManuelReschke/Lebensenergie/app/models"

type ModuleAccess string
type CommunityAccess string
type TrackerAccess string

const (
	ModulesFirst ModuleAccess = "first"
	ModulesBasis ModuleAccess = "basis"
	ModulesAll   ModuleAccess = "all"

	CommunityNone      CommunityAccess = "none"
	CommunityRead      CommunityAccess = "read"
	CommunityReadWrite CommunityAccess = "read_write"
	CommunityFull      CommunityAccess = "full"

	TrackerBasic    TrackerAccess = "basic"
	TrackerAdvanced TrackerAccess = "advanced"
)

// Capabilities describes which features a journey state unlocks.
type Capabilities struct {
	Dashboard bool            `json:"dashboard"`
	Modules   ModuleAccess    `json:"modules"`
	Community CommunityAccess `json:"community"`
	Tracker   TrackerAccess   `json:"tracker"`
	Workshops bool            `json:"workshops"`
	Circles   bool            `json:"circles"`
	Mentoring bool            `json:"mentoring"`
}

var capabilities = map[string]Capabilities{
	models.JourneyStateOnboardingStart:       {Dashboard: true, Modules: ModulesFirst, Community: CommunityNone, Tracker: TrackerBasic},
	models.JourneyStateOnboardingCheckIn:     {Dashboard: true, Modules: ModulesFirst, Community: CommunityRead, Tracker: TrackerBasic},
	models.JourneyStateOnboardingFirstModule: {Dashboard: true, Modules: ModulesFirst, Community: CommunityRead, Tracker: TrackerBasic},
	models.JourneyStateTrialActive:           {Dashboard: true, Modules: ModulesBasis, Community: CommunityReadWrite, Tracker: TrackerAdvanced},
	models.JourneyStateLebensenergieActive:   {Dashboard: true, Modules: ModulesBasis, Community: CommunityReadWrite, Tracker: TrackerAdvanced, Workshops: true},
	models.JourneyStateResilienzActive:       {Dashboard: true, Modules: ModulesAll, Community: CommunityFull, Tracker: TrackerAdvanced, Workshops: true, Circles: true, Mentoring: true},
}

// For returns the capabilities of a journey state. Unknown states get the
// onboarding_start row.
func For(state string) Capabilities {
	if c, ok := capabilities[state]; ok {
		return c
	}
	return capabilities[models.JourneyStateOnboardingStart]
}
