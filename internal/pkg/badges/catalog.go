// Package badges holds the achievement catalog and awards badges.
package badges

const (
	SlugFirstCheckIn     = "first-checkin"
	SlugStreak3          = "3-day-streak"
	SlugStreak7          = "7-day-streak"
	SlugStreak30         = "30-day-streak"
	SlugHighEnergy       = "high-energy"
	SlugConsistent       = "consistent"
	SlugLevel5           = "level-5"
	SlugLevel10          = "level-10"
	SlugFirstPost        = "first-post"
	SlugSuccessStory     = "success-story"
	SlugFirstWorkshop    = "first-workshop"
	SlugResilienzUpgrade = "resilienz-upgrade"
)

const (
	consistentWindow   = 7
	consistentMinScore = 6.0
	highEnergyMinScore = 9.0
)

// Inputs are the check-in derived values the predicates are evaluated on.
// RecentScores holds the latest scores, newest first.
type Inputs struct {
	TotalCheckIns int
	Streak        int
	LatestScore   float64
	RecentScores  []float64
	Level         int
}

// Badge is a catalog entry. Predicate is nil for badges awarded by
// collaborators through Engine.Award.
type Badge struct {
	Slug        string               `json:"slug"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Predicate   func(in Inputs) bool `json:"-"`
}

var catalog = []Badge{
	{Slug: SlugFirstCheckIn, Name: "Erster Check-in", Description: "Deinen ersten Check-in abgeschlossen",
		Predicate: func(in Inputs) bool { return in.TotalCheckIns >= 1 }},
	{Slug: SlugStreak3, Name: "3-Tage-Serie", Description: "Drei Tage in Folge eingecheckt",
		Predicate: func(in Inputs) bool { return in.Streak >= 3 }},
	{Slug: SlugStreak7, Name: "7-Tage-Serie", Description: "Eine Woche in Folge eingecheckt",
		Predicate: func(in Inputs) bool { return in.Streak >= 7 }},
	{Slug: SlugStreak30, Name: "30-Tage-Serie", Description: "30 Tage in Folge eingecheckt",
		Predicate: func(in Inputs) bool { return in.Streak >= 30 }},
	{Slug: SlugHighEnergy, Name: "Volle Energie", Description: "Einen Lebensenergie-Score von 9 oder mehr erreicht",
		Predicate: func(in Inputs) bool { return in.TotalCheckIns > 0 && in.LatestScore >= highEnergyMinScore }},
	{Slug: SlugConsistent, Name: "Beständig", Description: "Sieben Check-ins in Folge mit einem Score von mindestens 6",
		Predicate: consistent},
	{Slug: SlugLevel5, Name: "Level 5", Description: "Level 5 erreicht",
		Predicate: func(in Inputs) bool { return in.Level >= 5 }},
	{Slug: SlugLevel10, Name: "Level 10", Description: "Das höchste Level erreicht",
		Predicate: func(in Inputs) bool { return in.Level >= 10 }},
	{Slug: SlugFirstPost, Name: "Erster Beitrag", Description: "Deinen ersten Beitrag in der Community geteilt"},
	{Slug: SlugSuccessStory, Name: "Erfolgsgeschichte", Description: "Eine Erfolgsgeschichte geteilt"},
	{Slug: SlugFirstWorkshop, Name: "Erster Workshop", Description: "An deinem ersten Workshop teilgenommen"},
	{Slug: SlugResilienzUpgrade, Name: "Resilienz", Description: "Auf Resilienz aufgestiegen"},
}

func consistent(in Inputs) bool {
	if in.TotalCheckIns < consistentWindow || len(in.RecentScores) < consistentWindow {
		return false
	}
	for _, s := range in.RecentScores[:consistentWindow] {
		if s < consistentMinScore {
			return false
		}
	}
	return true
}

// Catalog returns all badges in evaluation order.
func Catalog() []Badge {
	out := make([]Badge, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a badge by slug.
func Lookup(slug string) (Badge, bool) {
	for _, b := range catalog {
		if b.Slug == slug {
			return b, true
		}
	}
	return Badge{}, false
}
