package checkin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/ManuelReschke/Lebensenergie/app/repository/memstore"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/badges"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/cache"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/journey"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *memstore.Store
	svc     *Service
	user    *models.User
	now     time.Time
	streaks *cache.StreakCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := &fixture{
		store:   memstore.New(),
		now:     time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		streaks: cache.NewStreakCache(rdb),
	}
	f.user = f.store.AddUser("Anna", "anna@example.com")
	f.svc = NewService(f.store.Repositories(), journey.Config{TrialDays: 7}, f.streaks, Config{DefaultLocation: time.UTC}).
		WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) advanceDays(n int) {
	f.now = f.now.AddDate(0, 0, n)
}

func rating(e, s, m int) Input {
	return Input{EnergyLevel: e, SleepQuality: s, MoodLevel: m}
}

func badgeSlugs(bs []badges.Badge) []string {
	out := []string{}
	for _, b := range bs {
		out = append(out, b.Slug)
	}
	return out
}

func TestScore(t *testing.T) {
	assert.Equal(t, 8.0, Score(8, 7, 9))
	assert.Equal(t, 7.7, Score(8, 7, 8))
	assert.Equal(t, 1.0, Score(1, 1, 1))
	assert.Equal(t, 3.3, Score(1, 4, 5))
	assert.Equal(t, 6.7, Score(5, 7, 8))
}

func TestSubmit_FirstCheckIn(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.Submit(context.Background(), f.user.ID, Input{
		EnergyLevel: 8, SleepQuality: 7, MoodLevel: 9,
		EnergyGivers: []string{"Sport", " Sport ", "", "Natur"},
		Notes:        "  gut geschlafen ",
	})
	require.NoError(t, err)

	assert.Equal(t, 8.0, res.CheckIn.LebensenergieScore)
	assert.Equal(t, "2024-03-10", res.CheckIn.CheckInDay)
	assert.Equal(t, []string{"Sport", "Natur"}, res.CheckIn.EnergyGivers)
	assert.Equal(t, "gut geschlafen", res.CheckIn.Notes)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, []string{badges.SlugFirstCheckIn}, badgeSlugs(res.NewBadges))
	assert.Equal(t, models.JourneyStateOnboardingCheckIn, res.Journey.State)

	notes := f.store.Notifications(f.user.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, "Badge earned: Erster Check-in", notes[0].Title)
}

func TestSubmit_DuplicateSameDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, f.user.ID, rating(8, 7, 9))
	require.NoError(t, err)

	f.now = f.now.Add(5 * time.Hour)
	_, err = f.svc.Submit(ctx, f.user.ID, rating(2, 2, 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyCheckedIn))

	var dup *DuplicateCheckInError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, first.CheckIn.ID, dup.Existing.ID)
	assert.Equal(t, AlreadyCheckedInMessage, dup.Error())
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	for _, in := range []Input{rating(0, 5, 5), rating(5, 11, 5), rating(5, 5, -1)} {
		_, err := f.svc.Submit(context.Background(), f.user.ID, in)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	}
	j, ok := f.store.Journey(f.user.ID)
	assert.False(t, ok, "no journey must be created for rejected input: %+v", j)
}

func TestSubmit_FourthDayExtendsStreakWithoutNewBadge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for day := 0; day < 3; day++ {
		_, err := f.svc.Submit(ctx, f.user.ID, rating(8, 7, 9))
		require.NoError(t, err)
		f.advanceDays(1)
	}
	assert.Equal(t, []string{badges.SlugFirstCheckIn, badges.SlugStreak3}, f.store.Badges(f.user.ID))

	res, err := f.svc.Submit(ctx, f.user.ID, rating(8, 7, 9))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Streak)
	assert.Empty(t, res.NewBadges)
	assert.Equal(t, 4, res.Journey.CheckInsCompleted)
	assert.Equal(t, 4, res.Journey.DaysActive)
}

func TestSubmit_GapResetsStreak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.user.ID, rating(6, 6, 6))
	require.NoError(t, err)
	f.advanceDays(1)
	_, err = f.svc.Submit(ctx, f.user.ID, rating(6, 6, 6))
	require.NoError(t, err)
	f.advanceDays(3)

	res, err := f.svc.Submit(ctx, f.user.ID, rating(6, 6, 6))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Streak)
}

func TestSubmit_ConsistentAwardedOnSeventhDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for day := 1; day <= 8; day++ {
		res, err := f.svc.Submit(ctx, f.user.ID, rating(6, 7, 6))
		require.NoError(t, err)
		if day == 7 {
			assert.Contains(t, badgeSlugs(res.NewBadges), badges.SlugConsistent)
			assert.Contains(t, badgeSlugs(res.NewBadges), badges.SlugStreak7)
		} else {
			assert.NotContains(t, badgeSlugs(res.NewBadges), badges.SlugConsistent)
		}
		f.advanceDays(1)
	}
}

func TestSubmit_TierUserStateUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	js := journey.NewService(f.store.Repositories().Journey, journey.Config{TrialDays: 7})
	_, err := js.Activate(ctx, f.user.ID, models.SubscriptionTierResilienz, journey.Window{})
	require.NoError(t, err)

	for day := 0; day < 4; day++ {
		res, err := f.svc.Submit(ctx, f.user.ID, rating(7, 7, 7))
		require.NoError(t, err)
		assert.Equal(t, models.JourneyStateResilienzActive, res.Journey.State)
		f.advanceDays(1)
	}

	stored, _ := f.store.Journey(f.user.ID)
	assert.Equal(t, models.JourneyStateResilienzActive, stored.State)
	assert.Equal(t, 4, stored.CheckInsCompleted)
}

func TestSubmit_UsesUserTimezone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	f := newFixture(t)
	ctx := context.Background()
	repos := f.store.Repositories()

	settings, err := repos.User.GetOrCreateSettings(ctx, f.user.ID)
	require.NoError(t, err)
	settings.Timezone = berlin.String()
	require.NoError(t, repos.User.SaveSettings(ctx, settings))

	f.now = time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	res, err := f.svc.Submit(ctx, f.user.ID, rating(5, 5, 5))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", res.CheckIn.CheckInDay)
}

func TestToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	today, err := f.svc.Today(ctx, f.user.ID)
	require.NoError(t, err)
	assert.False(t, today.CheckedIn)
	assert.Nil(t, today.CheckIn)
	assert.Equal(t, 0, today.Streak)

	// the check-in drops the cached zero streak
	_, err = f.svc.Submit(ctx, f.user.ID, rating(9, 9, 9))
	require.NoError(t, err)

	today, err = f.svc.Today(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, today.CheckedIn)
	require.NotNil(t, today.CheckIn)
	assert.Equal(t, 9.0, today.CheckIn.LebensenergieScore)
	assert.Equal(t, 1, today.Streak)

	cached, ok, err := f.streaks.Get(ctx, f.user.ID, "2024-03-10")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, cached)
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.now = time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)

	for _, in := range []Input{rating(8, 7, 9), rating(6, 6, 6), rating(9, 9, 9)} {
		_, err := f.svc.Submit(ctx, f.user.ID, in)
		require.NoError(t, err)
		f.advanceDays(1)
	}
	f.now = time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	h, err := f.svc.History(ctx, f.user.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, h.Days)
	assert.Equal(t, "2024-03-04", h.From)
	assert.Equal(t, "2024-03-10", h.To)
	require.Len(t, h.CheckIns, 3)
	assert.Equal(t, "2024-03-10", h.CheckIns[0].CheckInDay)

	assert.Equal(t, 3, h.Stats.Count)
	assert.Equal(t, 7.7, h.Stats.AverageScore)
	assert.Equal(t, 9.0, h.Stats.BestScore)
	assert.Equal(t, 6.0, h.Stats.LowestScore)
	assert.Equal(t, 3, h.Stats.CurrentStreak)
	assert.Equal(t, 42.9, h.Stats.CompletionRatio)

	require.Len(t, h.Weekly, 1)
	assert.Equal(t, "2024-03-04", h.Weekly[0].WeekStart)
	assert.Equal(t, 3, h.Weekly[0].Count)

	short, err := f.svc.History(ctx, f.user.ID, 1)
	require.NoError(t, err)
	assert.Len(t, short.CheckIns, 1)
}

func TestClampDays(t *testing.T) {
	assert.Equal(t, 30, ClampDays(0))
	assert.Equal(t, 30, ClampDays(-5))
	assert.Equal(t, 1, ClampDays(1))
	assert.Equal(t, 365, ClampDays(1000))
}

func TestWeekStart(t *testing.T) {
	ws, ok := weekStart("2024-03-10")
	require.True(t, ok)
	assert.Equal(t, "2024-03-04", ws)
	ws, _ = weekStart("2024-03-11")
	assert.Equal(t, "2024-03-11", ws)
	_, ok = weekStart("nope")
	assert.False(t, ok)
}

// interleavedCheckIns runs onListDays once, after the wrapped ListDays has
// read the day list but before the caller uses it.
type interleavedCheckIns struct {
	repository.CheckInRepository
	onListDays func()
}

func (r *interleavedCheckIns) ListDays(ctx context.Context, userID uint) ([]string, error) {
	days, err := r.CheckInRepository.ListDays(ctx, userID)
	if hook := r.onListDays; hook != nil {
		r.onListDays = nil
		hook()
	}
	return days, err
}

func TestToday_ConcurrentCheckInKeepsFreshStreak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.user.ID, rating(7, 7, 7))
	require.NoError(t, err)
	f.advanceDays(1)

	repos := f.store.Repositories()
	checkIns := &interleavedCheckIns{CheckInRepository: repos.CheckIn}
	repos.CheckIn = checkIns
	svc := NewService(repos, journey.Config{TrialDays: 7}, f.streaks, Config{DefaultLocation: time.UTC}).
		WithClock(func() time.Time { return f.now })

	checkIns.onListDays = func() {
		res, err := svc.Submit(ctx, f.user.ID, rating(8, 8, 8))
		require.NoError(t, err)
		assert.Equal(t, 2, res.Streak)
	}

	// computed from the day list read before the check-in landed
	first, err := svc.Today(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Streak)

	later, err := svc.Today(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, later.CheckedIn)
	assert.Equal(t, 2, later.Streak)

	cached, ok, err := f.streaks.Get(ctx, f.user.ID, "2024-03-11")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, cached)
}
