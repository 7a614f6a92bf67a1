package badges

import (
	"context"
	"errors"
	"testing"

	"github.com/ManuelReschke/Lebensenergie/app/repository/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slugs(bs []Badge) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.Slug)
	}
	return out
}

func TestEvaluate_FirstCheckIn(t *testing.T) {
	store := memstore.New()
	engine := NewEngine(store.Repositories().Badge)

	got, err := engine.Evaluate(context.Background(), 1, Inputs{TotalCheckIns: 1, Streak: 1, LatestScore: 8, RecentScores: []float64{8}, Level: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{SlugFirstCheckIn}, slugs(got))
}

func TestEvaluate_Idempotent(t *testing.T) {
	store := memstore.New()
	engine := NewEngine(store.Repositories().Badge)
	ctx := context.Background()
	in := Inputs{TotalCheckIns: 3, Streak: 3, LatestScore: 9.3, RecentScores: []float64{9.3, 7, 7}, Level: 1}

	first, err := engine.Evaluate(ctx, 1, in)
	require.NoError(t, err)
	assert.Equal(t, []string{SlugFirstCheckIn, SlugStreak3, SlugHighEnergy}, slugs(first))

	second, err := engine.Evaluate(ctx, 1, in)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, []string{SlugFirstCheckIn, SlugStreak3, SlugHighEnergy}, store.Badges(1))
}

func TestConsistent(t *testing.T) {
	seven := []float64{6, 7, 8, 6, 9, 6.5, 6}
	assert.True(t, consistent(Inputs{TotalCheckIns: 7, RecentScores: seven}))
	assert.False(t, consistent(Inputs{TotalCheckIns: 6, RecentScores: seven[:6]}))

	withLow := []float64{6, 7, 8, 5.9, 9, 6.5, 6}
	assert.False(t, consistent(Inputs{TotalCheckIns: 7, RecentScores: withLow}))

	// only the latest seven count
	older := append([]float64{}, seven...)
	older = append(older, 2)
	assert.True(t, consistent(Inputs{TotalCheckIns: 8, RecentScores: older}))
}

func TestEvaluate_ConsistentAwardedOnceOnSeventh(t *testing.T) {
	store := memstore.New()
	engine := NewEngine(store.Repositories().Badge)
	ctx := context.Background()

	var recent []float64
	for day := 1; day <= 9; day++ {
		recent = append([]float64{7}, recent...)
		got, err := engine.Evaluate(ctx, 1, Inputs{
			TotalCheckIns: day,
			Streak:        day,
			LatestScore:   7,
			RecentScores:  recent,
			Level:         1,
		})
		require.NoError(t, err)
		if day == 7 {
			assert.Contains(t, slugs(got), SlugConsistent)
		} else {
			assert.NotContains(t, slugs(got), SlugConsistent)
		}
	}

	count := 0
	for _, s := range store.Badges(1) {
		if s == SlugConsistent {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestEvaluate_Levels(t *testing.T) {
	store := memstore.New()
	engine := NewEngine(store.Repositories().Badge)

	got, err := engine.Evaluate(context.Background(), 2, Inputs{TotalCheckIns: 50, Streak: 0, LatestScore: 5, RecentScores: []float64{5}, Level: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{SlugFirstCheckIn, SlugLevel5, SlugLevel10}, slugs(got))
}

func TestAward_CollaboratorBadge(t *testing.T) {
	store := memstore.New()
	engine := NewEngine(store.Repositories().Badge)
	ctx := context.Background()

	b, created, err := engine.Award(ctx, 1, SlugResilienzUpgrade)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Resilienz", b.Name)

	_, created, err = engine.Award(ctx, 1, SlugResilienzUpgrade)
	require.NoError(t, err)
	assert.False(t, created)

	_, _, err = engine.Award(ctx, 1, "made-up")
	assert.True(t, errors.Is(err, ErrUnknownBadge))
}

func TestCatalogOrder(t *testing.T) {
	c := Catalog()
	require.Len(t, c, 12)
	assert.Equal(t, SlugFirstCheckIn, c[0].Slug)
	assert.Equal(t, SlugLevel10, c[7].Slug)
	for _, b := range c[8:] {
		assert.Nil(t, b.Predicate, b.Slug)
	}
}
