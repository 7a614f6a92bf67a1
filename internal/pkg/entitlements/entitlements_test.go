package entitlements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_Table(t *testing.T) {
	start := For(models.JourneyStateOnboardingStart)
	assert.True(t, start.Dashboard)
	assert.Equal(t, ModulesFirst, start.Modules)
	assert.Equal(t, CommunityNone, start.Community)

	trial := For(models.JourneyStateTrialActive)
	assert.Equal(t, ModulesBasis, trial.Modules)
	assert.Equal(t, CommunityReadWrite, trial.Community)
	assert.Equal(t, TrackerAdvanced, trial.Tracker)
	assert.False(t, trial.Workshops)

	le := For(models.JourneyStateLebensenergieActive)
	assert.True(t, le.Workshops)
	assert.False(t, le.Circles)

	res := For(models.JourneyStateResilienzActive)
	assert.Equal(t, ModulesAll, res.Modules)
	assert.Equal(t, CommunityFull, res.Community)
	assert.True(t, res.Circles)
	assert.True(t, res.Mentoring)

	assert.Equal(t, start, For("unknown"))
	assert.Len(t, capabilities, 6)
}

func TestGrantRevokeRestore(t *testing.T) {
	store := memstore.New()
	svc := NewService(store.Repositories().Entitlement)
	ctx := context.Background()

	_, err := svc.Grant(ctx, 1, "course-a", nil, "evt-1")
	require.NoError(t, err)
	_, err = svc.Grant(ctx, 1, "course-b", nil, "evt-2")
	require.NoError(t, err)

	active, err := svc.Active(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"course-a", "course-b"}, active)

	n, err := svc.Revoke(ctx, 1, "course-a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	active, _ = svc.Active(ctx, 1)
	assert.Equal(t, []string{"course-b"}, active)

	// a later payment restores access on the same row
	_, err = svc.Grant(ctx, 1, "course-a", nil, "evt-3")
	require.NoError(t, err)
	rows := store.Entitlements(1)
	assert.Len(t, rows, 2)
	active, _ = svc.Active(ctx, 1)
	assert.Equal(t, []string{"course-a", "course-b"}, active)

	n, err = svc.Revoke(ctx, 1, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	active, _ = svc.Active(ctx, 1)
	assert.Empty(t, active)
}

func TestGrant_Validation(t *testing.T) {
	svc := NewService(memstore.New().Repositories().Entitlement)
	_, err := svc.Grant(context.Background(), 1, "  ", nil, "")
	assert.True(t, errors.Is(err, ErrMissingCourse))
}

func TestActive_RespectsExpiry(t *testing.T) {
	store := memstore.New()
	svc := NewService(store.Repositories().Entitlement)
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)

	_, err := svc.Grant(ctx, 1, "old", &past, "")
	require.NoError(t, err)
	active, err := svc.Active(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, active)
}
