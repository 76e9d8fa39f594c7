package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-drive/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore(t *testing.T) {
	store := setupTestStore(t)
	assert.NotNil(t, store.Preferences())
	assert.NotNil(t, store.Trips())
	assert.NotNil(t, store.RouteCache())
}

func TestHealthCheck(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.HealthCheck(context.Background()))
}

func TestHealthCheckAfterClose(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.Error(t, store.HealthCheck(context.Background()))
}

func TestPreferenceDefaults(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	theme, err := store.Preferences().Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)

	prefs, err := store.Preferences().All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "true", prefs["show_boot_animation"])
	assert.Equal(t, "70", prefs["music_volume"])
}

func TestPreferenceSetAndOverwrite(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Preferences().Set(ctx, "theme", "light"))
	theme, err := store.Preferences().Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", theme)

	require.NoError(t, store.Preferences().Set(ctx, "nav_voice", "on"))
	voice, err := store.Preferences().Get(ctx, "nav_voice")
	require.NoError(t, err)
	assert.Equal(t, "on", voice)
}

func TestPreferenceMissingKey(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Preferences().Get(context.Background(), "no-such-key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testDestinations() []models.Location {
	return []models.Location{
		{Name: "Gate 1", Coordinates: models.Coordinates{Lat: 23.517138, Lng: 87.377658}},
		{Name: "Library", Coordinates: models.Coordinates{Lat: 23.516691, Lng: 87.376387}},
	}
}

func TestTripSaveAndLatest(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saved, err := store.Trips().Save(ctx, testDestinations())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.SavedAt.IsZero())

	latest, err := store.Trips().Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, latest.ID)
	require.Len(t, latest.Destinations, 2)
	assert.Equal(t, "Gate 1", latest.Destinations[0].Name)
	assert.Equal(t, 87.376387, latest.Destinations[1].Coordinates.Lng)
}

func TestTripLatestEmpty(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Trips().Latest(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTripListNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first, err := store.Trips().Save(ctx, testDestinations()[:1])
	require.NoError(t, err)
	// Distinct timestamps so the ordering is unambiguous
	time.Sleep(20 * time.Millisecond)
	second, err := store.Trips().Save(ctx, testDestinations())
	require.NoError(t, err)

	trips, err := store.Trips().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, second.ID, trips[0].ID)
	assert.Equal(t, first.ID, trips[1].ID)
}

func TestTripDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saved, err := store.Trips().Save(ctx, testDestinations())
	require.NoError(t, err)

	require.NoError(t, store.Trips().Delete(ctx, saved.ID))
	assert.ErrorIs(t, store.Trips().Delete(ctx, saved.ID), ErrNotFound)
}

func TestRouteCacheRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	origin := models.Coordinates{Lat: 23.517138, Lng: 87.377658}
	dest := models.Coordinates{Lat: 23.516691, Lng: 87.376387}

	entry := &models.RouteCacheEntry{
		Origin:          origin,
		Destination:     dest,
		Polyline:        []models.Coordinates{origin, dest},
		DistanceMeters:  182.4,
		DurationSeconds: 36.1,
	}
	require.NoError(t, store.RouteCache().Set(ctx, entry))

	got, err := store.RouteCache().Get(ctx, origin, dest)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 182.4, got.DistanceMeters)
	assert.Equal(t, 36.1, got.DurationSeconds)
	require.Len(t, got.Polyline, 2)
	assert.Equal(t, origin, got.Polyline[0])
}

func TestRouteCacheMissReturnsNil(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.RouteCache().Get(context.Background(),
		models.Coordinates{Lat: 1, Lng: 2}, models.Coordinates{Lat: 3, Lng: 4})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRouteCacheKeyRounding(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	origin := models.Coordinates{Lat: 23.5171381111, Lng: 87.3776581111}
	dest := models.Coordinates{Lat: 23.5166911111, Lng: 87.3763871111}

	require.NoError(t, store.RouteCache().Set(ctx, &models.RouteCacheEntry{
		Origin:      origin,
		Destination: dest,
		Polyline:    []models.Coordinates{origin, dest},
	}))

	// Sub-meter jitter in the query coordinates still hits the same row
	jittered := models.Coordinates{Lat: 23.5171382222, Lng: 87.3776582222}
	got, err := store.RouteCache().Get(ctx, jittered,
		models.Coordinates{Lat: 23.5166912222, Lng: 87.3763872222})
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRouteCacheClear(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	origin := models.Coordinates{Lat: 1, Lng: 2}
	dest := models.Coordinates{Lat: 3, Lng: 4}
	require.NoError(t, store.RouteCache().Set(ctx, &models.RouteCacheEntry{
		Origin: origin, Destination: dest,
		Polyline: []models.Coordinates{origin, dest},
	}))

	require.NoError(t, store.RouteCache().Clear(ctx))

	got, err := store.RouteCache().Get(ctx, origin, dest)
	require.NoError(t, err)
	assert.Nil(t, got)
}
