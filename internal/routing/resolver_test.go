package routing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-drive/internal/campus"
	"campus-drive/internal/models"
	"campus-drive/internal/roadgraph"
)

type stubService struct {
	route *ServiceRoute
	err   error
	calls int
}

func (s *stubService) Route(ctx context.Context, points []models.Coordinates) (*ServiceRoute, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.route, nil
}

type memoryLegCache struct {
	entries map[string]*models.RouteCacheEntry
}

func newMemoryLegCache() *memoryLegCache {
	return &memoryLegCache{entries: make(map[string]*models.RouteCacheEntry)}
}

func cacheKey(o, d models.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f->%.6f,%.6f", o.Lat, o.Lng, d.Lat, d.Lng)
}

func (c *memoryLegCache) Get(ctx context.Context, o, d models.Coordinates) (*models.RouteCacheEntry, error) {
	return c.entries[cacheKey(o, d)], nil
}

func (c *memoryLegCache) Set(ctx context.Context, entry *models.RouteCacheEntry) error {
	c.entries[cacheKey(entry.Origin, entry.Destination)] = entry
	return nil
}

func loc(name string, lat, lng float64) models.Location {
	return models.Location{Name: name, Coordinates: models.Coordinates{Lat: lat, Lng: lng}}
}

func campusGraph() *roadgraph.Graph {
	return roadgraph.New(campus.RoadNetwork())
}

func TestResolveServiceSuccess(t *testing.T) {
	gate1, _ := campus.Find("Gate 1")
	library, _ := campus.Find("Library")

	svc := &stubService{route: &ServiceRoute{
		Geometry: []models.Coordinates{
			gate1.Coordinates,
			{Lat: 23.5168, Lng: 87.3770},
			library.Coordinates,
		},
		DistanceMeters:  450,
		DurationSeconds: 90,
	}}

	r := NewResolver(svc, campusGraph(), nil)
	route := r.Resolve(context.Background(), gate1, library)

	require.NotNil(t, route)
	assert.Equal(t, models.SourceService, route.Source)
	assert.Equal(t, 450.0, route.DistanceMeters)
	assert.Equal(t, 90.0, route.DurationSeconds)
	assert.Equal(t, gate1.Coordinates, route.Polyline[0])
	assert.Equal(t, library.Coordinates, route.Polyline[len(route.Polyline)-1])
}

func TestResolveFallbackOnServiceFailure(t *testing.T) {
	gate1, ok := campus.Find("Gate 1")
	require.True(t, ok)
	library, ok := campus.Find("Library")
	require.True(t, ok)

	svc := &stubService{err: &ErrRouteServiceFailed{Reason: "connection refused"}}
	r := NewResolver(svc, campusGraph(), nil)

	route := r.Resolve(context.Background(), gate1, library)
	require.NotNil(t, route)
	assert.Equal(t, models.SourceFallback, route.Source)

	// First and last points equal the original coordinates exactly
	assert.Equal(t, gate1.Coordinates, route.Polyline[0])
	assert.Equal(t, library.Coordinates, route.Polyline[len(route.Polyline)-1])

	// Estimates: straight line inflated 30%, 2 min per km
	straight := geo.DistanceHaversine(gate1.Coordinates.Point(), library.Coordinates.Point())
	assert.InDelta(t, straight*1.3, route.DistanceMeters, 0.001)
	assert.InDelta(t, route.DistanceMeters/1000*120, route.DurationSeconds, 0.001)
}

func TestResolveFallbackOffGraphEndpoints(t *testing.T) {
	// Coordinates not in the graph at all: polyline must still start and end
	// at the originals, with anchors in between
	start := loc("car", 23.5180, 87.3780)
	end := loc("somewhere", 23.5160, 87.3740)

	svc := &stubService{err: errors.New("boom")}
	r := NewResolver(svc, campusGraph(), nil)

	route := r.Resolve(context.Background(), start, end)
	require.NotNil(t, route)
	assert.Equal(t, models.SourceFallback, route.Source)
	assert.Equal(t, start.Coordinates, route.Polyline[0])
	assert.Equal(t, end.Coordinates, route.Polyline[len(route.Polyline)-1])
	assert.GreaterOrEqual(t, len(route.Polyline), 4)
}

func TestResolveDegenerateSamePoint(t *testing.T) {
	a := loc("A", 23.517138, 87.377658)
	b := loc("B", 23.517138, 87.377658)

	svc := &stubService{}
	r := NewResolver(svc, campusGraph(), nil)

	route := r.Resolve(context.Background(), a, b)
	require.NotNil(t, route)
	assert.Zero(t, route.DistanceMeters)
	assert.Zero(t, route.DurationSeconds)
	assert.Len(t, route.Polyline, 2)
	assert.Zero(t, svc.calls, "no service call for a zero-length leg")
}

func TestResolveNeverFails(t *testing.T) {
	// Totality: whatever the service does, the resolver yields a route with
	// source set to exactly one of service/fallback
	cases := []*stubService{
		{route: &ServiceRoute{Geometry: []models.Coordinates{{Lat: 1}, {Lat: 2}}, DistanceMeters: 10, DurationSeconds: 1}},
		{err: errors.New("network down")},
		{err: &ErrRouteServiceFailed{Reason: "HTTP 502"}},
	}

	start := loc("x", 10, 10)
	end := loc("y", 11, 11)

	for _, svc := range cases {
		r := NewResolver(svc, campusGraph(), nil)
		route := r.Resolve(context.Background(), start, end)
		require.NotNil(t, route)
		valid := route.Source == models.SourceService || route.Source == models.SourceFallback
		assert.True(t, valid, "source must be service or fallback, got %q", route.Source)
	}
}

func TestWalkTerminatesWithinBoundOnLongChain(t *testing.T) {
	// A 20-segment chain: the greedy walk improves at every step but must
	// stop at the 10-step bound and keep the partial path
	var segments []models.RoadSegment
	for i := 0; i < 20; i++ {
		segments = append(segments, models.RoadSegment{
			A: models.Coordinates{Lat: float64(i), Lng: 0},
			B: models.Coordinates{Lat: float64(i + 1), Lng: 0},
		})
	}
	g := roadgraph.New(segments)
	r := NewResolver(&stubService{err: errors.New("down")}, g, nil)

	path := r.walk(models.Coordinates{Lat: 0, Lng: 0}, models.Coordinates{Lat: 20, Lng: 0})
	assert.Len(t, path, maxWalkSteps)
	assert.Equal(t, models.Coordinates{Lat: 10, Lng: 0}, path[len(path)-1])
}

func TestWalkTerminatesOnCycle(t *testing.T) {
	// A triangle with the target far away and no improving move from the
	// nearest corner: the walk must stop rather than loop
	segments := []models.RoadSegment{
		{A: models.Coordinates{Lat: 0, Lng: 0}, B: models.Coordinates{Lat: 0, Lng: 1}},
		{A: models.Coordinates{Lat: 0, Lng: 1}, B: models.Coordinates{Lat: 1, Lng: 0}},
		{A: models.Coordinates{Lat: 1, Lng: 0}, B: models.Coordinates{Lat: 0, Lng: 0}},
	}
	g := roadgraph.New(segments)
	r := NewResolver(&stubService{err: errors.New("down")}, g, nil)

	path := r.walk(models.Coordinates{Lat: 0, Lng: 1}, models.Coordinates{Lat: 0, Lng: 50})
	assert.LessOrEqual(t, len(path), maxWalkSteps)
}

func TestWalkDisconnectedAnchor(t *testing.T) {
	// Anchor with no connected segments: empty walk, not an error
	g := roadgraph.New([]models.RoadSegment{
		{A: models.Coordinates{Lat: 5, Lng: 5}, B: models.Coordinates{Lat: 6, Lng: 6}},
	})
	r := NewResolver(&stubService{err: errors.New("down")}, g, nil)

	path := r.walk(models.Coordinates{Lat: 0, Lng: 0}, models.Coordinates{Lat: 9, Lng: 9})
	assert.Empty(t, path)
}

func TestResolveUsesCache(t *testing.T) {
	gate1, _ := campus.Find("Gate 1")
	library, _ := campus.Find("Library")

	cache := newMemoryLegCache()
	svc := &stubService{route: &ServiceRoute{
		Geometry:        []models.Coordinates{gate1.Coordinates, library.Coordinates},
		DistanceMeters:  300,
		DurationSeconds: 60,
	}}
	r := NewResolver(svc, campusGraph(), cache)

	first := r.Resolve(context.Background(), gate1, library)
	require.Equal(t, models.SourceService, first.Source)
	assert.Equal(t, 1, svc.calls)

	second := r.Resolve(context.Background(), gate1, library)
	assert.Equal(t, models.SourceService, second.Source)
	assert.Equal(t, 300.0, second.DistanceMeters)
	assert.Equal(t, 1, svc.calls, "second resolve must be served from cache")
}
