// Package routing resolves a drawable route for one leg of a trip. The
// external routing engine is preferred; when it is unreachable or degraded
// the resolver falls back to a greedy walk over the campus road graph. Both
// paths always yield a usable route, so resolution never errors.
package routing

import (
	"context"
	"log"

	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"

	"campus-drive/internal/models"
	"campus-drive/internal/roadgraph"
)

const (
	// Straight-line to road-distance inflation used by fallback estimates
	detourFactor = 1.3
	// Average campus speed assumption: 2 minutes per kilometer
	secondsPerKm = 120.0
	// Bound on the greedy walk so disconnected or cyclic graphs terminate
	maxWalkSteps = 10
)

// LegCache memoizes service-resolved legs keyed by their endpoint
// coordinates. Implementations may be nil-safe no-ops; caching is an
// efficiency concern only, never required for correctness.
type LegCache interface {
	Get(ctx context.Context, origin, dest models.Coordinates) (*models.RouteCacheEntry, error)
	Set(ctx context.Context, entry *models.RouteCacheEntry) error
}

// Resolver produces a ResolvedRoute for a single (start, end) leg
type Resolver struct {
	service RouteService
	graph   *roadgraph.Graph
	cache   LegCache
}

// NewResolver creates a resolver. cache may be nil.
func NewResolver(service RouteService, graph *roadgraph.Graph, cache LegCache) *Resolver {
	return &Resolver{
		service: service,
		graph:   graph,
		cache:   cache,
	}
}

// Resolve returns the route for one leg. It is total: the service result is
// used when available, otherwise the locally computed fallback, so the caller
// always receives a drawable route.
func (r *Resolver) Resolve(ctx context.Context, start, end models.Location) *models.ResolvedRoute {
	s, e := start.Coordinates, end.Coordinates

	// Degenerate leg: both stops at the same point
	if s.Equal(e) {
		return &models.ResolvedRoute{
			Polyline:        []models.Coordinates{s, e},
			DistanceMeters:  0,
			DurationSeconds: 0,
			Source:          models.SourceFallback,
		}
	}

	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, s, e); err == nil && cached != nil {
			return &models.ResolvedRoute{
				Polyline:        cached.Polyline,
				DistanceMeters:  cached.DistanceMeters,
				DurationSeconds: cached.DurationSeconds,
				Source:          models.SourceService,
			}
		}
	}

	svc, err := r.service.Route(ctx, []models.Coordinates{s, e})
	if err != nil {
		log.Printf("[ROUTING] Service unavailable, using road-graph fallback: %s -> %s err=%v", start.Name, end.Name, err)
		return r.fallback(s, e)
	}

	if r.cache != nil {
		cacheErr := r.cache.Set(ctx, &models.RouteCacheEntry{
			Origin:          s,
			Destination:     e,
			Polyline:        svc.Geometry,
			DistanceMeters:  svc.DistanceMeters,
			DurationSeconds: svc.DurationSeconds,
		})
		if cacheErr != nil {
			log.Printf("[ROUTING] Failed to cache leg: %s -> %s err=%v", start.Name, end.Name, cacheErr)
		}
	}

	return &models.ResolvedRoute{
		Polyline:        svc.Geometry,
		DistanceMeters:  svc.DistanceMeters,
		DurationSeconds: svc.DurationSeconds,
		Source:          models.SourceService,
	}
}

// fallback computes an approximate path through the road graph. It is pure
// local computation: anchoring both endpoints to the graph, walking greedily
// toward the end anchor, and estimating distance/duration from the straight
// line between the original endpoints.
func (r *Resolver) fallback(start, end models.Coordinates) *models.ResolvedRoute {
	startAnchor := r.graph.NearestPoint(start)
	endAnchor := r.graph.NearestPoint(end)

	polyline := []models.Coordinates{start}
	if !startAnchor.Equal(start) {
		polyline = append(polyline, startAnchor)
	}

	walked := r.walk(startAnchor, endAnchor)
	polyline = append(polyline, walked...)

	lastPoint := polyline[len(polyline)-1]
	if !endAnchor.Equal(end) && !endAnchor.Equal(lastPoint) {
		polyline = append(polyline, endAnchor)
	}
	polyline = append(polyline, end)

	distanceMeters := geo.DistanceHaversine(start.Point(), end.Point()) * detourFactor
	durationSeconds := distanceMeters / 1000.0 * secondsPerKm

	return &models.ResolvedRoute{
		Polyline:        polyline,
		DistanceMeters:  distanceMeters,
		DurationSeconds: durationSeconds,
		Source:          models.SourceFallback,
	}
}

// walk moves greedily from start toward end: at each step it takes whichever
// connected endpoint most reduces the planar distance to end. It stops when
// no improving move exists or the step bound is hit, returning whatever
// partial path it found - better than nothing, not an error.
func (r *Resolver) walk(start, end models.Coordinates) []models.Coordinates {
	var path []models.Coordinates
	current := start

	for step := 0; step < maxWalkSteps && !current.Equal(end); step++ {
		connected := r.graph.ConnectedSegments(current)
		if len(connected) == 0 {
			break
		}

		best := current
		bestDist := planar.Distance(current.Point(), end.Point())
		for _, seg := range connected {
			other := seg.OtherEnd(current)
			if d := planar.Distance(other.Point(), end.Point()); d < bestDist {
				bestDist = d
				best = other
			}
		}

		if best.Equal(current) {
			break
		}

		path = append(path, best)
		current = best
	}

	return path
}
