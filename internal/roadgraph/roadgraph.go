// Package roadgraph answers point queries over the static campus road
// network. It is the leaf dependency of the fallback router: no I/O, no
// mutation after construction.
package roadgraph

import (
	"github.com/paulmach/orb/planar"

	"campus-drive/internal/models"
)

// Graph is an undirected graph of road segments. Segments are connected at a
// point iff they share that exact coordinate endpoint; nearness does not
// count (see NearestPoint for the anchoring step that bridges the gap).
type Graph struct {
	segments []models.RoadSegment
}

// New builds a graph from a fixed segment list. The graph keeps its own copy.
func New(segments []models.RoadSegment) *Graph {
	owned := make([]models.RoadSegment, len(segments))
	copy(owned, segments)
	return &Graph{segments: owned}
}

// Segments returns the segment count
func (g *Graph) Size() int {
	return len(g.segments)
}

// NearestPoint returns the segment endpoint closest to p by planar distance
// in degree space. Planar rather than geodesic is deliberate: at campus scale
// the error is negligible and it matches how anchors were always chosen.
// If p already equals an endpoint exactly, p itself is returned.
func (g *Graph) NearestPoint(p models.Coordinates) models.Coordinates {
	nearest := p
	minDist := -1.0

	for _, seg := range g.segments {
		for _, end := range []models.Coordinates{seg.A, seg.B} {
			if end.Equal(p) {
				return p
			}
			d := planar.Distance(p.Point(), end.Point())
			if minDist < 0 || d < minDist {
				minDist = d
				nearest = end
			}
		}
	}

	return nearest
}

// ConnectedSegments returns every segment having p as an exact endpoint
func (g *Graph) ConnectedSegments(p models.Coordinates) []models.RoadSegment {
	var connected []models.RoadSegment
	for _, seg := range g.segments {
		if seg.HasEndpoint(p) {
			connected = append(connected, seg)
		}
	}
	return connected
}
