// Package trip tracks which locations the driver has picked and in what
// order. The first pick is always the trip's start; everything after it is a
// destination stop.
package trip

import (
	"sort"

	"github.com/paulmach/orb/geo"

	"campus-drive/internal/models"
)

// Selection is the ordered list of selected location names. It is mutated
// only by user interaction; the map renderer and route resolver read it.
type Selection struct {
	names []string
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{}
}

// RestoreSelection rebuilds a selection from a persisted name list
func RestoreSelection(names []string) *Selection {
	owned := make([]string, len(names))
	copy(owned, names)
	return &Selection{names: owned}
}

// Toggle flips the membership of name:
//   - not selected yet: appended (first pick becomes the start)
//   - a non-start member: removed in place, order otherwise preserved
//   - the start, or the only remaining member: the whole selection clears
func (s *Selection) Toggle(name string) {
	idx := s.indexOf(name)
	if idx < 0 {
		s.names = append(s.names, name)
		return
	}

	if idx == 0 || len(s.names) == 1 {
		s.names = nil
		return
	}

	s.names = append(s.names[:idx], s.names[idx+1:]...)
}

// Clear drops the whole selection
func (s *Selection) Clear() {
	s.names = nil
}

// Contains reports whether name is selected
func (s *Selection) Contains(name string) bool {
	return s.indexOf(name) >= 0
}

// Start returns the trip start name, or "" when nothing is selected
func (s *Selection) Start() string {
	if len(s.names) == 0 {
		return ""
	}
	return s.names[0]
}

// Names returns the selection in pick order. The returned slice is a copy.
func (s *Selection) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of selected locations
func (s *Selection) Len() int {
	return len(s.names)
}

// Role classifies name against the current selection
func (s *Selection) Role(name string) models.LocationRole {
	switch idx := s.indexOf(name); {
	case idx == 0:
		return models.RoleStart
	case idx > 0:
		return models.RoleStop
	default:
		return models.RoleUnselected
	}
}

func (s *Selection) indexOf(name string) int {
	for i, n := range s.names {
		if n == name {
			return i
		}
	}
	return -1
}

// VisitOrder arranges the selected locations for drawing: the start first,
// then the remaining stops sorted by ascending straight-line distance from
// the start. This approximates a sensible multi-stop visiting order without
// doing full route optimization.
func VisitOrder(selected []models.Location) []models.Location {
	if len(selected) <= 2 {
		out := make([]models.Location, len(selected))
		copy(out, selected)
		return out
	}

	start := selected[0]
	rest := make([]models.Location, len(selected)-1)
	copy(rest, selected[1:])

	sort.SliceStable(rest, func(i, j int) bool {
		di := geo.DistanceHaversine(start.Coordinates.Point(), rest[i].Coordinates.Point())
		dj := geo.DistanceHaversine(start.Coordinates.Point(), rest[j].Coordinates.Point())
		return di < dj
	})

	return append([]models.Location{start}, rest...)
}
