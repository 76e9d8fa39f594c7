// Package campus holds the fixed campus dataset: the named points of
// interest shown on the map and the hand-authored road network the fallback
// router walks. The data is static; nothing here mutates after load.
package campus

import (
	"strings"

	"campus-drive/internal/models"
)

// Name of the campus, used for display and as the weather query context
const (
	Name            = "NSHM Knowledge Campus, Durgapur"
	WeatherLocation = "Durgapur,West Bengal,India"
	DefaultStart    = "Gate 1"
)

// MapCenter is the default viewport center
var MapCenter = models.Coordinates{Lat: 23.516838, Lng: 87.376387}

// DefaultZoom is the default viewport zoom level
const DefaultZoom = 17

var locations = []models.Location{
	{Name: "Gate 1", Distance: "0.2 km", ETA: "1 min", TrafficLevel: "Light", Coordinates: models.Coordinates{Lat: 23.517138, Lng: 87.377658}},
	{Name: "Admin", Distance: "0.3 km", ETA: "2 min", TrafficLevel: "Light", Coordinates: models.Coordinates{Lat: 23.516652, Lng: 87.377127}},
	{Name: "MBA Block", Distance: "0.4 km", ETA: "3 min", TrafficLevel: "Light", Coordinates: models.Coordinates{Lat: 23.51704, Lng: 87.376982}},
	{Name: "ITES Building", Distance: "0.5 km", ETA: "4 min", TrafficLevel: "Medium", Coordinates: models.Coordinates{Lat: 23.517591, Lng: 87.377132}},
	{Name: "Management Block", Distance: "0.6 km", ETA: "5 min", TrafficLevel: "Medium", Coordinates: models.Coordinates{Lat: 23.516888, Lng: 87.376698}},
	{Name: "D Block", Distance: "0.7 km", ETA: "6 min", TrafficLevel: "Medium", Coordinates: models.Coordinates{Lat: 23.51677, Lng: 87.376456}},
	{Name: "E Block", Distance: "0.8 km", ETA: "7 min", TrafficLevel: "Medium", Coordinates: models.Coordinates{Lat: 23.516686, Lng: 87.376124}},
	{Name: "Boys Hostel", Distance: "1.2 km", ETA: "10 min", TrafficLevel: "Heavy", Coordinates: models.Coordinates{Lat: 23.515919, Lng: 87.375517}},
	{Name: "Girls Hostel", Distance: "1.5 km", ETA: "12 min", TrafficLevel: "Heavy", Coordinates: models.Coordinates{Lat: 23.516996, Lng: 87.374241}},
	{Name: "Canteen", Distance: "1.0 km", ETA: "8 min", TrafficLevel: "Medium", Coordinates: models.Coordinates{Lat: 23.517512, Lng: 87.374536}},
	{Name: "Library", Distance: "0.5 km", ETA: "4 min", TrafficLevel: "Light", Coordinates: models.Coordinates{Lat: 23.516691, Lng: 87.376387}},
	{Name: "Cafe", Distance: "0.3 km", ETA: "2 min", TrafficLevel: "Light", Coordinates: models.Coordinates{Lat: 23.516838, Lng: 87.377148}},
}

// segment is a tiny constructor to keep the road table readable
func segment(aLat, aLng, bLat, bLng float64) models.RoadSegment {
	return models.RoadSegment{
		A: models.Coordinates{Lat: aLat, Lng: aLng},
		B: models.Coordinates{Lat: bLat, Lng: bLng},
	}
}

// roadNetwork mirrors the physical campus roads. Two segments are connected
// iff they share an exact endpoint coordinate.
var roadNetwork = []models.RoadSegment{
	// Main loop
	segment(23.517138, 87.377658, 23.516652, 87.377127), // Gate 1 to Admin
	segment(23.516652, 87.377127, 23.51704, 87.376982),  // Admin to MBA Block
	segment(23.51704, 87.376982, 23.517591, 87.377132),  // MBA Block to ITES Building
	segment(23.517591, 87.377132, 23.516888, 87.376698), // ITES Building to Management Block
	segment(23.516888, 87.376698, 23.51677, 87.376456),  // Management Block to D Block
	segment(23.51677, 87.376456, 23.516686, 87.376124),  // D Block to E Block
	segment(23.516686, 87.376124, 23.515919, 87.375517), // E Block to Boys Hostel
	segment(23.515919, 87.375517, 23.516996, 87.374241), // Boys Hostel to Girls Hostel
	segment(23.516996, 87.374241, 23.517512, 87.374536), // Girls Hostel to Canteen
	segment(23.517512, 87.374536, 23.516691, 87.376387), // Canteen to Library
	segment(23.516691, 87.376387, 23.516838, 87.377148), // Library to Cafe
	segment(23.516838, 87.377148, 23.517138, 87.377658), // Cafe to Gate 1

	// Cross connections
	segment(23.516652, 87.377127, 23.516691, 87.376387), // Admin to Library
	segment(23.51704, 87.376982, 23.516888, 87.376698),  // MBA Block to Management Block
	segment(23.516888, 87.376698, 23.516691, 87.376387), // Management Block to Library
	segment(23.516686, 87.376124, 23.516996, 87.374241), // E Block to Girls Hostel
	segment(23.517512, 87.374536, 23.517591, 87.377132), // Canteen to ITES Building
}

// Locations returns a copy of the campus location catalog
func Locations() []models.Location {
	out := make([]models.Location, len(locations))
	copy(out, locations)
	return out
}

// RoadNetwork returns a copy of the campus road segments
func RoadNetwork() []models.RoadSegment {
	out := make([]models.RoadSegment, len(roadNetwork))
	copy(out, roadNetwork)
	return out
}

// Find looks a location up by name, case-insensitively. Names are unique
// within the catalog, so the lookup is unambiguous.
func Find(name string) (models.Location, bool) {
	for _, loc := range locations {
		if strings.EqualFold(loc.Name, name) {
			return loc, true
		}
	}
	return models.Location{}, false
}

// Names returns every location name, sorted longest first. The voice matcher
// depends on this ordering so "mba block" wins over "block" style overlaps.
func Names() []string {
	names := make([]string, len(locations))
	for i, loc := range locations {
		names[i] = loc.Name
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && len(names[j]) > len(names[j-1]); j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}
