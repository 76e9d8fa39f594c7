package models

import (
	"math"
	"time"

	"github.com/paulmach/orb"
)

// Coordinates represents a geographic point in decimal degrees, latitude first
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point converts to an orb.Point (orb convention is lng-first)
func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// Equal reports exact coordinate equality. Road segments are connected iff
// they share an exact endpoint, so this is float equality, not proximity.
func (c Coordinates) Equal(other Coordinates) bool {
	return c.Lat == other.Lat && c.Lng == other.Lng
}

// FromPoint converts an orb.Point back to lat-first Coordinates
func FromPoint(p orb.Point) Coordinates {
	return Coordinates{Lat: p.Lat(), Lng: p.Lon()}
}

// RoundCoordinate rounds to 5 decimal places (~1m) for cache keys. Graph
// connectivity never uses this; it stays exact.
func RoundCoordinate(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

// LocationRole classifies a location by its position in the current selection
type LocationRole string

const (
	RoleStart      LocationRole = "start"
	RoleStop       LocationRole = "stop"
	RoleUnselected LocationRole = "unselected"
)

// Location is a named campus point of interest. Name is the de facto primary
// key: it must be unique within any location list handed to the map.
type Location struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	// Display hints only - never consulted by routing logic
	Distance     string `json:"distance,omitempty"`
	ETA          string `json:"eta,omitempty"`
	TrafficLevel string `json:"traffic,omitempty"`
}

// RoadSegment is an undirected edge in the campus road graph. Endpoints are
// raw coordinate pairs, independent of named Locations.
type RoadSegment struct {
	A Coordinates `json:"a"`
	B Coordinates `json:"b"`
}

// HasEndpoint reports whether p is one of the segment's exact endpoints
func (s RoadSegment) HasEndpoint(p Coordinates) bool {
	return s.A.Equal(p) || s.B.Equal(p)
}

// OtherEnd returns the endpoint opposite to p. Callers must ensure p is an
// endpoint of the segment.
func (s RoadSegment) OtherEnd(p Coordinates) Coordinates {
	if s.A.Equal(p) {
		return s.B
	}
	return s.A
}

// RouteSource identifies which strategy produced a resolved route
type RouteSource string

const (
	SourceService  RouteSource = "service"
	SourceFallback RouteSource = "fallback"
)

// ResolvedRoute is the drawable result for one leg of a trip. Instances are
// transient: recomputed whenever the selection or show-route trigger changes.
type ResolvedRoute struct {
	Polyline        []Coordinates `json:"polyline"`
	DistanceMeters  float64       `json:"distance_meters"`
	DurationSeconds float64       `json:"duration_seconds"`
	Source          RouteSource   `json:"source"`
}

// TripLeg pairs a resolved route with the stops it connects
type TripLeg struct {
	From  string        `json:"from"`
	To    string        `json:"to"`
	Route ResolvedRoute `json:"route"`
}

// SavedTrip is the persisted multi-stop destination list, consumed by the
// navigation view on load
type SavedTrip struct {
	ID           string     `json:"id"`
	Destinations []Location `json:"destinations"`
	SavedAt      time.Time  `json:"saved_at"`
}

// WeatherReading is the current-conditions display model
type WeatherReading struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	WindKph     float64 `json:"wind_kph"`
	FeelsLike   float64 `json:"feels_like"`
	LastUpdated string  `json:"last_updated"`
}

// VoiceCommandResult is the response contract of the voice-command endpoint
type VoiceCommandResult struct {
	Success       bool   `json:"success"`
	Text          string `json:"text,omitempty"`
	Command       string `json:"command,omitempty"`
	Route         string `json:"route,omitempty"`
	StartLocation string `json:"startLocation,omitempty"`
	Location      string `json:"location,omitempty"`
	IsNavigation  bool   `json:"isNavigation,omitempty"`
	Error         string `json:"error,omitempty"`
	Timestamp     int64  `json:"timestamp,omitempty"`
}

// VehicleStatus is one telemetry snapshot of the car
type VehicleStatus struct {
	BatteryPercent  float64    `json:"battery_percent"`
	RangeKm         float64    `json:"range_km"`
	SpeedKph        float64    `json:"speed_kph"`
	TirePressurePsi [4]float64 `json:"tire_pressure_psi"`
	CabinTempC      float64    `json:"cabin_temp_c"`
	MotorTempC      float64    `json:"motor_temp_c"`
	OdometerKm      float64    `json:"odometer_km"`
	ChargingState   string     `json:"charging_state"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// RouteCacheEntry is a memoized service-resolved leg
type RouteCacheEntry struct {
	Origin          Coordinates   `json:"origin"`
	Destination     Coordinates   `json:"destination"`
	Polyline        []Coordinates `json:"polyline"`
	DistanceMeters  float64       `json:"distance_meters"`
	DurationSeconds float64       `json:"duration_seconds"`
}
