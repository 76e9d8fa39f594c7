package maprender

import (
	"campus-drive/internal/models"
)

// MarkerStyle is the visual state of one marker. Styles are recomputed every
// sync pass and applied only when they changed.
type MarkerStyle struct {
	Role   models.LocationRole `json:"role"`
	Active bool                `json:"active"`
	Label  string              `json:"label"`
}

// Surface is the rendering backend the renderer drives: a leaflet map in the
// webview in production, a recording fake in tests. Implementations perform
// the drawing; the renderer owns all state and sequencing.
type Surface interface {
	// Attach prepares the surface with the initial viewport
	Attach(center models.Coordinates, zoom int) error
	// FitBounds adjusts the viewport to contain all points
	FitBounds(points []models.Coordinates) error

	AddMarker(name string, at models.Coordinates, style MarkerStyle) error
	UpdateMarker(name string, style MarkerStyle) error
	RemoveMarker(name string) error
	BringToFront(name string) error
	OpenPopup(name string) error
	ClosePopup(name string) error
	PanTo(at models.Coordinates) error

	// SetRouteOverlay draws the given legs as one overlay group
	SetRouteOverlay(legs []models.TripLeg) error
	// ClearRouteOverlay removes the current overlay group, if any
	ClearRouteOverlay() error
}
