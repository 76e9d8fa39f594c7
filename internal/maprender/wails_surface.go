package maprender

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"campus-drive/internal/models"
)

// WailsSurface renders by emitting events to the webview, where the embedded
// leaflet frontend applies each operation. Emission is fire-and-forget, so
// every method reports success; actual draw failures surface in the webview
// console only.
type WailsSurface struct {
	ctx context.Context
}

// NewWailsSurface creates a surface bound to the Wails runtime context
// handed to the app on startup
func NewWailsSurface(ctx context.Context) *WailsSurface {
	return &WailsSurface{ctx: ctx}
}

type markerEvent struct {
	Name  string             `json:"name"`
	At    models.Coordinates `json:"at,omitempty"`
	Style MarkerStyle        `json:"style"`
}

func (s *WailsSurface) Attach(center models.Coordinates, zoom int) error {
	runtime.EventsEmit(s.ctx, "map:attach", map[string]interface{}{
		"center": center,
		"zoom":   zoom,
	})
	return nil
}

func (s *WailsSurface) FitBounds(points []models.Coordinates) error {
	runtime.EventsEmit(s.ctx, "map:fitBounds", points)
	return nil
}

func (s *WailsSurface) AddMarker(name string, at models.Coordinates, style MarkerStyle) error {
	runtime.EventsEmit(s.ctx, "map:marker:add", markerEvent{Name: name, At: at, Style: style})
	return nil
}

func (s *WailsSurface) UpdateMarker(name string, style MarkerStyle) error {
	runtime.EventsEmit(s.ctx, "map:marker:update", markerEvent{Name: name, Style: style})
	return nil
}

func (s *WailsSurface) RemoveMarker(name string) error {
	runtime.EventsEmit(s.ctx, "map:marker:remove", name)
	return nil
}

func (s *WailsSurface) BringToFront(name string) error {
	runtime.EventsEmit(s.ctx, "map:marker:front", name)
	return nil
}

func (s *WailsSurface) OpenPopup(name string) error {
	runtime.EventsEmit(s.ctx, "map:popup:open", name)
	return nil
}

func (s *WailsSurface) ClosePopup(name string) error {
	runtime.EventsEmit(s.ctx, "map:popup:close", name)
	return nil
}

func (s *WailsSurface) PanTo(at models.Coordinates) error {
	runtime.EventsEmit(s.ctx, "map:panTo", at)
	return nil
}

func (s *WailsSurface) SetRouteOverlay(legs []models.TripLeg) error {
	runtime.EventsEmit(s.ctx, "map:route:set", legs)
	return nil
}

func (s *WailsSurface) ClearRouteOverlay() error {
	runtime.EventsEmit(s.ctx, "map:route:clear")
	return nil
}
