// Package maprender keeps the map's marker set and route overlay in step
// with the driver's selection. It owns the only mutable rendering state in
// the app: the marker map (keyed by location name) and the current overlay
// group. Every failure inside a sync pass is logged and contained; a bad
// marker or leg never takes down the rest of the map.
package maprender

import (
	"context"
	"log"
	"strings"
	"sync"

	"campus-drive/internal/models"
	"campus-drive/internal/trip"
)

// LegResolver resolves one leg of a trip. Resolution is total: it always
// yields a usable route (see the routing package).
type LegResolver interface {
	Resolve(ctx context.Context, start, end models.Location) *models.ResolvedRoute
}

type markerState struct {
	at    models.Coordinates
	style MarkerStyle
}

// Renderer drives a Surface from selection state. All mutation of the marker
// map and overlay happens inside complete sync passes; a later pass always
// supersedes an unfinished earlier one via the generation counter.
type Renderer struct {
	surface  Surface
	resolver LegResolver

	mu           sync.Mutex
	ready        bool
	markers      map[string]*markerState
	locationsKey string
	generation   uint64
	overlaySet   bool
}

// New creates a renderer over the given surface and resolver
func New(surface Surface, resolver LegResolver) *Renderer {
	return &Renderer{
		surface:  surface,
		resolver: resolver,
		markers:  make(map[string]*markerState),
	}
}

// Attach brings the surface up with the initial viewport. It is idempotent:
// once the renderer is ready, further calls are no-ops.
func (r *Renderer) Attach(center models.Coordinates, zoom int, locations []models.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ready {
		return
	}

	if err := r.surface.Attach(center, zoom); err != nil {
		log.Printf("[MAP] Surface attach failed: err=%v", err)
		return
	}

	if len(locations) > 0 {
		points := make([]models.Coordinates, len(locations))
		for i, loc := range locations {
			points[i] = loc.Coordinates
		}
		if err := r.surface.FitBounds(points); err != nil {
			log.Printf("[MAP] FitBounds failed: err=%v", err)
		}
	}

	r.ready = true
	log.Printf("[MAP] Surface attached: locations=%d", len(locations))
}

// Ready reports whether the surface has been attached
func (r *Renderer) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

// SyncMarkers reconciles every marker's style with the current selection and
// active location. Markers are keyed by location name and created once; they
// are only torn down when the location list itself changes. Re-running with
// unchanged inputs performs style reconciliation only.
func (r *Renderer) SyncMarkers(locations []models.Location, active string, selected []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.ready {
		log.Printf("[MAP] Marker sync skipped: surface not ready")
		return
	}

	key := locationsKey(locations)
	if key != r.locationsKey {
		r.rebuildMarkersLocked(locations, active, selected)
		r.locationsKey = key
		return
	}

	for _, loc := range locations {
		style := styleFor(loc, active, selected)
		m, ok := r.markers[loc.Name]
		if !ok {
			// Defensive: a marker can only be missing if a prior create
			// failed; retry it rather than desync
			if err := r.surface.AddMarker(loc.Name, loc.Coordinates, style); err != nil {
				log.Printf("[MAP] Marker create failed: name=%q err=%v", loc.Name, err)
				continue
			}
			r.markers[loc.Name] = &markerState{at: loc.Coordinates, style: style}
			r.applyActivityLocked(loc, style, MarkerStyle{})
			continue
		}

		prev := m.style
		if style != prev {
			if err := r.surface.UpdateMarker(loc.Name, style); err != nil {
				log.Printf("[MAP] Marker update failed: name=%q err=%v", loc.Name, err)
				continue
			}
			m.style = style
		}
		r.applyActivityLocked(loc, style, prev)
	}
}

// rebuildMarkersLocked tears down and recreates the marker set. Only called
// when the location list identity changes.
func (r *Renderer) rebuildMarkersLocked(locations []models.Location, active string, selected []string) {
	for name := range r.markers {
		if err := r.surface.RemoveMarker(name); err != nil {
			log.Printf("[MAP] Marker remove failed: name=%q err=%v", name, err)
		}
		delete(r.markers, name)
	}

	for _, loc := range locations {
		style := styleFor(loc, active, selected)
		if err := r.surface.AddMarker(loc.Name, loc.Coordinates, style); err != nil {
			log.Printf("[MAP] Marker create failed: name=%q err=%v", loc.Name, err)
			continue
		}
		r.markers[loc.Name] = &markerState{at: loc.Coordinates, style: style}
		r.applyActivityLocked(loc, style, MarkerStyle{})
	}

	log.Printf("[MAP] Markers rebuilt: count=%d", len(r.markers))
}

// applyActivityLocked handles the popup/viewport side effects of a marker
// turning active or inactive
func (r *Renderer) applyActivityLocked(loc models.Location, style, prev MarkerStyle) {
	if style.Active == prev.Active {
		return
	}

	name := loc.Name
	if style.Active {
		if err := r.surface.BringToFront(name); err != nil {
			log.Printf("[MAP] BringToFront failed: name=%q err=%v", name, err)
		}
		if err := r.surface.OpenPopup(name); err != nil {
			log.Printf("[MAP] OpenPopup failed: name=%q err=%v", name, err)
		}
		if err := r.surface.PanTo(loc.Coordinates); err != nil {
			log.Printf("[MAP] PanTo failed: name=%q err=%v", name, err)
		}
		return
	}

	if err := r.surface.ClosePopup(name); err != nil {
		log.Printf("[MAP] ClosePopup failed: name=%q err=%v", name, err)
	}
}

// ShowRoute resolves and draws the route for the current selection. Stops
// are visited start-first, the rest ordered by straight-line distance from
// the start; legs are resolved sequentially in that order so the drawn route
// matches the visiting order. A newer ShowRoute supersedes an in-flight one:
// the stale pass discards its result instead of drawing over fresher legs.
// The resolved legs are returned for display (totals, per-stop ETA).
func (r *Renderer) ShowRoute(ctx context.Context, locations []models.Location, selected []string) []models.TripLeg {
	r.mu.Lock()
	if !r.ready {
		r.mu.Unlock()
		log.Printf("[MAP] Route sync skipped: surface not ready")
		return nil
	}
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	stops := resolveNames(locations, selected)
	if len(stops) < 2 {
		return nil
	}

	ordered := trip.VisitOrder(stops)

	// Legs resolve in visit order, one at a time. A leg that comes back
	// unusable is skipped; the others still draw.
	var legs []models.TripLeg
	for i := 0; i < len(ordered)-1; i++ {
		from, to := ordered[i], ordered[i+1]
		route := r.resolver.Resolve(ctx, from, to)
		if route == nil || len(route.Polyline) == 0 {
			log.Printf("[MAP] Leg yielded no drawable route: %s -> %s", from.Name, to.Name)
			continue
		}
		legs = append(legs, models.TripLeg{From: from.Name, To: to.Name, Route: *route})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation {
		log.Printf("[MAP] Discarding stale route render: generation=%d current=%d", gen, r.generation)
		return nil
	}

	if r.overlaySet {
		if err := r.surface.ClearRouteOverlay(); err != nil {
			log.Printf("[MAP] Overlay clear failed: err=%v", err)
		}
		r.overlaySet = false
	}

	if err := r.surface.SetRouteOverlay(legs); err != nil {
		log.Printf("[MAP] Overlay draw failed: legs=%d err=%v", len(legs), err)
		return legs
	}
	r.overlaySet = true

	log.Printf("[MAP] Route drawn: legs=%d", len(legs))
	return legs
}

// ClearRoute removes the drawn route overlay and invalidates any in-flight
// route resolution
func (r *Renderer) ClearRoute() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generation++
	if !r.overlaySet {
		return
	}
	if err := r.surface.ClearRouteOverlay(); err != nil {
		log.Printf("[MAP] Overlay clear failed: err=%v", err)
		return
	}
	r.overlaySet = false
}

// styleFor derives a marker's visual state from the selection. Role is
// computed per render, never stored on the location.
func styleFor(loc models.Location, active string, selected []string) MarkerStyle {
	role := models.RoleUnselected
	for i, name := range selected {
		if name == loc.Name {
			if i == 0 {
				role = models.RoleStart
			} else {
				role = models.RoleStop
			}
			break
		}
	}

	label := ""
	switch role {
	case models.RoleStart:
		label = "START"
	case models.RoleStop:
		label = "STOP"
	}

	return MarkerStyle{
		Role:   role,
		Active: active == loc.Name,
		Label:  label,
	}
}

// resolveNames maps selected names onto the location catalog, dropping names
// that no longer resolve. Name uniqueness in the catalog is a precondition.
func resolveNames(locations []models.Location, selected []string) []models.Location {
	byName := make(map[string]models.Location, len(locations))
	for _, loc := range locations {
		byName[loc.Name] = loc
	}

	var stops []models.Location
	for _, name := range selected {
		if loc, ok := byName[name]; ok {
			stops = append(stops, loc)
		} else {
			log.Printf("[MAP] Selected location not in catalog: name=%q", name)
		}
	}
	return stops
}

func locationsKey(locations []models.Location) string {
	names := make([]string, len(locations))
	for i, loc := range locations {
		names[i] = loc.Name
	}
	return strings.Join(names, "|")
}
