package maprender

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-drive/internal/models"
)

// fakeSurface records every operation in call order
type fakeSurface struct {
	ops        []string
	failAttach bool
	failMarker string // marker name whose ops fail
}

func (f *fakeSurface) record(format string, args ...interface{}) {
	f.ops = append(f.ops, fmt.Sprintf(format, args...))
}

func (f *fakeSurface) reset() { f.ops = nil }

func (f *fakeSurface) count(prefix string) int {
	n := 0
	for _, op := range f.ops {
		if len(op) >= len(prefix) && op[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (f *fakeSurface) Attach(center models.Coordinates, zoom int) error {
	if f.failAttach {
		return errors.New("attach failed")
	}
	f.record("attach")
	return nil
}

func (f *fakeSurface) FitBounds(points []models.Coordinates) error {
	f.record("fitBounds:%d", len(points))
	return nil
}

func (f *fakeSurface) AddMarker(name string, at models.Coordinates, style MarkerStyle) error {
	if name == f.failMarker {
		return errors.New("marker failure")
	}
	f.record("add:%s:%s:%v", name, style.Role, style.Active)
	return nil
}

func (f *fakeSurface) UpdateMarker(name string, style MarkerStyle) error {
	if name == f.failMarker {
		return errors.New("marker failure")
	}
	f.record("update:%s:%s:%v", name, style.Role, style.Active)
	return nil
}

func (f *fakeSurface) RemoveMarker(name string) error {
	f.record("remove:%s", name)
	return nil
}

func (f *fakeSurface) BringToFront(name string) error {
	f.record("front:%s", name)
	return nil
}

func (f *fakeSurface) OpenPopup(name string) error {
	f.record("popupOpen:%s", name)
	return nil
}

func (f *fakeSurface) ClosePopup(name string) error {
	f.record("popupClose:%s", name)
	return nil
}

func (f *fakeSurface) PanTo(at models.Coordinates) error {
	f.record("panTo")
	return nil
}

func (f *fakeSurface) SetRouteOverlay(legs []models.TripLeg) error {
	f.record("overlaySet:%d", len(legs))
	return nil
}

func (f *fakeSurface) ClearRouteOverlay() error {
	f.record("overlayClear")
	return nil
}

// fakeResolver returns a straight two-point route per leg, with optional
// per-leg nil results and an optional hook run before resolving
type fakeResolver struct {
	calls     []string
	failLegs  map[string]bool
	beforeLeg func()
}

func (f *fakeResolver) Resolve(ctx context.Context, start, end models.Location) *models.ResolvedRoute {
	if f.beforeLeg != nil {
		hook := f.beforeLeg
		f.beforeLeg = nil // fire once
		hook()
	}
	key := start.Name + "->" + end.Name
	f.calls = append(f.calls, key)
	if f.failLegs[key] {
		return nil
	}
	return &models.ResolvedRoute{
		Polyline:        []models.Coordinates{start.Coordinates, end.Coordinates},
		DistanceMeters:  100,
		DurationSeconds: 12,
		Source:          models.SourceFallback,
	}
}

func testLocations() []models.Location {
	return []models.Location{
		{Name: "A", Coordinates: models.Coordinates{Lat: 0, Lng: 0}},
		{Name: "B", Coordinates: models.Coordinates{Lat: 0, Lng: 1}},
		{Name: "C", Coordinates: models.Coordinates{Lat: 0, Lng: 2}},
	}
}

func attachedRenderer(surface *fakeSurface, resolver LegResolver) *Renderer {
	r := New(surface, resolver)
	r.Attach(models.Coordinates{}, 17, testLocations())
	return r
}

func TestAttachIsIdempotent(t *testing.T) {
	surface := &fakeSurface{}
	r := New(surface, &fakeResolver{})

	r.Attach(models.Coordinates{}, 17, testLocations())
	r.Attach(models.Coordinates{}, 17, testLocations())

	assert.Equal(t, 1, surface.count("attach"))
	assert.Equal(t, 1, surface.count("fitBounds"))
	assert.True(t, r.Ready())
}

func TestAttachFailureLeavesNotReady(t *testing.T) {
	surface := &fakeSurface{failAttach: true}
	r := New(surface, &fakeResolver{})

	r.Attach(models.Coordinates{}, 17, nil)
	assert.False(t, r.Ready())

	// Marker sync on an unattached surface is a contained no-op
	r.SyncMarkers(testLocations(), "", nil)
	assert.Zero(t, surface.count("add"))
}

func TestSyncMarkersCreatesOncePerLocation(t *testing.T) {
	surface := &fakeSurface{}
	r := attachedRenderer(surface, &fakeResolver{})

	r.SyncMarkers(testLocations(), "", nil)
	assert.Equal(t, 3, surface.count("add"))
	assert.Zero(t, surface.count("remove"))
}

func TestSyncMarkersIdempotentWhenInputsUnchanged(t *testing.T) {
	surface := &fakeSurface{}
	r := attachedRenderer(surface, &fakeResolver{})

	locs := testLocations()
	r.SyncMarkers(locs, "B", []string{"A", "B"})
	surface.reset()

	r.SyncMarkers(locs, "B", []string{"A", "B"})

	assert.Zero(t, surface.count("add"), "no marker recreation")
	assert.Zero(t, surface.count("remove"), "no marker teardown")
	assert.Zero(t, surface.count("update"), "unchanged styles are not re-applied")
}

func TestSyncMarkersRoles(t *testing.T) {
	surface := &fakeSurface{}
	r := attachedRenderer(surface, &fakeResolver{})

	r.SyncMarkers(testLocations(), "", []string{"B", "C"})

	assert.Contains(t, surface.ops, "add:A:unselected:false")
	assert.Contains(t, surface.ops, "add:B:start:false")
	assert.Contains(t, surface.ops, "add:C:stop:false")
}

func TestActiveLocationOpensPopupAndPans(t *testing.T) {
	surface := &fakeSurface{}
	r := attachedRenderer(surface, &fakeResolver{})

	r.SyncMarkers(testLocations(), "", nil)
	surface.reset()

	r.SyncMarkers(testLocations(), "B", nil)

	assert.Contains(t, surface.ops, "update:B:unselected:true")
	assert.Contains(t, surface.ops, "front:B")
	assert.Contains(t, surface.ops, "popupOpen:B")
	assert.Equal(t, 1, surface.count("panTo"))
}

func TestActiveHandoffClosesPreviousPopup(t *testing.T) {
	surface := &fakeSurface{}
	r := attachedRenderer(surface, &fakeResolver{})

	r.SyncMarkers(testLocations(), "B", nil)
	surface.reset()

	r.SyncMarkers(testLocations(), "C", nil)

	assert.Contains(t, surface.ops, "popupClose:B")
	assert.Contains(t, surface.ops, "popupOpen:C")
}

func TestLocationListChangeRebuildsMarkers(t *testing.T) {
	surface := &fakeSurface{}
	r := attachedRenderer(surface, &fakeResolver{})

	r.SyncMarkers(testLocations(), "", nil)
	surface.reset()

	shorter := testLocations()[:2]
	r.SyncMarkers(shorter, "", nil)

	assert.Equal(t, 3, surface.count("remove"))
	assert.Equal(t, 2, surface.count("add"))
}

func TestFailedMarkerDoesNotAbortOthers(t *testing.T) {
	surface := &fakeSurface{failMarker: "B"}
	r := attachedRenderer(surface, &fakeResolver{})

	r.SyncMarkers(testLocations(), "", nil)

	assert.Contains(t, surface.ops, "add:A:unselected:false")
	assert.Contains(t, surface.ops, "add:C:unselected:false")
}

func TestShowRouteDrawsLegsInVisitOrder(t *testing.T) {
	surface := &fakeSurface{}
	resolver := &fakeResolver{}
	r := attachedRenderer(surface, resolver)

	// C is selected before B but B is nearer the start, so the visit order
	// reorders to A->B then B->C
	legs := r.ShowRoute(context.Background(), testLocations(), []string{"A", "C", "B"})

	require.Len(t, legs, 2)
	assert.Equal(t, []string{"A->B", "B->C"}, resolver.calls)
	assert.Equal(t, "A", legs[0].From)
	assert.Equal(t, "B", legs[0].To)
	assert.Equal(t, "B", legs[1].From)
	assert.Equal(t, "C", legs[1].To)
	assert.Contains(t, surface.ops, "overlaySet:2")
}

func TestShowRouteRequiresTwoStops(t *testing.T) {
	surface := &fakeSurface{}
	r := attachedRenderer(surface, &fakeResolver{})

	legs := r.ShowRoute(context.Background(), testLocations(), []string{"A"})
	assert.Nil(t, legs)
	assert.Zero(t, surface.count("overlaySet"))
}

func TestShowRouteClearsStaleOverlayFirst(t *testing.T) {
	surface := &fakeSurface{}
	r := attachedRenderer(surface, &fakeResolver{})

	r.ShowRoute(context.Background(), testLocations(), []string{"A", "B"})
	surface.reset()

	r.ShowRoute(context.Background(), testLocations(), []string{"A", "C"})

	require.Equal(t, []string{"overlayClear", "overlaySet:1"}, surface.ops)
}

func TestShowRouteFailedLegDoesNotAbortOthers(t *testing.T) {
	surface := &fakeSurface{}
	resolver := &fakeResolver{failLegs: map[string]bool{"A->B": true}}
	r := attachedRenderer(surface, resolver)

	legs := r.ShowRoute(context.Background(), testLocations(), []string{"A", "B", "C"})

	require.Len(t, legs, 1)
	assert.Equal(t, "B", legs[0].From)
	assert.Equal(t, "C", legs[0].To)
	assert.Contains(t, surface.ops, "overlaySet:1")
}

func TestShowRouteStaleGenerationIsDiscarded(t *testing.T) {
	surface := &fakeSurface{}
	resolver := &fakeResolver{}
	r := attachedRenderer(surface, resolver)

	// While the first render is still resolving its first leg, a newer
	// trigger supersedes it; the first render must not draw
	resolver.beforeLeg = func() {
		r.ShowRoute(context.Background(), testLocations(), []string{"A", "C"})
	}

	legs := r.ShowRoute(context.Background(), testLocations(), []string{"A", "B"})

	assert.Nil(t, legs, "superseded render returns nothing")
	assert.Equal(t, 1, surface.count("overlaySet"), "only the newer render draws")
}

func TestClearRouteRemovesOverlay(t *testing.T) {
	surface := &fakeSurface{}
	r := attachedRenderer(surface, &fakeResolver{})

	r.ShowRoute(context.Background(), testLocations(), []string{"A", "B"})
	surface.reset()

	r.ClearRoute()
	assert.Equal(t, []string{"overlayClear"}, surface.ops)

	// No overlay left: clearing again is a no-op
	r.ClearRoute()
	assert.Equal(t, []string{"overlayClear"}, surface.ops)
}
