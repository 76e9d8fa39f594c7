package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campus-drive/internal/models"
)

func TestToggleAppendsInPickOrder(t *testing.T) {
	s := NewSelection()
	s.Toggle("Gate 1")
	s.Toggle("Library")
	s.Toggle("Canteen")

	assert.Equal(t, []string{"Gate 1", "Library", "Canteen"}, s.Names())
	assert.Equal(t, "Gate 1", s.Start())
}

func TestToggleRemovesNonStartMemberInPlace(t *testing.T) {
	s := RestoreSelection([]string{"Gate 1", "Library", "Canteen"})
	s.Toggle("Library")

	assert.Equal(t, []string{"Gate 1", "Canteen"}, s.Names())
}

func TestToggleStartClearsWholeSelection(t *testing.T) {
	s := RestoreSelection([]string{"Gate 1", "Library", "Canteen"})
	s.Toggle("Gate 1")

	assert.Zero(t, s.Len())
	assert.Empty(t, s.Start())
}

func TestToggleLastElementClearsSelection(t *testing.T) {
	// No dangling start marker when the only element is toggled off
	s := NewSelection()
	s.Toggle("Gate 1")
	s.Toggle("Gate 1")

	assert.Zero(t, s.Len())
}

func TestRoles(t *testing.T) {
	s := RestoreSelection([]string{"Gate 1", "Library"})

	assert.Equal(t, models.RoleStart, s.Role("Gate 1"))
	assert.Equal(t, models.RoleStop, s.Role("Library"))
	assert.Equal(t, models.RoleUnselected, s.Role("Cafe"))
}

func TestNamesReturnsCopy(t *testing.T) {
	s := RestoreSelection([]string{"Gate 1", "Library"})
	names := s.Names()
	names[0] = "mutated"

	assert.Equal(t, "Gate 1", s.Start())
}

func locAt(name string, lat, lng float64) models.Location {
	return models.Location{Name: name, Coordinates: models.Coordinates{Lat: lat, Lng: lng}}
}

func TestVisitOrderSortsStopsByDistanceFromStart(t *testing.T) {
	start := locAt("start", 0, 0)
	far := locAt("far", 0, 3)
	near := locAt("near", 0, 1)
	mid := locAt("mid", 0, 2)

	ordered := VisitOrder([]models.Location{start, far, near, mid})

	assert.Equal(t, []string{"start", "near", "mid", "far"}, []string{
		ordered[0].Name, ordered[1].Name, ordered[2].Name, ordered[3].Name,
	})
}

func TestVisitOrderPreservesPairs(t *testing.T) {
	start := locAt("start", 0, 0)
	only := locAt("only", 5, 5)

	ordered := VisitOrder([]models.Location{start, only})
	assert.Equal(t, "start", ordered[0].Name)
	assert.Equal(t, "only", ordered[1].Name)
}

func TestVisitOrderDoesNotMutateInput(t *testing.T) {
	in := []models.Location{locAt("start", 0, 0), locAt("b", 0, 2), locAt("a", 0, 1)}
	_ = VisitOrder(in)

	assert.Equal(t, "b", in[1].Name)
}
