package handlers

import (
	"net/http"

	"campus-drive/internal/campus"
)

// HandleListLocations returns the campus location catalog along with the
// map's initial viewport.
func (h *Handler) HandleListLocations(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"locations":     campus.Locations(),
		"map_center":    campus.MapCenter,
		"default_zoom":  campus.DefaultZoom,
		"default_start": campus.DefaultStart,
	})
}
