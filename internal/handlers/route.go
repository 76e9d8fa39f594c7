package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"campus-drive/internal/campus"
	"campus-drive/internal/models"
	"campus-drive/internal/trip"
)

// RouteRequest names the stops to route through. The first entry is pinned
// as the start; the rest are reordered nearest-first.
type RouteRequest struct {
	Stops []string `json:"stops"`
}

// RouteResponse carries the resolved legs in driving order
type RouteResponse struct {
	Legs                 []models.TripLeg `json:"legs"`
	Order                []string         `json:"order"`
	TotalDistanceMeters  float64          `json:"total_distance_meters"`
	TotalDurationSeconds float64          `json:"total_duration_seconds"`
}

// HandleResolveRoute resolves a multi-stop route
func (h *Handler) HandleResolveRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleValidationError(w, "invalid request body")
		return
	}

	if len(req.Stops) < 2 {
		h.handleValidationError(w, "at least two stops are required")
		return
	}

	selected := make([]models.Location, 0, len(req.Stops))
	for _, name := range req.Stops {
		loc, ok := campus.Find(name)
		if !ok {
			h.handleNotFound(w, fmt.Sprintf("unknown location: %s", name))
			return
		}
		selected = append(selected, loc)
	}

	ordered := trip.VisitOrder(selected)

	resp := RouteResponse{
		Legs:  make([]models.TripLeg, 0, len(ordered)-1),
		Order: make([]string, 0, len(ordered)),
	}
	for _, loc := range ordered {
		resp.Order = append(resp.Order, loc.Name)
	}

	for i := 0; i < len(ordered)-1; i++ {
		route := h.Resolver.Resolve(r.Context(), ordered[i], ordered[i+1])
		if route == nil {
			continue
		}
		resp.Legs = append(resp.Legs, models.TripLeg{
			From:  ordered[i].Name,
			To:    ordered[i+1].Name,
			Route: *route,
		})
		resp.TotalDistanceMeters += route.DistanceMeters
		resp.TotalDurationSeconds += route.DurationSeconds
	}

	h.writeJSON(w, http.StatusOK, resp)
}
