package handlers

import "net/http"

// HandleVehicleStatus returns a single telemetry snapshot
func (h *Handler) HandleVehicleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Vehicle.Status())
}

// HandleVehicleStream upgrades to WebSocket and streams telemetry
func (h *Handler) HandleVehicleStream(w http.ResponseWriter, r *http.Request) {
	if h.Stream == nil {
		h.writeError(w, http.StatusServiceUnavailable, "STREAM_DISABLED", "telemetry streaming is disabled", nil)
		return
	}
	h.Stream.ServeWS(w, r)
}
