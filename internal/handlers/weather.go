package handlers

import "net/http"

// HandleGetWeather returns current conditions for the weather widget
func (h *Handler) HandleGetWeather(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Weather.Current(r.Context()))
}
