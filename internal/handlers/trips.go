package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"campus-drive/internal/campus"
	"campus-drive/internal/database"
	"campus-drive/internal/models"
)

// TripRequest names the destinations to persist, in selection order
type TripRequest struct {
	Destinations []string `json:"destinations"`
}

// HandleGetTrip returns the most recently saved trip
func (h *Handler) HandleGetTrip(w http.ResponseWriter, r *http.Request) {
	saved, err := h.DB.Trips().Latest(r.Context())
	if errors.Is(err, database.ErrNotFound) {
		h.handleNotFound(w, "no saved trip")
		return
	}
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

// HandleSaveTrip persists the selected destinations as the current trip
func (h *Handler) HandleSaveTrip(w http.ResponseWriter, r *http.Request) {
	var req TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleValidationError(w, "invalid request body")
		return
	}
	if len(req.Destinations) == 0 {
		h.handleValidationError(w, "at least one destination is required")
		return
	}

	destinations := make([]models.Location, 0, len(req.Destinations))
	for _, name := range req.Destinations {
		loc, ok := campus.Find(name)
		if !ok {
			h.handleNotFound(w, fmt.Sprintf("unknown location: %s", name))
			return
		}
		destinations = append(destinations, loc)
	}

	saved, err := h.DB.Trips().Save(r.Context(), destinations)
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

// HandleDeleteTrip removes a saved trip by id
func (h *Handler) HandleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.handleValidationError(w, "id is required")
		return
	}

	err := h.DB.Trips().Delete(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		h.handleNotFound(w, "trip not found")
		return
	}
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
