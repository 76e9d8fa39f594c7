package handlers

import (
	"encoding/json"
	"net/http"
)

// HandleGetPreferences returns all stored preferences
func (h *Handler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.DB.Preferences().All(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prefs)
}

// HandleUpdatePreferences merges the posted key/value pairs into the store
func (h *Handler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.handleValidationError(w, "invalid request body")
		return
	}
	if len(updates) == 0 {
		h.handleValidationError(w, "no preferences provided")
		return
	}

	for key, value := range updates {
		if key == "" {
			h.handleValidationError(w, "preference keys must be non-empty")
			return
		}
		if err := h.DB.Preferences().Set(r.Context(), key, value); err != nil {
			h.handleInternalError(w, err)
			return
		}
	}

	prefs, err := h.DB.Preferences().All(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prefs)
}
