// Package handlers implements the JSON API consumed by the dashboard UI.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"campus-drive/internal/database"
	"campus-drive/internal/models"
	"campus-drive/internal/vehicle"
	"campus-drive/internal/voice"
	"campus-drive/internal/weather"
)

// LegResolver resolves one route leg; satisfied by routing.Resolver
type LegResolver interface {
	Resolve(ctx context.Context, start, end models.Location) *models.ResolvedRoute
}

// Handler provides common handler utilities and dependencies
type Handler struct {
	DB       *database.Store
	Resolver LegResolver
	Weather  weather.Provider
	Voice    *voice.Service
	Vehicle  vehicle.StatusProvider
	Stream   *vehicle.Hub
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	h.writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// handleNotFound handles 404 errors
func (h *Handler) handleNotFound(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// handleValidationError handles 400 errors
func (h *Handler) handleValidationError(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", message, nil)
}

// handleInternalError handles 500 errors
func (h *Handler) handleInternalError(w http.ResponseWriter, err error) {
	h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
}

// HandleHealthCheck reports service and database health
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "connected"

	if err := h.DB.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "error"
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":   status,
		"version":  "1.0.0",
		"database": dbStatus,
	})
}
