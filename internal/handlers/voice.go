package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"campus-drive/internal/models"
	"campus-drive/internal/voice"
)

// Audio uploads are short dashboard clips; cap parsing at 10MB
const maxAudioUploadBytes = 10 << 20

// VoiceCommandResponse pairs the recognition result with the UI directive
type VoiceCommandResponse struct {
	Result    models.VoiceCommandResult `json:"result"`
	Directive voice.Directive           `json:"directive"`
}

// HandleVoiceCommand accepts either a multipart audio clip under the "audio"
// field or a JSON body with a "text" transcript.
func (h *Handler) HandleVoiceCommand(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
			h.handleValidationError(w, "invalid multipart body")
			return
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			h.handleValidationError(w, "missing audio field")
			return
		}
		defer file.Close()

		result, directive := h.Voice.ProcessAudio(r.Context(), file, header.Filename)
		h.writeJSON(w, http.StatusOK, VoiceCommandResponse{Result: result, Directive: directive})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		h.handleValidationError(w, "expected multipart audio or a text transcript")
		return
	}

	result, directive := h.Voice.ProcessText(req.Text)
	h.writeJSON(w, http.StatusOK, VoiceCommandResponse{Result: result, Directive: directive})
}
