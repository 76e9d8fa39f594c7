package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Transcriber converts a recorded audio clip into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// ErrTranscriptionFailed indicates the speech service could not produce a
// transcript for the clip.
type ErrTranscriptionFailed struct {
	Reason string
}

func (e ErrTranscriptionFailed) Error() string {
	return fmt.Sprintf("transcription failed: %s", e.Reason)
}

type remoteTranscriber struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteTranscriber returns a Transcriber backed by an HTTP speech
// service that accepts multipart audio uploads on /transcribe.
func NewRemoteTranscriber(baseURL string) Transcriber {
	return &remoteTranscriber{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type transcribeResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error"`
}

func (t *remoteTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		return "", ErrTranscriptionFailed{Reason: fmt.Sprintf("failed to build upload: %v", err)}
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", ErrTranscriptionFailed{Reason: fmt.Sprintf("failed to read audio: %v", err)}
	}
	if err := writer.Close(); err != nil {
		return "", ErrTranscriptionFailed{Reason: fmt.Sprintf("failed to finish upload: %v", err)}
	}

	url := fmt.Sprintf("%s/transcribe", t.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", ErrTranscriptionFailed{Reason: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", ErrTranscriptionFailed{Reason: fmt.Sprintf("speech service unreachable: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrTranscriptionFailed{Reason: fmt.Sprintf("speech service returned status %d", resp.StatusCode)}
	}

	var decoded transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", ErrTranscriptionFailed{Reason: fmt.Sprintf("failed to decode response: %v", err)}
	}

	if !decoded.Success {
		reason := decoded.Error
		if reason == "" {
			reason = "speech service reported failure"
		}
		return "", ErrTranscriptionFailed{Reason: reason}
	}
	if decoded.Text == "" {
		return "", ErrTranscriptionFailed{Reason: "empty transcript"}
	}

	return decoded.Text, nil
}
