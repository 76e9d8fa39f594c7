package voice

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"campus-drive/internal/models"
)

// Delay before redirecting after an invalid destination, so the
// message can be heard first
const invalidDestinationRedirectMS = 2000

// Directive tells the UI what to do with a recognized command.
type Directive struct {
	Speak           string `json:"speak,omitempty"`
	Route           string `json:"route,omitempty"`
	Action          string `json:"action,omitempty"`
	RedirectDelayMS int    `json:"redirectDelayMs,omitempty"`
}

// LocationValidator reports whether a spoken name is a real campus location.
type LocationValidator func(name string) bool

// Service runs the full voice pipeline: transcribe, match, validate.
type Service struct {
	transcriber Transcriber
	matcher     *Matcher
	isValid     LocationValidator
}

// NewService wires the pipeline. transcriber may be nil when only text
// input is served.
func NewService(transcriber Transcriber, matcher *Matcher, isValid LocationValidator) *Service {
	return &Service{
		transcriber: transcriber,
		matcher:     matcher,
		isValid:     isValid,
	}
}

// ProcessAudio transcribes the clip and interprets the transcript.
func (s *Service) ProcessAudio(ctx context.Context, audio io.Reader, filename string) (models.VoiceCommandResult, Directive) {
	if s.transcriber == nil {
		return errorResult("voice transcription is not configured"), Directive{}
	}

	text, err := s.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		log.Printf("[VOICE] Transcription failed: %v", err)
		return errorResult(err.Error()), Directive{}
	}

	return s.ProcessText(text)
}

// ProcessText interprets a transcript into a command result and the
// directive the UI should carry out.
func (s *Service) ProcessText(text string) (models.VoiceCommandResult, Directive) {
	result := models.VoiceCommandResult{
		Success:   true,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}

	match, ok := s.matcher.Match(text)
	if !ok {
		log.Printf("[VOICE] No command matched for transcript %q", text)
		result.Error = "Command not recognized. Please try again."
		return result, Directive{Speak: "Sorry, I didn't understand that command."}
	}

	result.Command = match.Command
	result.Route = match.Route
	result.StartLocation = match.StartLocation
	result.Location = match.Location
	result.IsNavigation = match.IsNavigation

	return result, s.directiveFor(match)
}

func (s *Service) directiveFor(match *Match) Directive {
	if match.IsNavigation {
		if s.isValid != nil && !s.isValid(match.Location) {
			return Directive{
				Speak:           fmt.Sprintf("%q is not a valid destination. Please select from the list.", match.Location),
				Route:           "/destination",
				RedirectDelayMS: invalidDestinationRedirectMS,
			}
		}
		return Directive{
			Speak: fmt.Sprintf("Navigating from %s to %s", match.StartLocation, match.Location),
			Route: match.Route,
		}
	}

	if action, ok := strings.CutPrefix(match.Route, "action:"); ok {
		return Directive{
			Speak:  strings.ReplaceAll(action, "_", " "),
			Action: action,
		}
	}

	return Directive{
		Speak: fmt.Sprintf("Opening %s page", pageName(match.Route)),
		Route: match.Route,
	}
}

func errorResult(msg string) models.VoiceCommandResult {
	return models.VoiceCommandResult{
		Success:   false,
		Error:     msg,
		Timestamp: time.Now().UnixMilli(),
	}
}

func pageName(route string) string {
	switch route {
	case "/":
		return "home"
	default:
		return strings.ReplaceAll(strings.TrimPrefix(route, "/"), "-", " ")
	}
}
