// Package voice turns spoken text into dashboard commands. The pipeline is:
// an external speech service transcribes the audio clip, the matcher maps
// the transcript onto a known command or navigation request, and the
// dispatcher validates the result into a UI directive.
package voice

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Match is a recognized command
type Match struct {
	Command       string
	Route         string
	StartLocation string
	Location      string
	IsNavigation  bool
}

// Command table: spoken phrase to page route or in-app action
var validCommands = map[string]string{
	// Main pages
	"destination":        "/destination",
	"destinations":       "/destination",
	"select destination": "/destination",
	"car conditions":     "/car-conditions",
	"car condition":      "/car-conditions",
	"vehicle status":     "/car-conditions",
	"vehicle condition":  "/car-conditions",
	"navigation":         "/navigation",
	"navigate":           "/navigation",
	"start navigation":   "/navigation",
	"home":               "/",
	"dashboard":          "/",
	"main screen":        "/",
	// Music actions
	"play music":     "action:play_music",
	"pause music":    "action:pause_music",
	"stop music":     "action:pause_music",
	"next song":      "action:next_track",
	"previous song":  "action:previous_track",
	"skip track":     "action:next_track",
	"next track":     "action:next_track",
	"previous track": "action:previous_track",
	"music":          "/music",
	"music player":   "/music",
	"open music":     "/music",
	// System
	"increase volume": "action:volume_up",
	"decrease volume": "action:volume_down",
	"mute":            "action:mute",
	"unmute":          "action:unmute",
	// Other actions
	"check battery": "/car-conditions",
	"check speed":   "/car-conditions",
	"show map":      "/navigation",
	"show weather":  "/",
	"show route":    "/navigation",
}

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "to": true, "me": true,
	"please": true, "and": true, "of": true, "in": true, "on": true,
	"for": true, "is": true, "show": true, "take": true, "go": true,
	"find": true,
}

// Acceptance threshold for fuzzy candidate matching
const fuzzyThreshold = 0.6

var wordRe = regexp.MustCompile(`\w+`)

// Matcher maps transcripts onto commands. Location names are matched longest
// first so multiword names win over their substrings.
type Matcher struct {
	locations    []string
	navPatterns  []*regexp.Regexp
	defaultStart string
	commands     []string // phrases sorted longest first
}

// NewMatcher builds a matcher over the known location names. defaultStart is
// the start used for voice-initiated trips.
func NewMatcher(locations []string, defaultStart string) *Matcher {
	sorted := make([]string, len(locations))
	copy(sorted, locations)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	patterns := make([]*regexp.Regexp, len(sorted))
	for i, loc := range sorted {
		patterns[i] = regexp.MustCompile(
			`(?:go to|navigate to|take me to|show me|find)\s+(?:the\s+)?` +
				regexp.QuoteMeta(strings.ToLower(loc)) + `\b`)
	}

	commands := make([]string, 0, len(validCommands))
	for phrase := range validCommands {
		commands = append(commands, phrase)
	}
	sort.SliceStable(commands, func(i, j int) bool {
		if len(commands[i]) != len(commands[j]) {
			return len(commands[i]) > len(commands[j])
		}
		return commands[i] < commands[j]
	})

	return &Matcher{
		locations:    sorted,
		navPatterns:  patterns,
		defaultStart: defaultStart,
		commands:     commands,
	}
}

// Match maps a transcript onto a command. Navigation phrases take priority,
// then exact command phrases (longest first), then fuzzy keyword matching.
func (m *Matcher) Match(text string) (*Match, bool) {
	lower := strings.ToLower(text)

	// 1. Navigation phrases against the known location list
	for i, pattern := range m.navPatterns {
		if pattern.MatchString(lower) {
			loc := strings.ToLower(m.locations[i])
			return &Match{
				Command:       fmt.Sprintf("navigate to %s", loc),
				Route:         navRoute(m.defaultStart, loc),
				StartLocation: m.defaultStart,
				Location:      loc,
				IsNavigation:  true,
			}, true
		}
	}

	// 2. Exact phrase containment, longest phrase first
	for _, phrase := range m.commands {
		if strings.Contains(lower, phrase) {
			return &Match{Command: phrase, Route: validCommands[phrase]}, true
		}
	}

	// 3. Fuzzy matching over keywords and n-grams
	candidates := extractKeywords(lower)
	words := strings.Fields(lower)
	for i := range words {
		for j := i + 1; j <= len(words) && j <= i+4; j++ {
			candidates = append(candidates, strings.Join(words[i:j], " "))
		}
	}

	bestScore := 0.0
	bestPhrase := ""
	for _, cand := range candidates {
		for _, phrase := range m.commands {
			if score := similarity(cand, phrase); score > bestScore {
				bestScore = score
				bestPhrase = phrase
			}
		}
	}

	if bestPhrase != "" && bestScore >= fuzzyThreshold {
		return &Match{Command: bestPhrase, Route: validCommands[bestPhrase]}, true
	}

	return nil, false
}

func navRoute(start, end string) string {
	escape := func(s string) string { return strings.ReplaceAll(s, " ", "%20") }
	return fmt.Sprintf("/navigation?start=%s&end=%s", escape(strings.ToLower(start)), escape(end))
}

// extractKeywords drops stopwords from the transcript
func extractKeywords(text string) []string {
	var keywords []string
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if !stopwords[w] {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

// similarity scores two strings in [0,1] as twice the longest common
// subsequence over the total length, the shape of difflib's ratio
func similarity(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(b)]
	return 2.0 * float64(lcs) / float64(len(a)+len(b))
}
