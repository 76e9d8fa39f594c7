// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every externally tunable setting. Zero values fall back to
// the defaults in Load.
type Config struct {
	// ListenAddr is the bind address of the headless API server. The
	// desktop shell ignores it and binds a random loopback port.
	ListenAddr string

	// OSRMBaseURL points at the routing service
	OSRMBaseURL string

	// Weather service settings; weather falls back to canned conditions
	// when the key is empty
	WeatherAPIBaseURL string
	WeatherAPIKey     string
	WeatherQuery      string

	// VoiceServiceURL is the speech-to-text backend; empty disables
	// audio transcription (text commands still work)
	VoiceServiceURL string

	// DBPath is the SQLite file location; empty selects the per-user
	// default under the OS config directory
	DBPath string

	// TelemetryBroadcast toggles the vehicle status WebSocket stream
	TelemetryBroadcast bool
}

// Load reads config from the environment. A .env in the working directory
// is applied first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[CONFIG] Skipping .env: %v", err)
		}
	}

	return &Config{
		ListenAddr:         getEnv("CAMPUS_DRIVE_LISTEN_ADDR", "127.0.0.1:8777"),
		OSRMBaseURL:        getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
		WeatherAPIBaseURL:  getEnv("WEATHER_API_BASE_URL", "https://api.weatherapi.com/v1"),
		WeatherAPIKey:      getEnv("WEATHER_API_KEY", ""),
		WeatherQuery:       getEnv("WEATHER_QUERY", "Durgapur"),
		VoiceServiceURL:    getEnv("VOICE_SERVICE_URL", ""),
		DBPath:             getEnv("CAMPUS_DRIVE_DB_PATH", ""),
		TelemetryBroadcast: getEnvBool("CAMPUS_DRIVE_TELEMETRY", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("[CONFIG] Invalid boolean for %s: %q, using %v", key, value, fallback)
		return fallback
	}
	return parsed
}
