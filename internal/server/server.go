// Package server assembles the HTTP API: storage, routing, weather, voice,
// and telemetry wired behind a loopback listener.
package server

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"campus-drive/internal/campus"
	"campus-drive/internal/config"
	"campus-drive/internal/database"
	"campus-drive/internal/handlers"
	"campus-drive/internal/roadgraph"
	"campus-drive/internal/routing"
	"campus-drive/internal/vehicle"
	"campus-drive/internal/voice"
	"campus-drive/internal/weather"
)

// Server wraps the HTTP server and all dependencies
type Server struct {
	httpServer *http.Server
	handler    *handlers.Handler
	db         *database.Store
	hub        *vehicle.Hub
	listener   net.Listener
	addr       string
	cancelHub  context.CancelFunc
}

// New creates and initializes a new server (does not start it)
func New(cfg *config.Config, addr string) (*Server, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		var err error
		dbPath, err = defaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	log.Printf("[SERVER] Initializing data store...")
	db, err := database.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize data store: %w", err)
	}

	graph := roadgraph.New(campus.RoadNetwork())
	osrm := routing.NewOSRMRouter(cfg.OSRMBaseURL)
	resolver := routing.NewResolver(osrm, graph, db.RouteCache())

	weatherProvider := weather.NewWeatherAPIClient(
		cfg.WeatherAPIBaseURL, cfg.WeatherAPIKey, cfg.WeatherQuery, campus.WeatherLocation)

	var transcriber voice.Transcriber
	if cfg.VoiceServiceURL != "" {
		transcriber = voice.NewRemoteTranscriber(cfg.VoiceServiceURL)
	}
	matcher := voice.NewMatcher(campus.Names(), campus.DefaultStart)
	voiceService := voice.NewService(transcriber, matcher, func(name string) bool {
		_, ok := campus.Find(name)
		return ok
	})

	simulator := vehicle.NewSimulator()
	var hub *vehicle.Hub
	if cfg.TelemetryBroadcast {
		hub = vehicle.NewHub(simulator)
	}

	handler := &handlers.Handler{
		DB:       db,
		Resolver: resolver,
		Weather:  weatherProvider,
		Voice:    voiceService,
		Vehicle:  simulator,
		Stream:   hub,
	}

	mux := setupRoutes(handler)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      loggingMiddleware(corsMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
		db:         db,
		hub:        hub,
		addr:       addr,
	}, nil
}

// Start starts the server and returns the actual address (useful for random port)
func (s *Server) Start() (string, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = listener
	actualAddr := listener.Addr().String()
	log.Printf("[SERVER] Listening on %s", actualAddr)

	if s.hub != nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancelHub = cancel
		go s.hub.Run(ctx)
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("[SERVER] Server error: %v", err)
		}
	}()

	return actualAddr, nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancelHub != nil {
		s.cancelHub()
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return s.db.Close()
}

// Resolver exposes the leg resolver so the desktop shell can share it with
// the map renderer
func (s *Server) Resolver() handlers.LegResolver {
	return s.handler.Resolver
}

// Store exposes the data store for the desktop shell's bound methods
func (s *Server) Store() *database.Store {
	return s.db
}

func defaultDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(configDir, "campus-drive", database.DefaultDBFileName), nil
}

// setupRoutes configures all HTTP routes
func setupRoutes(handler *handlers.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/health", handler.HandleHealthCheck)

	mux.HandleFunc("/api/v1/locations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.HandleListLocations(w, r)
	})

	mux.HandleFunc("/api/v1/route", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.HandleResolveRoute(w, r)
	})

	mux.HandleFunc("/api/v1/weather", handler.HandleGetWeather)

	mux.HandleFunc("/api/v1/voice-command", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.HandleVoiceCommand(w, r)
	})

	mux.HandleFunc("/api/v1/vehicle/status", handler.HandleVehicleStatus)
	mux.HandleFunc("/api/v1/vehicle/stream", handler.HandleVehicleStream)

	mux.HandleFunc("/api/v1/preferences", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handler.HandleGetPreferences(w, r)
		case http.MethodPut:
			handler.HandleUpdatePreferences(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/trip", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handler.HandleGetTrip(w, r)
		case http.MethodPost:
			handler.HandleSaveTrip(w, r)
		case http.MethodDelete:
			handler.HandleDeleteTrip(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	return mux
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		duration := time.Since(start)
		log.Printf("%s %s %d %v", r.Method, r.URL.Path, lrw.statusCode, duration)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// Hijack passes through so the telemetry WebSocket upgrade works behind
// the logging wrapper
func (lrw *loggingResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := lrw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Only allow localhost origins (Wails webview and local development)
		if origin == "" ||
			strings.HasPrefix(origin, "http://localhost:") ||
			strings.HasPrefix(origin, "http://127.0.0.1:") ||
			strings.HasPrefix(origin, "wails://") {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
