package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"campus-drive/internal/campus"
	"campus-drive/internal/config"
	"campus-drive/internal/maprender"
	"campus-drive/internal/models"
	"campus-drive/internal/server"
	"campus-drive/internal/trip"
)

// App struct holds the Wails application state
type App struct {
	ctx    context.Context
	server *server.Server
	url    string

	selection *trip.Selection
	renderer  *maprender.Renderer
	active    string
}

// NewApp creates a new App application struct
func NewApp() *App {
	app := &App{
		selection: trip.NewSelection(),
	}

	// Start the HTTP server immediately (before window opens)
	srv, err := server.New(config.Load(), "127.0.0.1:0")
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	addr, err := srv.Start()
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	app.server = srv
	app.url = fmt.Sprintf("http://%s", addr)
	log.Printf("Internal HTTP server running at %s", app.url)

	return app
}

// startup is called when the app starts
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	surface := maprender.NewWailsSurface(ctx)
	a.renderer = maprender.New(surface, a.server.Resolver())
	a.renderer.Attach(campus.MapCenter, campus.DefaultZoom, campus.Locations())
	a.renderer.SyncMarkers(campus.Locations(), a.active, a.selection.Names())
}

// shutdown is called when the app closes
func (a *App) shutdown(ctx context.Context) {
	if a.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}
}

// ServerURL returns the internal API base URL for the frontend
func (a *App) ServerURL() string {
	return a.url
}

// ToggleDestination adds or removes a destination and returns the selection.
// Deselecting the start clears everything.
func (a *App) ToggleDestination(name string) []string {
	loc, ok := campus.Find(name)
	if !ok {
		log.Printf("[APP] Toggle ignored for unknown location: %s", name)
		return a.selection.Names()
	}

	a.selection.Toggle(loc.Name)
	a.renderer.SyncMarkers(campus.Locations(), a.active, a.selection.Names())
	return a.selection.Names()
}

// SetActiveLocation highlights one location on the map (popup + pan). An
// empty name clears the highlight.
func (a *App) SetActiveLocation(name string) {
	if name != "" {
		loc, ok := campus.Find(name)
		if !ok {
			log.Printf("[APP] Ignoring unknown active location: %s", name)
			return
		}
		name = loc.Name
	}

	a.active = name
	a.renderer.SyncMarkers(campus.Locations(), a.active, a.selection.Names())
}

// ShowRoute draws the route for the current selection and returns the legs
func (a *App) ShowRoute() []models.TripLeg {
	return a.renderer.ShowRoute(a.ctx, campus.Locations(), a.selection.Names())
}

// ConfirmTrip persists the current selection and returns the saved trip
func (a *App) ConfirmTrip() (*models.SavedTrip, error) {
	names := a.selection.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("no destinations selected")
	}

	destinations := make([]models.Location, 0, len(names))
	for _, name := range names {
		loc, _ := campus.Find(name)
		destinations = append(destinations, loc)
	}

	saved, err := a.server.Store().Trips().Save(a.ctx, destinations)
	if err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}
	return saved, nil
}

// ClearTrip resets the selection and removes the route overlay
func (a *App) ClearTrip() {
	a.selection.Clear()
	a.active = ""
	a.renderer.ClearRoute()
	a.renderer.SyncMarkers(campus.Locations(), a.active, a.selection.Names())
}
