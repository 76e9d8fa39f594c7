package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"campus-drive/internal/models"
)

// RouteService produces full route geometry between an ordered list of at
// least two coordinates. Implementations talk to an external routing engine;
// callers treat every failure identically (switch to the local fallback).
type RouteService interface {
	Route(ctx context.Context, points []models.Coordinates) (*ServiceRoute, error)
}

// ServiceRoute is a route as returned by the external engine, already
// converted to the app's lat-first convention
type ServiceRoute struct {
	Geometry        []models.Coordinates
	DistanceMeters  float64
	DurationSeconds float64
}

// ErrRouteServiceFailed is returned when the routing engine cannot produce a
// usable route. It is never surfaced to the end user; the resolver recovers
// with the road-graph fallback.
type ErrRouteServiceFailed struct {
	Reason string
}

func (e *ErrRouteServiceFailed) Error() string {
	return fmt.Sprintf("route service failed: %s", e.Reason)
}

type osrmRouter struct {
	baseURL    string
	mode       string
	httpClient *http.Client
}

type osrmRouteResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Geometry geojson.Geometry `json:"geometry"`
	Distance float64          `json:"distance"`
	Duration float64          `json:"duration"`
}

// NewOSRMRouter creates a RouteService backed by an OSRM instance. An empty
// baseURL selects the public demo server.
func NewOSRMRouter(baseURL string) RouteService {
	if baseURL == "" {
		baseURL = "https://router.project-osrm.org"
	}
	return &osrmRouter{
		baseURL: baseURL,
		mode:    "driving",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *osrmRouter) Route(ctx context.Context, points []models.Coordinates) (*ServiceRoute, error) {
	if len(points) < 2 {
		return nil, &ErrRouteServiceFailed{Reason: "need at least 2 coordinates"}
	}

	// OSRM wants lng,lat pairs
	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = fmt.Sprintf("%.6f,%.6f", p.Lng, p.Lat)
	}
	queryURL := fmt.Sprintf("%s/route/v1/%s/%s?steps=true&geometries=geojson&overview=full&annotations=true",
		c.baseURL, c.mode, strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, "GET", queryURL, nil)
	if err != nil {
		log.Printf("[ERROR] Failed to create OSRM request: err=%v", err)
		return nil, &ErrRouteServiceFailed{Reason: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERROR] OSRM API request failed: err=%v", err)
		return nil, &ErrRouteServiceFailed{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[ERROR] OSRM API error: status=%d body=%s", resp.StatusCode, string(body))
		return nil, &ErrRouteServiceFailed{
			Reason: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var osrmResp osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&osrmResp); err != nil {
		log.Printf("[ERROR] Failed to decode OSRM response: err=%v", err)
		return nil, &ErrRouteServiceFailed{Reason: err.Error()}
	}

	if osrmResp.Code != "Ok" {
		log.Printf("[ERROR] OSRM returned error code: code=%s", osrmResp.Code)
		return nil, &ErrRouteServiceFailed{Reason: fmt.Sprintf("OSRM error: %s", osrmResp.Code)}
	}

	if len(osrmResp.Routes) == 0 {
		log.Printf("[ERROR] OSRM returned no routes")
		return nil, &ErrRouteServiceFailed{Reason: "no routes returned"}
	}

	best := osrmResp.Routes[0]
	line, ok := best.Geometry.Geometry().(orb.LineString)
	if !ok {
		log.Printf("[ERROR] OSRM geometry is not a LineString: type=%s", best.Geometry.Type)
		return nil, &ErrRouteServiceFailed{Reason: fmt.Sprintf("unexpected geometry type %q", best.Geometry.Type)}
	}

	// Convert back from lng-first GeoJSON order to lat-first app order
	geometry := make([]models.Coordinates, len(line))
	for i, p := range line {
		geometry[i] = models.FromPoint(p)
	}

	log.Printf("[OSRM] Route resolved: points=%d distance=%.0f duration=%.0f", len(geometry), best.Distance, best.Duration)
	return &ServiceRoute{
		Geometry:        geometry,
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}, nil
}
