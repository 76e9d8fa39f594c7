// Package weather fetches current conditions for the campus from
// WeatherAPI.com. The dashboard never shows a weather error: any failure
// falls back to a fixed mock reading.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"campus-drive/internal/models"
)

// Provider returns the current conditions for the campus
type Provider interface {
	Current(ctx context.Context) models.WeatherReading
}

type weatherAPIClient struct {
	baseURL    string
	apiKey     string
	query      string
	campusName string
	httpClient *http.Client
}

// NewWeatherAPIClient creates a Provider backed by WeatherAPI.com. An empty
// baseURL selects the production endpoint.
func NewWeatherAPIClient(baseURL, apiKey, query, campusName string) Provider {
	if baseURL == "" {
		baseURL = "https://api.weatherapi.com/v1"
	}
	return &weatherAPIClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		query:      query,
		campusName: campusName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type weatherAPIResponse struct {
	Current struct {
		TempC     float64 `json:"temp_c"`
		Humidity  int     `json:"humidity"`
		WindKph   float64 `json:"wind_kph"`
		FeelsLike float64 `json:"feelslike_c"`
		Updated   string  `json:"last_updated"`
		Condition struct {
			Text string `json:"text"`
			Code int    `json:"code"`
		} `json:"condition"`
	} `json:"current"`
}

func (c *weatherAPIClient) Current(ctx context.Context) models.WeatherReading {
	queryURL := fmt.Sprintf("%s/current.json?key=%s&q=%s&aqi=no",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(c.query))

	req, err := http.NewRequestWithContext(ctx, "GET", queryURL, nil)
	if err != nil {
		log.Printf("[WEATHER] Failed to create request: err=%v", err)
		return c.mockReading()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[WEATHER] Request failed, using mock reading: err=%v", err)
		return c.mockReading()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[WEATHER] API error, using mock reading: status=%d", resp.StatusCode)
		return c.mockReading()
	}

	var apiResp weatherAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		log.Printf("[WEATHER] Failed to decode response, using mock reading: err=%v", err)
		return c.mockReading()
	}

	return models.WeatherReading{
		Location:    c.campusName,
		Temperature: apiResp.Current.TempC,
		Condition:   apiResp.Current.Condition.Text,
		Icon:        iconForCode(apiResp.Current.Condition.Code),
		Humidity:    apiResp.Current.Humidity,
		WindKph:     apiResp.Current.WindKph,
		FeelsLike:   apiResp.Current.FeelsLike,
		LastUpdated: apiResp.Current.Updated,
	}
}

// mockReading is the fixed fallback shown whenever the collaborator is
// unreachable or degraded
func (c *weatherAPIClient) mockReading() models.WeatherReading {
	return models.WeatherReading{
		Location:    c.campusName,
		Temperature: 28,
		Condition:   "Sunny",
		Icon:        "sun",
		Humidity:    65,
		WindKph:     12,
		FeelsLike:   30,
		LastUpdated: time.Now().Format(time.RFC3339),
	}
}

var iconCodes = map[string][]int{
	"sun":        {1000},
	"cloud-sun":  {1003, 1006},
	"cloud":      {1009, 1030, 1135, 1147},
	"cloud-rain": {1063, 1069, 1072, 1150, 1153, 1168, 1171, 1180, 1183, 1186, 1189, 1192, 1195, 1198, 1201, 1240, 1243, 1246},
}

// iconForCode maps a WeatherAPI condition code onto one of the four
// dashboard icons. Unknown codes default to sun.
func iconForCode(code int) string {
	for icon, codes := range iconCodes {
		for _, c := range codes {
			if c == code {
				return icon
			}
		}
	}
	return "sun"
}
