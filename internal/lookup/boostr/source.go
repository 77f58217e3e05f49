package boostr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup"
)

// Config holds configuration for the Boostr source
type Config struct {
	BaseURL string // Defaults to https://api.boostr.cl
	APIKey  string
}

// Source implements lookup.Source against the Boostr vehicle API.
type Source struct {
	config Config
	client *http.Client
}

// response is the Boostr wire shape
type response struct {
	Status string `json:"status"`
	Data   struct {
		Plate  string `json:"patente"`
		Make   string `json:"marca"`
		Model  string `json:"modelo"`
		Year   int    `json:"ano"`
		Engine string `json:"motor"`
	} `json:"data"`
}

// NewSource creates a new Boostr lookup source
func NewSource(config Config) *Source {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.boostr.cl"
	}
	// Per-request deadlines come from the engine's context; no client-level
	// timeout so the engine stays in charge.
	return &Source{config: config, client: &http.Client{}}
}

// Name returns the source name
func (s *Source) Name() string {
	return "boostr"
}

// Resolve looks up a plate and normalizes the Boostr response shape.
func (s *Source) Resolve(ctx context.Context, plate string) (*lookup.VehicleData, error) {
	url := fmt.Sprintf("%s/vehicle/%s.json", s.config.BaseURL, plate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if s.config.APIKey != "" {
		req.Header.Set("X-API-Key", s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("boostr returned status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse boostr response: %w", err)
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("boostr returned status %q", body.Status)
	}

	return &lookup.VehicleData{
		Make:   body.Data.Make,
		Model:  body.Data.Model,
		Year:   body.Data.Year,
		Engine: body.Data.Engine,
	}, nil
}
