package autoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup"
)

// Config holds configuration for the AutoAPI source
type Config struct {
	BaseURL string // Defaults to https://api.autoapi.cl
	APIKey  string
}

// Source implements lookup.Source against AutoAPI. Unlike Boostr, AutoAPI
// uses a flat English-keyed response and the year arrives as a string.
type Source struct {
	config Config
	client *http.Client
}

// response is the AutoAPI wire shape
type response struct {
	Make               string `json:"make"`
	Model              string `json:"model"`
	Year               string `json:"year"`
	EngineDisplacement string `json:"engineDisplacement"`
}

// NewSource creates a new AutoAPI lookup source
func NewSource(config Config) *Source {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.autoapi.cl"
	}
	return &Source{config: config, client: &http.Client{}}
}

// Name returns the source name
func (s *Source) Name() string {
	return "autoapi"
}

// Resolve looks up a plate and normalizes the AutoAPI response shape.
func (s *Source) Resolve(ctx context.Context, plate string) (*lookup.VehicleData, error) {
	endpoint := fmt.Sprintf("%s/v1/vehicles?plate=%s", s.config.BaseURL, url.QueryEscape(plate))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("autoapi returned status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse autoapi response: %w", err)
	}

	year, _ := strconv.Atoi(body.Year)

	return &lookup.VehicleData{
		Make:   body.Make,
		Model:  body.Model,
		Year:   year,
		Engine: body.EngineDisplacement,
	}, nil
}
