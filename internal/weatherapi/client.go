// Package weatherapi is a client for the OpenWeatherMap current
// conditions endpoint.
package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Sentinel errors for the two HTTP failures callers phrase differently.
var (
	ErrUnauthorized = errors.New("weather: invalid or inactive API key")
	ErrNotFound     = errors.New("weather: location not found")
)

// Report is the current-conditions digest for one location.
type Report struct {
	Location  string
	Temp      float64
	FeelsLike float64
	Condition string
	Humidity  int
	WindSpeed float64
}

// Client fetches current weather with a bounded timeout. A hanging
// weather feed must not stall a turn.
type Client struct {
	baseURL string
	apiKey  string
	units   string
	client  *http.Client
}

// Config configures the weather client. The API key is resolved from
// the first non-empty variable in APIKeyEnvs.
type Config struct {
	BaseURL    string
	APIKeyEnvs []string
	Units      string
	Timeout    time.Duration
}

// NewClient creates a weather client, or an error when no API key is
// configured. Callers treat a missing client as a permanently
// unavailable source rather than a fatal condition.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.APIKeyEnvs) == 0 {
		cfg.APIKeyEnvs = []string{"WEATHER_API_KEY", "OPENWEATHERMAP_API_KEY"}
	}
	var key string
	for _, env := range cfg.APIKeyEnvs {
		if v := os.Getenv(env); v != "" {
			key = v
			break
		}
	}
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %v", cfg.APIKeyEnvs)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openweathermap.org"
	}
	if cfg.Units == "" {
		cfg.Units = "imperial"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		units:   cfg.Units,
		client:  &http.Client{Timeout: t},
	}, nil
}

// Current returns the current conditions for a location.
func (c *Client) Current(ctx context.Context, location string) (Report, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.apiKey)
	q.Set("units", c.units)
	endpoint := fmt.Sprintf("%s/data/2.5/weather?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Report{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Report{}, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return Report{}, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return Report{}, ErrNotFound
	case resp.StatusCode >= 300:
		return Report{}, fmt.Errorf("weather request failed: %s", resp.Status)
	}

	var out struct {
		Name string `json:"name"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Report{}, err
	}
	rep := Report{
		Location:  out.Name,
		Temp:      out.Main.Temp,
		FeelsLike: out.Main.FeelsLike,
		Humidity:  out.Main.Humidity,
		WindSpeed: out.Wind.Speed,
	}
	if len(out.Weather) > 0 {
		rep.Condition = out.Weather[0].Description
	}
	return rep, nil
}
