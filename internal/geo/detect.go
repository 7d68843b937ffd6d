// Package geo finds the observer's position.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Location is a detected position and its IANA zone.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// Kaaba is the fallback location when detection fails.
var Kaaba = Location{
	Latitude:  21.4225,
	Longitude: 39.8262,
	City:      "Makkah",
	Country:   "Saudi Arabia",
	Timezone:  "Asia/Riyadh",
}

// DefaultTimeout bounds a detection attempt.
const DefaultTimeout = 5 * time.Second

// Locator detects the current location.
type Locator interface {
	Locate(ctx context.Context) (Location, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Location, error)

func (f LocatorFunc) Locate(ctx context.Context) (Location, error) { return f(ctx) }

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

const ipAPIURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// IPAPI locates the caller from its public IP address via ip-api.com.
// The service is free and needs no key.
type IPAPI struct {
	URL    string
	Client *http.Client
}

// NewIPAPI returns a locator against the public endpoint.
func NewIPAPI() *IPAPI {
	return &IPAPI{URL: ipAPIURL, Client: &http.Client{Timeout: DefaultTimeout}}
}

func (l *IPAPI) Locate(ctx context.Context) (Location, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return Location{}, fmt.Errorf("building geolocation request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Location{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if result.Status != "success" {
		return Location{}, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	return Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}, nil
}

// Store persists a detected location between runs.
type Store interface {
	LoadGeo() *Location
	SaveGeo(loc *Location) error
}

// Cached consults store before asking the wrapped locator, and saves what
// the locator finds.
type Cached struct {
	Locator Locator
	Store   Store
}

func (c Cached) Locate(ctx context.Context) (Location, error) {
	if c.Store != nil {
		if loc := c.Store.LoadGeo(); loc != nil {
			return *loc, nil
		}
	}
	loc, err := c.Locator.Locate(ctx)
	if err != nil {
		return Location{}, err
	}
	if c.Store != nil {
		if err := c.Store.SaveGeo(&loc); err != nil {
			log.Warn().Err(err).Msg("caching location")
		}
	}
	return loc, nil
}

// LocateWithFallback runs l with a timeout. On any failure it returns the
// Kaaba and fallback=true; the error is logged, never returned.
func LocateWithFallback(ctx context.Context, l Locator, timeout time.Duration) (loc Location, fallback bool) {
	if l == nil {
		return Kaaba, true
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	loc, err := l.Locate(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("location detection failed, using the Kaaba")
		return Kaaba, true
	}
	return loc, false
}
