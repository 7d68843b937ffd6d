// Package api fetches reference prayer times from the Al Adhan web service.
// Local computation never depends on it; it backs the compare command.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/smokyabdulrahman/adhan/internal/method"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a client that sends at most two requests a second.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		BaseURL:    defaultBaseURL,
	}
}

// Query selects the place and calculation parameters for a request.
type Query struct {
	Latitude  float64
	Longitude float64
	Method    method.Method
	Madhab    method.Madhab
}

func (q Query) values() url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', 6, 64))
	if q.Method != "" {
		params.Set("method", strconv.Itoa(q.Method.AladhanID()))
	}
	params.Set("school", strconv.Itoa(int(q.Madhab)))
	return params
}

// FetchByCoordinates fetches prayer times for one date.
func (c *Client) FetchByCoordinates(ctx context.Context, date time.Time, q Query) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, date.Format("02-01-2006"))

	var resp Response
	if err := c.get(ctx, endpoint, q.values(), &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}
	return &resp, nil
}

// FetchCalendar fetches a whole month.
func (c *Client) FetchCalendar(ctx context.Context, year int, month time.Month, q Query) (*CalendarResponse, error) {
	endpoint := fmt.Sprintf("%s/calendar/%d/%d", c.BaseURL, year, int(month))

	var resp CalendarResponse
	if err := c.get(ctx, endpoint, q.values(), &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("API request cancelled: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	return nil
}
