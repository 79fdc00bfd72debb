package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/thdelmas/Rooster/internal/config"
	"github.com/thdelmas/Rooster/internal/domain/sunrise"
)

// weatherPath is the current-weather endpoint of the service.
const weatherPath = "/data/2.5/weather"

var (
	// ErrNetwork indicates the request never produced a response.
	ErrNetwork = errors.New("weather service unreachable")
	// ErrBadResponse indicates the response could not be interpreted.
	ErrBadResponse = errors.New("malformed weather response")
	// ErrServiceStatus indicates the service answered with a non-2xx status.
	ErrServiceStatus = errors.New("weather service error")
)

// Client queries the weather service for the next sunrise at a position.
// Each Fetch is single-shot: no caching, no retries.
type Client struct {
	// http is the underlying resty client.
	http *resty.Client
	// apiKey authenticates requests to the service.
	apiKey string
	// units is the unit system requested from the service.
	units string
	// now supplies the wall clock for the future-shift rule.
	now func() time.Time
}

// Option configures client behaviour.
type Option func(*Client)

// WithBaseURL overrides the weather service endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.http.SetBaseURL(baseURL)
		}
	}
}

// WithTimeout sets the HTTP timeout for service calls.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

// WithUnits overrides the unit system requested from the service.
func WithUnits(units string) Option {
	return func(c *Client) {
		if units != "" {
			c.units = units
		}
	}
}

// WithClock overrides the wall clock, used by tests to pin the
// future-shift rule.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient creates a weather client authenticated with the provided key.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		http: resty.New().
			SetBaseURL(config.DefaultWeatherBaseURL).
			SetTimeout(config.DefaultTimeout),
		apiKey: apiKey,
		units:  config.DefaultWeatherUnits,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// response carries the only fields consumed from the service document.
type response struct {
	Name string `json:"name"`
	Sys  struct {
		// Sunrise is seconds since the UNIX epoch, UTC.
		Sunrise int64 `json:"sunrise"`
	} `json:"sys"`
}

// Fetch queries the service for the given position and returns the place
// name with the next sunrise instant, future-shift rule applied.
func (c *Client) Fetch(ctx context.Context, fix sunrise.Position) (*sunrise.Sample, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   strconv.FormatFloat(fix.Latitude, 'f', -1, 64),
			"lon":   strconv.FormatFloat(fix.Longitude, 'f', -1, 64),
			"appid": c.apiKey,
			"units": c.units,
		}).
		Get(weatherPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrServiceStatus, resp.Status())
	}

	var decoded response
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}

	if decoded.Name == "" || decoded.Sys.Sunrise == 0 {
		return nil, fmt.Errorf("%w: missing name or sunrise", ErrBadResponse)
	}

	reported := time.Unix(decoded.Sys.Sunrise, 0)

	return sunrise.NewSample(decoded.Name, reported, c.now()), nil
}
