// Package weather resolves current conditions and short-range forecasts from
// OpenWeatherMap for the advisory models.
package weather

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/agrichain/agri-advisor/internal/geo"
	"github.com/agrichain/agri-advisor/internal/resilience"
)

// DefaultBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// ForecastEntries is the number of 3-hour forecast slots returned (24h).
const ForecastEntries = 8

// Client fetches weather for a coordinate.
type Client interface {
	// Current returns the weather right now.
	Current(ctx context.Context, at geo.Coordinate) (*Snapshot, error)

	// Forecast returns the next ForecastEntries 3-hour slots.
	Forecast(ctx context.Context, at geo.Coordinate) ([]ForecastEntry, error)

	// Conditions fetches current weather and forecast together and derives
	// heatwave and rain flags.
	Conditions(ctx context.Context, at geo.Coordinate) (*Conditions, error)
}

// Option configures the client.
type Option func(*owmClient)

// WithAPIKey sets the OpenWeatherMap API key. Without one the client serves
// fallback values and never calls the network.
func WithAPIKey(key string) Option {
	return func(c *owmClient) {
		c.apiKey = key
	}
}

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *owmClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *owmClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit caps requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *owmClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
		}
	}
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(p resilience.Policy) Option {
	return func(c *owmClient) {
		c.retry = p
	}
}

type owmClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      resilience.Policy
}

// NewClient creates an OpenWeatherMap Client.
func NewClient(opts ...Option) Client {
	c := &owmClient{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(5, 5),
		retry:      resilience.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.retry.OnRetry = resilience.LogRetries("openweathermap", "get")
	return c
}
