package marketdata

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"resty.dev/v3"
)

const (
	defaultTimeout           = 10 * time.Second
	defaultRequestsPerSecond = 10
)

// Config holds provider settings. An empty APIKey is a recognized state:
// the client reports itself disabled and callers degrade instead of failing.
type Config struct {
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client talks to the Finnhub-style market data REST API. Each call is a
// single request/response with no internal retry: the caller decides whether
// a failure degrades or aborts.
type Client struct {
	client  *resty.Client
	apiKey  string
	limiter *rate.Limiter
}

// New creates a market data client from the given configuration
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{
		client:  client,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Enabled reports whether an API token is configured. Callers should treat
// a disabled client as "live data unavailable", not as an error.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// FetchQuote retrieves the live quote for a symbol
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*Quote, error) {
	var quote Quote
	if err := c.get(ctx, "/quote", map[string]string{"symbol": symbol}, &quote); err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	return &quote, nil
}

// FetchProfile retrieves the company profile for a symbol
func (c *Client) FetchProfile(ctx context.Context, symbol string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "/stock/profile2", map[string]string{"symbol": symbol}, &profile); err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", symbol, err)
	}
	return &profile, nil
}

// Search looks up instruments matching the query
func (c *Client) Search(ctx context.Context, q string) (*SearchResponse, error) {
	var result SearchResponse
	if err := c.get(ctx, "/search", map[string]string{"q": q}, &result); err != nil {
		return nil, fmt.Errorf("failed to search for %q: %w", q, err)
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("token", c.apiKey).
		SetResult(out).
		Get(path)

	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("provider returned status %d", resp.StatusCode())
	}
	return nil
}
