// Package client talks to the lab inventory service.
//
// Every request carries the static API key in X-Api-Key and a fresh
// X-Request-ID. Responses may be bare JSON or wrapped in {"response": ...};
// both are accepted.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"evalgo.org/labops/models"
)

// DefaultTimeout applies when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// Client is an inventory service client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	insecure   bool
	timeout    time.Duration
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the X-Api-Key header value.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying http.Client. Timeout and TLS
// options are ignored when this is used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) { c.insecure = skip }
}

// WithRateLimit paces outgoing requests. A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL %q: %w", baseURL, err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if c.insecure {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // the lab service uses self-signed certificates
		}
		c.httpClient = &http.Client{Timeout: c.timeout, Transport: transport}
	}
	return c, nil
}

// BaseURL returns the service root the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchHosts returns every host known to the service.
func (c *Client) FetchHosts(ctx context.Context) ([]models.Host, error) {
	var hosts []models.Host
	if err := c.get(ctx, "/hosts", nil, &hosts); err != nil {
		return nil, fmt.Errorf("failed to fetch hosts: %w", err)
	}
	return hosts, nil
}

// FetchRacks returns every rack, with embedded hosts when the service
// provides them.
func (c *Client) FetchRacks(ctx context.Context) ([]models.Rack, error) {
	var racks []models.Rack
	if err := c.get(ctx, "/racks", nil, &racks); err != nil {
		return nil, fmt.Errorf("failed to fetch racks: %w", err)
	}
	return racks, nil
}

// FetchSwitches returns every network switch.
func (c *Client) FetchSwitches(ctx context.Context) ([]models.Switch, error) {
	var switches []models.Switch
	if err := c.get(ctx, "/switches", nil, &switches); err != nil {
		return nil, fmt.Errorf("failed to fetch switches: %w", err)
	}
	return switches, nil
}

// FindHostByAssetID returns the full record of one host.
func (c *Client) FindHostByAssetID(ctx context.Context, assetID string) (*models.Host, error) {
	host, err := c.findOne(ctx, "/hosts/find", url.Values{"assetid": {assetID}})
	if err != nil {
		return nil, fmt.Errorf("asset ID %s: %w", assetID, err)
	}
	return host, nil
}

// FindHostByHardwareID returns the status record of one host. The record
// may be partial; callers wanting full details look the asset id up again.
func (c *Client) FindHostByHardwareID(ctx context.Context, hardwareID string) (*models.Host, error) {
	host, err := c.findOne(ctx, "/hosts/hoststatus", url.Values{"hardwareid": {hardwareID}})
	if err != nil {
		return nil, fmt.Errorf("hardware ID %s: %w", hardwareID, err)
	}
	return host, nil
}

// findOne accepts a single object or a one-element list. An empty list or
// null body means not found.
func (c *Client) findOne(ctx context.Context, path string, query url.Values) (*models.Host, error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, query, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrNotFound
	}
	if trimmed[0] == '[' {
		var hosts []models.Host
		if err := json.Unmarshal(trimmed, &hosts); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if len(hosts) == 0 {
			return nil, ErrNotFound
		}
		return &hosts[0], nil
	}

	var host models.Host
	if err := json.Unmarshal(trimmed, &host); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &host, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, body)
	}

	payload, err := unwrap(body)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// unwrap strips the optional {"response": ...} envelope.
func unwrap(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty response body")
	}
	if trimmed[0] != '{' {
		return trimmed, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	if inner, ok := envelope["response"]; ok {
		return inner, nil
	}
	return trimmed, nil
}
