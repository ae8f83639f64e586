// Package digitalocean is the gateway's upstream forwarder for the
// DigitalOcean API. It builds authenticated requests and hands back the
// raw status and body; interpretation is the gateway's job.
package digitalocean

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.digitalocean.com/v2"

// Config configures the DigitalOcean client.
type Config struct {
	// BaseURL is the API root (overridden in tests)
	BaseURL string

	// HTTPTimeout bounds each upstream call
	HTTPTimeout time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		HTTPTimeout: 10 * time.Second,
	}
}

// Client performs HTTP calls against the DigitalOcean API. It implements
// gateway.Upstream.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a DigitalOcean client.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// Do executes one request. Any HTTP status is a successful exchange; only
// transport failures return an error. The body is fully read so the caller
// holds the complete payload and the connection can be reused.
func (c *Client) Do(ctx context.Context, method, path, token string, body []byte) (int, []byte, error) {
	url := c.baseURL + "/" + strings.TrimPrefix(path, "/")

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, payload, nil
}
