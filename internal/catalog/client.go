// Package catalog fetches model metadata from a Civitai-style catalog
// API by model page URL.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/banned104/lorakeep/internal/models"
)

const (
	// DefaultBaseURL is the catalog's model endpoint.
	DefaultBaseURL = "https://civitai.com/api/v1/models"

	// DefaultRateLimit is requests per minute against the catalog.
	DefaultRateLimit = 30

	// DefaultTimeout bounds a single catalog request.
	DefaultTimeout = 30 * time.Second
)

// ExtractModelID pulls the numeric model id out of a model page URL:
// the path segment immediately following the literal "models" segment.
// The second return is false if no such id parses.
func ExtractModelID(modelURL string) (int64, bool) {
	u, err := url.Parse(strings.TrimSpace(modelURL))
	if err != nil {
		return 0, false
	}

	parts := strings.Split(u.Path, "/")
	for i, part := range parts {
		if part != "models" || i+1 >= len(parts) {
			continue
		}
		id, err := strconv.ParseInt(parts[i+1], 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	}
	return 0, false
}

// Client wraps the catalog API with client-side rate limiting.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

// Config holds catalog client options.
type Config struct {
	BaseURL   string
	Token     string // optional API token, sent as a bearer credential
	RateLimit int    // requests per minute
	Timeout   time.Duration
}

// NewClient creates a catalog client. Zero config fields fall back to
// the package defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60.0), 1),
	}
}

// FetchByURL resolves the model id from a model page URL and fetches
// the record.
func (c *Client) FetchByURL(ctx context.Context, modelURL string) (*models.Record, error) {
	id, ok := ExtractModelID(modelURL)
	if !ok {
		return nil, fmt.Errorf("no model id in URL: %s", modelURL)
	}
	return c.FetchByID(ctx, id)
}

// FetchByID issues one GET to {base}/{id} and decodes the record.
func (c *Client) FetchByID(ctx context.Context, id int64) (*models.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch model %d: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch model %d: unexpected status %s", id, resp.Status)
	}

	var record models.Record
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode model %d: %w", id, err)
	}
	return &record, nil
}
