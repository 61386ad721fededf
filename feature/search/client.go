package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds the search index connection and dispatch settings.
type Config struct {
	// Enabled turns the sync stage on. A deployment without search
	// credentials can still run feed imports.
	Enabled bool   `mapstructure:"enabled" default:"true"`
	AppID   string `mapstructure:"app_id" default:""`
	APIKey  string `mapstructure:"api_key" default:""`
	Index   string `mapstructure:"index" default:"products"`
	// Host overrides the API base URL. Empty means the hosted endpoint
	// derived from AppID.
	Host string `mapstructure:"host" default:""`

	// BatchSize caps documents per upsert request.
	BatchSize int `mapstructure:"batch_size" default:"500"`
	// Workers bounds concurrent in-flight batches.
	Workers int `mapstructure:"workers" default:"2"`
	// MaxRetries is per batch, on transient failures only.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// BackoffBaseMs is the first retry delay; it doubles per attempt.
	BackoffBaseMs int `mapstructure:"backoff_base_ms" default:"250"`
	// RateLimit caps requests per second across all workers. Zero
	// disables limiting.
	RateLimit      float64 `mapstructure:"rate_limit" default:"10"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" default:"30"`
}

// Validate reports missing credentials before a run starts.
func (c Config) Validate() error {
	if c.AppID == "" || c.APIKey == "" {
		return fmt.Errorf("search: app_id and api_key are required")
	}
	return nil
}

func (c Config) baseURL() string {
	if c.Host != "" {
		return c.Host
	}
	return fmt.Sprintf("https://%s.algolia.net", c.AppID)
}

// IndexClient is the transport the dispatcher drives. A single batch call
// either fully succeeds or returns an error; retry policy lives in the
// dispatcher, not here.
type IndexClient interface {
	// PartialUpdateBatch upserts the documents, creating objects that do
	// not exist yet and merging fields into ones that do.
	PartialUpdateBatch(ctx context.Context, docs []Document) error
	// ObjectCount returns the number of objects in the index. The verify
	// command compares it against the active product count.
	ObjectCount(ctx context.Context) (int, error)
}

// APIError is a non-2xx response from the search API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search api: status %d: %s", e.Status, e.Message)
}

// Transient reports whether a retry can reasonably succeed. Rate-limit and
// server-side errors are transient; any other 4xx is a malformed request
// that will fail identically every time.
func (e *APIError) Transient() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// HTTPClient talks to an Algolia-compatible batch API.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// NewHTTPClient builds the real index client from config.
func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

type batchRequest struct {
	Requests []batchOperation `json:"requests"`
}

type batchOperation struct {
	Action string   `json:"action"`
	Body   Document `json:"body"`
}

// PartialUpdateBatch implements IndexClient via the /1/indexes/{index}/batch
// endpoint with partialUpdateObject operations.
func (c *HTTPClient) PartialUpdateBatch(ctx context.Context, docs []Document) error {
	ops := make([]batchOperation, len(docs))
	for i, doc := range docs {
		ops[i] = batchOperation{Action: "partialUpdateObject", Body: doc}
	}
	body, err := json.Marshal(batchRequest{Requests: ops})
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}

	url := fmt.Sprintf("%s/1/indexes/%s/batch", c.cfg.baseURL(), c.cfg.Index)
	return c.do(ctx, http.MethodPost, url, body, nil)
}

// ObjectCount implements IndexClient with an empty query, reading nbHits.
func (c *HTTPClient) ObjectCount(ctx context.Context) (int, error) {
	body, err := json.Marshal(map[string]any{"query": "", "hitsPerPage": 0})
	if err != nil {
		return 0, fmt.Errorf("failed to encode query: %w", err)
	}

	var result struct {
		NbHits int `json:"nbHits"`
	}
	url := fmt.Sprintf("%s/1/indexes/%s/query", c.cfg.baseURL(), c.cfg.Index)
	if err := c.do(ctx, http.MethodPost, url, body, &result); err != nil {
		return 0, err
	}
	return result.NbHits, nil
}

func (c *HTTPClient) do(ctx context.Context, method, url string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Algolia-Application-Id", c.cfg.AppID)
	req.Header.Set("X-Algolia-API-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: string(bytes.TrimSpace(payload))}
	}
	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
