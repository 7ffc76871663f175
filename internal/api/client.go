package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const apiPrefix = "/api"

// Client wraps HTTP calls to the organizer server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new organizer API client.
func NewClient(serverURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EventsURL returns the push channel endpoint.
func (c *Client) EventsURL() string {
	return c.baseURL + apiPrefix + "/events"
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPrefix+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errorFromResponse(resp)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// GroupedFiles fetches the grouped dataset. The token is a monotonically
// increasing cache buster identifying this request.
func (c *Client) GroupedFiles(ctx context.Context, filter GroupFilter, token uint64) ([]Group, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.MediaType != "" {
		q.Set("media_type", filter.MediaType)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	q.Set("_t", strconv.FormatUint(token, 10))

	var groups []Group
	if err := c.get(ctx, "/files/grouped?"+q.Encode(), &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// File fetches a single file's full detail.
func (c *Client) File(ctx context.Context, id int64) (*FileDetail, error) {
	var detail FileDetail
	if err := c.get(ctx, fmt.Sprintf("/files/%d", id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Match commits a manual correspondence for a file.
func (c *Client) Match(ctx context.Context, req MatchRequest) (*FileDetail, error) {
	var detail FileDetail
	if err := c.post(ctx, fmt.Sprintf("/files/%d/match", req.FileID), req, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Reprocess re-runs the automatic match pipeline for one file.
func (c *Client) Reprocess(ctx context.Context, id int64) (*FileDetail, error) {
	var detail FileDetail
	if err := c.post(ctx, fmt.Sprintf("/files/%d/reprocess", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Ignore marks a file as ignored.
func (c *Client) Ignore(ctx context.Context, id int64) (*FileDetail, error) {
	var detail FileDetail
	if err := c.post(ctx, fmt.Sprintf("/files/%d/ignore", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ReprocessAll re-runs the pipeline for every manual or failed file.
// Progress arrives on the push channel.
func (c *Client) ReprocessAll(ctx context.Context) (*ReprocessAllResult, error) {
	var result ReprocessAllResult
	if err := c.post(ctx, "/files/reprocess-all", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Scan starts a background scan. An empty path scans all configured sources.
// The server answers 409 when a scan is already running.
func (c *Client) Scan(ctx context.Context, path string) (*ScanResult, error) {
	body := map[string]any{}
	if path != "" {
		body["path"] = path
	}
	var result ScanResult
	if err := c.post(ctx, "/scan", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchTMDB queries the metadata provider. mediaType may be empty for a
// multi-search; year 0 means unconstrained.
func (c *Client) SearchTMDB(ctx context.Context, query, mediaType string, year int) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("query", query)
	if mediaType != "" {
		q.Set("media_type", mediaType)
	}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}

	var results []SearchResult
	if err := c.get(ctx, "/tmdb/search?"+q.Encode(), &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Stats fetches the aggregate counters.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.get(ctx, "/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AutoScanStatus fetches the scheduler state.
func (c *Client) AutoScanStatus(ctx context.Context) (*AutoScanStatus, error) {
	var status AutoScanStatus
	if err := c.get(ctx, "/auto-scan/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}
