// Package stream maintains the persistent push channel to the server and
// decodes its typed event envelopes.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Push channel event types.
const (
	EventFileAdded          = "file_added"
	EventFileUpdated        = "file_updated"
	EventFileDeleted        = "file_deleted"
	EventStatsUpdated       = "stats_updated"
	EventScanStarted        = "scan_started"
	EventScanProgress       = "scan_progress"
	EventScanCompleted      = "scan_completed"
	EventReprocessStarted   = "reprocess_started"
	EventReprocessProgress  = "reprocess_progress"
	EventReprocessCompleted = "reprocess_completed"
)

// Envelope is one push channel message.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const defaultRetryInterval = 3 * time.Second

// Client holds one long-lived SSE connection. On any transport error it
// waits a fixed interval and reconnects, forever; there is no backoff and
// no retry cap.
type Client struct {
	url           string
	httpClient    *http.Client
	logger        *slog.Logger
	retryInterval time.Duration
	onEvent       func(Envelope)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. It must not carry a timeout;
// the connection is meant to stay open.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryInterval sets the reconnect delay.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) {
		c.retryInterval = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a push channel client. onEvent is invoked for every decoded
// envelope, in arrival order, on the connection's goroutine.
func New(url string, onEvent func(Envelope), opts ...Option) *Client {
	c := &Client{
		url:           url,
		httpClient:    &http.Client{},
		logger:        slog.Default(),
		retryInterval: defaultRetryInterval,
		onEvent:       onEvent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run connects and dispatches events until ctx is canceled. Transport
// failures are logged and retried after the fixed interval.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.connect(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("push channel disconnected, retrying",
			"error", err,
			"retry_in", c.retryInterval,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryInterval):
		}
	}
}

func (c *Client) connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push channel status %d", resp.StatusCode)
	}

	c.logger.Info("push channel connected", "url", c.url)
	return c.read(resp.Body)
}

// read consumes the SSE stream: "data:" lines accumulate until a blank
// line dispatches them; comment lines (heartbeats) are skipped. Returns
// when the stream ends.
func (c *Client) read(body io.Reader) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			if data.Len() > 0 {
				c.dispatch(data.String())
				data.Reset()
			}
		case strings.HasPrefix(line, ":"):
			// heartbeat comment
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// other SSE fields (event:, id:, retry:) are not used by the server
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return errors.New("stream closed by server")
}

// dispatch decodes one message and hands it to the consumer. Malformed
// payloads are logged and dropped; the channel stays open.
func (c *Client) dispatch(payload string) {
	var env Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		c.logger.Error("malformed push event, dropping", "error", err)
		return
	}
	if env.Type == "" {
		c.logger.Error("push event missing type, dropping")
		return
	}
	c.onEvent(env)
}
