// Package upstream performs the plain HTTP GETs shared by the NCBI and KEGG
// clients and classifies their failures.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 16 << 20

// DefaultTimeout is used when a Client is built with a zero timeout.
const DefaultTimeout = 20 * time.Second

// Client issues GET requests against the public services.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Logger    *log.Logger
}

// NewClient returns a Client with its own http.Client. Tests replace HTTP
// with one backed by a fake transport.
func NewClient(timeout time.Duration, userAgent string, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: userAgent,
		Logger:    logger,
	}
}

// Get fetches url and returns the body. Transport failures and non-2xx
// statuses are reported as ErrNetwork.
func (c *Client) Get(ctx context.Context, service, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: ErrNetwork, Service: service, URL: url, Err: err}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Logger.Debug("upstream request failed", "service", service, "url", url, "err", err)
		return nil, &Error{Kind: ErrNetwork, Service: service, URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.Logger.Debug("upstream request", "service", service, "url", url, "status", resp.StatusCode,
		"bytes", len(body), "duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		return nil, &Error{Kind: ErrNetwork, Service: service, URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Kind:       ErrNetwork,
			Service:    service,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return body, nil
}

// GetJSON fetches url and decodes the body into v. A body that is not valid
// JSON is reported as ErrFormat.
func (c *Client) GetJSON(ctx context.Context, service, url string, v any) error {
	body, err := c.Get(ctx, service, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return Format(service, url, err)
	}
	return nil
}
