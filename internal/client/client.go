// Package client implements the outbound HTTP client the statistics service
// uses to reach the registration service.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Options configures the outbound client.
type Options struct {
	// Timeout bounds each attempt end to end. Zero means 10 seconds.
	Timeout time.Duration

	// MaxRetries caps additional attempts after a transport failure.
	// Non-2xx responses are never retried.
	MaxRetries int

	// InsecureSkipVerify disables TLS certificate verification on outbound
	// calls. Defaults to secure; enable only against known test endpoints.
	InsecureSkipVerify bool
}

// Client wraps POST/GET against a single base URL. Each request uses its own
// connection: keep-alives are disabled so no connection outlives a call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	logger     *logrus.Logger
}

// New creates an outbound client for the given base URL.
func New(baseURL string, opts Options, logger *logrus.Logger) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	transport := &http.Transport{
		DisableKeepAlives: true,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: opts.InsecureSkipVerify,
		},
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		maxRetries: opts.MaxRetries,
		logger:     logger,
	}
}

// Post sends a JSON body and returns the response status and raw body.
// A non-2xx status is a normal return, not an error; an error means the
// request could not complete at all.
func (c *Client) Post(ctx context.Context, path string, body interface{}, headers map[string]string) (int, json.RawMessage, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, jsonBody, headers)
}

// Get sends a GET request and returns the response status and raw body.
func (c *Client) Get(ctx context.Context, path string, headers map[string]string) (int, json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil, headers)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, headers map[string]string) (int, json.RawMessage, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		attempts++
		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			c.logger.WithError(err).WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"method":  method,
				"path":    path,
			}).Warn("Outbound request failed")
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		return resp.StatusCode, json.RawMessage(data), nil
	}

	return 0, nil, fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}
