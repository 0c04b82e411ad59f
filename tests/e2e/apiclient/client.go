// Package apiclient is a small JSON client for the console's HTTP API, used
// by the bootstrapper and the sweep. Transport errors and 5xx responses are
// retried; every other response is returned to the caller as-is.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
)

type (
	Client struct {
		baseURL *url.URL
		token   string
		http    *retryablehttp.Client
	}

	Config struct {
		// BaseURL is the root of the system under test.
		BaseURL string
		// Retries is the number of extra attempts for transient failures.
		Retries int
		// Timeout bounds a single attempt.
		Timeout time.Duration
		// Transport overrides the default http transport.
		Transport http.RoundTripper
		Logger    logr.Logger
	}

	// Response is a fully read HTTP response.
	Response struct {
		Status int
		Body   []byte
	}
)

func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", cfg.BaseURL)
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	log := cfg.Logger

	c := &Client{baseURL: u}
	c.http = &retryablehttp.Client{
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
		HTTPClient:   &http.Client{Transport: cfg.Transport, Timeout: cfg.Timeout},
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
		RetryMax:     cfg.Retries,
		CheckRetry: func(ctx context.Context, resp *http.Response, err error) (bool, error) {
			retry, retryErr := retryablehttp.ErrorPropagatedRetryPolicy(ctx, resp, err)
			if retry {
				if retryErr != nil {
					err = retryErr
				}
				if resp != nil && resp.Request != nil {
					log.V(1).Info("retrying request", "url", resp.Request.URL.String(), "status", resp.StatusCode)
				} else {
					log.V(1).Info("retrying request", "err", fmt.Sprint(err))
				}
			}
			return retry, retryErr
		},
	}
	return c, nil
}

// BaseURL returns the root the client resolves paths against.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// SetToken sets the bearer token sent with every later request.
func (c *Client) SetToken(token string) { c.token = token }

// Do sends body (JSON-encoded when non-nil) to path and reads the response.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var raw []byte
	if body != nil {
		var err error
		if raw, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}
	target := c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, raw)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	// After the last retry the passthrough handler returns both the final
	// response and the retry policy's error; the response wins.
	resp, err := c.http.Do(req)
	if resp == nil {
		if err == nil {
			err = fmt.Errorf("no response")
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s %s response: %w", method, path, err)
	}
	return &Response{Status: resp.StatusCode, Body: data}, nil
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Text returns the body as a string.
func (r *Response) Text() string { return string(bytes.TrimSpace(r.Body)) }

// Close releases idle keep-alive connections.
func (c *Client) Close() {
	c.http.HTTPClient.CloseIdleConnections()
}
