package poller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nextracker/nextracker/internal/config"
	"github.com/nextracker/nextracker/internal/errors"
	"github.com/nextracker/nextracker/internal/fields"
	"github.com/nextracker/nextracker/internal/logger"
)

const (
	// DefaultTimeout bounds each HTTP request, primary and fallback alike.
	DefaultTimeout = 10 * time.Second

	// HeaderOCSAPIRequest must be present for Nextcloud to answer OCS calls
	// with a CSRF-free API response.
	HeaderOCSAPIRequest = "OCS-APIRequest"

	maxBodyBytes = 8 << 20
)

// Fetcher retrieves one decoded status document.
type Fetcher interface {
	Fetch(ctx context.Context) (any, error)
}

// Client fetches the serverinfo document over HTTP.
type Client struct {
	creds   config.Credentials
	http    *http.Client
	timeout time.Duration
	log     logger.Logger
}

// NewClient creates a client for the given credentials.
func NewClient(creds config.Credentials) *Client {
	return &Client{
		creds:   creds,
		http:    &http.Client{},
		timeout: DefaultTimeout,
		log:     logger.Noop(),
	}
}

// SetTimeout sets the per-request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.timeout = timeout
	}
}

// SetLogger sets the logger used for request tracing.
func (c *Client) SetLogger(l logger.Logger) {
	if l != nil {
		c.log = l
	}
}

// Fetch queries the instance URL with basic auth. When the body is not JSON
// it queries the root URL once, without auth. Transport failures on either
// request are never retried.
func (c *Client) Fetch(ctx context.Context) (any, error) {
	body, err := c.get(ctx, c.creds.InstanceURL, true)
	if err != nil {
		return nil, err
	}

	doc, decodeErr := fields.DecodeDocument(body)
	if decodeErr == nil {
		return doc, nil
	}

	if c.creds.RootURL == "" {
		return nil, errors.WrapWithCode(decodeErr, errors.ErrDecode,
			"Server did not answer with JSON",
			"Check NC_INSTANCE points at the serverinfo endpoint with ?format=json")
	}

	c.log.Warn("response from %s is not JSON (%v), trying %s", redact(c.creds.InstanceURL), decodeErr, redact(c.creds.RootURL))

	body, err = c.get(ctx, c.creds.RootURL, false)
	if err != nil {
		return nil, err
	}

	doc, err = fields.DecodeDocument(body)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDecode,
			"Neither the instance nor the root URL answered with JSON",
			"Check NC_INSTANCE points at the serverinfo endpoint with ?format=json")
	}
	return doc, nil
}

// get performs one bounded GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, target string, auth bool) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			"Cannot build request for "+redact(target),
			"Check the URL in your .env file")
	}
	req.Header.Set(HeaderOCSAPIRequest, "true")
	req.Header.Set("Accept", "application/json")
	if auth {
		req.SetBasicAuth(c.creds.User, c.creds.Password)
	}

	start := time.Now()
	c.log.Debug("GET %s (auth=%t)", redact(target), auth)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			"Request to "+redact(target)+" failed",
			"Check the server is reachable and the timeout is long enough")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, errors.New(errors.ErrTransport,
			fmt.Sprintf("%s answered %s", redact(target), resp.Status),
			statusSuggestion(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			"Reading response from "+redact(target)+" failed",
			"Check the server is reachable and the timeout is long enough")
	}
	if len(body) > maxBodyBytes {
		return nil, errors.New(errors.ErrTransport,
			fmt.Sprintf("Response from %s is larger than %d MiB", redact(target), maxBodyBytes>>20),
			"Check NC_INSTANCE points at the serverinfo endpoint")
	}

	c.log.Debug("GET %s -> %d, %d bytes in %s", redact(target), resp.StatusCode, len(body), time.Since(start).Round(time.Millisecond))
	return body, nil
}

func statusSuggestion(code int) string {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "Check NC_USER and NC_PASS; serverinfo needs an admin account or app password"
	case http.StatusNotFound:
		return "Check the serverinfo app is enabled and NC_INSTANCE is correct"
	default:
		return "Check the server logs"
	}
}

// redact drops any userinfo from a URL before it is logged or shown.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
