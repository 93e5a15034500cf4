// Package kismet is a minimal REST client for the Kismet wireless
// monitoring server. It covers the handful of endpoints the shootout
// needs: session validation, the datasource list, interface discovery,
// datasource registration, and channel tuning.
//
// Command endpoints use Kismet's form-encoded "json=" payload convention.
// Authentication is HTTP basic auth; the server answers with a KISMET
// session cookie which the client's jar replays on subsequent requests.
package kismet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Default client tuning. Timeout bounds a single attempt, not the whole
// call; a call makes up to 1+Retries attempts.
const (
	DefaultTimeout    = 5 * time.Second
	DefaultRetries    = 3
	DefaultRetryDelay = 500 * time.Millisecond

	// defaultRequestRate caps outgoing requests so a 1-second poll loop
	// plus session checks cannot hammer the server.
	defaultRequestRate = 10
)

// Config holds the connection settings for a Client.
type Config struct {
	// URI is the server base address, e.g. "http://localhost:2501".
	URI string

	// Username and Password authenticate against the server. Both may be
	// empty when the server runs without auth.
	Username string
	Password string

	// Timeout bounds each request attempt. Zero uses DefaultTimeout.
	Timeout time.Duration

	// Retries is the number of additional attempts after a transient
	// failure. Negative uses DefaultRetries.
	Retries int
}

// Client talks to a single Kismet server. It is safe for use from one
// goroutine at a time, which is all the poll loop needs.
type Client struct {
	base     *url.URL
	http     *http.Client
	username string
	password string
	retries  int
	timeout  time.Duration
	limiter  *rate.Limiter
}

// StatusError reports a non-200 response from the server.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Body)
}

// retryable reports whether another attempt could help. Auth and client
// errors will fail the same way every time.
func (e *StatusError) retryable() bool {
	return e.Code >= 500
}

// New creates a Client for the server at cfg.URI.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("parsing server URI %q: %w", cfg.URI, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("server URI %q: scheme must be http or https", cfg.URI)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = DefaultRetries
	}

	return &Client{
		base:     base,
		http:     &http.Client{Jar: jar},
		username: cfg.Username,
		password: cfg.Password,
		retries:  retries,
		timeout:  timeout,
		limiter:  rate.NewLimiter(rate.Limit(defaultRequestRate), defaultRequestRate),
	}, nil
}

// CheckSession validates the current session (and, on the first call,
// logs in via basic auth). A nil return means the session is good.
func (c *Client) CheckSession(ctx context.Context) error {
	return c.request(ctx, http.MethodGet, "/session/check_session", nil, nil)
}

// Datasources returns every datasource the server knows about, with its
// current channel and cumulative packet counter. Called once per poll
// tick.
func (c *Client) Datasources(ctx context.Context) ([]Datasource, error) {
	var out []Datasource
	if err := c.request(ctx, http.MethodGet, "/datasource/all_sources.json", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListInterfaces returns the capture-capable interfaces probed on the
// server host. Used only during startup enrollment.
func (c *Client) ListInterfaces(ctx context.Context) ([]Interface, error) {
	var out []Interface
	if err := c.request(ctx, http.MethodGet, "/datasource/list_interfaces.json", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddSource registers a new datasource from a Kismet source definition
// (typically just the interface name).
func (c *Client) AddSource(ctx context.Context, definition string) error {
	form, err := commandForm(map[string]string{"definition": definition})
	if err != nil {
		return err
	}
	return c.request(ctx, http.MethodPost, "/datasource/add_source.cmd", form, nil)
}

// SetChannel tunes the datasource identified by uuid to the given channel.
func (c *Client) SetChannel(ctx context.Context, uuid, channel string) error {
	form, err := commandForm(map[string]string{"channel": channel})
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/datasource/by-uuid/%s/set_channel.cmd", url.PathEscape(uuid))
	return c.request(ctx, http.MethodPost, path, form, nil)
}

// commandForm wraps a command payload in Kismet's "json=" form field.
func commandForm(payload any) (url.Values, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding command payload: %w", err)
	}
	return url.Values{"json": {string(b)}}, nil
}

// request performs a call with bounded retries. Transport errors and 5xx
// responses are retried; anything else fails immediately.
func (c *Client) request(ctx context.Context, method, path string, form url.Values, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(DefaultRetryDelay):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		lastErr = c.attempt(ctx, method, path, form, out)
		if lastErr == nil {
			return nil
		}
		if se, ok := lastErr.(*StatusError); ok && !se.retryable() {
			return fmt.Errorf("%s %s: %w", method, path, lastErr)
		}
	}
	return fmt.Errorf("%s %s: giving up after %d attempts: %w", method, path, c.retries+1, lastErr)
}

// attempt performs one request with its own timeout and fully consumes
// the response.
func (c *Client) attempt(ctx context.Context, method, path string, form url.Values, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	u := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(reqCtx, method, u.String(), body)
	if err != nil {
		return err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
