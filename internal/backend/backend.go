// Package backend is the client for the attendance recognition service.
package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/constants"
	"golang.org/x/text/language"
)

// Client talks to the recognition backend.
type Client struct {
	URL        string
	parsedURL  *url.URL
	httpClient *http.Client
	timeout    time.Duration
	lang       language.Tag
	captureDir string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each recognition request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLanguage sets the language used to case-normalize display names (BCP 47, e.g. "id-ID").
func WithLanguage(tag string) Option {
	return func(c *Client) {
		if t, err := language.Parse(tag); err == nil {
			c.lang = t
		}
	}
}

// New creates a new backend client for the given base URL.
func New(rawURL string, opts ...Option) (*Client, error) {
	if rawURL == "" {
		return nil, errors.New("backend URL is required")
	}
	parsed, err := url.Parse(strings.TrimSuffix(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL scheme %q", parsed.Scheme)
	}

	c := &Client{
		URL:        parsed.String(),
		parsedURL:  parsed,
		httpClient: http.DefaultClient,
		timeout:    constants.DefaultBackendTimeout,
		lang:       language.Indonesian,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// resolveURL builds a full URL from the base URL and the given path segments.
func (c *Client) resolveURL(pathSegments ...string) string {
	if len(pathSegments) == 0 {
		return c.parsedURL.String()
	}
	return c.parsedURL.JoinPath(pathSegments...).String()
}

// readErrorBody reads the response body for error messages.
// Returns empty string if reading fails (we're already in an error path).
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, constants.MaxErrorBodySize))
	if err != nil {
		return "(could not read error body)"
	}
	return string(body)
}

// SetCaptureDir enables response capturing to the specified directory.
// Pass an empty string to disable capturing.
func (c *Client) SetCaptureDir(dir string) error {
	if dir == "" {
		c.captureDir = ""
		return nil
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("could not create capture directory: %w", err)
	}
	c.captureDir = dir
	return nil
}

// captureResponse saves the response body to a file if capturing is enabled.
func (c *Client) captureResponse(endpoint string, body []byte) {
	if c.captureDir == "" {
		return
	}

	// Sanitize endpoint for filename
	filename := strings.ReplaceAll(endpoint, "/", "_")
	filename = strings.TrimPrefix(filename, "_")
	timestamp := time.Now().Format("20060102_150405.000")
	filename = fmt.Sprintf("%s_%s.json", filename, timestamp)

	path := filepath.Join(c.captureDir, filename)

	// Pretty-print JSON if possible
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, body, "", "  "); err == nil {
		body = prettyJSON.Bytes()
	}

	// WriteFile error is non-critical for capturing - log and continue
	if err := os.WriteFile(path, body, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to capture response to %s: %v\n", path, err)
	}
}
