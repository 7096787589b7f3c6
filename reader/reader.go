// Package reader fetches a cleaned textual rendering of a web page, either
// through a reader provider (r.jina.ai style: GET <base>/<url>) or by
// downloading the page and converting its HTML to markdown locally.
package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MinContentLength is the smallest trimmed page text accepted.
	MinContentLength = 100
	// MaxContentLength caps what Fetch returns.
	MaxContentLength = 20000

	DefaultBaseURL = "https://r.jina.ai"

	ProviderJina   = "jina"
	ProviderDirect = "direct"
)

var (
	// ErrMissingURL is returned for an empty or non-http(s) address.
	ErrMissingURL = errors.New("no URL provided")

	// ErrInsufficientContent means the page rendered to less than
	// MinContentLength characters, typically a paywall or login page.
	ErrInsufficientContent = errors.New("could not extract sufficient text from URL. The page might be behind a paywall or require login")
)

// FetchError reports an unreachable provider or a non-2xx response.
type FetchError struct {
	Status int
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil:
		return "fetch failed: " + e.Err.Error()
	case e.Status != 0:
		return fmt.Sprintf("fetch failed: status %d %s", e.Status, e.Reason)
	default:
		return "fetch failed: " + e.Reason
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Config configures a Reader.
type Config struct {
	Provider string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration

	// MaxBodyBytes bounds how much of a response body is read (default 8 MB).
	MaxBodyBytes int64

	HTTPClient *http.Client
	Logger     *slog.Logger
}

func (c *Config) defaults() {
	if c.Provider == "" {
		c.Provider = ProviderJina
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 8 << 20
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Reader fetches page text. One attempt per call, no retries.
type Reader struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func New(cfg Config) (*Reader, error) {
	cfg.defaults()
	switch cfg.Provider {
	case ProviderJina, ProviderDirect:
	default:
		return nil, fmt.Errorf("reader provider %s not supported", cfg.Provider)
	}
	return &Reader{cfg: cfg, client: cfg.HTTPClient, logger: cfg.Logger}, nil
}

// Fetch returns at most MaxContentLength characters of the page at address.
// An address without a scheme is fetched over https.
func (r *Reader) Fetch(ctx context.Context, address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", ErrMissingURL
	}
	if !strings.Contains(address, "://") {
		address = "https://" + address
	}
	u, err := url.Parse(address)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an http(s) URL", ErrMissingURL, address)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	var text string
	switch r.cfg.Provider {
	case ProviderDirect:
		text, err = r.fetchDirect(ctx, address)
	default:
		text, err = r.fetchJina(ctx, address)
	}
	if err != nil {
		return "", err
	}

	r.logger.DebugContext(ctx, "url fetched", "provider", r.cfg.Provider, "chars", utf8.RuneCountInString(text))

	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinContentLength {
		return "", ErrInsufficientContent
	}
	return truncateRunes(text, MaxContentLength), nil
}

func (r *Reader) fetchJina(ctx context.Context, address string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/"+address, nil)
	if err != nil {
		return "", &FetchError{Reason: "creating request", Err: err}
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("X-Return-Format", "markdown")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	body, err := r.get(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// get executes req and returns the body of a 2xx response.
func (r *Reader) get(req *http.Request) ([]byte, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &FetchError{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.cfg.MaxBodyBytes))
	if err != nil {
		return nil, &FetchError{Reason: "reading response body", Err: err}
	}
	return body, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
