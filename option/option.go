// Package option holds the client and per-request settings. Options are
// applied in order: client options first, then service options, then the
// options passed to a single call.
package option

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/reoring/billing-go/transport"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.withorb.com/v1"

// DefaultUserAgent identifies this library.
const DefaultUserAgent = "billing-go/0.1"

// RequestConfig is the resolved configuration of one request.
type RequestConfig struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	Header     http.Header
	Timeout    time.Duration
	HTTPClient *http.Client
	Transport  transport.Transport
	Logger     *slog.Logger
}

// RequestOption mutates a RequestConfig.
type RequestOption func(*RequestConfig) error

// NewRequestConfig applies opts over the defaults.
func NewRequestConfig(opts ...RequestOption) (*RequestConfig, error) {
	cfg := &RequestConfig{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Header:    http.Header{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithBaseURL sets the API root.
func WithBaseURL(base string) RequestOption {
	return func(c *RequestConfig) error {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("option: invalid base url %q: %w", base, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("option: base url %q must be absolute", base)
		}
		c.BaseURL = base
		return nil
	}
}

// WithAPIKey sets the bearer credential.
func WithAPIKey(key string) RequestOption {
	return func(c *RequestConfig) error {
		c.APIKey = key
		return nil
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) RequestOption {
	return func(c *RequestConfig) error {
		c.UserAgent = ua
		return nil
	}
}

// WithHeader sets a default header, replacing earlier values.
func WithHeader(key, value string) RequestOption {
	return func(c *RequestConfig) error {
		c.Header.Set(key, value)
		return nil
	}
}

// WithHeaderDel removes a default header.
func WithHeaderDel(key string) RequestOption {
	return func(c *RequestConfig) error {
		c.Header.Del(key)
		return nil
	}
}

// WithIdempotencyKey makes a POST safe to replay.
func WithIdempotencyKey(key string) RequestOption {
	return WithHeader("Idempotency-Key", key)
}

// WithRequestTimeout bounds a single call, including reading the body.
func WithRequestTimeout(d time.Duration) RequestOption {
	return func(c *RequestConfig) error {
		if d < 0 {
			return errors.New("option: negative timeout")
		}
		c.Timeout = d
		return nil
	}
}

// WithHTTPClient sends requests through client.
func WithHTTPClient(client *http.Client) RequestOption {
	return func(c *RequestConfig) error {
		c.HTTPClient = client
		return nil
	}
}

// WithTransport replaces the HTTP transport entirely, typically in tests.
func WithTransport(t transport.Transport) RequestOption {
	return func(c *RequestConfig) error {
		c.Transport = t
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) RequestOption {
	return func(c *RequestConfig) error {
		c.Logger = l
		return nil
	}
}

// DefaultHeaders returns the transport-level headers: credential, user
// agent, content negotiation and every header set by options.
func (c *RequestConfig) DefaultHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	if c.UserAgent != "" {
		h.Set("User-Agent", c.UserAgent)
	}
	if c.APIKey != "" {
		h.Set("Authorization", "Bearer "+c.APIKey)
	}
	for k, vs := range c.Header {
		h[k] = append([]string(nil), vs...)
	}
	return h
}

// Sender returns the configured transport, or an HTTP transport over the
// configured client and logger.
func (c *RequestConfig) Sender() transport.Transport {
	if c.Transport != nil {
		return c.Transport
	}
	return transport.NewHTTPTransport(c.HTTPClient, c.Log())
}

// Log returns the configured logger or slog.Default.
func (c *RequestConfig) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
