// Package transport sends rendered requests over HTTP. It knows nothing about
// models or params: it moves bytes and classifies failures.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/reoring/billing-go/core"
)

// Request is a fully rendered API call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the raw result of a call that reached the server.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport executes a request. Network failures are reported as *IOError and
// non-2xx statuses as *APIError carrying the response.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Func adapts a plain function to Transport.
type Func func(ctx context.Context, req *Request) (*Response, error)

// Send calls f.
func (f Func) Send(ctx context.Context, req *Request) (*Response, error) { return f(ctx, req) }

// HTTPTransport is the net/http backed Transport.
type HTTPTransport struct {
	Client *http.Client
	Logger *slog.Logger
}

// NewHTTPTransport returns a transport over client (http.DefaultClient when
// nil) logging to logger (slog.Default when nil).
func NewHTTPTransport(client *http.Client, logger *slog.Logger) *HTTPTransport {
	return &HTTPTransport{Client: client, Logger: logger}
}

func (t *HTTPTransport) client() *http.Client {
	if t == nil || t.Client == nil {
		return http.DefaultClient
	}
	return t.Client
}

func (t *HTTPTransport) logger() *slog.Logger {
	if t == nil || t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	log := t.logger()
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &IOError{Method: req.Method, URL: req.URL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}

	log.DebugContext(ctx, "Making HTTP request", "method", req.Method, "url", req.URL)
	start := time.Now()
	hresp, err := t.client().Do(hreq)
	if err != nil {
		log.DebugContext(ctx, "HTTP request failed", "method", req.Method, "url", req.URL, "error", err)
		return nil, &IOError{Method: req.Method, URL: req.URL, Err: err}
	}
	defer hresp.Body.Close()

	data, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, &IOError{Method: req.Method, URL: req.URL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	log.DebugContext(ctx, "Received HTTP response",
		"method", req.Method,
		"url", req.URL,
		"status", hresp.StatusCode,
		"elapsed", time.Since(start),
	)

	resp := &Response{StatusCode: hresp.StatusCode, Header: hresp.Header, Body: data}
	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		return resp, &APIError{Method: req.Method, URL: req.URL, StatusCode: hresp.StatusCode, Header: hresp.Header, Body: data}
	}
	return resp, nil
}

// IOError is a failure to exchange bytes with the server.
type IOError struct {
	Method string
	URL    string
	Err    error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s %q: %v", e.Method, e.URL, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

// IssueCode places the error in the issue-code taxonomy.
func (e *IOError) IssueCode() string { return core.CodeIOFailure }

// APIError is a response with a non-2xx status.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(string(e.Body))
	if len(msg) > 512 {
		msg = msg[:512] + "..."
	}
	return fmt.Sprintf("%s %q: %d %s %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), msg)
}

// IssueCode places the error in the issue-code taxonomy.
func (e *APIError) IssueCode() string { return core.CodeAPIError }
