package option_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reoring/billing-go/option"
	"github.com/reoring/billing-go/transport"
)

func TestNewRequestConfig_Defaults(t *testing.T) {
	cfg, err := option.NewRequestConfig()
	require.NoError(t, err)
	require.Equal(t, option.DefaultBaseURL, cfg.BaseURL)

	h := cfg.DefaultHeaders()
	require.Equal(t, "application/json", h.Get("Accept"))
	require.Equal(t, option.DefaultUserAgent, h.Get("User-Agent"))
	require.Empty(t, h.Get("Authorization"))
	require.IsType(t, &transport.HTTPTransport{}, cfg.Sender())
}

func TestNewRequestConfig_LaterOptionsWin(t *testing.T) {
	cfg, err := option.NewRequestConfig(
		option.WithAPIKey("first"),
		option.WithHeader("X-Trace", "a"),
		option.WithAPIKey("second"),
		option.WithIdempotencyKey("idem"),
		option.WithRequestTimeout(2*time.Second),
		nil,
	)
	require.NoError(t, err)

	h := cfg.DefaultHeaders()
	require.Equal(t, "Bearer second", h.Get("Authorization"))
	require.Equal(t, "a", h.Get("X-Trace"))
	require.Equal(t, "idem", h.Get("Idempotency-Key"))
	require.Equal(t, 2*time.Second, cfg.Timeout)

	cfg2, err := option.NewRequestConfig(option.WithHeader("X-Trace", "a"), option.WithHeaderDel("X-Trace"))
	require.NoError(t, err)
	require.Empty(t, cfg2.DefaultHeaders().Get("X-Trace"))
}

func TestWithBaseURL_RejectsRelative(t *testing.T) {
	_, err := option.NewRequestConfig(option.WithBaseURL("/v1"))
	require.Error(t, err)

	cfg, err := option.NewRequestConfig(option.WithBaseURL("http://localhost:8080/v1"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/v1", cfg.BaseURL)
}

func TestWithTransport(t *testing.T) {
	called := false
	tr := transport.Func(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
		called = true
		return &transport.Response{StatusCode: http.StatusNoContent}, nil
	})
	cfg, err := option.NewRequestConfig(option.WithTransport(tr), option.WithHTTPClient(http.DefaultClient))
	require.NoError(t, err)
	require.NotNil(t, cfg.Sender())
	_, isHTTP := cfg.Sender().(*transport.HTTPTransport)
	require.False(t, isHTTP)

	resp, err := cfg.Sender().Send(context.Background(), &transport.Request{Method: http.MethodGet})
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.True(t, called)
}

func TestSender_UsesConfiguredLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg, err := option.NewRequestConfig(option.WithLogger(logger))
	require.NoError(t, err)
	ht, ok := cfg.Sender().(*transport.HTTPTransport)
	require.True(t, ok)
	require.Same(t, logger, ht.Logger)

	cfg, err = option.NewRequestConfig()
	require.NoError(t, err)
	require.Same(t, slog.Default(), cfg.Log())
	ht, ok = cfg.Sender().(*transport.HTTPTransport)
	require.True(t, ok)
	require.Same(t, slog.Default(), ht.Logger)
}
