package billing_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	billing "github.com/reoring/billing-go"
	"github.com/reoring/billing-go/config"
	"github.com/reoring/billing-go/core"
	"github.com/reoring/billing-go/option"
	"github.com/reoring/billing-go/transport"
)

type recorded struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

type route func(r *http.Request) (int, string)

// fakeAPI answers canned JSON per "METHOD /path" and records every request.
type fakeAPI struct {
	srv    *httptest.Server
	mu     sync.Mutex
	routes map[string]route
	reqs   []recorded
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{routes: map[string]route{}}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.reqs = append(f.reqs, recorded{
			Method:   r.Method,
			Path:     r.URL.EscapedPath(),
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     string(body),
		})
		fn, ok := f.routes[r.Method+" "+r.URL.Path]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"title":"no route"}`))
			return
		}
		status, out := fn(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(out))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) handle(method, path, body string) {
	f.handleFunc(method, path, func(*http.Request) (int, string) { return http.StatusOK, body })
}

func (f *fakeAPI) handleFunc(method, path string, fn route) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = fn
}

func (f *fakeAPI) options() []option.RequestOption {
	return []option.RequestOption{
		option.WithBaseURL(f.srv.URL + "/v1"),
		option.WithAPIKey("test-key"),
		option.WithHTTPClient(f.srv.Client()),
	}
}

func (f *fakeAPI) client(opts ...option.RequestOption) *billing.Client {
	return billing.NewClient(append(f.options(), opts...)...)
}

func (f *fakeAPI) requests() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.reqs...)
}

func (f *fakeAPI) last(t *testing.T) recorded {
	t.Helper()
	reqs := f.requests()
	require.NotEmpty(t, reqs, "no request recorded")
	return reqs[len(reqs)-1]
}

func TestClient_DefaultHeaders(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "/v1/alerts/a_1", alertJSON("a_1"))

	_, err := api.client(option.WithIdempotencyKey("idem-1")).Alerts.Retrieve(context.Background(), "a_1")
	require.NoError(t, err)

	got := api.last(t)
	require.Equal(t, "Bearer test-key", got.Header.Get("Authorization"))
	require.Equal(t, "application/json", got.Header.Get("Accept"))
	require.Equal(t, option.DefaultUserAgent, got.Header.Get("User-Agent"))
	require.Equal(t, "idem-1", got.Header.Get("Idempotency-Key"))
	require.Empty(t, got.Header.Get("Content-Type"), "GET carries no body")
}

func TestClient_PerRequestOptionsWin(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "/v1/alerts/a_1", alertJSON("a_1"))

	c := api.client()
	_, err := c.Alerts.Retrieve(context.Background(), "a_1", option.WithAPIKey("other"))
	require.NoError(t, err)
	require.Equal(t, "Bearer other", api.last(t).Header.Get("Authorization"))
}

func TestClient_APIError(t *testing.T) {
	api := newFakeAPI(t)
	api.handleFunc(http.MethodGet, "/v1/customers/missing", func(*http.Request) (int, string) {
		return http.StatusNotFound, `{"title":"customer not found"}`
	})

	_, err := api.client().Customers.Retrieve(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, core.HasCode(err, core.CodeAPIError))

	var apiErr *transport.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Contains(t, string(apiErr.Body), "customer not found")
}

func TestClient_IOFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := billing.NewClient(option.WithBaseURL(base), option.WithAPIKey("k"))
	_, err := c.Alerts.Retrieve(context.Background(), "a_1")
	require.Error(t, err)
	require.True(t, core.HasCode(err, core.CodeIOFailure))
}

func TestClient_UndecodableBody(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "/v1/alerts/a_1", `[1,2]`)

	_, err := api.client().Alerts.Retrieve(context.Background(), "a_1")
	require.Error(t, err)
}

func TestClient_CustomTransport(t *testing.T) {
	var seen *transport.Request
	fake := transport.Func(func(_ context.Context, req *transport.Request) (*transport.Response, error) {
		seen = req
		return &transport.Response{StatusCode: http.StatusOK, Body: []byte(alertJSON("a_9"))}, nil
	})

	c := billing.NewClient(option.WithTransport(fake), option.WithAPIKey("k"))
	a, err := c.Alerts.Retrieve(context.Background(), "a_9")
	require.NoError(t, err)
	id, err := a.ID()
	require.NoError(t, err)
	require.Equal(t, "a_9", id)
	require.Equal(t, option.DefaultBaseURL+"/alerts/a_9", seen.URL)
}

func TestNewClientFromEnv(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "/v1/alerts/a_1", alertJSON("a_1"))
	t.Setenv(config.EnvAPIKey, "env-key")
	t.Setenv(config.EnvBaseURL, api.srv.URL+"/v1")
	t.Setenv(config.EnvConfig, "")

	c, err := billing.NewClientFromEnv(option.WithHTTPClient(api.srv.Client()))
	require.NoError(t, err)
	_, err = c.Alerts.Retrieve(context.Background(), "a_1")
	require.NoError(t, err)
	require.Equal(t, "Bearer env-key", api.last(t).Header.Get("Authorization"))
}

func TestCodec_Sealed(t *testing.T) {
	require.True(t, billing.Codec().Sealed())
	require.Same(t, billing.Codec(), billing.Codec())
}
