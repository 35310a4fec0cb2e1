package billing

import (
	"context"
	"net/http"
	"time"

	"github.com/reoring/billing-go/core"
	"github.com/reoring/billing-go/option"
	"github.com/reoring/billing-go/transport"
)

// errMissingBody is returned when a call whose body has required fields is
// given nil params.
var errMissingBody = core.MissingRequiredField("body")

// send checks and renders params against the path template, executes the
// request and returns the raw response. Nothing is sent when a required
// field is missing.
func send(ctx context.Context, method, template string, params core.Params, opts []option.RequestOption) (*transport.Response, error) {
	if err := params.ValidateRequired(ctx); err != nil {
		return nil, err
	}
	cfg, err := option.NewRequestConfig(opts...)
	if err != nil {
		return nil, err
	}
	u, err := params.URL(cfg.BaseURL, template)
	if err != nil {
		return nil, err
	}
	body, err := params.Body()
	if err != nil {
		return nil, err
	}
	header, err := params.Headers(cfg.DefaultHeaders())
	if err != nil {
		return nil, err
	}
	if body != nil {
		header.Set("Content-Type", core.ContentTypeJSON)
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	return cfg.Sender().Send(ctx, &transport.Request{Method: method, URL: u, Header: header, Body: body})
}

// execute is send followed by a lazy decode of the body into T.
func execute[T any](ctx context.Context, method, template string, params core.Params, opts []option.RequestOption) (T, error) {
	resp, err := send(ctx, method, template, params, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	return core.Decode[T](Codec(), resp.Body)
}

// pathParams builds params that carry only path values, given as name/value
// pairs.
func pathParams(kv ...string) core.Params {
	p := core.NewParams(nil, Codec())
	for i := 0; i+1 < len(kv); i += 2 {
		p.SetPath(kv[i], kv[i+1])
	}
	return p
}

// withPath returns a copy of params with path values added.
func withPath(params core.Params, kv ...string) core.Params {
	p := params.Clone()
	for i := 0; i+1 < len(kv); i += 2 {
		p.SetPath(kv[i], kv[i+1])
	}
	return p
}

// autoPager walks every page of a list endpoint, feeding next_cursor into
// the cursor query field of a copy of params.
func autoPager[T any](params core.Params, template string, opts []option.RequestOption) *core.Pager[T] {
	return core.NewPager(func(ctx context.Context, cursor string) (core.Page[T], error) {
		q := params.Clone()
		if cursor != "" {
			core.Put(&q, core.QueryBucket, "cursor", cursor)
		}
		return execute[core.Page[T]](ctx, http.MethodGet, template, q, opts)
	})
}

// createdAtFilters are the range filters shared by list endpoints.
func createdAtFilters() []core.FieldDesc {
	return []core.FieldDesc{
		core.Nullable[time.Time]("created_at[gt]"),
		core.Nullable[time.Time]("created_at[gte]"),
		core.Nullable[time.Time]("created_at[lt]"),
		core.Nullable[time.Time]("created_at[lte]"),
	}
}

// pageFilters are the cursor fields shared by list endpoints.
func pageFilters() []core.FieldDesc {
	return []core.FieldDesc{
		core.Nullable[string]("cursor"),
		core.Optional[int64]("limit"),
	}
}
