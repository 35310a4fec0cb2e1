package billing

import (
	"context"
	"net/http"
	"slices"

	"github.com/reoring/billing-go/core"
	"github.com/reoring/billing-go/option"
)

// MetricService manages billable metrics.
type MetricService struct {
	Options []option.RequestOption
}

func NewMetricService(opts ...option.RequestOption) (r MetricService) {
	r = MetricService{}
	r.Options = opts
	return
}

// Create defines a metric from a SQL query over ingested events.
func (r *MetricService) Create(ctx context.Context, body *MetricCreateParams, opts ...option.RequestOption) (BillableMetric, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		return BillableMetric{}, errMissingBody
	}
	return execute[BillableMetric](ctx, http.MethodPost, "metrics", body.Params, opts)
}

func (r *MetricService) Retrieve(ctx context.Context, metricID string, opts ...option.RequestOption) (BillableMetric, error) {
	opts = slices.Concat(r.Options, opts)
	return execute[BillableMetric](ctx, http.MethodGet, "metrics/{metric_id}", pathParams("metric_id", metricID), opts)
}

// Update replaces the metadata of a metric.
func (r *MetricService) Update(ctx context.Context, metricID string, body *MetricUpdateParams, opts ...option.RequestOption) (BillableMetric, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		body = NewMetricUpdateParams()
	}
	p := withPath(body.Params, "metric_id", metricID)
	return execute[BillableMetric](ctx, http.MethodPut, "metrics/{metric_id}", p, opts)
}

func (r *MetricService) List(ctx context.Context, query *MetricListParams, opts ...option.RequestOption) (core.Page[BillableMetric], error) {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewMetricListParams()
	}
	return execute[core.Page[BillableMetric]](ctx, http.MethodGet, "metrics", query.Params, opts)
}

func (r *MetricService) ListAutoPaging(query *MetricListParams, opts ...option.RequestOption) *core.Pager[BillableMetric] {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewMetricListParams()
	}
	return autoPager[BillableMetric](query.Params, "metrics", opts)
}

// MetricStatus is the lifecycle state of a metric.
type MetricStatus string

const (
	MetricStatusActive   MetricStatus = "active"
	MetricStatusDraft    MetricStatus = "draft"
	MetricStatusArchived MetricStatus = "archived"
)

var MetricStatuses = core.NewStringEnumSpec("MetricStatus",
	MetricStatusActive,
	MetricStatusDraft,
	MetricStatusArchived,
)

type MetricStatusEnum = core.Enum[string, MetricStatus]

var billableMetricSchema = core.NewSchema("BillableMetric",
	core.Required[string]("id"),
	core.Required[string]("name"),
	core.RequiredNullable[string]("description"),
	core.Required[ItemSlim]("item"),
	core.Required[map[string]string]("metadata"),
	core.Required[MetricStatusEnum]("status"),
)

// BillableMetric aggregates events into a billable quantity.
type BillableMetric struct{ core.Model }

func (r BillableMetric) ID() (string, error) { return core.Get[string](r.Model, "id") }

func (r BillableMetric) Name() (string, error) { return core.Get[string](r.Model, "name") }

func (r BillableMetric) Description() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "description")
}

func (r BillableMetric) Item() (ItemSlim, error) { return core.Get[ItemSlim](r.Model, "item") }

func (r BillableMetric) Metadata() (map[string]string, error) {
	return core.Get[map[string]string](r.Model, "metadata")
}

func (r BillableMetric) Status() (MetricStatusEnum, error) {
	return core.Get[MetricStatusEnum](r.Model, "status")
}

var metricCreateSchema = core.NewParamSchema("MetricCreateParams").
	Body(
		core.Required[string]("item_id"),
		core.Required[string]("name"),
		core.Required[string]("sql"),
		core.RequiredNullable[string]("description"),
		core.Nullable[map[string]string]("metadata"),
	)

// MetricCreateParams is the body of MetricService.Create.
type MetricCreateParams struct{ core.Params }

// NewMetricCreateParams sets the required fields. The description starts out
// null.
func NewMetricCreateParams(itemID, name, sql string) *MetricCreateParams {
	p := &MetricCreateParams{core.NewParams(metricCreateSchema, Codec())}
	core.Put(&p.Params, core.BodyBucket, "item_id", itemID)
	core.Put(&p.Params, core.BodyBucket, "name", name)
	core.Put(&p.Params, core.BodyBucket, "sql", sql)
	core.PutOpt(&p.Params, core.BodyBucket, "description", core.NullOf[string]())
	return p
}

func (p *MetricCreateParams) WithDescription(v core.Opt[string]) *MetricCreateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "description", v)
	return p
}

func (p *MetricCreateParams) WithMetadata(v core.Opt[map[string]string]) *MetricCreateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "metadata", v)
	return p
}

var metricUpdateSchema = core.NewParamSchema("MetricUpdateParams").
	Path("metric_id").
	Body(core.Nullable[map[string]string]("metadata"))

// MetricUpdateParams is the body of MetricService.Update. A null metadata
// clears every key.
type MetricUpdateParams struct{ core.Params }

func NewMetricUpdateParams() *MetricUpdateParams {
	return &MetricUpdateParams{core.NewParams(metricUpdateSchema, Codec())}
}

func (p *MetricUpdateParams) WithMetadata(v core.Opt[map[string]string]) *MetricUpdateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "metadata", v)
	return p
}

var metricListSchema = core.NewParamSchema("MetricListParams").
	Query(createdAtFilters()...).
	Query(pageFilters()...)

type MetricListParams struct{ core.Params }

func NewMetricListParams() *MetricListParams {
	return &MetricListParams{core.NewParams(metricListSchema, Codec())}
}

func (p *MetricListParams) WithLimit(v core.Opt[int64]) *MetricListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "limit", v)
	return p
}

func registerMetrics(c *core.Codec) {
	core.RegisterEnum(c, MetricStatuses)
	core.RegisterModel(c, billableMetricSchema, func(m core.Model) BillableMetric { return BillableMetric{m} })
	core.RegisterPage[BillableMetric](c, "BillableMetricPage")
}
