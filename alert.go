package billing

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/reoring/billing-go/core"
	"github.com/reoring/billing-go/option"
)

// AlertService manages alerts on credit balances, usage and cost.
//
// Build it with NewAlertService, or use Client.Alerts.
type AlertService struct {
	Options []option.RequestOption
}

// NewAlertService returns a service that applies opts to every request,
// before any per-call options.
func NewAlertService(opts ...option.RequestOption) (r AlertService) {
	r = AlertService{}
	r.Options = opts
	return
}

// Retrieve fetches one alert.
func (r *AlertService) Retrieve(ctx context.Context, alertID string, opts ...option.RequestOption) (Alert, error) {
	opts = slices.Concat(r.Options, opts)
	return execute[Alert](ctx, http.MethodGet, "alerts/{alert_id}", pathParams("alert_id", alertID), opts)
}

// Update replaces the thresholds of an alert configuration.
func (r *AlertService) Update(ctx context.Context, alertConfigurationID string, body *AlertUpdateParams, opts ...option.RequestOption) (Alert, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		return Alert{}, errMissingBody
	}
	p := withPath(body.Params, "alert_configuration_id", alertConfigurationID)
	return execute[Alert](ctx, http.MethodPut, "alerts/{alert_configuration_id}", p, opts)
}

// List returns one page of alerts.
func (r *AlertService) List(ctx context.Context, query *AlertListParams, opts ...option.RequestOption) (core.Page[Alert], error) {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewAlertListParams()
	}
	return execute[core.Page[Alert]](ctx, http.MethodGet, "alerts", query.Params, opts)
}

// ListAutoPaging iterates over every alert matching query.
func (r *AlertService) ListAutoPaging(query *AlertListParams, opts ...option.RequestOption) *core.Pager[Alert] {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewAlertListParams()
	}
	return autoPager[Alert](query.Params, "alerts", opts)
}

// CreateForCustomer creates a credit balance alert for a customer.
func (r *AlertService) CreateForCustomer(ctx context.Context, customerID string, body *AlertCreateForCustomerParams, opts ...option.RequestOption) (Alert, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		return Alert{}, errMissingBody
	}
	p := withPath(body.Params, "customer_id", customerID)
	return execute[Alert](ctx, http.MethodPost, "alerts/customer_id/{customer_id}", p, opts)
}

// CreateForExternalCustomer creates a credit balance alert for a customer
// addressed by its external id.
func (r *AlertService) CreateForExternalCustomer(ctx context.Context, externalCustomerID string, body *AlertCreateForCustomerParams, opts ...option.RequestOption) (Alert, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		return Alert{}, errMissingBody
	}
	p := withPath(body.Params, "external_customer_id", externalCustomerID)
	return execute[Alert](ctx, http.MethodPost, "alerts/external_customer_id/{external_customer_id}", p, opts)
}

// CreateForSubscription creates a usage or cost alert for a subscription.
func (r *AlertService) CreateForSubscription(ctx context.Context, subscriptionID string, body *AlertCreateForSubscriptionParams, opts ...option.RequestOption) (Alert, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		return Alert{}, errMissingBody
	}
	p := withPath(body.Params, "subscription_id", subscriptionID)
	return execute[Alert](ctx, http.MethodPost, "alerts/subscription_id/{subscription_id}", p, opts)
}

// Enable turns an alert configuration back on.
func (r *AlertService) Enable(ctx context.Context, alertConfigurationID string, query *AlertToggleParams, opts ...option.RequestOption) (Alert, error) {
	return r.toggle(ctx, "alerts/{alert_configuration_id}/enable", alertConfigurationID, query, opts)
}

// Disable turns an alert configuration off.
func (r *AlertService) Disable(ctx context.Context, alertConfigurationID string, query *AlertToggleParams, opts ...option.RequestOption) (Alert, error) {
	return r.toggle(ctx, "alerts/{alert_configuration_id}/disable", alertConfigurationID, query, opts)
}

func (r *AlertService) toggle(ctx context.Context, template, id string, query *AlertToggleParams, opts []option.RequestOption) (Alert, error) {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewAlertToggleParams()
	}
	p := withPath(query.Params, "alert_configuration_id", id)
	return execute[Alert](ctx, http.MethodPost, template, p, opts)
}

// AlertType is the condition an alert watches.
type AlertType string

const (
	AlertTypeCreditBalanceDepleted  AlertType = "credit_balance_depleted"
	AlertTypeCreditBalanceDropped   AlertType = "credit_balance_dropped"
	AlertTypeCreditBalanceRecovered AlertType = "credit_balance_recovered"
	AlertTypeUsageExceeded          AlertType = "usage_exceeded"
	AlertTypeCostExceeded           AlertType = "cost_exceeded"
)

// AlertTypes is the lookup table of AlertType.
var AlertTypes = core.NewStringEnumSpec("AlertType",
	AlertTypeCreditBalanceDepleted,
	AlertTypeCreditBalanceDropped,
	AlertTypeCreditBalanceRecovered,
	AlertTypeUsageExceeded,
	AlertTypeCostExceeded,
)

// AlertTypeEnum is an open AlertType as seen on the wire.
type AlertTypeEnum = core.Enum[string, AlertType]

var thresholdSchema = core.NewSchema("Threshold",
	core.Required[float64]("value"),
	core.Nullable[string]("note"),
)

// Threshold is a value at which an alert fires. For credit balance alerts it
// is a balance; for usage and cost alerts it is a total.
type Threshold struct{ core.Model }

// NewThreshold builds a threshold.
func NewThreshold(value float64) Threshold {
	b := core.NewBuilder(thresholdSchema, Codec())
	core.Set(b, "value", value)
	return Threshold{b.MustBuild()}
}

func (r Threshold) Value() (float64, error) { return core.Get[float64](r.Model, "value") }

func (r Threshold) Note() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "note")
}

// WithNote returns a copy with note replaced.
func (r Threshold) WithNote(v core.Opt[string]) Threshold {
	return Threshold{core.WithOpt(r.Model, "note", v)}
}

var alertSchema = core.NewSchema("Alert",
	core.Required[string]("id"),
	core.Required[time.Time]("created_at"),
	core.RequiredNullable[string]("currency"),
	core.RequiredNullable[CustomerMinified]("customer"),
	core.Required[bool]("enabled"),
	core.RequiredNullable[MetricMinified]("metric"),
	core.RequiredNullable[PlanMinified]("plan"),
	core.RequiredNullable[SubscriptionMinified]("subscription"),
	core.RequiredNullable[[]Threshold]("thresholds"),
	core.Required[AlertTypeEnum]("type"),
)

// Alert notifies when a customer's credit balance or a subscription's usage
// or cost crosses a threshold.
type Alert struct{ core.Model }

func (r Alert) ID() (string, error) { return core.Get[string](r.Model, "id") }

func (r Alert) CreatedAt() (time.Time, error) {
	return core.Get[time.Time](r.Model, "created_at")
}

func (r Alert) Currency() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "currency")
}

func (r Alert) Customer() (core.Opt[CustomerMinified], error) {
	return core.GetOpt[CustomerMinified](r.Model, "customer")
}

func (r Alert) Enabled() (bool, error) { return core.Get[bool](r.Model, "enabled") }

func (r Alert) Metric() (core.Opt[MetricMinified], error) {
	return core.GetOpt[MetricMinified](r.Model, "metric")
}

func (r Alert) Plan() (core.Opt[PlanMinified], error) {
	return core.GetOpt[PlanMinified](r.Model, "plan")
}

func (r Alert) Subscription() (core.Opt[SubscriptionMinified], error) {
	return core.GetOpt[SubscriptionMinified](r.Model, "subscription")
}

func (r Alert) Thresholds() (core.Opt[[]Threshold], error) {
	return core.GetOpt[[]Threshold](r.Model, "thresholds")
}

func (r Alert) Type() (AlertTypeEnum, error) {
	return core.Get[AlertTypeEnum](r.Model, "type")
}

var alertUpdateSchema = core.NewParamSchema("AlertUpdateParams").
	Path("alert_configuration_id").
	Body(core.Required[[]Threshold]("thresholds"))

// AlertUpdateParams is the body of AlertService.Update.
type AlertUpdateParams struct{ core.Params }

// NewAlertUpdateParams sets the thresholds that replace the current ones.
func NewAlertUpdateParams(thresholds ...Threshold) *AlertUpdateParams {
	p := &AlertUpdateParams{core.NewParams(alertUpdateSchema, Codec())}
	if thresholds != nil {
		core.Put(&p.Params, core.BodyBucket, "thresholds", thresholds)
	}
	return p
}

func (p *AlertUpdateParams) Thresholds() ([]Threshold, error) {
	return core.ParamGet[[]Threshold](p.Params, core.BodyBucket, "thresholds")
}

var alertListSchema = core.NewParamSchema("AlertListParams").
	Query(createdAtFilters()...).
	Query(pageFilters()...).
	Query(
		core.Nullable[string]("customer_id"),
		core.Nullable[string]("external_customer_id"),
		core.Nullable[string]("subscription_id"),
	)

// AlertListParams filters AlertService.List.
type AlertListParams struct{ core.Params }

func NewAlertListParams() *AlertListParams {
	return &AlertListParams{core.NewParams(alertListSchema, Codec())}
}

func (p *AlertListParams) WithCreatedAtGT(v core.Opt[time.Time]) *AlertListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "created_at[gt]", v)
	return p
}

func (p *AlertListParams) WithCreatedAtGTE(v core.Opt[time.Time]) *AlertListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "created_at[gte]", v)
	return p
}

func (p *AlertListParams) WithCreatedAtLT(v core.Opt[time.Time]) *AlertListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "created_at[lt]", v)
	return p
}

func (p *AlertListParams) WithCreatedAtLTE(v core.Opt[time.Time]) *AlertListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "created_at[lte]", v)
	return p
}

func (p *AlertListParams) WithCursor(v core.Opt[string]) *AlertListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "cursor", v)
	return p
}

// WithLimit sets the page size. Limit is not nullable, so a null behaves
// like leaving it unset.
func (p *AlertListParams) WithLimit(v core.Opt[int64]) *AlertListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "limit", v)
	return p
}

func (p *AlertListParams) WithCustomerID(v core.Opt[string]) *AlertListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "customer_id", v)
	return p
}

func (p *AlertListParams) WithExternalCustomerID(v core.Opt[string]) *AlertListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "external_customer_id", v)
	return p
}

func (p *AlertListParams) WithSubscriptionID(v core.Opt[string]) *AlertListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "subscription_id", v)
	return p
}

func (p *AlertListParams) Limit() (core.Opt[int64], error) {
	return core.ParamGetOpt[int64](p.Params, core.QueryBucket, "limit")
}

func (p *AlertListParams) SubscriptionID() (core.Opt[string], error) {
	return core.ParamGetOpt[string](p.Params, core.QueryBucket, "subscription_id")
}

var alertCreateForCustomerSchema = core.NewParamSchema("AlertCreateForCustomerParams").
	Body(
		core.Required[string]("currency"),
		core.Required[AlertTypeEnum]("type"),
		core.Nullable[[]Threshold]("thresholds"),
	)

// AlertCreateForCustomerParams is the body shared by the customer and
// external customer create calls.
type AlertCreateForCustomerParams struct{ core.Params }

func NewAlertCreateForCustomerParams(currency string, typ AlertType) *AlertCreateForCustomerParams {
	p := &AlertCreateForCustomerParams{core.NewParams(alertCreateForCustomerSchema, Codec())}
	core.Put(&p.Params, core.BodyBucket, "currency", currency)
	core.Put(&p.Params, core.BodyBucket, "type", AlertTypes.FromRaw(string(typ)))
	return p
}

func (p *AlertCreateForCustomerParams) WithThresholds(v core.Opt[[]Threshold]) *AlertCreateForCustomerParams {
	core.PutOpt(&p.Params, core.BodyBucket, "thresholds", v)
	return p
}

var alertCreateForSubscriptionSchema = core.NewParamSchema("AlertCreateForSubscriptionParams").
	Path("subscription_id").
	Body(
		core.Required[[]Threshold]("thresholds"),
		core.Required[AlertTypeEnum]("type"),
		core.Nullable[string]("metric_id"),
	)

// AlertCreateForSubscriptionParams is the body of
// AlertService.CreateForSubscription.
type AlertCreateForSubscriptionParams struct{ core.Params }

func NewAlertCreateForSubscriptionParams(typ AlertType, thresholds ...Threshold) *AlertCreateForSubscriptionParams {
	p := &AlertCreateForSubscriptionParams{core.NewParams(alertCreateForSubscriptionSchema, Codec())}
	if thresholds != nil {
		core.Put(&p.Params, core.BodyBucket, "thresholds", thresholds)
	}
	core.Put(&p.Params, core.BodyBucket, "type", AlertTypes.FromRaw(string(typ)))
	return p
}

func (p *AlertCreateForSubscriptionParams) WithMetricID(v core.Opt[string]) *AlertCreateForSubscriptionParams {
	core.PutOpt(&p.Params, core.BodyBucket, "metric_id", v)
	return p
}

var alertToggleSchema = core.NewParamSchema("AlertToggleParams").
	Path("alert_configuration_id").
	Query(core.Nullable[string]("subscription_id"))

// AlertToggleParams is the query of AlertService.Enable and Disable.
type AlertToggleParams struct{ core.Params }

func NewAlertToggleParams() *AlertToggleParams {
	return &AlertToggleParams{core.NewParams(alertToggleSchema, Codec())}
}

func (p *AlertToggleParams) WithSubscriptionID(v core.Opt[string]) *AlertToggleParams {
	core.PutOpt(&p.Params, core.QueryBucket, "subscription_id", v)
	return p
}

func registerAlerts(c *core.Codec) {
	core.RegisterEnum(c, AlertTypes)
	core.RegisterModel(c, thresholdSchema, func(m core.Model) Threshold { return Threshold{m} })
	core.RegisterModel(c, alertSchema, func(m core.Model) Alert { return Alert{m} })
	core.RegisterPage[Alert](c, "AlertPage")
}
