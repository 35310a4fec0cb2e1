package billing

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/reoring/billing-go/core"
	"github.com/reoring/billing-go/option"
)

// SubscriptionService reads and cancels subscriptions.
type SubscriptionService struct {
	Options []option.RequestOption
}

func NewSubscriptionService(opts ...option.RequestOption) (r SubscriptionService) {
	r = SubscriptionService{}
	r.Options = opts
	return
}

func (r *SubscriptionService) Retrieve(ctx context.Context, subscriptionID string, opts ...option.RequestOption) (Subscription, error) {
	opts = slices.Concat(r.Options, opts)
	return execute[Subscription](ctx, http.MethodGet, "subscriptions/{subscription_id}", pathParams("subscription_id", subscriptionID), opts)
}

func (r *SubscriptionService) List(ctx context.Context, query *SubscriptionListParams, opts ...option.RequestOption) (core.Page[Subscription], error) {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewSubscriptionListParams()
	}
	return execute[core.Page[Subscription]](ctx, http.MethodGet, "subscriptions", query.Params, opts)
}

func (r *SubscriptionService) ListAutoPaging(query *SubscriptionListParams, opts ...option.RequestOption) *core.Pager[Subscription] {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewSubscriptionListParams()
	}
	return autoPager[Subscription](query.Params, "subscriptions", opts)
}

// Cancel schedules or performs the cancellation of a subscription.
func (r *SubscriptionService) Cancel(ctx context.Context, subscriptionID string, body *SubscriptionCancelParams, opts ...option.RequestOption) (Subscription, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		return Subscription{}, errMissingBody
	}
	p := withPath(body.Params, "subscription_id", subscriptionID)
	return execute[Subscription](ctx, http.MethodPost, "subscriptions/{subscription_id}/cancel", p, opts)
}

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusEnded    SubscriptionStatus = "ended"
	SubscriptionStatusUpcoming SubscriptionStatus = "upcoming"
)

var SubscriptionStatuses = core.NewStringEnumSpec("SubscriptionStatus",
	SubscriptionStatusActive,
	SubscriptionStatusEnded,
	SubscriptionStatusUpcoming,
)

type SubscriptionStatusEnum = core.Enum[string, SubscriptionStatus]

// CancelOption is when a cancellation takes effect.
type CancelOption string

const (
	CancelOptionEndOfSubscriptionTerm CancelOption = "end_of_subscription_term"
	CancelOptionImmediate             CancelOption = "immediate"
	CancelOptionRequestedDate         CancelOption = "requested_date"
)

var CancelOptions = core.NewStringEnumSpec("CancelOption",
	CancelOptionEndOfSubscriptionTerm,
	CancelOptionImmediate,
	CancelOptionRequestedDate,
)

type CancelOptionEnum = core.Enum[string, CancelOption]

var subscriptionSchema = core.NewSchema("Subscription",
	core.Required[string]("id"),
	core.Required[SubscriptionStatusEnum]("status"),
	core.Required[CustomerMinified]("customer"),
	core.Required[PlanMinified]("plan"),
	core.Required[time.Time]("created_at"),
	core.Required[time.Time]("start_date"),
	core.RequiredNullable[time.Time]("end_date"),
	core.RequiredNullable[time.Time]("current_billing_period_start_date"),
	core.RequiredNullable[time.Time]("current_billing_period_end_date"),
	core.Required[bool]("auto_collection"),
	core.Required[int64]("net_terms"),
	core.Required[int64]("billing_cycle_day"),
	core.Required[map[string]string]("metadata"),
)

// Subscription ties a customer to a plan.
type Subscription struct{ core.Model }

func (r Subscription) ID() (string, error) { return core.Get[string](r.Model, "id") }

func (r Subscription) Status() (SubscriptionStatusEnum, error) {
	return core.Get[SubscriptionStatusEnum](r.Model, "status")
}

func (r Subscription) Customer() (CustomerMinified, error) {
	return core.Get[CustomerMinified](r.Model, "customer")
}

func (r Subscription) Plan() (PlanMinified, error) {
	return core.Get[PlanMinified](r.Model, "plan")
}

func (r Subscription) CreatedAt() (time.Time, error) {
	return core.Get[time.Time](r.Model, "created_at")
}

func (r Subscription) StartDate() (time.Time, error) {
	return core.Get[time.Time](r.Model, "start_date")
}

func (r Subscription) EndDate() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](r.Model, "end_date")
}

func (r Subscription) CurrentBillingPeriodStartDate() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](r.Model, "current_billing_period_start_date")
}

func (r Subscription) CurrentBillingPeriodEndDate() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](r.Model, "current_billing_period_end_date")
}

func (r Subscription) AutoCollection() (bool, error) {
	return core.Get[bool](r.Model, "auto_collection")
}

func (r Subscription) NetTerms() (int64, error) {
	return core.Get[int64](r.Model, "net_terms")
}

func (r Subscription) BillingCycleDay() (int64, error) {
	return core.Get[int64](r.Model, "billing_cycle_day")
}

func (r Subscription) Metadata() (map[string]string, error) {
	return core.Get[map[string]string](r.Model, "metadata")
}

var subscriptionListSchema = core.NewParamSchema("SubscriptionListParams").
	Query(createdAtFilters()...).
	Query(pageFilters()...).
	Query(
		core.Nullable[string]("customer_id"),
		core.Nullable[string]("external_customer_id"),
		core.Nullable[SubscriptionStatusEnum]("status"),
	)

type SubscriptionListParams struct{ core.Params }

func NewSubscriptionListParams() *SubscriptionListParams {
	return &SubscriptionListParams{core.NewParams(subscriptionListSchema, Codec())}
}

func (p *SubscriptionListParams) WithCustomerID(v core.Opt[string]) *SubscriptionListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "customer_id", v)
	return p
}

func (p *SubscriptionListParams) WithExternalCustomerID(v core.Opt[string]) *SubscriptionListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "external_customer_id", v)
	return p
}

func (p *SubscriptionListParams) WithStatus(v core.Opt[SubscriptionStatusEnum]) *SubscriptionListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "status", v)
	return p
}

func (p *SubscriptionListParams) WithLimit(v core.Opt[int64]) *SubscriptionListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "limit", v)
	return p
}

var subscriptionCancelSchema = core.NewParamSchema("SubscriptionCancelParams").
	Path("subscription_id").
	Body(
		core.Required[CancelOptionEnum]("cancel_option"),
		core.Nullable[time.Time]("cancellation_date"),
		core.Nullable[bool]("allow_invoice_credit_or_void"),
	)

// SubscriptionCancelParams is the body of SubscriptionService.Cancel.
type SubscriptionCancelParams struct{ core.Params }

func NewSubscriptionCancelParams(cancel CancelOption) *SubscriptionCancelParams {
	p := &SubscriptionCancelParams{core.NewParams(subscriptionCancelSchema, Codec())}
	core.Put(&p.Params, core.BodyBucket, "cancel_option", CancelOptions.FromRaw(string(cancel)))
	return p
}

// WithCancellationDate is required with CancelOptionRequestedDate.
func (p *SubscriptionCancelParams) WithCancellationDate(v core.Opt[time.Time]) *SubscriptionCancelParams {
	core.PutOpt(&p.Params, core.BodyBucket, "cancellation_date", v)
	return p
}

func (p *SubscriptionCancelParams) WithAllowInvoiceCreditOrVoid(v core.Opt[bool]) *SubscriptionCancelParams {
	core.PutOpt(&p.Params, core.BodyBucket, "allow_invoice_credit_or_void", v)
	return p
}

func registerSubscriptions(c *core.Codec) {
	core.RegisterEnum(c, SubscriptionStatuses)
	core.RegisterEnum(c, CancelOptions)
	core.RegisterModel(c, subscriptionSchema, func(m core.Model) Subscription { return Subscription{m} })
	core.RegisterPage[Subscription](c, "SubscriptionPage")
}
