package billing

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/reoring/billing-go/core"
	"github.com/reoring/billing-go/option"
)

// InvoiceService reads invoices and moves them through their lifecycle.
type InvoiceService struct {
	Options []option.RequestOption
}

func NewInvoiceService(opts ...option.RequestOption) (r InvoiceService) {
	r = InvoiceService{}
	r.Options = opts
	return
}

func (r *InvoiceService) Retrieve(ctx context.Context, invoiceID string, opts ...option.RequestOption) (Invoice, error) {
	opts = slices.Concat(r.Options, opts)
	return execute[Invoice](ctx, http.MethodGet, "invoices/{invoice_id}", pathParams("invoice_id", invoiceID), opts)
}

// List returns one page of invoices, newest first.
func (r *InvoiceService) List(ctx context.Context, query *InvoiceListParams, opts ...option.RequestOption) (core.Page[Invoice], error) {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewInvoiceListParams()
	}
	return execute[core.Page[Invoice]](ctx, http.MethodGet, "invoices", query.Params, opts)
}

func (r *InvoiceService) ListAutoPaging(query *InvoiceListParams, opts ...option.RequestOption) *core.Pager[Invoice] {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewInvoiceListParams()
	}
	return autoPager[Invoice](query.Params, "invoices", opts)
}

// Issue finalizes a draft invoice.
func (r *InvoiceService) Issue(ctx context.Context, invoiceID string, body *InvoiceIssueParams, opts ...option.RequestOption) (Invoice, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		body = NewInvoiceIssueParams()
	}
	p := withPath(body.Params, "invoice_id", invoiceID)
	return execute[Invoice](ctx, http.MethodPost, "invoices/{invoice_id}/issue", p, opts)
}

// Void voids an issued invoice.
func (r *InvoiceService) Void(ctx context.Context, invoiceID string, opts ...option.RequestOption) (Invoice, error) {
	opts = slices.Concat(r.Options, opts)
	return execute[Invoice](ctx, http.MethodPost, "invoices/{invoice_id}/void", pathParams("invoice_id", invoiceID), opts)
}

// MarkPaid records an external payment against an invoice.
func (r *InvoiceService) MarkPaid(ctx context.Context, invoiceID string, body *InvoiceMarkPaidParams, opts ...option.RequestOption) (Invoice, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		return Invoice{}, errMissingBody
	}
	p := withPath(body.Params, "invoice_id", invoiceID)
	return execute[Invoice](ctx, http.MethodPost, "invoices/{invoice_id}/mark_paid", p, opts)
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusSynced InvoiceStatus = "synced"
	InvoiceStatusVoid   InvoiceStatus = "void"
	InvoiceStatusDraft  InvoiceStatus = "draft"
)

var InvoiceStatuses = core.NewStringEnumSpec("InvoiceStatus",
	InvoiceStatusIssued,
	InvoiceStatusPaid,
	InvoiceStatusSynced,
	InvoiceStatusVoid,
	InvoiceStatusDraft,
)

type InvoiceStatusEnum = core.Enum[string, InvoiceStatus]

var lineItemSchema = core.NewSchema("InvoiceLineItem",
	core.Required[string]("id"),
	core.Required[string]("name"),
	core.Required[float64]("quantity"),
	core.Required[string]("amount"),
	core.Required[string]("subtotal"),
	core.Required[time.Time]("start_date"),
	core.Required[time.Time]("end_date"),
	core.RequiredNullable[string]("grouping"),
	core.RequiredNullable[PriceUnion]("price"),
)

// InvoiceLineItem is one charge on an invoice. Amounts are decimal strings.
type InvoiceLineItem struct{ core.Model }

func (r InvoiceLineItem) ID() (string, error) { return core.Get[string](r.Model, "id") }

func (r InvoiceLineItem) Name() (string, error) { return core.Get[string](r.Model, "name") }

func (r InvoiceLineItem) Quantity() (float64, error) {
	return core.Get[float64](r.Model, "quantity")
}

func (r InvoiceLineItem) Amount() (string, error) {
	return core.Get[string](r.Model, "amount")
}

func (r InvoiceLineItem) Subtotal() (string, error) {
	return core.Get[string](r.Model, "subtotal")
}

func (r InvoiceLineItem) StartDate() (time.Time, error) {
	return core.Get[time.Time](r.Model, "start_date")
}

func (r InvoiceLineItem) EndDate() (time.Time, error) {
	return core.Get[time.Time](r.Model, "end_date")
}

func (r InvoiceLineItem) Grouping() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "grouping")
}

// Price is the price that produced the line, or null for adjustments.
func (r InvoiceLineItem) Price() (core.Opt[PriceUnion], error) {
	return core.GetOpt[PriceUnion](r.Model, "price")
}

var invoiceSchema = core.NewSchema("Invoice",
	core.Required[string]("id"),
	core.Required[string]("invoice_number"),
	core.Required[InvoiceStatusEnum]("status"),
	core.Required[string]("currency"),
	core.Required[string]("amount_due"),
	core.Required[string]("subtotal"),
	core.Required[string]("total"),
	core.Required[time.Time]("created_at"),
	core.Required[time.Time]("invoice_date"),
	core.RequiredNullable[time.Time]("due_date"),
	core.RequiredNullable[time.Time]("issued_at"),
	core.RequiredNullable[time.Time]("paid_at"),
	core.RequiredNullable[time.Time]("voided_at"),
	core.RequiredNullable[string]("hosted_invoice_url"),
	core.RequiredNullable[string]("invoice_pdf"),
	core.Required[CustomerMinified]("customer"),
	core.RequiredNullable[SubscriptionMinified]("subscription"),
	core.Required[[]InvoiceLineItem]("line_items"),
	core.Required[map[string]string]("metadata"),
)

// Invoice is a bill for a customer. Totals are decimal strings.
type Invoice struct{ core.Model }

func (r Invoice) ID() (string, error) { return core.Get[string](r.Model, "id") }

func (r Invoice) InvoiceNumber() (string, error) {
	return core.Get[string](r.Model, "invoice_number")
}

func (r Invoice) Status() (InvoiceStatusEnum, error) {
	return core.Get[InvoiceStatusEnum](r.Model, "status")
}

func (r Invoice) Currency() (string, error) { return core.Get[string](r.Model, "currency") }

func (r Invoice) AmountDue() (string, error) { return core.Get[string](r.Model, "amount_due") }

func (r Invoice) Subtotal() (string, error) { return core.Get[string](r.Model, "subtotal") }

func (r Invoice) Total() (string, error) { return core.Get[string](r.Model, "total") }

func (r Invoice) CreatedAt() (time.Time, error) {
	return core.Get[time.Time](r.Model, "created_at")
}

func (r Invoice) InvoiceDate() (time.Time, error) {
	return core.Get[time.Time](r.Model, "invoice_date")
}

func (r Invoice) DueDate() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](r.Model, "due_date")
}

func (r Invoice) IssuedAt() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](r.Model, "issued_at")
}

func (r Invoice) PaidAt() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](r.Model, "paid_at")
}

func (r Invoice) VoidedAt() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](r.Model, "voided_at")
}

func (r Invoice) HostedInvoiceURL() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "hosted_invoice_url")
}

func (r Invoice) InvoicePDF() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "invoice_pdf")
}

func (r Invoice) Customer() (CustomerMinified, error) {
	return core.Get[CustomerMinified](r.Model, "customer")
}

func (r Invoice) Subscription() (core.Opt[SubscriptionMinified], error) {
	return core.GetOpt[SubscriptionMinified](r.Model, "subscription")
}

func (r Invoice) LineItems() ([]InvoiceLineItem, error) {
	return core.Get[[]InvoiceLineItem](r.Model, "line_items")
}

func (r Invoice) Metadata() (map[string]string, error) {
	return core.Get[map[string]string](r.Model, "metadata")
}

var invoiceListSchema = core.NewParamSchema("InvoiceListParams").
	Query(pageFilters()...).
	Query(
		core.Nullable[string]("customer_id"),
		core.Nullable[string]("external_customer_id"),
		core.Nullable[string]("subscription_id"),
		core.Nullable[[]InvoiceStatusEnum]("status"),
		core.Nullable[time.Time]("invoice_date[gte]"),
		core.Nullable[time.Time]("invoice_date[lte]"),
	)

// InvoiceListParams filters InvoiceService.List. A status list renders as a
// repeated query key.
type InvoiceListParams struct{ core.Params }

func NewInvoiceListParams() *InvoiceListParams {
	return &InvoiceListParams{core.NewParams(invoiceListSchema, Codec())}
}

func (p *InvoiceListParams) WithCustomerID(v core.Opt[string]) *InvoiceListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "customer_id", v)
	return p
}

func (p *InvoiceListParams) WithExternalCustomerID(v core.Opt[string]) *InvoiceListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "external_customer_id", v)
	return p
}

func (p *InvoiceListParams) WithSubscriptionID(v core.Opt[string]) *InvoiceListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "subscription_id", v)
	return p
}

// WithStatus filters by any of the given statuses.
func (p *InvoiceListParams) WithStatus(statuses ...InvoiceStatus) *InvoiceListParams {
	out := make([]InvoiceStatusEnum, len(statuses))
	for i, s := range statuses {
		out[i] = InvoiceStatuses.FromRaw(string(s))
	}
	core.Put(&p.Params, core.QueryBucket, "status", out)
	return p
}

func (p *InvoiceListParams) WithInvoiceDateGTE(v core.Opt[time.Time]) *InvoiceListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "invoice_date[gte]", v)
	return p
}

func (p *InvoiceListParams) WithInvoiceDateLTE(v core.Opt[time.Time]) *InvoiceListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "invoice_date[lte]", v)
	return p
}

func (p *InvoiceListParams) WithLimit(v core.Opt[int64]) *InvoiceListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "limit", v)
	return p
}

var invoiceIssueSchema = core.NewParamSchema("InvoiceIssueParams").
	Path("invoice_id").
	Body(core.Optional[bool]("synchronous"))

// InvoiceIssueParams is the body of InvoiceService.Issue.
type InvoiceIssueParams struct{ core.Params }

func NewInvoiceIssueParams() *InvoiceIssueParams {
	return &InvoiceIssueParams{core.NewParams(invoiceIssueSchema, Codec())}
}

// WithSynchronous waits for payment collection before answering.
func (p *InvoiceIssueParams) WithSynchronous(v core.Opt[bool]) *InvoiceIssueParams {
	core.PutOpt(&p.Params, core.BodyBucket, "synchronous", v)
	return p
}

var invoiceMarkPaidSchema = core.NewParamSchema("InvoiceMarkPaidParams").
	Path("invoice_id").
	Body(
		core.Required[string]("payment_received_date"),
		core.Nullable[string]("external_id"),
		core.Nullable[string]("notes"),
	)

// InvoiceMarkPaidParams is the body of InvoiceService.MarkPaid.
type InvoiceMarkPaidParams struct{ core.Params }

// NewInvoiceMarkPaidParams records the payment date in the customer's local
// calendar.
func NewInvoiceMarkPaidParams(paymentReceivedDate time.Time) *InvoiceMarkPaidParams {
	p := &InvoiceMarkPaidParams{core.NewParams(invoiceMarkPaidSchema, Codec())}
	core.Put(&p.Params, core.BodyBucket, "payment_received_date", paymentReceivedDate.Format(time.DateOnly))
	return p
}

func (p *InvoiceMarkPaidParams) WithExternalID(v core.Opt[string]) *InvoiceMarkPaidParams {
	core.PutOpt(&p.Params, core.BodyBucket, "external_id", v)
	return p
}

func (p *InvoiceMarkPaidParams) WithNotes(v core.Opt[string]) *InvoiceMarkPaidParams {
	core.PutOpt(&p.Params, core.BodyBucket, "notes", v)
	return p
}

func registerInvoices(c *core.Codec) {
	core.RegisterEnum(c, InvoiceStatuses)
	core.RegisterModel(c, lineItemSchema, func(m core.Model) InvoiceLineItem { return InvoiceLineItem{m} })
	core.RegisterModel(c, invoiceSchema, func(m core.Model) Invoice { return Invoice{m} })
	core.RegisterPage[Invoice](c, "InvoicePage")
}
