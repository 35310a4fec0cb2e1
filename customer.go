package billing

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/reoring/billing-go/core"
	"github.com/reoring/billing-go/option"
)

// CustomerService manages customers and, through Credits, their prepaid
// credit balances.
type CustomerService struct {
	Options []option.RequestOption
	Credits CustomerCreditService
}

// NewCustomerService returns a service that applies opts to every request.
func NewCustomerService(opts ...option.RequestOption) (r CustomerService) {
	r = CustomerService{}
	r.Options = opts
	r.Credits = NewCustomerCreditService(opts...)
	return
}

// Create creates a customer.
func (r *CustomerService) Create(ctx context.Context, body *CustomerCreateParams, opts ...option.RequestOption) (Customer, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		return Customer{}, errMissingBody
	}
	return execute[Customer](ctx, http.MethodPost, "customers", body.Params, opts)
}

// Retrieve fetches one customer.
func (r *CustomerService) Retrieve(ctx context.Context, customerID string, opts ...option.RequestOption) (Customer, error) {
	opts = slices.Concat(r.Options, opts)
	return execute[Customer](ctx, http.MethodGet, "customers/{customer_id}", pathParams("customer_id", customerID), opts)
}

// RetrieveByExternalID fetches a customer by the id assigned in the caller's
// own system.
func (r *CustomerService) RetrieveByExternalID(ctx context.Context, externalCustomerID string, opts ...option.RequestOption) (Customer, error) {
	opts = slices.Concat(r.Options, opts)
	p := pathParams("external_customer_id", externalCustomerID)
	return execute[Customer](ctx, http.MethodGet, "customers/external_customer_id/{external_customer_id}", p, opts)
}

// Update changes the fields set in body; unset fields are left alone and
// fields set to null are cleared.
func (r *CustomerService) Update(ctx context.Context, customerID string, body *CustomerUpdateParams, opts ...option.RequestOption) (Customer, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		body = NewCustomerUpdateParams()
	}
	p := withPath(body.Params, "customer_id", customerID)
	return execute[Customer](ctx, http.MethodPut, "customers/{customer_id}", p, opts)
}

// List returns one page of customers.
func (r *CustomerService) List(ctx context.Context, query *CustomerListParams, opts ...option.RequestOption) (core.Page[Customer], error) {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewCustomerListParams()
	}
	return execute[core.Page[Customer]](ctx, http.MethodGet, "customers", query.Params, opts)
}

// ListAutoPaging iterates over every customer matching query.
func (r *CustomerService) ListAutoPaging(query *CustomerListParams, opts ...option.RequestOption) *core.Pager[Customer] {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewCustomerListParams()
	}
	return autoPager[Customer](query.Params, "customers", opts)
}

// Delete removes a customer. The API answers with an empty body.
func (r *CustomerService) Delete(ctx context.Context, customerID string, opts ...option.RequestOption) error {
	opts = slices.Concat(r.Options, opts)
	_, err := send(ctx, http.MethodDelete, "customers/{customer_id}", pathParams("customer_id", customerID), opts)
	return err
}

// PaymentProvider is the system that collects a customer's payments.
type PaymentProvider string

const (
	PaymentProviderQuickbooks    PaymentProvider = "quickbooks"
	PaymentProviderBillCom       PaymentProvider = "bill.com"
	PaymentProviderStripeCharge  PaymentProvider = "stripe_charge"
	PaymentProviderStripeInvoice PaymentProvider = "stripe_invoice"
	PaymentProviderNetsuite      PaymentProvider = "netsuite"
)

// PaymentProviders is the lookup table of PaymentProvider.
var PaymentProviders = core.NewStringEnumSpec("PaymentProvider",
	PaymentProviderQuickbooks,
	PaymentProviderBillCom,
	PaymentProviderStripeCharge,
	PaymentProviderStripeInvoice,
	PaymentProviderNetsuite,
)

type PaymentProviderEnum = core.Enum[string, PaymentProvider]

// AutoIssuance says whether draft invoices are issued without review. Its
// wire form is a bare boolean.
type AutoIssuance int

const (
	AutoIssuanceManual AutoIssuance = iota
	AutoIssuanceAutomatic
)

// AutoIssuances is the lookup table of AutoIssuance.
var AutoIssuances = core.NewEnumSpec("AutoIssuance", map[AutoIssuance]bool{
	AutoIssuanceManual:    false,
	AutoIssuanceAutomatic: true,
})

type AutoIssuanceEnum = core.Enum[bool, AutoIssuance]

var addressSchema = core.NewSchema("Address",
	core.RequiredNullable[string]("city"),
	core.RequiredNullable[string]("country"),
	core.RequiredNullable[string]("line1"),
	core.RequiredNullable[string]("line2"),
	core.RequiredNullable[string]("postal_code"),
	core.RequiredNullable[string]("state"),
)

// Address is a postal address. Every part may be null.
type Address struct{ core.Model }

// NewAddress builds an address with every part null; set parts with the
// With methods.
func NewAddress() Address {
	b := core.NewBuilder(addressSchema, Codec())
	for _, f := range addressSchema.Fields() {
		core.SetOpt(b, f.Name, core.NullOf[string]())
	}
	return Address{b.MustBuild()}
}

func (r Address) City() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "city")
}

func (r Address) Country() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "country")
}

func (r Address) Line1() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "line1")
}

func (r Address) Line2() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "line2")
}

func (r Address) PostalCode() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "postal_code")
}

func (r Address) State() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "state")
}

func (r Address) WithCity(v string) Address { return Address{core.With(r.Model, "city", v)} }

func (r Address) WithCountry(v string) Address { return Address{core.With(r.Model, "country", v)} }

func (r Address) WithLine1(v string) Address { return Address{core.With(r.Model, "line1", v)} }

func (r Address) WithLine2(v string) Address { return Address{core.With(r.Model, "line2", v)} }

func (r Address) WithPostalCode(v string) Address {
	return Address{core.With(r.Model, "postal_code", v)}
}

func (r Address) WithState(v string) Address { return Address{core.With(r.Model, "state", v)} }

var customerSchema = core.NewSchema("Customer",
	core.Required[string]("id"),
	core.RequiredNullable[string]("external_customer_id"),
	core.Required[string]("name"),
	core.Required[string]("email"),
	core.RequiredNullable[string]("currency"),
	core.Required[time.Time]("created_at"),
	core.Required[string]("balance"),
	core.Required[bool]("auto_collection"),
	core.Nullable[AutoIssuanceEnum]("auto_issuance"),
	core.RequiredNullable[PaymentProviderEnum]("payment_provider"),
	core.RequiredNullable[string]("payment_provider_id"),
	core.RequiredNullable[Address]("billing_address"),
	core.RequiredNullable[Address]("shipping_address"),
	core.Required[string]("timezone"),
	core.Required[map[string]string]("metadata"),
	core.RequiredNullable[string]("portal_url"),
	core.Required[bool]("email_delivery"),
)

// Customer is a billable entity. Balance is a decimal string in the
// customer's currency.
type Customer struct{ core.Model }

func (r Customer) ID() (string, error) { return core.Get[string](r.Model, "id") }

func (r Customer) ExternalCustomerID() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "external_customer_id")
}

func (r Customer) Name() (string, error) { return core.Get[string](r.Model, "name") }

func (r Customer) Email() (string, error) { return core.Get[string](r.Model, "email") }

func (r Customer) Currency() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "currency")
}

func (r Customer) CreatedAt() (time.Time, error) {
	return core.Get[time.Time](r.Model, "created_at")
}

func (r Customer) Balance() (string, error) { return core.Get[string](r.Model, "balance") }

func (r Customer) AutoCollection() (bool, error) {
	return core.Get[bool](r.Model, "auto_collection")
}

func (r Customer) AutoIssuance() (core.Opt[AutoIssuanceEnum], error) {
	return core.GetOpt[AutoIssuanceEnum](r.Model, "auto_issuance")
}

func (r Customer) PaymentProvider() (core.Opt[PaymentProviderEnum], error) {
	return core.GetOpt[PaymentProviderEnum](r.Model, "payment_provider")
}

func (r Customer) PaymentProviderID() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "payment_provider_id")
}

func (r Customer) BillingAddress() (core.Opt[Address], error) {
	return core.GetOpt[Address](r.Model, "billing_address")
}

func (r Customer) ShippingAddress() (core.Opt[Address], error) {
	return core.GetOpt[Address](r.Model, "shipping_address")
}

func (r Customer) Timezone() (string, error) { return core.Get[string](r.Model, "timezone") }

func (r Customer) Metadata() (map[string]string, error) {
	return core.Get[map[string]string](r.Model, "metadata")
}

func (r Customer) PortalURL() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "portal_url")
}

func (r Customer) EmailDelivery() (bool, error) {
	return core.Get[bool](r.Model, "email_delivery")
}

// customerBodyFields are the writable customer fields shared by create and
// update.
func customerBodyFields() []core.FieldDesc {
	return []core.FieldDesc{
		core.Nullable[string]("external_customer_id"),
		core.Nullable[string]("currency"),
		core.Nullable[string]("timezone"),
		core.Nullable[bool]("auto_collection"),
		core.Nullable[AutoIssuanceEnum]("auto_issuance"),
		core.Nullable[PaymentProviderEnum]("payment_provider"),
		core.Nullable[string]("payment_provider_id"),
		core.Nullable[Address]("billing_address"),
		core.Nullable[Address]("shipping_address"),
		core.Nullable[map[string]string]("metadata"),
		core.Nullable[bool]("email_delivery"),
	}
}

var customerCreateSchema = core.NewParamSchema("CustomerCreateParams").
	Body(core.Required[string]("email"), core.Required[string]("name")).
	Body(customerBodyFields()...)

// CustomerCreateParams is the body of CustomerService.Create.
type CustomerCreateParams struct{ core.Params }

func NewCustomerCreateParams(email, name string) *CustomerCreateParams {
	p := &CustomerCreateParams{core.NewParams(customerCreateSchema, Codec())}
	core.Put(&p.Params, core.BodyBucket, "email", email)
	core.Put(&p.Params, core.BodyBucket, "name", name)
	return p
}

func (p *CustomerCreateParams) WithExternalCustomerID(v core.Opt[string]) *CustomerCreateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "external_customer_id", v)
	return p
}

func (p *CustomerCreateParams) WithCurrency(v core.Opt[string]) *CustomerCreateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "currency", v)
	return p
}

func (p *CustomerCreateParams) WithTimezone(v core.Opt[string]) *CustomerCreateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "timezone", v)
	return p
}

func (p *CustomerCreateParams) WithAutoIssuance(v core.Opt[AutoIssuanceEnum]) *CustomerCreateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "auto_issuance", v)
	return p
}

func (p *CustomerCreateParams) WithPaymentProvider(v core.Opt[PaymentProviderEnum]) *CustomerCreateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "payment_provider", v)
	return p
}

func (p *CustomerCreateParams) WithBillingAddress(v core.Opt[Address]) *CustomerCreateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "billing_address", v)
	return p
}

func (p *CustomerCreateParams) WithMetadata(v core.Opt[map[string]string]) *CustomerCreateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "metadata", v)
	return p
}

var customerUpdateSchema = core.NewParamSchema("CustomerUpdateParams").
	Path("customer_id").
	Body(core.Nullable[string]("email"), core.Nullable[string]("name")).
	Body(customerBodyFields()...)

// CustomerUpdateParams is the body of CustomerService.Update.
type CustomerUpdateParams struct{ core.Params }

func NewCustomerUpdateParams() *CustomerUpdateParams {
	return &CustomerUpdateParams{core.NewParams(customerUpdateSchema, Codec())}
}

func (p *CustomerUpdateParams) WithEmail(v core.Opt[string]) *CustomerUpdateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "email", v)
	return p
}

func (p *CustomerUpdateParams) WithName(v core.Opt[string]) *CustomerUpdateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "name", v)
	return p
}

func (p *CustomerUpdateParams) WithPaymentProvider(v core.Opt[PaymentProviderEnum]) *CustomerUpdateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "payment_provider", v)
	return p
}

func (p *CustomerUpdateParams) WithBillingAddress(v core.Opt[Address]) *CustomerUpdateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "billing_address", v)
	return p
}

func (p *CustomerUpdateParams) WithMetadata(v core.Opt[map[string]string]) *CustomerUpdateParams {
	core.PutOpt(&p.Params, core.BodyBucket, "metadata", v)
	return p
}

var customerListSchema = core.NewParamSchema("CustomerListParams").
	Query(createdAtFilters()...).
	Query(pageFilters()...)

// CustomerListParams filters CustomerService.List.
type CustomerListParams struct{ core.Params }

func NewCustomerListParams() *CustomerListParams {
	return &CustomerListParams{core.NewParams(customerListSchema, Codec())}
}

func (p *CustomerListParams) WithCreatedAtGTE(v core.Opt[time.Time]) *CustomerListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "created_at[gte]", v)
	return p
}

func (p *CustomerListParams) WithCreatedAtLT(v core.Opt[time.Time]) *CustomerListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "created_at[lt]", v)
	return p
}

func (p *CustomerListParams) WithCursor(v core.Opt[string]) *CustomerListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "cursor", v)
	return p
}

func (p *CustomerListParams) WithLimit(v core.Opt[int64]) *CustomerListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "limit", v)
	return p
}

func registerCustomers(c *core.Codec) {
	core.RegisterEnum(c, PaymentProviders)
	core.RegisterEnum(c, AutoIssuances)
	core.RegisterModel(c, addressSchema, func(m core.Model) Address { return Address{m} })
	core.RegisterModel(c, customerSchema, func(m core.Model) Customer { return Customer{m} })
	core.RegisterPage[Customer](c, "CustomerPage")
}
