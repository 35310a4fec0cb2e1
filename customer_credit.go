package billing

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/reoring/billing-go/core"
	"github.com/reoring/billing-go/option"
)

// CustomerCreditService reads credit balances and the credit ledger of a
// customer.
type CustomerCreditService struct {
	Options []option.RequestOption
}

// NewCustomerCreditService returns a service that applies opts to every
// request.
func NewCustomerCreditService(opts ...option.RequestOption) (r CustomerCreditService) {
	r = CustomerCreditService{}
	r.Options = opts
	return
}

// List returns one page of unexpired credit blocks.
func (r *CustomerCreditService) List(ctx context.Context, customerID string, query *CreditListParams, opts ...option.RequestOption) (core.Page[CreditBalance], error) {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewCreditListParams()
	}
	p := withPath(query.Params, "customer_id", customerID)
	return execute[core.Page[CreditBalance]](ctx, http.MethodGet, "customers/{customer_id}/credits", p, opts)
}

// ListAutoPaging iterates over every credit block.
func (r *CustomerCreditService) ListAutoPaging(customerID string, query *CreditListParams, opts ...option.RequestOption) *core.Pager[CreditBalance] {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewCreditListParams()
	}
	p := withPath(query.Params, "customer_id", customerID)
	return autoPager[CreditBalance](p, "customers/{customer_id}/credits", opts)
}

// ListLedger returns one page of ledger entries, newest first.
func (r *CustomerCreditService) ListLedger(ctx context.Context, customerID string, query *LedgerListParams, opts ...option.RequestOption) (core.Page[LedgerEntryUnion], error) {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewLedgerListParams()
	}
	p := withPath(query.Params, "customer_id", customerID)
	return execute[core.Page[LedgerEntryUnion]](ctx, http.MethodGet, "customers/{customer_id}/credits/ledger", p, opts)
}

// ListLedgerAutoPaging iterates over every ledger entry.
func (r *CustomerCreditService) ListLedgerAutoPaging(customerID string, query *LedgerListParams, opts ...option.RequestOption) *core.Pager[LedgerEntryUnion] {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewLedgerListParams()
	}
	p := withPath(query.Params, "customer_id", customerID)
	return autoPager[LedgerEntryUnion](p, "customers/{customer_id}/credits/ledger", opts)
}

// CreateLedgerEntry adds an increment, decrement, expiration change, void or
// amendment to the ledger.
func (r *CustomerCreditService) CreateLedgerEntry(ctx context.Context, customerID string, body LedgerEntryCreate, opts ...option.RequestOption) (LedgerEntryUnion, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		return LedgerEntryUnion{}, errMissingBody
	}
	raw, err := body.MarshalJSON()
	if err != nil {
		return LedgerEntryUnion{}, err
	}
	p := core.NewParams(nil, Codec())
	p.SetPath("customer_id", customerID)
	p.PutMembers(core.BodyBucket, raw)
	return execute[LedgerEntryUnion](ctx, http.MethodPost, "customers/{customer_id}/credits/ledger_entry", p, opts)
}

// CreditBlockStatus is the state of a credit block.
type CreditBlockStatus string

const (
	CreditBlockStatusActive         CreditBlockStatus = "active"
	CreditBlockStatusPendingPayment CreditBlockStatus = "pending_payment"
)

var CreditBlockStatuses = core.NewStringEnumSpec("CreditBlockStatus",
	CreditBlockStatusActive,
	CreditBlockStatusPendingPayment,
)

type CreditBlockStatusEnum = core.Enum[string, CreditBlockStatus]

var creditBalanceSchema = core.NewSchema("CreditBalance",
	core.Required[string]("id"),
	core.Required[float64]("balance"),
	core.RequiredNullable[time.Time]("effective_date"),
	core.RequiredNullable[time.Time]("expiry_date"),
	core.RequiredNullable[float64]("maximum_initial_balance"),
	core.RequiredNullable[string]("per_unit_cost_basis"),
	core.Required[CreditBlockStatusEnum]("status"),
)

// CreditBalance is one block of prepaid credits.
type CreditBalance struct{ core.Model }

func (r CreditBalance) ID() (string, error) { return core.Get[string](r.Model, "id") }

func (r CreditBalance) Balance() (float64, error) {
	return core.Get[float64](r.Model, "balance")
}

func (r CreditBalance) EffectiveDate() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](r.Model, "effective_date")
}

func (r CreditBalance) ExpiryDate() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](r.Model, "expiry_date")
}

func (r CreditBalance) MaximumInitialBalance() (core.Opt[float64], error) {
	return core.GetOpt[float64](r.Model, "maximum_initial_balance")
}

func (r CreditBalance) PerUnitCostBasis() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "per_unit_cost_basis")
}

func (r CreditBalance) Status() (CreditBlockStatusEnum, error) {
	return core.Get[CreditBlockStatusEnum](r.Model, "status")
}

var creditListSchema = core.NewParamSchema("CreditListParams").
	Path("customer_id").
	Query(pageFilters()...).
	Query(
		core.Nullable[string]("currency"),
		core.Optional[bool]("include_all_blocks"),
	)

// CreditListParams filters CustomerCreditService.List.
type CreditListParams struct{ core.Params }

func NewCreditListParams() *CreditListParams {
	return &CreditListParams{core.NewParams(creditListSchema, Codec())}
}

func (p *CreditListParams) WithCurrency(v core.Opt[string]) *CreditListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "currency", v)
	return p
}

func (p *CreditListParams) WithIncludeAllBlocks(v core.Opt[bool]) *CreditListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "include_all_blocks", v)
	return p
}

func (p *CreditListParams) WithLimit(v core.Opt[int64]) *CreditListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "limit", v)
	return p
}

// LedgerEntryType is the discriminator of a ledger entry.
type LedgerEntryType string

const (
	LedgerEntryTypeIncrement         LedgerEntryType = "increment"
	LedgerEntryTypeDecrement         LedgerEntryType = "decrement"
	LedgerEntryTypeExpirationChange  LedgerEntryType = "expiration_change"
	LedgerEntryTypeCreditBlockExpiry LedgerEntryType = "credit_block_expiry"
	LedgerEntryTypeVoid              LedgerEntryType = "void"
	LedgerEntryTypeVoidInitiated     LedgerEntryType = "void_initiated"
	LedgerEntryTypeAmendment         LedgerEntryType = "amendment"
)

var LedgerEntryTypes = core.NewStringEnumSpec("LedgerEntryType",
	LedgerEntryTypeIncrement,
	LedgerEntryTypeDecrement,
	LedgerEntryTypeExpirationChange,
	LedgerEntryTypeCreditBlockExpiry,
	LedgerEntryTypeVoid,
	LedgerEntryTypeVoidInitiated,
	LedgerEntryTypeAmendment,
)

type LedgerEntryTypeEnum = core.Enum[string, LedgerEntryType]

// EntryStatus is whether a ledger entry has been applied.
type EntryStatus string

const (
	EntryStatusCommitted EntryStatus = "committed"
	EntryStatusPending   EntryStatus = "pending"
)

var EntryStatuses = core.NewStringEnumSpec("EntryStatus", EntryStatusCommitted, EntryStatusPending)

type EntryStatusEnum = core.Enum[string, EntryStatus]

var creditBlockSchema = core.NewSchema("CreditBlock",
	core.Required[string]("id"),
	core.RequiredNullable[time.Time]("expiry_date"),
	core.RequiredNullable[string]("per_unit_cost_basis"),
)

// CreditBlock is the block a ledger entry applies to.
type CreditBlock struct{ core.Model }

func (r CreditBlock) ID() (string, error) { return core.Get[string](r.Model, "id") }

func (r CreditBlock) ExpiryDate() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](r.Model, "expiry_date")
}

func (r CreditBlock) PerUnitCostBasis() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "per_unit_cost_basis")
}

// LedgerEntry is implemented by every ledger entry variant.
type LedgerEntry interface {
	isLedgerEntry()
	ID() (string, error)
	Amount() (float64, error)
	EntryType() (LedgerEntryTypeEnum, error)
}

// LedgerEntryUnion is a ledger entry resolved from its entry_type.
type LedgerEntryUnion = core.Union[LedgerEntry]

// ledgerEntryFields are the fields every ledger entry carries, followed by
// the variant's own.
func ledgerEntryFields(extra ...core.FieldDesc) []core.FieldDesc {
	return append([]core.FieldDesc{
		core.Required[string]("id"),
		core.Required[int64]("ledger_sequence_number"),
		core.Required[EntryStatusEnum]("entry_status"),
		core.Required[CustomerMinified]("customer"),
		core.Required[float64]("starting_balance"),
		core.Required[float64]("ending_balance"),
		core.Required[float64]("amount"),
		core.Required[string]("currency"),
		core.Required[time.Time]("created_at"),
		core.RequiredNullable[string]("description"),
		core.Required[CreditBlock]("credit_block"),
		core.Required[map[string]string]("metadata"),
		core.Required[LedgerEntryTypeEnum]("entry_type"),
	}, extra...)
}

// ledgerEntry holds the accessors shared by every variant.
type ledgerEntry struct{ core.Model }

func (ledgerEntry) isLedgerEntry() {}

func (r ledgerEntry) ID() (string, error) { return core.Get[string](r.Model, "id") }

func (r ledgerEntry) LedgerSequenceNumber() (int64, error) {
	return core.Get[int64](r.Model, "ledger_sequence_number")
}

func (r ledgerEntry) EntryStatus() (EntryStatusEnum, error) {
	return core.Get[EntryStatusEnum](r.Model, "entry_status")
}

func (r ledgerEntry) Customer() (CustomerMinified, error) {
	return core.Get[CustomerMinified](r.Model, "customer")
}

func (r ledgerEntry) StartingBalance() (float64, error) {
	return core.Get[float64](r.Model, "starting_balance")
}

func (r ledgerEntry) EndingBalance() (float64, error) {
	return core.Get[float64](r.Model, "ending_balance")
}

func (r ledgerEntry) Amount() (float64, error) { return core.Get[float64](r.Model, "amount") }

func (r ledgerEntry) Currency() (string, error) {
	return core.Get[string](r.Model, "currency")
}

func (r ledgerEntry) CreatedAt() (time.Time, error) {
	return core.Get[time.Time](r.Model, "created_at")
}

func (r ledgerEntry) Description() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "description")
}

func (r ledgerEntry) CreditBlock() (CreditBlock, error) {
	return core.Get[CreditBlock](r.Model, "credit_block")
}

func (r ledgerEntry) Metadata() (map[string]string, error) {
	return core.Get[map[string]string](r.Model, "metadata")
}

func (r ledgerEntry) EntryType() (LedgerEntryTypeEnum, error) {
	return core.Get[LedgerEntryTypeEnum](r.Model, "entry_type")
}

var (
	incrementEntrySchema         = core.NewSchema("IncrementLedgerEntry", ledgerEntryFields()...)
	creditBlockExpiryEntrySchema = core.NewSchema("CreditBlockExpiryLedgerEntry", ledgerEntryFields()...)
	amendmentEntrySchema         = core.NewSchema("AmendmentLedgerEntry", ledgerEntryFields()...)

	decrementEntrySchema = core.NewSchema("DecrementLedgerEntry", ledgerEntryFields(
		core.Nullable[string]("event_id"),
		core.Nullable[string]("invoice_id"),
		core.Nullable[string]("price_id"),
	)...)

	expirationChangeEntrySchema = core.NewSchema("ExpirationChangeLedgerEntry", ledgerEntryFields(
		core.RequiredNullable[time.Time]("new_block_expiry_date"),
	)...)

	voidEntrySchema = core.NewSchema("VoidLedgerEntry", ledgerEntryFields(
		core.Required[float64]("void_amount"),
		core.RequiredNullable[string]("void_reason"),
	)...)

	voidInitiatedEntrySchema = core.NewSchema("VoidInitiatedLedgerEntry", ledgerEntryFields(
		core.RequiredNullable[time.Time]("new_block_expiry_date"),
		core.Required[float64]("void_amount"),
		core.RequiredNullable[string]("void_reason"),
	)...)
)

// IncrementLedgerEntry adds credits to a block.
type IncrementLedgerEntry struct{ ledgerEntry }

// CreditBlockExpiryLedgerEntry records credits lost when a block expired.
type CreditBlockExpiryLedgerEntry struct{ ledgerEntry }

// AmendmentLedgerEntry corrects the balance of a block.
type AmendmentLedgerEntry struct{ ledgerEntry }

// DecrementLedgerEntry deducts credits, usually for usage.
type DecrementLedgerEntry struct{ ledgerEntry }

func (r DecrementLedgerEntry) EventID() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "event_id")
}

func (r DecrementLedgerEntry) InvoiceID() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "invoice_id")
}

func (r DecrementLedgerEntry) PriceID() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "price_id")
}

// ExpirationChangeLedgerEntry moves the expiry date of a block.
type ExpirationChangeLedgerEntry struct{ ledgerEntry }

func (r ExpirationChangeLedgerEntry) NewBlockExpiryDate() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](r.Model, "new_block_expiry_date")
}

// VoidLedgerEntry voids the remaining credits of a block.
type VoidLedgerEntry struct{ ledgerEntry }

func (r VoidLedgerEntry) VoidAmount() (float64, error) {
	return core.Get[float64](r.Model, "void_amount")
}

func (r VoidLedgerEntry) VoidReason() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "void_reason")
}

// VoidInitiatedLedgerEntry is a void waiting for its invoice to be voided.
type VoidInitiatedLedgerEntry struct{ ledgerEntry }

func (r VoidInitiatedLedgerEntry) NewBlockExpiryDate() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](r.Model, "new_block_expiry_date")
}

func (r VoidInitiatedLedgerEntry) VoidAmount() (float64, error) {
	return core.Get[float64](r.Model, "void_amount")
}

func (r VoidInitiatedLedgerEntry) VoidReason() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "void_reason")
}

// LedgerEntries is the discriminator table of LedgerEntryUnion.
var LedgerEntries = core.NewUnionSpec[LedgerEntry]("LedgerEntry", "entry_type").
	Variant(string(LedgerEntryTypeIncrement), core.As[IncrementLedgerEntry, LedgerEntry]).
	Variant(string(LedgerEntryTypeDecrement), core.As[DecrementLedgerEntry, LedgerEntry]).
	Variant(string(LedgerEntryTypeExpirationChange), core.As[ExpirationChangeLedgerEntry, LedgerEntry]).
	Variant(string(LedgerEntryTypeCreditBlockExpiry), core.As[CreditBlockExpiryLedgerEntry, LedgerEntry]).
	Variant(string(LedgerEntryTypeVoid), core.As[VoidLedgerEntry, LedgerEntry]).
	Variant(string(LedgerEntryTypeVoidInitiated), core.As[VoidInitiatedLedgerEntry, LedgerEntry]).
	Variant(string(LedgerEntryTypeAmendment), core.As[AmendmentLedgerEntry, LedgerEntry])

var ledgerListSchema = core.NewParamSchema("LedgerListParams").
	Path("customer_id").
	Query(createdAtFilters()...).
	Query(pageFilters()...).
	Query(
		core.Nullable[string]("currency"),
		core.Nullable[EntryStatusEnum]("entry_status"),
		core.Nullable[LedgerEntryTypeEnum]("entry_type"),
		core.Nullable[string]("minimum_amount"),
	)

// LedgerListParams filters CustomerCreditService.ListLedger.
type LedgerListParams struct{ core.Params }

func NewLedgerListParams() *LedgerListParams {
	return &LedgerListParams{core.NewParams(ledgerListSchema, Codec())}
}

func (p *LedgerListParams) WithCurrency(v core.Opt[string]) *LedgerListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "currency", v)
	return p
}

func (p *LedgerListParams) WithEntryStatus(v core.Opt[EntryStatusEnum]) *LedgerListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "entry_status", v)
	return p
}

func (p *LedgerListParams) WithEntryType(v core.Opt[LedgerEntryTypeEnum]) *LedgerListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "entry_type", v)
	return p
}

// WithMinimumAmount filters by a decimal string amount.
func (p *LedgerListParams) WithMinimumAmount(v core.Opt[string]) *LedgerListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "minimum_amount", v)
	return p
}

func (p *LedgerListParams) WithCreatedAtGTE(v core.Opt[time.Time]) *LedgerListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "created_at[gte]", v)
	return p
}

func (p *LedgerListParams) WithLimit(v core.Opt[int64]) *LedgerListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "limit", v)
	return p
}

// LedgerEntryCreate is implemented by every ledger entry request body. The
// entry_type member selects the variant on the server.
type LedgerEntryCreate interface {
	isLedgerEntryCreate()
	MarshalJSON() ([]byte, error)
}

type ledgerEntryCreate struct{ core.Model }

func (ledgerEntryCreate) isLedgerEntryCreate() {}

var (
	incrementCreateSchema = core.NewSchema("IncrementLedgerEntryCreate",
		core.Required[string]("entry_type"),
		core.Required[float64]("amount"),
		core.Nullable[string]("currency"),
		core.Nullable[string]("description"),
		core.Nullable[time.Time]("effective_date"),
		core.Nullable[time.Time]("expiry_date"),
		core.Nullable[string]("per_unit_cost_basis"),
		core.Nullable[map[string]string]("metadata"),
	)
	decrementCreateSchema = core.NewSchema("DecrementLedgerEntryCreate",
		core.Required[string]("entry_type"),
		core.Required[float64]("amount"),
		core.Nullable[string]("currency"),
		core.Nullable[string]("description"),
		core.Nullable[map[string]string]("metadata"),
	)
	expirationChangeCreateSchema = core.NewSchema("ExpirationChangeLedgerEntryCreate",
		core.Required[string]("entry_type"),
		core.RequiredNullable[time.Time]("expiry_date"),
		core.Required[time.Time]("target_expiry_date"),
		core.Nullable[string]("block_id"),
		core.Nullable[float64]("amount"),
		core.Nullable[string]("description"),
	)
	voidCreateSchema = core.NewSchema("VoidLedgerEntryCreate",
		core.Required[string]("entry_type"),
		core.Required[float64]("amount"),
		core.Required[string]("block_id"),
		core.Nullable[string]("void_reason"),
		core.Nullable[string]("description"),
	)
	amendmentCreateSchema = core.NewSchema("AmendmentLedgerEntryCreate",
		core.Required[string]("entry_type"),
		core.Required[float64]("amount"),
		core.Required[string]("block_id"),
		core.Nullable[string]("description"),
	)
)

// IncrementLedgerEntryCreate adds credits.
type IncrementLedgerEntryCreate struct{ ledgerEntryCreate }

func NewIncrementLedgerEntryCreate(amount float64) IncrementLedgerEntryCreate {
	b := core.NewBuilder(incrementCreateSchema, Codec())
	core.Set(b, "entry_type", string(LedgerEntryTypeIncrement))
	core.Set(b, "amount", amount)
	return IncrementLedgerEntryCreate{ledgerEntryCreate{b.MustBuild()}}
}

func (r IncrementLedgerEntryCreate) WithExpiryDate(v core.Opt[time.Time]) IncrementLedgerEntryCreate {
	return IncrementLedgerEntryCreate{ledgerEntryCreate{core.WithOpt(r.Model, "expiry_date", v)}}
}

func (r IncrementLedgerEntryCreate) WithPerUnitCostBasis(v core.Opt[string]) IncrementLedgerEntryCreate {
	return IncrementLedgerEntryCreate{ledgerEntryCreate{core.WithOpt(r.Model, "per_unit_cost_basis", v)}}
}

func (r IncrementLedgerEntryCreate) WithDescription(v core.Opt[string]) IncrementLedgerEntryCreate {
	return IncrementLedgerEntryCreate{ledgerEntryCreate{core.WithOpt(r.Model, "description", v)}}
}

// DecrementLedgerEntryCreate deducts credits.
type DecrementLedgerEntryCreate struct{ ledgerEntryCreate }

func NewDecrementLedgerEntryCreate(amount float64) DecrementLedgerEntryCreate {
	b := core.NewBuilder(decrementCreateSchema, Codec())
	core.Set(b, "entry_type", string(LedgerEntryTypeDecrement))
	core.Set(b, "amount", amount)
	return DecrementLedgerEntryCreate{ledgerEntryCreate{b.MustBuild()}}
}

func (r DecrementLedgerEntryCreate) WithDescription(v core.Opt[string]) DecrementLedgerEntryCreate {
	return DecrementLedgerEntryCreate{ledgerEntryCreate{core.WithOpt(r.Model, "description", v)}}
}

// ExpirationChangeLedgerEntryCreate moves the expiry of the credits that
// expire on targetExpiryDate to expiryDate; a null expiryDate never expires.
type ExpirationChangeLedgerEntryCreate struct{ ledgerEntryCreate }

func NewExpirationChangeLedgerEntryCreate(targetExpiryDate time.Time, expiryDate core.Opt[time.Time]) ExpirationChangeLedgerEntryCreate {
	b := core.NewBuilder(expirationChangeCreateSchema, Codec())
	core.Set(b, "entry_type", string(LedgerEntryTypeExpirationChange))
	core.SetOpt(b, "expiry_date", expiryDate)
	core.Set(b, "target_expiry_date", targetExpiryDate)
	return ExpirationChangeLedgerEntryCreate{ledgerEntryCreate{b.MustBuild()}}
}

func (r ExpirationChangeLedgerEntryCreate) WithBlockID(v core.Opt[string]) ExpirationChangeLedgerEntryCreate {
	return ExpirationChangeLedgerEntryCreate{ledgerEntryCreate{core.WithOpt(r.Model, "block_id", v)}}
}

// VoidLedgerEntryCreate voids credits of a block.
type VoidLedgerEntryCreate struct{ ledgerEntryCreate }

func NewVoidLedgerEntryCreate(blockID string, amount float64) VoidLedgerEntryCreate {
	b := core.NewBuilder(voidCreateSchema, Codec())
	core.Set(b, "entry_type", string(LedgerEntryTypeVoid))
	core.Set(b, "amount", amount)
	core.Set(b, "block_id", blockID)
	return VoidLedgerEntryCreate{ledgerEntryCreate{b.MustBuild()}}
}

func (r VoidLedgerEntryCreate) WithVoidReason(v core.Opt[string]) VoidLedgerEntryCreate {
	return VoidLedgerEntryCreate{ledgerEntryCreate{core.WithOpt(r.Model, "void_reason", v)}}
}

// AmendmentLedgerEntryCreate corrects a block's balance.
type AmendmentLedgerEntryCreate struct{ ledgerEntryCreate }

func NewAmendmentLedgerEntryCreate(blockID string, amount float64) AmendmentLedgerEntryCreate {
	b := core.NewBuilder(amendmentCreateSchema, Codec())
	core.Set(b, "entry_type", string(LedgerEntryTypeAmendment))
	core.Set(b, "amount", amount)
	core.Set(b, "block_id", blockID)
	return AmendmentLedgerEntryCreate{ledgerEntryCreate{b.MustBuild()}}
}

func registerCredits(c *core.Codec) {
	core.RegisterEnum(c, CreditBlockStatuses)
	core.RegisterEnum(c, LedgerEntryTypes)
	core.RegisterEnum(c, EntryStatuses)
	core.RegisterModel(c, creditBalanceSchema, func(m core.Model) CreditBalance { return CreditBalance{m} })
	core.RegisterModel(c, creditBlockSchema, func(m core.Model) CreditBlock { return CreditBlock{m} })
	core.RegisterPage[CreditBalance](c, "CreditBalancePage")

	core.RegisterModel(c, incrementEntrySchema, func(m core.Model) IncrementLedgerEntry { return IncrementLedgerEntry{ledgerEntry{m}} })
	core.RegisterModel(c, decrementEntrySchema, func(m core.Model) DecrementLedgerEntry { return DecrementLedgerEntry{ledgerEntry{m}} })
	core.RegisterModel(c, expirationChangeEntrySchema, func(m core.Model) ExpirationChangeLedgerEntry {
		return ExpirationChangeLedgerEntry{ledgerEntry{m}}
	})
	core.RegisterModel(c, creditBlockExpiryEntrySchema, func(m core.Model) CreditBlockExpiryLedgerEntry {
		return CreditBlockExpiryLedgerEntry{ledgerEntry{m}}
	})
	core.RegisterModel(c, voidEntrySchema, func(m core.Model) VoidLedgerEntry { return VoidLedgerEntry{ledgerEntry{m}} })
	core.RegisterModel(c, voidInitiatedEntrySchema, func(m core.Model) VoidInitiatedLedgerEntry {
		return VoidInitiatedLedgerEntry{ledgerEntry{m}}
	})
	core.RegisterModel(c, amendmentEntrySchema, func(m core.Model) AmendmentLedgerEntry { return AmendmentLedgerEntry{ledgerEntry{m}} })
	core.RegisterUnion(c, LedgerEntries)
	core.RegisterPage[LedgerEntryUnion](c, "LedgerEntryPage")
}
