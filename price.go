package billing

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/reoring/billing-go/core"
	"github.com/reoring/billing-go/option"
)

// PriceService reads and creates prices outside of a plan.
type PriceService struct {
	Options []option.RequestOption
}

func NewPriceService(opts ...option.RequestOption) (r PriceService) {
	r = PriceService{}
	r.Options = opts
	return
}

// Create adds a price. The body's model_type selects the pricing model.
func (r *PriceService) Create(ctx context.Context, body PriceCreate, opts ...option.RequestOption) (PriceUnion, error) {
	opts = slices.Concat(r.Options, opts)
	if body == nil {
		return PriceUnion{}, errMissingBody
	}
	raw, err := body.MarshalJSON()
	if err != nil {
		return PriceUnion{}, err
	}
	p := core.NewParams(nil, Codec())
	p.PutMembers(core.BodyBucket, raw)
	return execute[PriceUnion](ctx, http.MethodPost, "prices", p, opts)
}

func (r *PriceService) Retrieve(ctx context.Context, priceID string, opts ...option.RequestOption) (PriceUnion, error) {
	opts = slices.Concat(r.Options, opts)
	return execute[PriceUnion](ctx, http.MethodGet, "prices/{price_id}", pathParams("price_id", priceID), opts)
}

func (r *PriceService) List(ctx context.Context, query *PriceListParams, opts ...option.RequestOption) (core.Page[PriceUnion], error) {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewPriceListParams()
	}
	return execute[core.Page[PriceUnion]](ctx, http.MethodGet, "prices", query.Params, opts)
}

func (r *PriceService) ListAutoPaging(query *PriceListParams, opts ...option.RequestOption) *core.Pager[PriceUnion] {
	opts = slices.Concat(r.Options, opts)
	if query == nil {
		query = NewPriceListParams()
	}
	return autoPager[PriceUnion](query.Params, "prices", opts)
}

// Cadence is how often a price is billed.
type Cadence string

const (
	CadenceOneTime    Cadence = "one_time"
	CadenceMonthly    Cadence = "monthly"
	CadenceQuarterly  Cadence = "quarterly"
	CadenceSemiAnnual Cadence = "semi_annual"
	CadenceAnnual     Cadence = "annual"
	CadenceCustom     Cadence = "custom"
)

var Cadences = core.NewStringEnumSpec("Cadence",
	CadenceOneTime,
	CadenceMonthly,
	CadenceQuarterly,
	CadenceSemiAnnual,
	CadenceAnnual,
	CadenceCustom,
)

type CadenceEnum = core.Enum[string, Cadence]

// PriceType tells usage-based prices from fixed fees.
type PriceType string

const (
	PriceTypeUsagePrice PriceType = "usage_price"
	PriceTypeFixedPrice PriceType = "fixed_price"
)

var PriceTypes = core.NewStringEnumSpec("PriceType", PriceTypeUsagePrice, PriceTypeFixedPrice)

type PriceTypeEnum = core.Enum[string, PriceType]

// ModelType is the discriminator of a price.
type ModelType string

const (
	ModelTypeUnit    ModelType = "unit"
	ModelTypePackage ModelType = "package"
	ModelTypeMatrix  ModelType = "matrix"
	ModelTypeTiered  ModelType = "tiered"
)

var unitConfigSchema = core.NewSchema("UnitConfig",
	core.Required[string]("unit_amount"),
)

// UnitConfig charges a flat amount per unit.
type UnitConfig struct{ core.Model }

func NewUnitConfig(unitAmount string) UnitConfig {
	b := core.NewBuilder(unitConfigSchema, Codec())
	core.Set(b, "unit_amount", unitAmount)
	return UnitConfig{b.MustBuild()}
}

// UnitAmount is a decimal string.
func (r UnitConfig) UnitAmount() (string, error) {
	return core.Get[string](r.Model, "unit_amount")
}

var packageConfigSchema = core.NewSchema("PackageConfig",
	core.Required[string]("package_amount"),
	core.Required[int64]("package_size"),
)

// PackageConfig charges per started package of units.
type PackageConfig struct{ core.Model }

func NewPackageConfig(packageAmount string, packageSize int64) PackageConfig {
	b := core.NewBuilder(packageConfigSchema, Codec())
	core.Set(b, "package_amount", packageAmount)
	core.Set(b, "package_size", packageSize)
	return PackageConfig{b.MustBuild()}
}

func (r PackageConfig) PackageAmount() (string, error) {
	return core.Get[string](r.Model, "package_amount")
}

func (r PackageConfig) PackageSize() (int64, error) {
	return core.Get[int64](r.Model, "package_size")
}

var matrixValueSchema = core.NewSchema("MatrixValue",
	core.Required[[]*string]("dimension_values"),
	core.Required[string]("unit_amount"),
)

// MatrixValue is the unit amount of one combination of dimension values. A
// nil dimension value matches any value.
type MatrixValue struct{ core.Model }

func NewMatrixValue(unitAmount string, dimensionValues ...*string) MatrixValue {
	b := core.NewBuilder(matrixValueSchema, Codec())
	core.Set(b, "dimension_values", dimensionValues)
	core.Set(b, "unit_amount", unitAmount)
	return MatrixValue{b.MustBuild()}
}

func (r MatrixValue) DimensionValues() ([]*string, error) {
	return core.Get[[]*string](r.Model, "dimension_values")
}

func (r MatrixValue) UnitAmount() (string, error) {
	return core.Get[string](r.Model, "unit_amount")
}

var matrixConfigSchema = core.NewSchema("MatrixConfig",
	core.Required[string]("default_unit_amount"),
	core.Required[[]*string]("dimensions"),
	core.Required[[]MatrixValue]("matrix_values"),
)

// MatrixConfig prices units by up to two event properties.
type MatrixConfig struct{ core.Model }

func NewMatrixConfig(defaultUnitAmount string, dimensions []*string, values ...MatrixValue) MatrixConfig {
	b := core.NewBuilder(matrixConfigSchema, Codec())
	core.Set(b, "default_unit_amount", defaultUnitAmount)
	core.Set(b, "dimensions", dimensions)
	core.Set(b, "matrix_values", values)
	return MatrixConfig{b.MustBuild()}
}

func (r MatrixConfig) DefaultUnitAmount() (string, error) {
	return core.Get[string](r.Model, "default_unit_amount")
}

func (r MatrixConfig) Dimensions() ([]*string, error) {
	return core.Get[[]*string](r.Model, "dimensions")
}

func (r MatrixConfig) MatrixValues() ([]MatrixValue, error) {
	return core.Get[[]MatrixValue](r.Model, "matrix_values")
}

var tierSchema = core.NewSchema("Tier",
	core.Required[float64]("first_unit"),
	core.Nullable[float64]("last_unit"),
	core.Required[string]("unit_amount"),
)

// Tier is one band of a tiered price. A null last unit leaves the band open.
type Tier struct{ core.Model }

func NewTier(firstUnit float64, lastUnit core.Opt[float64], unitAmount string) Tier {
	b := core.NewBuilder(tierSchema, Codec())
	core.Set(b, "first_unit", firstUnit)
	core.SetOpt(b, "last_unit", lastUnit)
	core.Set(b, "unit_amount", unitAmount)
	return Tier{b.MustBuild()}
}

func (r Tier) FirstUnit() (float64, error) { return core.Get[float64](r.Model, "first_unit") }

func (r Tier) LastUnit() (core.Opt[float64], error) {
	return core.GetOpt[float64](r.Model, "last_unit")
}

func (r Tier) UnitAmount() (string, error) { return core.Get[string](r.Model, "unit_amount") }

var tieredConfigSchema = core.NewSchema("TieredConfig",
	core.Required[[]Tier]("tiers"),
)

// TieredConfig prices each unit by the tier it falls in.
type TieredConfig struct{ core.Model }

func NewTieredConfig(tiers ...Tier) TieredConfig {
	b := core.NewBuilder(tieredConfigSchema, Codec())
	core.Set(b, "tiers", tiers)
	return TieredConfig{b.MustBuild()}
}

func (r TieredConfig) Tiers() ([]Tier, error) { return core.Get[[]Tier](r.Model, "tiers") }

// Price is implemented by every price variant.
type Price interface {
	isPrice()
	ID() (string, error)
	Name() (string, error)
	Cadence() (CadenceEnum, error)
}

// PriceUnion is a price resolved from its model_type.
type PriceUnion = core.Union[Price]

func priceFields(extra ...core.FieldDesc) []core.FieldDesc {
	return append([]core.FieldDesc{
		core.Required[string]("id"),
		core.Required[string]("name"),
		core.RequiredNullable[string]("external_price_id"),
		core.Required[PriceTypeEnum]("price_type"),
		core.Required[string]("model_type"),
		core.Required[CadenceEnum]("cadence"),
		core.Required[string]("currency"),
		core.Required[time.Time]("created_at"),
		core.Required[ItemSlim]("item"),
		core.RequiredNullable[MetricMinified]("billable_metric"),
		core.RequiredNullable[float64]("fixed_price_quantity"),
		core.RequiredNullable[string]("minimum_amount"),
		core.RequiredNullable[string]("maximum_amount"),
		core.RequiredNullable[int64]("plan_phase_order"),
		core.RequiredNullable[float64]("conversion_rate"),
		core.Required[map[string]string]("metadata"),
	}, extra...)
}

type price struct{ core.Model }

func (price) isPrice() {}

func (r price) ID() (string, error) { return core.Get[string](r.Model, "id") }

func (r price) Name() (string, error) { return core.Get[string](r.Model, "name") }

func (r price) ExternalPriceID() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "external_price_id")
}

func (r price) PriceType() (PriceTypeEnum, error) {
	return core.Get[PriceTypeEnum](r.Model, "price_type")
}

func (r price) ModelType() (string, error) { return core.Get[string](r.Model, "model_type") }

func (r price) Cadence() (CadenceEnum, error) {
	return core.Get[CadenceEnum](r.Model, "cadence")
}

func (r price) Currency() (string, error) { return core.Get[string](r.Model, "currency") }

func (r price) CreatedAt() (time.Time, error) {
	return core.Get[time.Time](r.Model, "created_at")
}

func (r price) Item() (ItemSlim, error) { return core.Get[ItemSlim](r.Model, "item") }

func (r price) BillableMetric() (core.Opt[MetricMinified], error) {
	return core.GetOpt[MetricMinified](r.Model, "billable_metric")
}

func (r price) FixedPriceQuantity() (core.Opt[float64], error) {
	return core.GetOpt[float64](r.Model, "fixed_price_quantity")
}

// MinimumAmount is a decimal string.
func (r price) MinimumAmount() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "minimum_amount")
}

// MaximumAmount is a decimal string.
func (r price) MaximumAmount() (core.Opt[string], error) {
	return core.GetOpt[string](r.Model, "maximum_amount")
}

func (r price) PlanPhaseOrder() (core.Opt[int64], error) {
	return core.GetOpt[int64](r.Model, "plan_phase_order")
}

func (r price) ConversionRate() (core.Opt[float64], error) {
	return core.GetOpt[float64](r.Model, "conversion_rate")
}

func (r price) Metadata() (map[string]string, error) {
	return core.Get[map[string]string](r.Model, "metadata")
}

var (
	unitPriceSchema    = core.NewSchema("UnitPrice", priceFields(core.Required[UnitConfig]("unit_config"))...)
	packagePriceSchema = core.NewSchema("PackagePrice", priceFields(core.Required[PackageConfig]("package_config"))...)
	matrixPriceSchema  = core.NewSchema("MatrixPrice", priceFields(core.Required[MatrixConfig]("matrix_config"))...)
	tieredPriceSchema  = core.NewSchema("TieredPrice", priceFields(core.Required[TieredConfig]("tiered_config"))...)
)

type UnitPrice struct{ price }

func (r UnitPrice) UnitConfig() (UnitConfig, error) {
	return core.Get[UnitConfig](r.Model, "unit_config")
}

type PackagePrice struct{ price }

func (r PackagePrice) PackageConfig() (PackageConfig, error) {
	return core.Get[PackageConfig](r.Model, "package_config")
}

type MatrixPrice struct{ price }

func (r MatrixPrice) MatrixConfig() (MatrixConfig, error) {
	return core.Get[MatrixConfig](r.Model, "matrix_config")
}

type TieredPrice struct{ price }

func (r TieredPrice) TieredConfig() (TieredConfig, error) {
	return core.Get[TieredConfig](r.Model, "tiered_config")
}

// Prices is the discriminator table of PriceUnion.
var Prices = core.NewUnionSpec[Price]("Price", "model_type").
	Variant(string(ModelTypeUnit), core.As[UnitPrice, Price]).
	Variant(string(ModelTypePackage), core.As[PackagePrice, Price]).
	Variant(string(ModelTypeMatrix), core.As[MatrixPrice, Price]).
	Variant(string(ModelTypeTiered), core.As[TieredPrice, Price])

var priceListSchema = core.NewParamSchema("PriceListParams").
	Query(pageFilters()...)

type PriceListParams struct{ core.Params }

func NewPriceListParams() *PriceListParams {
	return &PriceListParams{core.NewParams(priceListSchema, Codec())}
}

func (p *PriceListParams) WithLimit(v core.Opt[int64]) *PriceListParams {
	core.PutOpt(&p.Params, core.QueryBucket, "limit", v)
	return p
}

// PriceCreate is implemented by every price request body.
type PriceCreate interface {
	isPriceCreate()
	MarshalJSON() ([]byte, error)
}

// priceCreateFields are the body fields every pricing model accepts.
func priceCreateFields(config core.FieldDesc) []core.FieldDesc {
	return []core.FieldDesc{
		core.Required[string]("model_type"),
		core.Required[string]("name"),
		core.Required[string]("item_id"),
		core.Required[string]("currency"),
		core.Required[CadenceEnum]("cadence"),
		core.Nullable[string]("billable_metric_id"),
		core.Nullable[string]("external_price_id"),
		core.Nullable[float64]("fixed_price_quantity"),
		core.Nullable[string]("invoice_grouping_key"),
		core.Nullable[float64]("conversion_rate"),
		core.Nullable[map[string]string]("metadata"),
		config,
	}
}

var (
	unitPriceCreateSchema    = core.NewSchema("UnitPriceCreate", priceCreateFields(core.Required[UnitConfig]("unit_config"))...)
	packagePriceCreateSchema = core.NewSchema("PackagePriceCreate", priceCreateFields(core.Required[PackageConfig]("package_config"))...)
	matrixPriceCreateSchema  = core.NewSchema("MatrixPriceCreate", priceCreateFields(core.Required[MatrixConfig]("matrix_config"))...)
	tieredPriceCreateSchema  = core.NewSchema("TieredPriceCreate", priceCreateFields(core.Required[TieredConfig]("tiered_config"))...)
)

// PriceCreateCommon carries the fields shared by every price request body.
type PriceCreateCommon struct {
	Name     string
	ItemID   string
	Currency string
	Cadence  Cadence
}

func newPriceCreate(schema *core.Schema, mt ModelType, common PriceCreateCommon, configField string, config any) core.Model {
	b := core.NewBuilder(schema, Codec())
	core.Set(b, "model_type", string(mt))
	core.Set(b, "name", common.Name)
	core.Set(b, "item_id", common.ItemID)
	core.Set(b, "currency", common.Currency)
	core.Set(b, "cadence", Cadences.FromRaw(string(common.Cadence)))
	core.Set(b, configField, config)
	return b.MustBuild()
}

// PriceCreateBody is a price request body for one pricing model.
type PriceCreateBody struct{ core.Model }

func (PriceCreateBody) isPriceCreate() {}

func NewUnitPriceCreate(common PriceCreateCommon, config UnitConfig) PriceCreateBody {
	return PriceCreateBody{newPriceCreate(unitPriceCreateSchema, ModelTypeUnit, common, "unit_config", config)}
}

func NewPackagePriceCreate(common PriceCreateCommon, config PackageConfig) PriceCreateBody {
	return PriceCreateBody{newPriceCreate(packagePriceCreateSchema, ModelTypePackage, common, "package_config", config)}
}

func NewMatrixPriceCreate(common PriceCreateCommon, config MatrixConfig) PriceCreateBody {
	return PriceCreateBody{newPriceCreate(matrixPriceCreateSchema, ModelTypeMatrix, common, "matrix_config", config)}
}

func NewTieredPriceCreate(common PriceCreateCommon, config TieredConfig) PriceCreateBody {
	return PriceCreateBody{newPriceCreate(tieredPriceCreateSchema, ModelTypeTiered, common, "tiered_config", config)}
}

func (r PriceCreateBody) WithBillableMetricID(v core.Opt[string]) PriceCreateBody {
	return PriceCreateBody{core.WithOpt(r.Model, "billable_metric_id", v)}
}

func (r PriceCreateBody) WithExternalPriceID(v core.Opt[string]) PriceCreateBody {
	return PriceCreateBody{core.WithOpt(r.Model, "external_price_id", v)}
}

func (r PriceCreateBody) WithFixedPriceQuantity(v core.Opt[float64]) PriceCreateBody {
	return PriceCreateBody{core.WithOpt(r.Model, "fixed_price_quantity", v)}
}

func (r PriceCreateBody) WithMetadata(v core.Opt[map[string]string]) PriceCreateBody {
	return PriceCreateBody{core.WithOpt(r.Model, "metadata", v)}
}

func registerPrices(c *core.Codec) {
	core.RegisterEnum(c, Cadences)
	core.RegisterEnum(c, PriceTypes)
	core.RegisterModel(c, unitConfigSchema, func(m core.Model) UnitConfig { return UnitConfig{m} })
	core.RegisterModel(c, packageConfigSchema, func(m core.Model) PackageConfig { return PackageConfig{m} })
	core.RegisterModel(c, matrixValueSchema, func(m core.Model) MatrixValue { return MatrixValue{m} })
	core.RegisterModel(c, matrixConfigSchema, func(m core.Model) MatrixConfig { return MatrixConfig{m} })
	core.RegisterModel(c, tierSchema, func(m core.Model) Tier { return Tier{m} })
	core.RegisterModel(c, tieredConfigSchema, func(m core.Model) TieredConfig { return TieredConfig{m} })
	core.RegisterModel(c, unitPriceSchema, func(m core.Model) UnitPrice { return UnitPrice{price{m}} })
	core.RegisterModel(c, packagePriceSchema, func(m core.Model) PackagePrice { return PackagePrice{price{m}} })
	core.RegisterModel(c, matrixPriceSchema, func(m core.Model) MatrixPrice { return MatrixPrice{price{m}} })
	core.RegisterModel(c, tieredPriceSchema, func(m core.Model) TieredPrice { return TieredPrice{price{m}} })
	core.RegisterUnion(c, Prices)
	core.RegisterPage[PriceUnion](c, "PricePage")
}
