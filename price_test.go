package billing_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	billing "github.com/reoring/billing-go"
	"github.com/reoring/billing-go/core"
)

func priceJSON(id, modelType, config string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": "API calls",
		"external_price_id": null,
		"price_type": "usage_price",
		"model_type": %q,
		"cadence": "monthly",
		"currency": "USD",
		"created_at": "2024-01-02T03:04:05Z",
		"item": {"id": "item_1", "name": "API calls"},
		"billable_metric": {"id": "m_1"},
		"fixed_price_quantity": null,
		"minimum_amount": null,
		"maximum_amount": "1000.00",
		"plan_phase_order": null,
		"conversion_rate": null,
		"metadata": {},
		%s
	}`, id, modelType, config)
}

func TestPrices_RetrieveTiered(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "/v1/prices/price_1", priceJSON("price_1", "tiered",
		`"tiered_config":{"tiers":[{"first_unit":0,"last_unit":1000,"unit_amount":"0.10"},{"first_unit":1000,"last_unit":null,"unit_amount":"0.05"}]}`))

	u, err := api.client().Prices.Retrieve(context.Background(), "price_1")
	require.NoError(t, err)
	require.Equal(t, "tiered", u.Tag())

	v, ok := u.Variant()
	require.True(t, ok)
	tp, ok := v.(billing.TieredPrice)
	require.True(t, ok)

	cad, err := tp.Cadence()
	require.NoError(t, err)
	require.True(t, cad.Is(billing.CadenceMonthly))
	maxAmt, err := tp.MaximumAmount()
	require.NoError(t, err)
	require.Equal(t, core.Some("1000.00"), maxAmt)

	cfg, err := tp.TieredConfig()
	require.NoError(t, err)
	tiers, err := cfg.Tiers()
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	last, err := tiers[1].LastUnit()
	require.NoError(t, err)
	require.True(t, last.IsNull())
	amt, err := tiers[1].UnitAmount()
	require.NoError(t, err)
	require.Equal(t, "0.05", amt)
}

func TestPrices_UnknownModelType(t *testing.T) {
	api := newFakeAPI(t)
	raw := priceJSON("price_2", "bulk_with_proration", `"bulk_with_proration_config":{"tiers":[]}`)
	api.handle(http.MethodGet, "/v1/prices/price_2", raw)

	u, err := api.client().Prices.Retrieve(context.Background(), "price_2")
	require.NoError(t, err)
	require.True(t, u.IsUnknown())
	require.Equal(t, "bulk_with_proration", u.Tag())

	out, err := u.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, raw, string(out))
}

func TestPrices_ListMixedModels(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "/v1/prices", pageJSON("",
		priceJSON("p_unit", "unit", `"unit_config":{"unit_amount":"0.25"}`),
		priceJSON("p_pkg", "package", `"package_config":{"package_amount":"5.00","package_size":100}`),
		priceJSON("p_mx", "matrix", `"matrix_config":{"default_unit_amount":"1.00","dimensions":["region",null],`+
			`"matrix_values":[{"dimension_values":["us",null],"unit_amount":"2.00"}]}`),
	))

	page, err := api.client().Prices.List(context.Background(), nil)
	require.NoError(t, err)
	prices, err := page.Data()
	require.NoError(t, err)
	require.Len(t, prices, 3)

	v, _ := prices[0].Variant()
	uc, err := v.(billing.UnitPrice).UnitConfig()
	require.NoError(t, err)
	ua, err := uc.UnitAmount()
	require.NoError(t, err)
	require.Equal(t, "0.25", ua)

	v, _ = prices[1].Variant()
	pc, err := v.(billing.PackagePrice).PackageConfig()
	require.NoError(t, err)
	size, err := pc.PackageSize()
	require.NoError(t, err)
	require.Equal(t, int64(100), size)

	v, _ = prices[2].Variant()
	mc, err := v.(billing.MatrixPrice).MatrixConfig()
	require.NoError(t, err)
	dims, err := mc.Dimensions()
	require.NoError(t, err)
	require.Len(t, dims, 2)
	require.Equal(t, "region", *dims[0])
	require.Nil(t, dims[1])
}

func TestPrices_Create(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodPost, "/v1/prices", priceJSON("p_new", "unit", `"unit_config":{"unit_amount":"0.50"}`))

	body := billing.NewUnitPriceCreate(billing.PriceCreateCommon{
		Name:     "API calls",
		ItemID:   "item_1",
		Currency: "USD",
		Cadence:  billing.CadenceMonthly,
	}, billing.NewUnitConfig("0.50")).WithBillableMetricID(core.Some("m_1"))

	u, err := api.client().Prices.Create(context.Background(), body)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"model_type": "unit",
		"name": "API calls",
		"item_id": "item_1",
		"currency": "USD",
		"cadence": "monthly",
		"unit_config": {"unit_amount": "0.50"},
		"billable_metric_id": "m_1"
	}`, api.last(t).Body)

	v, ok := u.Variant()
	require.True(t, ok)
	id, err := v.ID()
	require.NoError(t, err)
	require.Equal(t, "p_new", id)
}

func TestPrices_CreateTiered(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodPost, "/v1/prices", priceJSON("p_t", "tiered", `"tiered_config":{"tiers":[]}`))

	cfg := billing.NewTieredConfig(
		billing.NewTier(0, core.Some(10.0), "1.00"),
		billing.NewTier(10, core.NullOf[float64](), "0.50"),
	)
	body := billing.NewTieredPriceCreate(billing.PriceCreateCommon{
		Name: "Seats", ItemID: "item_2", Currency: "USD", Cadence: billing.CadenceAnnual,
	}, cfg)

	_, err := api.client().Prices.Create(context.Background(), body)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"model_type": "tiered",
		"name": "Seats",
		"item_id": "item_2",
		"currency": "USD",
		"cadence": "annual",
		"tiered_config": {"tiers": [
			{"first_unit": 0, "last_unit": 10, "unit_amount": "1.00"},
			{"first_unit": 10, "last_unit": null, "unit_amount": "0.50"}
		]}
	}`, api.last(t).Body)
}

func TestPrices_CreateUnknownCadence(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodPost, "/v1/prices", priceJSON("p_new", "unit", `"unit_config":{"unit_amount":"1.00"}`))

	body := billing.NewUnitPriceCreate(billing.PriceCreateCommon{
		Name:     "Seats",
		ItemID:   "item_1",
		Currency: "USD",
		Cadence:  billing.Cadence("biweekly"),
	}, billing.NewUnitConfig("1.00"))
	_, err := api.client().Prices.Create(context.Background(), body)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"model_type": "unit",
		"name": "Seats",
		"item_id": "item_1",
		"currency": "USD",
		"cadence": "biweekly",
		"unit_config": {"unit_amount": "1.00"}
	}`, api.last(t).Body)
}
