package billing_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	billing "github.com/reoring/billing-go"
	"github.com/reoring/billing-go/core"
)

// ledgerEntryJSON renders a ledger entry with every shared field; extra is
// appended verbatim as further members.
func ledgerEntryJSON(id, entryType, extra string) string {
	if extra != "" {
		extra = "," + extra
	}
	return fmt.Sprintf(`{
		"id": %q,
		"ledger_sequence_number": 7,
		"entry_status": "committed",
		"customer": {"id": "cus_1", "external_customer_id": null},
		"starting_balance": 100,
		"ending_balance": 90,
		"amount": -10,
		"currency": "credits",
		"created_at": "2024-01-02T03:04:05Z",
		"description": null,
		"credit_block": {"id": "blk_1", "expiry_date": null, "per_unit_cost_basis": "1.00"},
		"metadata": {},
		"entry_type": %q%s
	}`, id, entryType, extra)
}

func TestCredits_List(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "/v1/customers/cus_1/credits", pageJSON("",
		`{"id":"blk_1","balance":25.5,"effective_date":"2024-01-01T00:00:00Z","expiry_date":null,`+
			`"maximum_initial_balance":null,"per_unit_cost_basis":"0.10","status":"active"}`))

	q := billing.NewCreditListParams().WithCurrency(core.Some("USD")).WithIncludeAllBlocks(core.Some(true))
	page, err := api.client().Customers.Credits.List(context.Background(), "cus_1", q)
	require.NoError(t, err)
	require.Equal(t, "currency=USD&include_all_blocks=true", api.last(t).RawQuery)

	data, err := page.Data()
	require.NoError(t, err)
	require.Len(t, data, 1)
	bal, err := data[0].Balance()
	require.NoError(t, err)
	require.Equal(t, 25.5, bal)
	st, err := data[0].Status()
	require.NoError(t, err)
	require.True(t, st.Is(billing.CreditBlockStatusActive))
	exp, err := data[0].ExpiryDate()
	require.NoError(t, err)
	require.True(t, exp.IsNull())
}

func TestCredits_ListLedger_Union(t *testing.T) {
	api := newFakeAPI(t)
	unknown := `{"id":"le_9","entry_type":"carry_over","amount":3}`
	api.handle(http.MethodGet, "/v1/customers/cus_1/credits/ledger", pageJSON("",
		ledgerEntryJSON("le_1", "increment", ""),
		ledgerEntryJSON("le_2", "decrement", `"event_id":"ev_1","invoice_id":null`),
		ledgerEntryJSON("le_3", "void", `"void_amount":5,"void_reason":"refund"`),
		unknown,
	))

	q := billing.NewLedgerListParams().
		WithEntryType(core.Some(billing.LedgerEntryTypes.Of(billing.LedgerEntryTypeDecrement))).
		WithMinimumAmount(core.Some("1.5"))
	page, err := api.client().Customers.Credits.ListLedger(context.Background(), "cus_1", q)
	require.NoError(t, err)
	require.Equal(t, "entry_type=decrement&minimum_amount=1.5", api.last(t).RawQuery)

	entries, err := page.Data()
	require.NoError(t, err)
	require.Len(t, entries, 4)

	v, ok := entries[0].Variant()
	require.True(t, ok)
	require.IsType(t, billing.IncrementLedgerEntry{}, v)

	v, ok = entries[1].Variant()
	require.True(t, ok)
	dec, ok := v.(billing.DecrementLedgerEntry)
	require.True(t, ok)
	ev, err := dec.EventID()
	require.NoError(t, err)
	require.Equal(t, core.Some("ev_1"), ev)
	inv, err := dec.InvoiceID()
	require.NoError(t, err)
	require.True(t, inv.IsNull())
	amt, err := dec.Amount()
	require.NoError(t, err)
	require.Equal(t, -10.0, amt)

	v, _ = entries[2].Variant()
	void := v.(billing.VoidLedgerEntry)
	reason, err := void.VoidReason()
	require.NoError(t, err)
	require.Equal(t, core.Some("refund"), reason)
	blk, err := void.CreditBlock()
	require.NoError(t, err)
	blkID, err := blk.ID()
	require.NoError(t, err)
	require.Equal(t, "blk_1", blkID)

	require.True(t, entries[3].IsUnknown())
	require.Equal(t, "carry_over", entries[3].Tag())
	require.JSONEq(t, unknown, string(entries[3].Raw()))
}

func TestCredits_ListLedger_BrokenKnownVariantFails(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "/v1/customers/cus_1/credits/ledger", pageJSON("",
		`{"id":"le_1","entry_type":"increment","amount":"ten"}`))

	page, err := api.client().Customers.Credits.ListLedger(context.Background(), "cus_1", nil)
	require.NoError(t, err, "the page itself decodes lazily")
	_, err = page.Data()
	require.True(t, core.HasCode(err, core.CodeUnionDecodeFailure))
}

func TestCredits_ListLedger_UnknownEntryStatusReads(t *testing.T) {
	api := newFakeAPI(t)
	reverted := strings.Replace(ledgerEntryJSON("le_2", "increment", ""), `"committed"`, `"reverted"`, 1)
	api.handle(http.MethodGet, "/v1/customers/cus_1/credits/ledger", pageJSON("",
		ledgerEntryJSON("le_1", "increment", ""),
		reverted,
	))

	page, err := api.client().Customers.Credits.ListLedger(context.Background(), "cus_1", nil)
	require.NoError(t, err)
	entries, err := page.Data()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	v, ok := entries[1].Variant()
	require.True(t, ok)
	inc, ok := v.(billing.IncrementLedgerEntry)
	require.True(t, ok)
	st, err := inc.EntryStatus()
	require.NoError(t, err)
	require.False(t, st.IsKnown())
	require.Equal(t, "reverted", st.Raw())

	require.NoError(t, entries[0].Validate(context.Background()))
	require.True(t, core.HasCode(entries[1].Validate(context.Background()), core.CodeInvalidEnumValue))
}

func TestCredits_CreateLedgerEntry(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodPost, "/v1/customers/cus_1/credits/ledger_entry", ledgerEntryJSON("le_1", "void", `"void_amount":5,"void_reason":"refund"`))

	body := billing.NewVoidLedgerEntryCreate("blk_1", 5).WithVoidReason(core.Some("refund"))
	got, err := api.client().Customers.Credits.CreateLedgerEntry(context.Background(), "cus_1", body)
	require.NoError(t, err)
	require.JSONEq(t, `{"entry_type":"void","amount":5,"block_id":"blk_1","void_reason":"refund"}`, api.last(t).Body)
	require.Equal(t, "void", got.Tag())
}

func TestCredits_CreateLedgerEntry_ExpirationChange(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodPost, "/v1/customers/cus_1/credits/ledger_entry",
		ledgerEntryJSON("le_2", "expiration_change", `"new_block_expiry_date":null`))

	target := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	body := billing.NewExpirationChangeLedgerEntryCreate(target, core.NullOf[time.Time]()).WithBlockID(core.Some("blk_1"))
	got, err := api.client().Customers.Credits.CreateLedgerEntry(context.Background(), "cus_1", body)
	require.NoError(t, err)
	require.JSONEq(t, `{"entry_type":"expiration_change","expiry_date":null,"target_expiry_date":"2024-06-01T00:00:00Z","block_id":"blk_1"}`, api.last(t).Body)

	v, ok := got.Variant()
	require.True(t, ok)
	nb, err := v.(billing.ExpirationChangeLedgerEntry).NewBlockExpiryDate()
	require.NoError(t, err)
	require.True(t, nb.IsNull())
}

func TestCredits_CreateLedgerEntry_NilBody(t *testing.T) {
	api := newFakeAPI(t)

	_, err := api.client().Customers.Credits.CreateLedgerEntry(context.Background(), "cus_1", nil)
	require.True(t, core.HasCode(err, core.CodeMissingRequiredField))
	require.Empty(t, api.requests())
}

func TestCredits_ListLedgerAutoPaging(t *testing.T) {
	api := newFakeAPI(t)
	api.handleFunc(http.MethodGet, "/v1/customers/cus_1/credits/ledger", func(r *http.Request) (int, string) {
		if r.URL.Query().Get("cursor") == "" {
			return http.StatusOK, pageJSON("next", ledgerEntryJSON("le_1", "increment", ""))
		}
		return http.StatusOK, pageJSON("", ledgerEntryJSON("le_2", "amendment", ""))
	})

	var tags []string
	for e, err := range api.client().Customers.Credits.ListLedgerAutoPaging("cus_1", nil).All(context.Background()) {
		require.NoError(t, err)
		tags = append(tags, e.Tag())
	}
	require.Equal(t, []string{"increment", "amendment"}, tags)
}
