package core_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/billing-go/core"
)

var disableSchema = core.NewParamSchema("AlertDisableParams").
	Path("alert_configuration_id").
	Query(core.Optional[string]("subscription_id"))

var listSchema = core.NewParamSchema("WidgetListParams").
	Query(
		core.Optional[int64]("limit"),
		core.Nullable[string]("cursor"),
		core.Optional[time.Time]("created_at[gte]"),
		core.Optional[[]string]("ids"),
	).
	Header(core.Optional[string]("Idempotency-Key")).
	Body(
		core.Required[string]("name"),
		core.Nullable[string]("note"),
		core.Optional[float64]("amount"),
	)

const base = "https://api.withorb.com/v1"

func TestParams_URLWithPathAndQuery(t *testing.T) {
	p := core.NewParams(disableSchema, testCodec())
	p.SetPath("alert_configuration_id", "alert_configuration_id")
	core.Put(&p, core.QueryBucket, "subscription_id", "subscription_id")

	got, err := p.URL(base, "alerts/{alert_configuration_id}/disable")
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	want := "https://api.withorb.com/v1/alerts/alert_configuration_id/disable?subscription_id=subscription_id"
	if got != want {
		t.Fatalf("URL = %s, want %s", got, want)
	}
}

func TestParams_MissingPathParameterFailsFast(t *testing.T) {
	p := core.NewParams(disableSchema, testCodec())
	if _, err := p.URL(base, "alerts/{alert_configuration_id}/disable"); !core.HasCode(err, core.CodeMissingRequiredField) {
		t.Fatalf("expected missing_required_field, got %v", err)
	}
	p.SetPath("alert_configuration_id", "")
	if _, err := p.URL(base, "alerts/{alert_configuration_id}/disable"); err == nil {
		t.Fatalf("an empty path parameter must be rejected")
	}
}

func TestParams_PathIsEscaped(t *testing.T) {
	p := core.NewParams(disableSchema, testCodec())
	p.SetPath("alert_configuration_id", "a/b c")
	got, err := p.URL(base+"/", "/alerts/{alert_configuration_id}")
	if err != nil || got != base+"/alerts/a%2Fb%20c" {
		t.Fatalf("URL = %s, %v", got, err)
	}
}

func TestParams_QueryOrderArraysAndNull(t *testing.T) {
	p := core.NewParams(listSchema, testCodec())
	core.Put(&p, core.QueryBucket, "ids", []string{"a", "b"})
	core.Put(&p, core.QueryBucket, "created_at[gte]", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	core.PutOpt(&p, core.QueryBucket, "cursor", core.NullOf[string]())
	core.Put(&p, core.QueryBucket, "limit", int64(10))

	got, err := p.Query()
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := "limit=10&cursor=&created_at%5Bgte%5D=2024-01-02T03%3A04%3A05Z&ids=a&ids=b"
	if got != want {
		t.Fatalf("Query = %s\nwant    %s", got, want)
	}
}

func TestParams_NullCollapsesForNonNullableFields(t *testing.T) {
	p := core.NewParams(listSchema, testCodec())
	core.Put(&p, core.QueryBucket, "limit", int64(5))
	core.PutOpt(&p, core.QueryBucket, "limit", core.NullOf[int64]())
	if p.IsSet(core.QueryBucket, "limit") {
		t.Fatalf("null on a non-nullable field must behave like unset")
	}
	core.PutOpt(&p, core.BodyBucket, "note", core.NullOf[string]())
	if !p.IsSet(core.BodyBucket, "note") {
		t.Fatalf("null on a nullable field must be recorded")
	}
	u, err := p.URL(base, "widgets")
	if err != nil || u != base+"/widgets" {
		t.Fatalf("URL = %s, %v", u, err)
	}
}

func TestParams_UndeclaredFieldIsSticky(t *testing.T) {
	p := core.NewParams(listSchema, testCodec())
	core.Put(&p, core.QueryBucket, "nope", 1)
	core.Put(&p, core.QueryBucket, "limit", int64(1))
	if !core.HasCode(p.Err(), core.CodeUndeclaredField) {
		t.Fatalf("expected undeclared_field, got %v", p.Err())
	}
	if _, err := p.Body(); err == nil {
		t.Fatalf("rendering must report the recorded error")
	}
}

func TestParams_BodyAndReadBack(t *testing.T) {
	p := core.NewParams(listSchema, testCodec())
	if b, err := p.Body(); err != nil || b != nil {
		t.Fatalf("empty body = %s, %v", b, err)
	}
	core.Put(&p, core.BodyBucket, "name", "n")
	core.Put(&p, core.BodyBucket, "amount", 1.5)
	core.PutOpt(&p, core.BodyBucket, "note", core.NullOf[string]())

	b, err := p.Body()
	if err != nil || string(b) != `{"name":"n","amount":1.5,"note":null}` {
		t.Fatalf("Body = %s, %v", b, err)
	}
	name, err := core.ParamGet[string](p, core.BodyBucket, "name")
	if err != nil || name != "n" {
		t.Fatalf("ParamGet = %q, %v", name, err)
	}
	note, err := core.ParamGetOpt[string](p, core.BodyBucket, "note")
	if err != nil || !note.IsNull() {
		t.Fatalf("ParamGetOpt = %v, %v", note, err)
	}
	limit, err := core.ParamGetOpt[int64](p, core.QueryBucket, "limit")
	if err != nil || limit.IsSet() {
		t.Fatalf("unset limit = %v, %v", limit, err)
	}
}

func TestParams_Validate(t *testing.T) {
	p := core.NewParams(listSchema, testCodec())
	if err := p.Validate(context.Background()); !core.HasCode(err, core.CodeMissingRequiredField) {
		t.Fatalf("expected missing name, got %v", err)
	}
	core.Put(&p, core.BodyBucket, "name", "n")
	if err := p.Validate(context.Background()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParams_Headers(t *testing.T) {
	p := core.NewParams(listSchema, testCodec())
	core.Put(&p, core.HeaderBucket, "Idempotency-Key", "k1")
	defaults := http.Header{}
	defaults.Set("Idempotency-Key", "default")
	defaults.Set("Accept", "application/json")

	h, err := p.Headers(defaults)
	if err != nil {
		t.Fatalf("Headers: %v", err)
	}
	got := map[string]string{"Idempotency-Key": h.Get("Idempotency-Key"), "Accept": h.Get("Accept")}
	want := map[string]string{"Idempotency-Key": "k1", "Accept": "application/json"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	if defaults.Get("Idempotency-Key") != "default" {
		t.Fatalf("defaults must not be mutated")
	}

	p.PutRaw(core.HeaderBucket, "Accept", core.Value("null"))
	h, _ = p.Headers(defaults)
	if _, ok := h["Accept"]; ok {
		t.Fatalf("null header must be removed")
	}
}

func TestParams_CloneIsIndependent(t *testing.T) {
	p := core.NewParams(listSchema, testCodec())
	core.Put(&p, core.QueryBucket, "limit", int64(1))
	q := p.Clone()
	core.Put(&q, core.QueryBucket, "cursor", "c2")
	q.SetPath("id", "x")

	if p.IsSet(core.QueryBucket, "cursor") {
		t.Fatalf("clone leaked into the original")
	}
	if _, ok := p.PathParam("id"); ok {
		t.Fatalf("clone path leaked into the original")
	}
	if got, _ := q.Query(); got != "limit=1&cursor=c2" {
		t.Fatalf("clone query = %s", got)
	}
}

func TestParams_PutMembers(t *testing.T) {
	p := core.NewParams(listSchema, testCodec())
	p.PutMembers(core.BodyBucket, core.Value(`{"name":"n","extra":{"k":1}}`))
	b, err := p.Body()
	if err != nil || string(b) != `{"name":"n","extra":{"k":1}}` {
		t.Fatalf("Body = %s, %v", b, err)
	}
	p.PutMembers(core.BodyBucket, core.Value(`[1]`))
	if p.Err() == nil {
		t.Fatalf("non-object members must be rejected")
	}
}

var paintSchema = core.NewParamSchema("PaintParams").
	Body(
		core.Required[string]("name"),
		core.Required[ColorEnum]("color"),
	)

func TestParams_ValidateRequired(t *testing.T) {
	ctx := context.Background()
	c := testCodec()

	p := core.NewParams(paintSchema, c)
	if err := p.ValidateRequired(ctx); !core.HasCode(err, core.CodeMissingRequiredField) {
		t.Fatalf("empty body: expected missing_required_field, got %v", err)
	}

	p.PutRaw(core.BodyBucket, "name", core.Value(`null`))
	core.Put(&p, core.BodyBucket, "color", colorSpec.Of(ColorRed))
	if err := p.ValidateRequired(ctx); !core.HasCode(err, core.CodeNullRequiredField) {
		t.Fatalf("null name: expected null_required_field, got %v", err)
	}

	core.Put(&p, core.BodyBucket, "name", "hull")
	core.Put(&p, core.BodyBucket, "color", colorSpec.FromRaw("green"))
	if err := p.ValidateRequired(ctx); err != nil {
		t.Fatalf("an unknown enum value must pass the pre-send check: %v", err)
	}
	if err := p.Validate(ctx); !core.HasCode(err, core.CodeInvalidEnumValue) {
		t.Fatalf("Validate: expected invalid_enum_value, got %v", err)
	}
}
