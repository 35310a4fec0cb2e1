package core_test

import (
	"time"

	"github.com/reoring/billing-go/core"
)

type Color string

const (
	ColorRed  Color = "red"
	ColorBlue Color = "blue"
)

var colorSpec = core.NewStringEnumSpec("Color", ColorRed, ColorBlue)

type ColorEnum = core.Enum[string, Color]

type Mode int

const (
	ModeOff Mode = iota
	ModeOn
)

var modeSpec = core.NewEnumSpec("Mode", map[Mode]bool{ModeOff: false, ModeOn: true})

type ModeEnum = core.Enum[bool, Mode]

var partSchema = core.NewSchema("Part",
	core.Required[float64]("weight"),
)

type Part struct{ core.Model }

func (p Part) Weight() (float64, error) { return core.Get[float64](p.Model, "weight") }

var widgetSchema = core.NewSchema("Widget",
	core.Required[string]("id"),
	core.Required[ColorEnum]("color"),
	core.Nullable[string]("note"),
	core.Optional[[]Part]("parts"),
	core.RequiredNullable[time.Time]("created_at"),
	core.Optional[ModeEnum]("mode"),
)

type Widget struct{ core.Model }

func (w Widget) ID() (string, error) { return core.Get[string](w.Model, "id") }
func (w Widget) Color() (ColorEnum, error) { return core.Get[ColorEnum](w.Model, "color") }
func (w Widget) Note() (core.Opt[string], error) {
	return core.GetOpt[string](w.Model, "note")
}
func (w Widget) Parts() (core.Opt[[]Part], error) {
	return core.GetOpt[[]Part](w.Model, "parts")
}
func (w Widget) CreatedAt() (core.Opt[time.Time], error) {
	return core.GetOpt[time.Time](w.Model, "created_at")
}

type Shape interface{ isShape() }

var circleSchema = core.NewSchema("Circle",
	core.Required[string]("type"),
	core.Required[float64]("radius"),
	core.Optional[ColorEnum]("fill"),
)

type Circle struct{ core.Model }

func (Circle) isShape() {}

func (c Circle) Radius() (float64, error) { return core.Get[float64](c.Model, "radius") }

func (c Circle) Fill() (core.Opt[ColorEnum], error) {
	return core.GetOpt[ColorEnum](c.Model, "fill")
}

var squareSchema = core.NewSchema("Square",
	core.Required[string]("type"),
	core.Required[float64]("side"),
)

type Square struct{ core.Model }

func (Square) isShape() {}

var shapeSpec = core.NewUnionSpec[Shape]("Shape", "type").
	Variant("circle", core.As[Circle, Shape]).
	Variant("square", core.As[Square, Shape])

type ShapeUnion = core.Union[Shape]

func testCodec() *core.Codec {
	c := core.NewCodec(nil)
	core.RegisterEnum(c, colorSpec)
	core.RegisterEnum(c, modeSpec)
	core.RegisterModel(c, partSchema, func(m core.Model) Part { return Part{m} })
	core.RegisterModel(c, widgetSchema, func(m core.Model) Widget { return Widget{m} })
	core.RegisterModel(c, circleSchema, func(m core.Model) Circle { return Circle{m} })
	core.RegisterModel(c, squareSchema, func(m core.Model) Square { return Square{m} })
	core.RegisterUnion(c, shapeSpec)
	core.RegisterPage[Widget](c, "WidgetPage")
	return c.Seal()
}

func mustWidget(c *core.Codec, js string) Widget {
	w, err := core.Decode[Widget](c, core.Value(js))
	if err != nil {
		panic(err)
	}
	return w
}

func issuePaths(err error) []string {
	iss, _ := core.AsIssues(err)
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Code+" "+it.Path)
	}
	return out
}
