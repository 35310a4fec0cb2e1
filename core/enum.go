package core

import "context"

// Enum is an open enum: the raw wire primitive plus the known variant it maps
// to, if any. Unrecognized raw values are kept so they survive a round trip.
// Two enums are equal when their raw values are equal.
type Enum[R comparable, K comparable] struct {
	raw   R
	known K
	ok    bool
	name  string
}

// EnumSpec is the static lookup table of one enum type.
type EnumSpec[R comparable, K comparable] struct {
	name    string
	byRaw   map[R]K
	byKnown map[K]R
}

// NewEnumSpec declares an enum type from its known variants.
func NewEnumSpec[R comparable, K comparable](name string, variants map[K]R) *EnumSpec[R, K] {
	s := &EnumSpec[R, K]{
		name:    name,
		byRaw:   make(map[R]K, len(variants)),
		byKnown: make(map[K]R, len(variants)),
	}
	for k, r := range variants {
		s.byRaw[r] = k
		s.byKnown[k] = r
	}
	return s
}

// NewStringEnumSpec declares a string enum whose known variants are spelled
// exactly like their wire value.
func NewStringEnumSpec[K ~string](name string, variants ...K) *EnumSpec[string, K] {
	m := make(map[K]string, len(variants))
	for _, v := range variants {
		m[v] = string(v)
	}
	return NewEnumSpec(name, m)
}

// Name returns the enum type name.
func (s *EnumSpec[R, K]) Name() string { return s.name }

// Of builds an enum from a declared variant and panics on any other value.
// Request builders taking caller input use FromRaw instead.
func (s *EnumSpec[R, K]) Of(k K) Enum[R, K] {
	r, ok := s.byKnown[k]
	if !ok {
		panic("core.EnumSpec.Of: variant not declared in " + s.name)
	}
	return Enum[R, K]{raw: r, known: k, ok: true, name: s.name}
}

// FromRaw builds an enum from a decoded wire value.
func (s *EnumSpec[R, K]) FromRaw(r R) Enum[R, K] {
	k, ok := s.byRaw[r]
	return Enum[R, K]{raw: r, known: k, ok: ok, name: s.name}
}

// Variants returns the number of known variants.
func (s *EnumSpec[R, K]) Variants() int { return len(s.byRaw) }

// Raw returns the wire value.
func (e Enum[R, K]) Raw() R { return e.raw }

// Known returns the recognized variant.
func (e Enum[R, K]) Known() (K, bool) { return e.known, e.ok }

// IsKnown reports whether the raw value matched a declared variant.
func (e Enum[R, K]) IsKnown() bool { return e.ok }

// Is reports whether the enum holds the known variant k.
func (e Enum[R, K]) Is(k K) bool { return e.ok && e.known == k }

// Equal compares raw values only.
func (e Enum[R, K]) Equal(o Enum[R, K]) bool { return e.raw == o.raw }

// Validate fails with invalid_enum_value for unrecognized raw values.
func (e Enum[R, K]) Validate(ctx context.Context) error {
	if e.ok || isShapeOnly(ctx) {
		return nil
	}
	return InvalidEnumValue(e.name, e.raw)
}

// MarshalJSON always emits the raw primitive.
func (e Enum[R, K]) MarshalJSON() ([]byte, error) { return defaultDriver.Marshal(e.raw) }

func (e Enum[R, K]) String() string {
	b, err := defaultDriver.Marshal(e.raw)
	if err != nil {
		return e.name
	}
	return string(b)
}

// RegisterEnum installs the decoder for Enum[R,K] driven by spec.
func RegisterEnum[R comparable, K comparable](c *Codec, spec *EnumSpec[R, K]) {
	Register(c, spec.name, func(c *Codec, data Value) (Enum[R, K], error) {
		var r R
		if err := c.driver.Unmarshal(data, &r); err != nil {
			return Enum[R, K]{}, err
		}
		return spec.FromRaw(r), nil
	})
}
