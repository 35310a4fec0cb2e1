package core

import (
	"bytes"
	"context"
	"fmt"
)

// Union is a tagged union resolved from a discriminator field. It holds
// exactly one known variant or, when the tag is missing or unrecognized, the
// raw payload as the unknown variant.
type Union[V any] struct {
	variant V
	known   bool
	raw     Value
	tag     string
	name    string
}

// UnionOf builds a union from a known variant. No discrimination happens.
func UnionOf[V any](v V) Union[V] { return Union[V]{variant: v, known: true} }

// Variant returns the resolved variant.
func (u Union[V]) Variant() (V, bool) { return u.variant, u.known }

// IsUnknown reports whether resolution fell back to the unknown variant.
func (u Union[V]) IsUnknown() bool { return !u.known }

// Tag returns the discriminator value seen during decoding, if any.
func (u Union[V]) Tag() string { return u.tag }

// Raw returns the wire payload of the union.
func (u Union[V]) Raw() Value {
	b, err := u.MarshalJSON()
	if err != nil {
		return nil
	}
	return b
}

// Validate recurses into the resolved variant; the unknown variant never
// validates.
func (u Union[V]) Validate(ctx context.Context) error {
	if !u.known {
		if isShapeOnly(ctx) {
			return nil
		}
		return UnresolvedUnionVariant(u.name, u.tag)
	}
	if v, ok := any(u.variant).(Validator); ok {
		return v.Validate(ctx)
	}
	return nil
}

// MarshalJSON emits the variant's own JSON with no envelope. Decoded unions
// emit the payload they were decoded from.
func (u Union[V]) MarshalJSON() ([]byte, error) {
	if len(u.raw) > 0 {
		return u.raw, nil
	}
	if !u.known {
		return nullValue, nil
	}
	return defaultDriver.Marshal(u.variant)
}

// Equal compares the wire form of two unions. Object payloads compare
// structurally, so member order does not matter.
func (u Union[V]) Equal(o Union[V]) bool {
	a, errA := u.MarshalJSON()
	b, errB := o.MarshalJSON()
	if errA != nil || errB != nil {
		return false
	}
	sa, errA := DecodeStore(defaultDriver, a)
	sb, errB := DecodeStore(defaultDriver, b)
	if errA == nil && errB == nil {
		return sa.Equal(sb)
	}
	return bytes.Equal(compactValue(a), compactValue(b))
}

// UnionSpec is the static discriminator table of one union type.
type UnionSpec[V any] struct {
	name          string
	discriminator string
	variants      map[string]func(c *Codec, data Value) (V, error)
}

// NewUnionSpec declares a union discriminated by the given field.
func NewUnionSpec[V any](name, discriminator string) *UnionSpec[V] {
	return &UnionSpec[V]{
		name:          name,
		discriminator: discriminator,
		variants:      map[string]func(*Codec, Value) (V, error){},
	}
}

// Name returns the union type name.
func (s *UnionSpec[V]) Name() string { return s.name }

// Discriminator returns the tag field name.
func (s *UnionSpec[V]) Discriminator() string { return s.discriminator }

// Variant maps a tag value to the decoder of its shape.
func (s *UnionSpec[V]) Variant(tag string, decode func(c *Codec, data Value) (V, error)) *UnionSpec[V] {
	s.variants[tag] = decode
	return s
}

// As adapts the registered decoder of a concrete shape T to a variant
// decoder for a union over V. T must implement V.
func As[T any, V any](c *Codec, data Value) (V, error) {
	var zero V
	t, err := Decode[T](c, data)
	if err != nil {
		return zero, err
	}
	v, ok := any(t).(V)
	if !ok {
		return zero, fmt.Errorf("core: %T does not implement the union variant type", t)
	}
	return v, nil
}

// Decode resolves data into a union. A missing, non-string or unknown tag
// yields the unknown variant. A known tag whose payload has the wrong shape
// (a required field missing or null, a value of the wrong type) is a hard
// error; unrecognized enum values inside it are left for Validate.
func (s *UnionSpec[V]) Decode(ctx context.Context, c *Codec, data Value) (Union[V], error) {
	u := Union[V]{raw: append(Value(nil), data...), name: s.name}
	st, err := DecodeStore(c.driver, data)
	if err != nil {
		return u, nil
	}
	tv, ok := st.Get(s.discriminator)
	if !ok {
		return u, nil
	}
	var tag string
	if err := c.driver.Unmarshal(tv, &tag); err != nil {
		return u, nil
	}
	u.tag = tag
	decode, ok := s.variants[tag]
	if !ok {
		return u, nil
	}
	v, err := decode(c, data)
	if err == nil {
		if vv, ok := any(v).(Validator); ok {
			err = vv.Validate(withShapeOnly(WithCollectAll(ctx, true)))
		}
	}
	if err != nil {
		return u, UnionDecodeFailure(s.name, tag, err)
	}
	u.variant = v
	u.known = true
	return u, nil
}

// RegisterUnion installs the decoder for Union[V] driven by spec.
func RegisterUnion[V any](c *Codec, spec *UnionSpec[V]) {
	Register(c, spec.name, func(c *Codec, data Value) (Union[V], error) {
		return spec.Decode(context.Background(), c, data)
	})
}
