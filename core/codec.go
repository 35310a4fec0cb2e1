package core

import (
	"fmt"
	"reflect"
	"strconv"
)

var defaultDriver Driver = GoJSON()

type decodeFunc func(c *Codec, data Value) (any, error)

type encodeFunc func(c *Codec, v any) (Value, error)

// Codec is the shared decode/encode context. Decoders are resolved by the
// declared Go type of a field; types without a registration fall through to
// the Driver. A Codec is built once, sealed, and then only read, so it may be
// shared by every model on every goroutine.
type Codec struct {
	driver   Driver
	decoders map[reflect.Type]decodeFunc
	encoders map[reflect.Type]encodeFunc
	names    map[reflect.Type]string
	sealed   bool
}

// NewCodec returns an unsealed Codec over d (GoJSON when nil) with the
// built-in time codec registered.
func NewCodec(d Driver) *Codec {
	if d == nil {
		d = defaultDriver
	}
	c := &Codec{
		driver:   d,
		decoders: map[reflect.Type]decodeFunc{},
		encoders: map[reflect.Type]encodeFunc{},
		names:    map[reflect.Type]string{},
	}
	registerTime(c)
	registerPagination(c)
	return c
}

// Driver returns the JSON engine.
func (c *Codec) Driver() Driver { return c.driver }

// Seal freezes the registry. Registering afterwards panics.
func (c *Codec) Seal() *Codec {
	c.sealed = true
	return c
}

// Sealed reports whether Seal was called.
func (c *Codec) Sealed() bool { return c.sealed }

// Register installs the decoder for T under a human-readable type name used
// in type-mismatch issues.
func Register[T any](c *Codec, name string, fn func(c *Codec, data Value) (T, error)) {
	t := reflect.TypeFor[T]()
	c.mustBeOpen(t)
	c.decoders[t] = func(c *Codec, data Value) (any, error) { return fn(c, data) }
	c.names[t] = name
}

// RegisterEncoder installs a custom wire encoding for T.
func RegisterEncoder[T any](c *Codec, fn func(c *Codec, v T) (Value, error)) {
	t := reflect.TypeFor[T]()
	c.mustBeOpen(t)
	c.encoders[t] = func(c *Codec, v any) (Value, error) { return fn(c, v.(T)) }
}

func (c *Codec) mustBeOpen(t reflect.Type) {
	if c.sealed {
		panic(fmt.Sprintf("core.Codec: register %s after Seal", t))
	}
}

// Decode decodes a raw value into T using the registry.
func Decode[T any](c *Codec, data Value) (T, error) {
	var zero T
	rv, err := c.decode(reflect.TypeFor[T](), data)
	if err != nil {
		return zero, err
	}
	out, _ := rv.Interface().(T)
	return out, nil
}

// Encode encodes v into its wire form.
func (c *Codec) Encode(v any) (Value, error) {
	if v == nil {
		return nullValue, nil
	}
	if fn, ok := c.encoders[reflect.TypeOf(v)]; ok {
		return fn(c, v)
	}
	b, err := c.driver.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Value(b), nil
}

// TypeName returns the registered name of t, or its Go spelling.
func (c *Codec) TypeName(t reflect.Type) string {
	if n, ok := c.names[t]; ok {
		return n
	}
	switch t.Kind() {
	case reflect.Slice:
		return "[]" + c.TypeName(t.Elem())
	case reflect.Pointer:
		return c.TypeName(t.Elem())
	case reflect.Map:
		return "map[" + t.Key().String() + "]" + c.TypeName(t.Elem())
	}
	return t.String()
}

func (c *Codec) decode(t reflect.Type, data Value) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	if fn, ok := c.decoders[t]; ok {
		v, err := fn(c, data)
		if err != nil {
			return out, err
		}
		if v != nil {
			out.Set(reflect.ValueOf(v))
		}
		return out, nil
	}
	if c.needsRegistry(t) {
		switch t.Kind() {
		case reflect.Slice:
			return c.decodeSlice(t, data)
		case reflect.Pointer:
			if data.IsNull() {
				return out, nil
			}
			ev, err := c.decode(t.Elem(), data)
			if err != nil {
				return out, err
			}
			p := reflect.New(t.Elem())
			p.Elem().Set(ev)
			return p, nil
		case reflect.Map:
			return c.decodeMap(t, data)
		}
	}
	p := reflect.New(t)
	if err := c.driver.Unmarshal(data, p.Interface()); err != nil {
		return out, err
	}
	return p.Elem(), nil
}

func (c *Codec) decodeSlice(t reflect.Type, data Value) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	if data.IsNull() {
		return out, nil
	}
	elems, err := c.driver.Elements(data)
	if err != nil {
		return out, err
	}
	out = reflect.MakeSlice(t, 0, len(elems))
	var iss Issues
	for i, e := range elems {
		ev, err := c.decode(t.Elem(), e)
		if err != nil {
			iss = appendRebased(iss, "/"+strconv.Itoa(i), err)
			continue
		}
		out = reflect.Append(out, ev)
	}
	if len(iss) > 0 {
		return reflect.New(t).Elem(), iss
	}
	return out, nil
}

func (c *Codec) decodeMap(t reflect.Type, data Value) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	if t.Key().Kind() != reflect.String {
		return out, fmt.Errorf("core: unsupported map key type %s", t.Key())
	}
	if data.IsNull() {
		return out, nil
	}
	members, err := c.driver.Members(data)
	if err != nil {
		return out, err
	}
	out = reflect.MakeMapWithSize(t, len(members))
	var iss Issues
	for _, m := range members {
		ev, err := c.decode(t.Elem(), m.Value)
		if err != nil {
			iss = appendRebased(iss, fieldPointer(m.Key), err)
			continue
		}
		out.SetMapIndex(reflect.ValueOf(m.Key).Convert(t.Key()), ev)
	}
	if len(iss) > 0 {
		return reflect.New(t).Elem(), iss
	}
	return out, nil
}

// needsRegistry reports whether t is, or contains, a registered type.
func (c *Codec) needsRegistry(t reflect.Type) bool {
	if _, ok := c.decoders[t]; ok {
		return true
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Pointer, reflect.Map:
		return c.needsRegistry(t.Elem())
	}
	return false
}

func appendRebased(dst Issues, base string, err error) Issues {
	child, _ := AsIssues(rebase(base, err))
	return AppendIssues(dst, child...)
}
