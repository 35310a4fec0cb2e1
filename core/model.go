package core

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"sync"
)

// Validator is implemented by every value that can be checked eagerly:
// models, enums, unions and pages.
type Validator interface {
	Validate(ctx context.Context) error
}

// FieldDesc declares one field of a schema.
type FieldDesc struct {
	Name     string
	Type     reflect.Type
	Required bool
	Nullable bool
}

// Required declares a field that must be present and non-null.
func Required[T any](name string) FieldDesc {
	return FieldDesc{Name: name, Type: reflect.TypeFor[T](), Required: true}
}

// RequiredNullable declares a field that must be present but may be null.
func RequiredNullable[T any](name string) FieldDesc {
	return FieldDesc{Name: name, Type: reflect.TypeFor[T](), Required: true, Nullable: true}
}

// Nullable declares an optional field where an explicit null is meaningful.
func Nullable[T any](name string) FieldDesc {
	return FieldDesc{Name: name, Type: reflect.TypeFor[T](), Nullable: true}
}

// Optional declares an optional field that is never null on the wire.
func Optional[T any](name string) FieldDesc {
	return FieldDesc{Name: name, Type: reflect.TypeFor[T]()}
}

// Schema is the ordered field declaration of a model or parameter bucket.
type Schema struct {
	name   string
	fields []FieldDesc
	index  map[string]int
}

// NewSchema declares a schema. Duplicate field names panic.
func NewSchema(name string, fields ...FieldDesc) *Schema {
	s := &Schema{name: name, fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic("core.NewSchema: duplicate field " + strconv.Quote(f.Name) + " in " + name)
		}
		s.index[f.Name] = i
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Fields returns the declared fields in declaration order.
func (s *Schema) Fields() []FieldDesc {
	if s == nil {
		return nil
	}
	return append([]FieldDesc(nil), s.fields...)
}

// Field looks up a declared field.
func (s *Schema) Field(name string) (FieldDesc, bool) {
	if s == nil {
		return FieldDesc{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return FieldDesc{}, false
	}
	return s.fields[i], true
}

var fallbackCodec = NewCodec(nil).Seal()

// Model is a typed, lazily checked view over a frozen Store. Concrete models
// embed it and expose typed getters built on Get and GetOpt. Field values are
// decoded on first access and cached; nothing is checked at construction.
type Model struct {
	schema *Schema
	codec  *Codec
	store  *Store
	cache  *fieldCache
}

type fieldCache struct {
	mu     sync.RWMutex
	values map[string]reflect.Value
}

func (fc *fieldCache) load(name string, t reflect.Type) (reflect.Value, bool) {
	if fc == nil {
		return reflect.Value{}, false
	}
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	v, ok := fc.values[name]
	if !ok || v.Type() != t {
		return reflect.Value{}, false
	}
	return v, true
}

func (fc *fieldCache) store(name string, v reflect.Value) {
	if fc == nil {
		return
	}
	fc.mu.Lock()
	fc.values[name] = v
	fc.mu.Unlock()
}

// ModelFromStore wraps a store without checking it. The store is frozen if it
// is not already.
func ModelFromStore(schema *Schema, c *Codec, s *Store) Model {
	return Model{
		schema: schema,
		codec:  c,
		store:  s.Freeze(),
		cache:  &fieldCache{values: map[string]reflect.Value{}},
	}
}

// Schema returns the declared schema.
func (m Model) Schema() *Schema { return m.schema }

// Codec returns the codec the model decodes with.
func (m Model) Codec() *Codec {
	if m.codec == nil {
		return fallbackCodec
	}
	return m.codec
}

// Store returns the frozen backing store.
func (m Model) Store() *Store {
	if m.store == nil {
		return NewStore().Freeze()
	}
	return m.store
}

// Has reports whether the field was set, including set to null.
func (m Model) Has(name string) bool { return m.store.Has(name) }

// Raw returns the undecoded wire value of a field.
func (m Model) Raw(name string) (Value, bool) { return m.store.Get(name) }

// Keys returns the field names present on the wire, declared or not.
func (m Model) Keys() []string { return m.store.Keys() }

// RawJSON returns the wire form of the model.
func (m Model) RawJSON() string {
	b, err := m.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// MarshalJSON emits every stored field verbatim, including undeclared ones.
func (m Model) MarshalJSON() ([]byte, error) { return m.Store().MarshalJSON() }

// Equal compares the wire form of two models.
func (m Model) Equal(o Model) bool { return m.Store().Equal(o.Store()) }

// Clone returns a structural copy with its own decode cache.
func (m Model) Clone() Model { return ModelFromStore(m.schema, m.codec, m.store.Clone()) }

// Validate forces every declared field in declaration order and recurses into
// nested models, enums, unions and slices of them. Undeclared fields are
// never checked. The first failure is returned unless the context was built
// with WithCollectAll.
func (m Model) Validate(ctx context.Context) error {
	collect := IsCollectAll(ctx)
	var iss Issues
	for _, f := range m.schema.Fields() {
		err := m.validateField(ctx, f)
		if err == nil {
			continue
		}
		if !collect {
			return err
		}
		iss = appendRebased(iss, "", err)
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (m Model) validateField(ctx context.Context, f FieldDesc) error {
	raw, ok := m.store.Get(f.Name)
	if !ok {
		if f.Required {
			return MissingRequiredField(f.Name)
		}
		return nil
	}
	if raw.IsNull() {
		if f.Required && !f.Nullable {
			return NullRequiredField(f.Name)
		}
		return nil
	}
	rv, err := m.field(f.Name, f.Type, raw)
	if err != nil {
		return err
	}
	return rebase(fieldPointer(f.Name), validateValue(ctx, rv))
}

// field decodes and caches one field value.
func (m Model) field(name string, t reflect.Type, raw Value) (reflect.Value, error) {
	if v, ok := m.cache.load(name, t); ok {
		return v, nil
	}
	c := m.Codec()
	v, err := c.decode(t, raw)
	if err != nil {
		if _, ok := AsIssues(err); ok {
			return v, rebase(fieldPointer(name), err)
		}
		return v, TypeMismatch(name, c.TypeName(t), err)
	}
	m.cache.store(name, v)
	return v, nil
}

func validateValue(ctx context.Context, rv reflect.Value) error {
	if !rv.IsValid() {
		return nil
	}
	if rv.CanInterface() {
		if v, ok := rv.Interface().(Validator); ok {
			if rv.Kind() == reflect.Pointer && rv.IsNil() {
				return nil
			}
			return v.Validate(ctx)
		}
	}
	collect := IsCollectAll(ctx)
	var iss Issues
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := validateValue(ctx, rv.Index(i)); err != nil {
				if !collect {
					return rebase("/"+strconv.Itoa(i), err)
				}
				iss = appendRebased(iss, "/"+strconv.Itoa(i), err)
			}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if err := validateValue(ctx, iter.Value()); err != nil {
				base := fieldPointer(fmt.Sprint(iter.Key().Interface()))
				if !collect {
					return rebase(base, err)
				}
				iss = appendRebased(iss, base, err)
			}
		}
	case reflect.Pointer:
		if !rv.IsNil() {
			return validateValue(ctx, rv.Elem())
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// Get reads a required field: absent fails with missing_required_field, null
// with null_required_field, and an undecodable value with type_mismatch.
func Get[T any](m Model, name string) (T, error) {
	var zero T
	raw, ok := m.store.Get(name)
	if !ok {
		return zero, MissingRequiredField(name)
	}
	if raw.IsNull() {
		return zero, NullRequiredField(name)
	}
	rv, err := m.field(name, reflect.TypeFor[T](), raw)
	if err != nil {
		return zero, err
	}
	out, _ := rv.Interface().(T)
	return out, nil
}

// GetOpt reads an optional or nullable field, keeping absent apart from null.
// A declared required field that is absent still fails.
func GetOpt[T any](m Model, name string) (Opt[T], error) {
	raw, ok := m.store.Get(name)
	if !ok {
		if f, declared := m.schema.Field(name); declared && f.Required {
			return Opt[T]{}, MissingRequiredField(name)
		}
		return Opt[T]{}, nil
	}
	if raw.IsNull() {
		return NullOf[T](), nil
	}
	rv, err := m.field(name, reflect.TypeFor[T](), raw)
	if err != nil {
		return Opt[T]{}, err
	}
	out, _ := rv.Interface().(T)
	return Some(out), nil
}

// With returns a copy of m with name set to v.
func With[T any](m Model, name string, v T) Model {
	return WithOpt(m, name, Some(v))
}

// WithOpt returns a copy of m with name set according to v: absent removes
// the field, null records a JSON null.
func WithOpt[T any](m Model, name string, v Opt[T]) Model {
	s := m.store.Clone()
	if err := putOpt(m.Codec(), s, name, v, false); err != nil {
		panic(fmt.Sprintf("core.WithOpt: %s.%s: %v", m.schema.Name(), name, err))
	}
	return ModelFromStore(m.schema, m.codec, s)
}

// putOpt writes v into s. When collapseNull is set an explicit null is
// treated like "not set".
func putOpt[T any](c *Codec, s *Store, name string, v Opt[T], collapseNull bool) error {
	switch v.Presence() {
	case Absent:
		s.Delete(name)
	case Null:
		if collapseNull {
			s.Delete(name)
			return nil
		}
		s.Set(name, nullValue)
	default:
		val, _ := v.Get()
		raw, err := c.Encode(val)
		if err != nil {
			return err
		}
		s.Set(name, raw)
	}
	return nil
}

// RegisterModel installs the decoder for a concrete model type T that wraps
// Model.
func RegisterModel[T any](c *Codec, schema *Schema, wrap func(Model) T) {
	Register(c, schema.Name(), func(c *Codec, data Value) (T, error) {
		var zero T
		st, err := DecodeStore(c.driver, data)
		if err != nil {
			return zero, err
		}
		return wrap(ModelFromStore(schema, c, st)), nil
	})
}

// Builder assembles a new model field by field. It is single-goroutine and
// becomes a frozen Model on Build.
type Builder struct {
	schema *Schema
	codec  *Codec
	store  *Store
	err    error
}

// NewBuilder starts an empty model of the given schema.
func NewBuilder(schema *Schema, c *Codec) *Builder {
	if c == nil {
		c = fallbackCodec
	}
	return &Builder{schema: schema, codec: c, store: NewStore()}
}

// Set writes a field value.
func Set[T any](b *Builder, name string, v T) *Builder {
	return SetOpt(b, name, Some(v))
}

// SetOpt writes a field according to v's presence.
func SetOpt[T any](b *Builder, name string, v Opt[T]) *Builder {
	if b.err != nil {
		return b
	}
	if err := putOpt(b.codec, b.store, name, v, false); err != nil {
		b.err = issueAt(fieldPointer(name), CodeEncodeFailure, name, err, map[string]any{"field": name})
	}
	return b
}

// SetRaw writes a pre-encoded value, typically an undeclared extra property.
func (b *Builder) SetRaw(name string, v Value) *Builder {
	if b.err == nil {
		b.store.Set(name, v)
	}
	return b
}

// Build checks that every required field was supplied and freezes the store.
func (b *Builder) Build() (Model, error) {
	if b.err != nil {
		return Model{}, b.err
	}
	var iss Issues
	for _, f := range b.schema.Fields() {
		if f.Required && !b.store.Has(f.Name) {
			iss = appendRebased(iss, "", MissingRequiredField(f.Name))
		}
	}
	if len(iss) > 0 {
		return Model{}, iss
	}
	return ModelFromStore(b.schema, b.codec, b.store), nil
}

// MustBuild is Build for constructors whose inputs cannot fail to encode.
func (b *Builder) MustBuild() Model {
	m, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("core.Builder: %s: %v", b.schema.Name(), err))
	}
	return m
}
