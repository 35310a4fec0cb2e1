package core

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ContentTypeJSON is the media type of every request body.
const ContentTypeJSON = "application/json"

// Bucket selects where a request parameter is rendered.
type Bucket uint8

const (
	QueryBucket Bucket = iota
	HeaderBucket
	BodyBucket
	numBuckets
)

func (b Bucket) String() string {
	switch b {
	case QueryBucket:
		return "query"
	case HeaderBucket:
		return "header"
	case BodyBucket:
		return "body"
	}
	return fmt.Sprintf("bucket(%d)", uint8(b))
}

// ParamSchema declares the path, query, header and body fields of one
// request. Path parameters are always required strings.
type ParamSchema struct {
	name    string
	path    []string
	buckets [numBuckets]*Schema
}

// NewParamSchema starts an empty parameter declaration.
func NewParamSchema(name string) *ParamSchema {
	s := &ParamSchema{name: name}
	for i := range s.buckets {
		s.buckets[i] = NewSchema(name + "." + Bucket(i).String())
	}
	return s
}

// Path declares path parameters.
func (s *ParamSchema) Path(names ...string) *ParamSchema {
	s.path = append(s.path, names...)
	return s
}

// Query declares query fields in rendering order.
func (s *ParamSchema) Query(fields ...FieldDesc) *ParamSchema {
	return s.declare(QueryBucket, fields)
}

// Header declares header fields.
func (s *ParamSchema) Header(fields ...FieldDesc) *ParamSchema {
	return s.declare(HeaderBucket, fields)
}

// Body declares body fields.
func (s *ParamSchema) Body(fields ...FieldDesc) *ParamSchema {
	return s.declare(BodyBucket, fields)
}

func (s *ParamSchema) declare(b Bucket, fields []FieldDesc) *ParamSchema {
	all := append(s.buckets[b].Fields(), fields...)
	s.buckets[b] = NewSchema(s.name+"."+b.String(), all...)
	return s
}

// Name returns the params type name.
func (s *ParamSchema) Name() string { return s.name }

// Bucket returns the field declaration of one bucket.
func (s *ParamSchema) Bucket(b Bucket) *Schema { return s.buckets[b] }

// Params is the builder-mode store of one request: path values plus a
// store per bucket. It is not safe for concurrent mutation.
type Params struct {
	schema  *ParamSchema
	codec   *Codec
	path    map[string]string
	buckets [numBuckets]*Store
	err     error
}

// NewParams starts empty params for schema.
func NewParams(schema *ParamSchema, c *Codec) Params {
	if c == nil {
		c = fallbackCodec
	}
	p := Params{schema: schema, codec: c, path: map[string]string{}}
	for i := range p.buckets {
		p.buckets[i] = NewStore()
	}
	return p
}

// Schema returns the declaration.
func (p Params) Schema() *ParamSchema { return p.schema }

// Codec returns the codec used for encoding values.
func (p Params) Codec() *Codec {
	if p.codec == nil {
		return fallbackCodec
	}
	return p.codec
}

// Err returns the first error recorded by a setter.
func (p Params) Err() error { return p.err }

// SetPath sets a path parameter.
func (p *Params) SetPath(name, value string) {
	p.init()
	p.path[name] = value
}

// PathParam returns a path parameter.
func (p Params) PathParam(name string) (string, bool) {
	v, ok := p.path[name]
	return v, ok
}

// IsSet reports whether a bucket entry exists, including an explicit null.
func (p Params) IsSet(b Bucket, name string) bool {
	return p.buckets[b].Has(name)
}

// Store returns the builder store of a bucket.
func (p Params) Store(b Bucket) *Store { return p.buckets[b] }

func (p *Params) init() {
	if p.path == nil {
		p.path = map[string]string{}
	}
	for i := range p.buckets {
		if p.buckets[i] == nil {
			p.buckets[i] = NewStore()
		}
	}
}

func (p *Params) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// Put sets a declared field to a value.
func Put[T any](p *Params, b Bucket, name string, v T) {
	PutOpt(p, b, name, Some(v))
}

// PutOpt sets a declared field according to v. For fields declared nullable
// an explicit null is recorded; for every other field an explicit null
// behaves exactly like never setting the field.
func PutOpt[T any](p *Params, b Bucket, name string, v Opt[T]) {
	p.init()
	f, ok := p.schema.Bucket(b).Field(name)
	if !ok {
		p.fail(issueAt(fieldPointer(name), CodeUndeclaredField, p.schema.Name()+" "+b.String(), nil, map[string]any{"field": name}))
		return
	}
	if err := putOpt(p.Codec(), p.buckets[b], name, v, !f.Nullable); err != nil {
		p.fail(issueAt(fieldPointer(name), CodeEncodeFailure, name, err, map[string]any{"field": name}))
	}
}

// PutRaw writes a pre-encoded value under any name, declared or not.
func (p *Params) PutRaw(b Bucket, name string, v Value) {
	p.init()
	p.buckets[b].Set(name, v)
}

// PutMembers copies every member of a JSON object into a bucket, as used for
// request bodies built from a union variant.
func (p *Params) PutMembers(b Bucket, obj Value) {
	p.init()
	members, err := p.Codec().Driver().Members(obj)
	if err != nil {
		p.fail(TypeMismatch(b.String(), "object", err))
		return
	}
	for _, m := range members {
		p.buckets[b].Set(m.Key, m.Value)
	}
}

// Clone returns an independent copy, so a request can be re-sent with a
// different cursor without touching the caller's params.
func (p Params) Clone() Params {
	out := Params{schema: p.schema, codec: p.codec, path: make(map[string]string, len(p.path)), err: p.err}
	for k, v := range p.path {
		out.path[k] = v
	}
	for i := range p.buckets {
		out.buckets[i] = p.buckets[i].Clone()
	}
	return out
}

func (p Params) bucketModel(b Bucket) Model {
	var sch *Schema
	if p.schema != nil {
		sch = p.schema.Bucket(b)
	}
	return Model{schema: sch, codec: p.Codec(), store: p.buckets[b]}
}

// ParamGet reads a required bucket field back.
func ParamGet[T any](p Params, b Bucket, name string) (T, error) {
	return Get[T](p.bucketModel(b), name)
}

// ParamGetOpt reads an optional bucket field back.
func ParamGetOpt[T any](p Params, b Bucket, name string) (Opt[T], error) {
	return GetOpt[T](p.bucketModel(b), name)
}

// Validate checks that required path, query, header and body fields are set
// and that every set field decodes.
func (p Params) Validate(ctx context.Context) error {
	if p.err != nil {
		return p.err
	}
	if p.schema == nil {
		return nil
	}
	for _, name := range p.schema.path {
		if p.path[name] == "" {
			return MissingRequiredField(name)
		}
	}
	for b := Bucket(0); b < numBuckets; b++ {
		if err := p.bucketModel(b).Validate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRequired is the check run before a request is sent: required
// fields must be set and non-null and every set field must decode. Unknown
// open enum values pass, since the server may accept values this client does
// not know.
func (p Params) ValidateRequired(ctx context.Context) error {
	return p.Validate(withShapeOnly(ctx))
}

// URL renders base joined with template, where each {name} placeholder is
// replaced by its escaped path parameter, followed by the query string.
func (p Params) URL(base, template string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	path, err := p.expand(template)
	if err != nil {
		return "", err
	}
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	q, err := p.Query()
	if err != nil {
		return "", err
	}
	if q != "" {
		u += "?" + q
	}
	return u, nil
}

func (p Params) expand(template string) (string, error) {
	var b strings.Builder
	rest := template
	for {
		i := strings.IndexByte(rest, '{')
		if i < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		j := strings.IndexByte(rest[i:], '}')
		if j < 0 {
			return "", fmt.Errorf("core: unterminated placeholder in %q", template)
		}
		name := rest[i+1 : i+j]
		v := p.path[name]
		if v == "" {
			return "", MissingRequiredField(name)
		}
		b.WriteString(rest[:i])
		b.WriteString(url.PathEscape(v))
		rest = rest[i+j+1:]
	}
}

// Query renders the query bucket: declared fields in declaration order, then
// undeclared extras in insertion order. Absent fields are omitted; an explicit
// null renders as an empty value.
func (p Params) Query() (string, error) {
	if p.err != nil {
		return "", p.err
	}
	st := p.buckets[QueryBucket]
	if st.Len() == 0 {
		return "", nil
	}
	var names []string
	seen := map[string]bool{}
	if p.schema != nil {
		for _, f := range p.schema.Bucket(QueryBucket).Fields() {
			if st.Has(f.Name) {
				names = append(names, f.Name)
				seen[f.Name] = true
			}
		}
	}
	for _, k := range st.Keys() {
		if !seen[k] {
			names = append(names, k)
		}
	}
	var pairs []string
	for _, name := range names {
		raw, _ := st.Get(name)
		kv, err := p.queryPairs(name, raw)
		if err != nil {
			return "", TypeMismatch(name, "query value", err)
		}
		pairs = append(pairs, kv...)
	}
	return strings.Join(pairs, "&"), nil
}

func (p Params) queryPairs(name string, raw Value) ([]string, error) {
	d := p.Codec().Driver()
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		elems, err := d.Elements(trimmed)
		if err != nil {
			return nil, err
		}
		var out []string
		for _, e := range elems {
			kv, err := p.queryPairs(name, e)
			if err != nil {
				return nil, err
			}
			out = append(out, kv...)
		}
		return out, nil
	case '{':
		members, err := d.Members(trimmed)
		if err != nil {
			return nil, err
		}
		var out []string
		for _, m := range members {
			kv, err := p.queryPairs(name+"["+m.Key+"]", m.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, kv...)
		}
		return out, nil
	}
	s, err := scalarString(d, trimmed)
	if err != nil {
		return nil, err
	}
	return []string{url.QueryEscape(name) + "=" + url.QueryEscape(s)}, nil
}

// scalarString renders a JSON scalar the way it appears in a query string or
// header: strings unquoted, numbers with their wire spelling, null as empty.
func scalarString(d Driver, raw Value) (string, error) {
	if raw.IsNull() {
		return "", nil
	}
	var v any
	if err := d.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		if t {
			return "true", nil
		}
		return "false", nil
	case fmt.Stringer:
		return t.String(), nil
	}
	return string(bytes.TrimSpace(raw)), nil
}

// Headers merges defaults with the header bucket; bucket entries win and an
// explicit null removes the header.
func (p Params) Headers(defaults http.Header) (http.Header, error) {
	if p.err != nil {
		return nil, p.err
	}
	h := defaults.Clone()
	if h == nil {
		h = http.Header{}
	}
	st := p.buckets[HeaderBucket]
	for _, k := range st.Keys() {
		raw, _ := st.Get(k)
		if raw.IsNull() {
			h.Del(k)
			continue
		}
		s, err := scalarString(p.Codec().Driver(), raw)
		if err != nil {
			return nil, TypeMismatch(k, "header value", err)
		}
		h.Set(k, s)
	}
	return h, nil
}

// Body renders the body bucket as a JSON object, or nil when no body field
// was set.
func (p Params) Body() ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	st := p.buckets[BodyBucket]
	if st.Len() == 0 {
		return nil, nil
	}
	return st.MarshalJSON()
}
