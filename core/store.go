package core

import (
	"bytes"
	"errors"
)

// Value is an undecoded JSON value exactly as it appeared on the wire.
type Value []byte

// nullValue is the canonical JSON null.
var nullValue = Value("null")

// IsNull reports whether the value is the JSON literal null.
func (v Value) IsNull() bool { return bytes.Equal(bytes.TrimSpace(v), nullValue) }

// MarshalJSON emits the raw bytes verbatim.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return nullValue, nil
	}
	return v, nil
}

// UnmarshalJSON keeps a copy of the raw bytes.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = append((*v)[:0], data...)
	return nil
}

// Store is the insertion-ordered field map that backs every model and
// parameter bucket. A store is either a mutable builder or a frozen snapshot;
// a frozen store is safe for concurrent reads.
type Store struct {
	keys   []string
	values map[string]Value
	frozen bool
}

// NewStore returns an empty builder store.
func NewStore() *Store {
	return &Store{values: map[string]Value{}}
}

// Get returns the raw value for name. The boolean distinguishes "absent"
// from "present", including present-with-null.
func (s *Store) Get(name string) (Value, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether name was set, regardless of its value.
func (s *Store) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Set stores a raw value, keeping the original position of an existing key.
// Setting on a frozen store is a programming error and panics.
func (s *Store) Set(name string, v Value) {
	s.mustBeMutable("Set")
	if _, ok := s.values[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.values[name] = append(Value(nil), v...)
}

// Delete removes name. Deleting on a frozen store panics.
func (s *Store) Delete(name string) {
	s.mustBeMutable("Delete")
	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	for i, k := range s.keys {
		if k == name {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

func (s *Store) mustBeMutable(op string) {
	if s == nil {
		panic("core.Store." + op + ": nil store")
	}
	if s.frozen {
		panic("core.Store." + op + ": store is frozen")
	}
}

// Keys returns field names in insertion order.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Len returns the number of fields.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Frozen reports whether the store is an immutable snapshot.
func (s *Store) Frozen() bool { return s != nil && s.frozen }

// Freeze returns an immutable snapshot. Freezing a frozen store returns it
// unchanged; otherwise the receiver is copied so the builder stays usable.
func (s *Store) Freeze() *Store {
	if s == nil {
		return &Store{values: map[string]Value{}, frozen: true}
	}
	if s.frozen {
		return s
	}
	out := s.Clone()
	out.frozen = true
	return out
}

// Clone returns a mutable deep copy.
func (s *Store) Clone() *Store {
	out := NewStore()
	if s == nil {
		return out
	}
	out.keys = append(out.keys, s.keys...)
	for k, v := range s.values {
		out.values[k] = append(Value(nil), v...)
	}
	return out
}

// Equal compares two stores structurally: same key set and the same compacted
// wire bytes for each key. Member order does not matter; number spelling does.
func (s *Store) Equal(o *Store) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, k := range s.Keys() {
		a, _ := s.Get(k)
		b, ok := o.Get(k)
		if !ok || !bytes.Equal(compactValue(a), compactValue(b)) {
			return false
		}
	}
	return true
}

// MarshalJSON emits the members in insertion order.
func (s *Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := defaultDriver.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		v, _ := s.Get(k)
		if len(v) == 0 {
			v = nullValue
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ErrNotObject is returned when an object payload was expected.
var ErrNotObject = errors.New("core: JSON value is not an object")

// DecodeStore builds a frozen store from a JSON object payload, preserving
// member order and raw value bytes. Duplicate keys keep the last value.
func DecodeStore(d Driver, data []byte) (*Store, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}
	members, err := d.Members(trimmed)
	if err != nil {
		return nil, err
	}
	s := NewStore()
	for _, m := range members {
		s.Set(m.Key, m.Value)
	}
	s.frozen = true
	return s, nil
}

func compactValue(v Value) []byte {
	c, err := defaultDriver.Compact(v)
	if err != nil {
		return bytes.TrimSpace(v)
	}
	return c
}
