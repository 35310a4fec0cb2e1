package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
)

// Member is a single object member in wire order.
type Member struct {
	Key   string
	Value Value
}

// Driver is the JSON engine behind a Codec. The default implementation is
// backed by goccy/go-json and may be swapped with NewCodec.
//
// Unmarshal must keep numbers decoded into interface values as json.Number
// so amounts never round-trip through float64.
type Driver interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	// Members returns the members of a JSON object in wire order with each
	// value's raw bytes untouched.
	Members(data []byte) ([]Member, error)
	// Elements returns the raw elements of a JSON array.
	Elements(data []byte) ([]Value, error)
	Compact(data []byte) ([]byte, error)
	Name() string
}

// GoJSON returns the goccy/go-json backed Driver.
func GoJSON() Driver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) Name() string { return "go-json" }

func (driverGoJSON) Marshal(v any) ([]byte, error) { return j.Marshal(v) }

func (driverGoJSON) Unmarshal(data []byte, v any) error {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("json: trailing data after top-level value")
	}
	return nil
}

func (driverGoJSON) Compact(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := j.Compact(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (driverGoJSON) Members(data []byte) ([]Member, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var out []Member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("json: expected object key, got %T", tok)
		}
		var raw j.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, Member{Key: key, Value: Value(bytes.TrimSpace(raw))})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return out, nil
}

func (driverGoJSON) Elements(data []byte) ([]Value, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	out := []Value{}
	for dec.More() {
		var raw j.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, Value(bytes.TrimSpace(raw)))
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return out, nil
}

func expectDelim(dec *j.Decoder, want j.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(j.Delim); !ok || d != want {
		return fmt.Errorf("json: expected '%c', got %v", want, tok)
	}
	return nil
}
