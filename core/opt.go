package core

import "fmt"

// Presence is the tri-state of an optional field.
type Presence uint8

const (
	Absent  Presence = iota // Never set.
	Null                    // Set to JSON null.
	Present                 // Set to a value.
)

// Opt is an optional field value that keeps "never set" apart from "set to
// null". The zero value is absent.
type Opt[T any] struct {
	value    T
	presence Presence
}

// Some wraps a value.
func Some[T any](v T) Opt[T] { return Opt[T]{value: v, presence: Present} }

// NullOf returns an explicit null.
func NullOf[T any]() Opt[T] { return Opt[T]{presence: Null} }

// Presence returns the tri-state.
func (o Opt[T]) Presence() Presence { return o.presence }

// IsSet reports whether the field was set, including set to null.
func (o Opt[T]) IsSet() bool { return o.presence != Absent }

// IsNull reports whether the field was explicitly set to null.
func (o Opt[T]) IsNull() bool { return o.presence == Null }

// Get returns the value and whether one is present.
func (o Opt[T]) Get() (T, bool) { return o.value, o.presence == Present }

// Or returns the value, or fallback when absent or null.
func (o Opt[T]) Or(fallback T) T {
	if o.presence == Present {
		return o.value
	}
	return fallback
}

func (o Opt[T]) String() string {
	switch o.presence {
	case Null:
		return "null"
	case Present:
		return fmt.Sprint(o.value)
	default:
		return "<absent>"
	}
}
