package wire

import (
	"bytes"
	"encoding/json"
	"errors"
)

var (
	// ErrUnsetMarshal is returned when an unset Optional or OptionalNullable
	// is marshaled by a struct field that lacks the omitzero option.
	ErrUnsetMarshal = errors.New("wire: unset value marshaled; tag the field with omitzero")
	// ErrNullNotAllowed is returned when null is decoded into an Optional.
	ErrNullNotAllowed = errors.New("wire: null not permitted here")
)

var nullLiteral = []byte("null")

func isNull(b []byte) bool { return bytes.Equal(bytes.TrimSpace(b), nullLiteral) }

// Optional is a field whose key may be absent but never null.
type Optional[T any] struct {
	val T
	ok  bool
}

// Some returns a set Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{val: v, ok: true} }

// None returns an unset Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// Get returns the value and whether it is set.
func (o Optional[T]) Get() (T, bool) { return o.val, o.ok }

// OrElse returns the value or def when unset.
func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.val
	}
	return def
}

// IsZero reports whether the value is unset, so omitzero drops the key.
func (o Optional[T]) IsZero() bool { return !o.ok }

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return nil, ErrUnsetMarshal
	}
	return json.Marshal(o.val)
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return ErrNullNotAllowed
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Optional[T]{val: v, ok: true}
	return nil
}

// Nullable is a field whose key is always present and whose value may be
// null. The zero value is null.
type Nullable[T any] struct {
	val T
	ok  bool
}

// NonNull returns a Nullable holding v.
func NonNull[T any](v T) Nullable[T] { return Nullable[T]{val: v, ok: true} }

// Null returns a null Nullable.
func Null[T any]() Nullable[T] { return Nullable[T]{} }

// Get returns the value and false when null.
func (n Nullable[T]) Get() (T, bool) { return n.val, n.ok }

// IsNull reports whether the value is the explicit null.
func (n Nullable[T]) IsNull() bool { return !n.ok }

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.ok {
		return nullLiteral, nil
	}
	return json.Marshal(n.val)
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*n = Nullable[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Nullable[T]{val: v, ok: true}
	return nil
}

type tri uint8

const (
	triUnset tri = iota
	triNull
	triSet
)

// OptionalNullable is a field that may be absent, null, or set.
type OptionalNullable[T any] struct {
	val   T
	state tri
}

// Present returns a set OptionalNullable.
func Present[T any](v T) OptionalNullable[T] { return OptionalNullable[T]{val: v, state: triSet} }

// PresentNull returns an OptionalNullable holding an explicit null.
func PresentNull[T any]() OptionalNullable[T] { return OptionalNullable[T]{state: triNull} }

// Absent returns an unset OptionalNullable.
func Absent[T any]() OptionalNullable[T] { return OptionalNullable[T]{} }

// Get returns the value and whether it is set.
func (o OptionalNullable[T]) Get() (T, bool) { return o.val, o.state == triSet }

// IsNull reports whether the key was present with null.
func (o OptionalNullable[T]) IsNull() bool { return o.state == triNull }

// IsZero reports whether the value is unset, so omitzero drops the key.
func (o OptionalNullable[T]) IsZero() bool { return o.state == triUnset }

func (o OptionalNullable[T]) MarshalJSON() ([]byte, error) {
	switch o.state {
	case triNull:
		return nullLiteral, nil
	case triSet:
		return json.Marshal(o.val)
	}
	return nil, ErrUnsetMarshal
}

func (o *OptionalNullable[T]) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*o = OptionalNullable[T]{state: triNull}
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = OptionalNullable[T]{val: v, state: triSet}
	return nil
}
