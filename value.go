package schemawire

import (
	"reflect"
	"time"
)

// Slot is the per-instance content of one record field.
type Slot struct {
	State FieldState
	Value any // meaningful only when State == StateSet
}

// Record is an instance of a RecordType. Slots that were never touched are
// StateUnset.
type Record struct {
	typ   *RecordType
	slots map[string]Slot
}

// MakeRecord returns an empty instance of t with every slot unset.
func MakeRecord(t *RecordType) *Record {
	if t == nil {
		panic("schemawire.MakeRecord: nil record type")
	}
	return &Record{typ: t, slots: make(map[string]Slot, len(t.Fields))}
}

// Type returns the record's definition.
func (r *Record) Type() *RecordType { return r.typ }

// Slot returns the slot for the field (StateUnset when never assigned).
func (r *Record) Slot(name string) Slot { return r.slots[name] }

// State returns the field's state.
func (r *Record) State(name string) FieldState { return r.slots[name].State }

// Get returns the field value when set.
func (r *Record) Get(name string) (any, bool) {
	s := r.slots[name]
	if s.State != StateSet {
		return nil, false
	}
	return s.Value, true
}

// IsNull reports whether the field is present with an explicit null.
func (r *Record) IsNull(name string) bool { return r.slots[name].State == StateNull }

// Set assigns a value. It panics when name is not a declared field.
func (r *Record) Set(name string, v any) *Record {
	r.mustField(name)
	r.slots[name] = Slot{State: StateSet, Value: v}
	return r
}

// SetNull marks the field as present-and-null.
func (r *Record) SetNull(name string) *Record {
	r.mustField(name)
	r.slots[name] = Slot{State: StateNull}
	return r
}

// Unset removes the field so encoding omits it.
func (r *Record) Unset(name string) *Record {
	r.mustField(name)
	delete(r.slots, name)
	return r
}

func (r *Record) mustField(name string) {
	if _, ok := r.typ.Field(name); !ok {
		panic("schemawire.Record: " + r.typ.String() + " has no field " + name)
	}
}

// Equal reports structural equality, distinguishing unset from null.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.typ.Name != o.typ.Name {
		return false
	}
	for _, f := range r.typ.Fields {
		a, b := r.slots[f.Name], o.slots[f.Name]
		if a.State != b.State {
			return false
		}
		if a.State == StateSet && !Equal(a.Value, b.Value) {
			return false
		}
	}
	return true
}

// Variant is a decoded union value tagged with the index of the alternative
// that matched. The tag is structural and never serialized.
type Variant struct {
	Index int
	Value any
}

// Placeholder is the in-memory value of an Empty type.
type Placeholder struct{}

// DateTime is a Timestamp value. The wire text is kept as received so
// round-trips are exact.
type DateTime string

// DateTimeOf formats t the way the API emits it (RFC 3339, UTC, seconds).
func DateTimeOf(t time.Time) DateTime {
	return DateTime(t.UTC().Truncate(time.Second).Format(time.RFC3339))
}

// Time parses the text as RFC 3339 (fractional seconds allowed).
func (d DateTime) Time() (time.Time, error) { return time.Parse(time.RFC3339Nano, string(d)) }

// Equal compares two decoded values structurally. Integer values of
// different Go widths compare by value.
func Equal(a, b any) bool {
	switch at := a.(type) {
	case *Record:
		bt, ok := b.(*Record)
		return ok && at.Equal(bt)
	case Variant:
		bt, ok := b.(Variant)
		return ok && at.Index == bt.Index && Equal(at.Value, bt.Value)
	case []any:
		bt, ok := b.([]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !Equal(at[i], bt[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bt, ok := b.(map[string]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for k, av := range at {
			bv, ok := bt[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	if ai, ok := asInt64(a); ok {
		bi, ok := asInt64(b)
		return ok && ai == bi
	}
	return reflect.DeepEqual(a, b)
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
