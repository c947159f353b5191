package schemawire

import "github.com/reoring/schemawire/i18n"

// Presence is the rule governing whether a field's key may be absent and/or
// its value may be null. It is fixed when the field is defined.
type Presence uint8

const (
	Required         Presence = iota // Key present, value non-null.
	Optional                         // Key may be absent; if present, non-null.
	Nullable                         // Key present; value may be null.
	OptionalNullable                 // Key may be absent, null, or set.
)

func (p Presence) String() string {
	switch p {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Nullable:
		return "nullable"
	case OptionalNullable:
		return "optional-nullable"
	default:
		return "invalid"
	}
}

// AllowsAbsent reports whether the key may be missing from the object.
func (p Presence) AllowsAbsent() bool { return p == Optional || p == OptionalNullable }

// AllowsNull reports whether the value may be JSON null.
func (p Presence) AllowsNull() bool { return p == Nullable || p == OptionalNullable }

// Permits reports whether a slot in state s is a valid instance of the mode.
func (p Presence) Permits(s FieldState) bool {
	switch s {
	case StateSet:
		return true
	case StateUnset:
		return p.AllowsAbsent()
	case StateNull:
		return p.AllowsNull()
	}
	return false
}

// FieldState is the per-instance state of a field slot.
type FieldState uint8

const (
	StateUnset FieldState = iota // Key absent: not set. Encoding omits it.
	StateNull                    // Key present with null: explicitly absent. Encoding emits null.
	StateSet                     // Key present with a value.
)

func (s FieldState) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateNull:
		return "null"
	case StateSet:
		return "set"
	default:
		return "invalid"
	}
}

// Classify applies the presence rule for key to a raw JSON object. It returns
// the slot state and, for StateSet, the raw value still to be decoded by the
// field's type. It has no side effects.
func (p Presence) Classify(obj map[string]any, key string, at PathRef) (FieldState, any, error) {
	raw, exists := obj[key]
	switch {
	case !exists && p.AllowsAbsent():
		return StateUnset, nil, nil
	case !exists:
		return StateUnset, nil, Issues{presenceIssue(at, CodeRequired, p, "required field missing")}
	case raw == nil && p.AllowsNull():
		return StateNull, nil, nil
	case raw == nil:
		return StateUnset, nil, Issues{presenceIssue(at, CodeNullNotAllowed, p, "null not permitted here")}
	}
	return StateSet, raw, nil
}

func presenceIssue(at PathRef, code string, p Presence, hint string) Issue {
	it := at.Issue(code, i18n.T(code, nil), "presence", p.String())
	it.Hint = hint
	return it
}
