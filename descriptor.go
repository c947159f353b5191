package schemawire

import "strings"

// Kind enumerates the closed set of type descriptors.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInteger
	KindNumber
	KindString
	KindBoolean
	KindTimestamp
	KindArray
	KindMap
	KindRecord
	KindRef
	KindUnion
	KindEmpty
	KindFreeForm
	KindAny
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindInteger:   "integer",
	KindNumber:    "number",
	KindString:    "string",
	KindBoolean:   "boolean",
	KindTimestamp: "timestamp",
	KindArray:     "array",
	KindMap:       "map",
	KindRecord:    "record",
	KindRef:       "ref",
	KindUnion:     "union",
	KindEmpty:     "empty",
	KindFreeForm:  "free-form",
	KindAny:       "any",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Type is a schema-level type descriptor. The set of implementations is
// closed; build them with the constructors in this package or via dsl.
type Type interface {
	Kind() Kind
	String() string
	sealed()
}

type scalarType struct{ kind Kind }

func (s scalarType) Kind() Kind     { return s.kind }
func (s scalarType) String() string { return s.kind.String() }
func (scalarType) sealed()          {}

// Integer is a 64-bit signed integer.
func Integer() Type { return scalarType{kind: KindInteger} }

// Number is a JSON number held as float64.
func Number() Type { return scalarType{kind: KindNumber} }

// String is an arbitrary JSON string.
func String() Type { return scalarType{kind: KindString} }

// Boolean is a JSON boolean.
func Boolean() Type { return scalarType{kind: KindBoolean} }

// Timestamp is a date-time carried on the wire as a string.
func Timestamp() Type { return scalarType{kind: KindTimestamp} }

// ArrayType is an ordered sequence of Elem.
type ArrayType struct{ Elem Type }

func (*ArrayType) Kind() Kind       { return KindArray }
func (a *ArrayType) String() string { return "array<" + typeString(a.Elem) + ">" }
func (*ArrayType) sealed()          {}

// ArrayOf returns an array type over elem.
func ArrayOf(elem Type) *ArrayType { return &ArrayType{Elem: elem} }

// MapType is a JSON object whose keys are free and whose values are Elem.
type MapType struct{ Elem Type }

func (*MapType) Kind() Kind       { return KindMap }
func (m *MapType) String() string { return "map<" + typeString(m.Elem) + ">" }
func (*MapType) sealed()          {}

// MapOf returns a map type over elem.
func MapOf(elem Type) *MapType { return &MapType{Elem: elem} }

// Field is a record member. Name is the literal wire key.
type Field struct {
	Name        string
	Type        Type
	Presence    Presence
	Description string
}

// RecordType is a named or anonymous aggregate of fields. Fields keep their
// declaration order, which is also the encode order.
type RecordType struct {
	Name   string // empty for anonymous records owned by a single parent field
	Fields []Field
}

func (*RecordType) Kind() Kind { return KindRecord }
func (r *RecordType) String() string {
	if r.Name != "" {
		return "record<" + r.Name + ">"
	}
	return "record{" + strings.Join(r.FieldNames(), ",") + "}"
}
func (*RecordType) sealed() {}

// NewRecord returns a record type with the given fields.
func NewRecord(name string, fields ...Field) *RecordType {
	return &RecordType{Name: name, Fields: fields}
}

// Field looks up a field by wire key.
func (r *RecordType) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns the wire keys in declaration order.
func (r *RecordType) FieldNames() []string {
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Name
	}
	return out
}

// RefType points at a named registry entry.
type RefType struct{ Name string }

func (*RefType) Kind() Kind       { return KindRef }
func (r *RefType) String() string { return "ref<" + r.Name + ">" }
func (*RefType) sealed()          {}

// Ref returns a by-name reference. Resolution happens at decode/encode time.
func Ref(name string) *RefType { return &RefType{Name: name} }

// UnionType is a closed, ordered list of alternative shapes. Decoding picks
// the earliest alternative that decodes successfully.
type UnionType struct {
	Name         string // optional, set when registered by name
	Alternatives []Type
}

func (*UnionType) Kind() Kind { return KindUnion }
func (u *UnionType) String() string {
	parts := make([]string, len(u.Alternatives))
	for i, a := range u.Alternatives {
		parts[i] = typeString(a)
	}
	return "oneOf<" + strings.Join(parts, "|") + ">"
}
func (*UnionType) sealed() {}

// OneOf returns an anonymous union over alts in declaration order.
func OneOf(alts ...Type) *UnionType { return &UnionType{Alternatives: alts} }

type emptyType struct{}

func (emptyType) Kind() Kind     { return KindEmpty }
func (emptyType) String() string { return "empty" }
func (emptyType) sealed()        {}

// Empty is the placeholder for a declared-but-unspecified object shape. It
// accepts any JSON object without looking at its members and encodes as {}.
func Empty() Type { return emptyType{} }

type freeFormType struct{}

func (freeFormType) Kind() Kind     { return KindFreeForm }
func (freeFormType) String() string { return "free-form" }
func (freeFormType) sealed()        {}

// FreeForm is an arbitrary JSON object preserved verbatim.
func FreeForm() Type { return freeFormType{} }

type anyType struct{}

func (anyType) Kind() Kind     { return KindAny }
func (anyType) String() string { return "any" }
func (anyType) sealed()        {}

// Any is an unconstrained JSON value preserved verbatim.
func Any() Type { return anyType{} }

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// TypesEqual reports structural equality of two descriptors. References are
// compared by name and never followed, so cyclic graphs terminate.
func TypesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case *ArrayType:
		return TypesEqual(at.Elem, b.(*ArrayType).Elem)
	case *MapType:
		return TypesEqual(at.Elem, b.(*MapType).Elem)
	case *RefType:
		return at.Name == b.(*RefType).Name
	case *RecordType:
		bt := b.(*RecordType)
		if at.Name != bt.Name || len(at.Fields) != len(bt.Fields) {
			return false
		}
		for i := range at.Fields {
			fa, fb := at.Fields[i], bt.Fields[i]
			if fa.Name != fb.Name || fa.Presence != fb.Presence || !TypesEqual(fa.Type, fb.Type) {
				return false
			}
		}
		return true
	case *UnionType:
		bt := b.(*UnionType)
		if len(at.Alternatives) != len(bt.Alternatives) {
			return false
		}
		for i := range at.Alternatives {
			if !TypesEqual(at.Alternatives[i], bt.Alternatives[i]) {
				return false
			}
		}
		return true
	}
	// scalars and the member-less kinds are equal when their kinds are
	return true
}

// walkType visits t and every descriptor nested inside it, without following
// references. fn receives the path of the visited node relative to t.
func walkType(t Type, at PathRef, fn func(Type, PathRef)) {
	if t == nil {
		fn(nil, at)
		return
	}
	fn(t, at)
	switch tt := t.(type) {
	case *ArrayType:
		walkType(tt.Elem, at.Field("[]"), fn)
	case *MapType:
		walkType(tt.Elem, at.Field("{}"), fn)
	case *RecordType:
		for _, f := range tt.Fields {
			walkType(f.Type, at.Field(f.Name), fn)
		}
	case *UnionType:
		for i, alt := range tt.Alternatives {
			walkType(alt, at.Field("oneOf").Index(i), fn)
		}
	}
}
