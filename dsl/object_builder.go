package dsl

import (
	"errors"
	"fmt"

	sw "github.com/reoring/schemawire"
)

// ObjectBuilder accumulates record fields in declaration order.
type ObjectBuilder struct {
	name   string
	fields []sw.Field
	index  map[string]int
	errs   []error
}

// FieldStep selects the presence mode of the field just added.
type FieldStep struct {
	b *ObjectBuilder
	i int
}

// Object creates a builder for an anonymous record.
func Object() *ObjectBuilder { return Record("") }

// Record creates a builder for a record registered under name.
func Record(name string) *ObjectBuilder {
	return &ObjectBuilder{name: name, index: map[string]int{}}
}

// Field appends a field. The presence defaults to Required until one of the
// FieldStep methods changes it.
func (b *ObjectBuilder) Field(name string, t sw.Type) *FieldStep {
	if _, dup := b.index[name]; dup {
		b.errs = append(b.errs, fmt.Errorf("dsl: field %q declared twice", name))
		return &FieldStep{b: b, i: b.index[name]}
	}
	if t == nil {
		b.errs = append(b.errs, fmt.Errorf("dsl: field %q has nil type", name))
	}
	b.index[name] = len(b.fields)
	b.fields = append(b.fields, sw.Field{Name: name, Type: t, Presence: sw.Required})
	return &FieldStep{b: b, i: len(b.fields) - 1}
}

// Fields appends pre-built fields, e.g. from Req/Opt.
func (b *ObjectBuilder) Fields(fs ...sw.Field) *ObjectBuilder {
	for _, f := range fs {
		b.Field(f.Name, f.Type).As(f.Presence).Describe(f.Description)
	}
	return b
}

// As sets an explicit presence mode.
func (f *FieldStep) As(p sw.Presence) *FieldStep {
	f.b.fields[f.i].Presence = p
	return f
}

// Describe attaches a description, exported to JSON Schema.
func (f *FieldStep) Describe(text string) *FieldStep {
	f.b.fields[f.i].Description = text
	return f
}

// Required marks the field as key-present, non-null.
func (f *FieldStep) Required() *ObjectBuilder { return f.As(sw.Required).b }

// Optional marks the field as omittable but never null.
func (f *FieldStep) Optional() *ObjectBuilder { return f.As(sw.Optional).b }

// Nullable marks the field as key-present, possibly null.
func (f *FieldStep) Nullable() *ObjectBuilder { return f.As(sw.Nullable).b }

// OptionalNullable marks the field as omittable and possibly null.
func (f *FieldStep) OptionalNullable() *ObjectBuilder { return f.As(sw.OptionalNullable).b }

// Build returns the record type.
func (b *ObjectBuilder) Build() (*sw.RecordType, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return sw.NewRecord(b.name, append([]sw.Field(nil), b.fields...)...), nil
}

// MustBuild is like Build but panics on declaration errors.
func (b *ObjectBuilder) MustBuild() *sw.RecordType {
	rt, err := b.Build()
	if err != nil {
		panic(err)
	}
	return rt
}

// Req returns a Required field.
func Req(name string, t sw.Type) sw.Field { return sw.Field{Name: name, Type: t, Presence: sw.Required} }

// Opt returns an Optional field.
func Opt(name string, t sw.Type) sw.Field { return sw.Field{Name: name, Type: t, Presence: sw.Optional} }

// Null returns a Nullable field.
func Null(name string, t sw.Type) sw.Field { return sw.Field{Name: name, Type: t, Presence: sw.Nullable} }

// OptNull returns an OptionalNullable field.
func OptNull(name string, t sw.Type) sw.Field {
	return sw.Field{Name: name, Type: t, Presence: sw.OptionalNullable}
}
