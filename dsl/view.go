package dsl

import (
	"errors"
	"fmt"

	sw "github.com/reoring/schemawire"
)

// ViewBuilder derives a record shape from a canonical record. Operations are
// applied in call order; field order follows the base record.
type ViewBuilder struct {
	base  *sw.RecordType
	name  string
	steps []func([]sw.Field) ([]sw.Field, error)
}

// View starts a derived shape over base. The result is anonymous unless
// Named is called.
func View(base *sw.RecordType) *ViewBuilder { return &ViewBuilder{base: base} }

// Named sets the registry name of the derived record.
func (v *ViewBuilder) Named(name string) *ViewBuilder {
	v.name = name
	return v
}

// Pick keeps only the listed fields.
func (v *ViewBuilder) Pick(names ...string) *ViewBuilder {
	return v.step(func(fs []sw.Field) ([]sw.Field, error) {
		if err := requireFields(fs, names); err != nil {
			return nil, err
		}
		keep := toSet(names)
		out := fs[:0:0]
		for _, f := range fs {
			if _, ok := keep[f.Name]; ok {
				out = append(out, f)
			}
		}
		return out, nil
	})
}

// Omit drops the listed fields.
func (v *ViewBuilder) Omit(names ...string) *ViewBuilder {
	return v.step(func(fs []sw.Field) ([]sw.Field, error) {
		if err := requireFields(fs, names); err != nil {
			return nil, err
		}
		drop := toSet(names)
		out := fs[:0:0]
		for _, f := range fs {
			if _, ok := drop[f.Name]; !ok {
				out = append(out, f)
			}
		}
		return out, nil
	})
}

// Rename changes a field's wire key.
func (v *ViewBuilder) Rename(from, to string) *ViewBuilder {
	return v.step(func(fs []sw.Field) ([]sw.Field, error) {
		if err := requireFields(fs, []string{from}); err != nil {
			return nil, err
		}
		for _, f := range fs {
			if f.Name == to {
				return nil, fmt.Errorf("dsl: rename %q: field %q already exists", from, to)
			}
		}
		out := append([]sw.Field(nil), fs...)
		for i := range out {
			if out[i].Name == from {
				out[i].Name = to
			}
		}
		return out, nil
	})
}

// Presence overrides the presence mode of the listed fields.
func (v *ViewBuilder) Presence(p sw.Presence, names ...string) *ViewBuilder {
	return v.step(func(fs []sw.Field) ([]sw.Field, error) {
		if err := requireFields(fs, names); err != nil {
			return nil, err
		}
		set := toSet(names)
		out := append([]sw.Field(nil), fs...)
		for i := range out {
			if _, ok := set[out[i].Name]; ok {
				out[i].Presence = p
			}
		}
		return out, nil
	})
}

// AllOptional relaxes every field: Required becomes Optional and Nullable
// becomes OptionalNullable.
func (v *ViewBuilder) AllOptional() *ViewBuilder {
	return v.step(func(fs []sw.Field) ([]sw.Field, error) {
		out := append([]sw.Field(nil), fs...)
		for i := range out {
			switch out[i].Presence {
			case sw.Required:
				out[i].Presence = sw.Optional
			case sw.Nullable:
				out[i].Presence = sw.OptionalNullable
			}
		}
		return out, nil
	})
}

// Extend appends fields after the derived ones.
func (v *ViewBuilder) Extend(extra ...sw.Field) *ViewBuilder {
	return v.step(func(fs []sw.Field) ([]sw.Field, error) {
		if err := forbidFields(fs, extra); err != nil {
			return nil, err
		}
		return append(append([]sw.Field(nil), fs...), extra...), nil
	})
}

// Build applies the steps and returns the derived record.
func (v *ViewBuilder) Build() (*sw.RecordType, error) {
	if v.base == nil {
		return nil, errors.New("dsl: view over nil record")
	}
	fs := append([]sw.Field(nil), v.base.Fields...)
	for _, s := range v.steps {
		var err error
		if fs, err = s(fs); err != nil {
			return nil, fmt.Errorf("dsl: view of %s: %w", v.base, err)
		}
	}
	return sw.NewRecord(v.name, fs...), nil
}

// MustBuild is like Build but panics on errors.
func (v *ViewBuilder) MustBuild() *sw.RecordType {
	rt, err := v.Build()
	if err != nil {
		panic(err)
	}
	return rt
}

func (v *ViewBuilder) step(fn func([]sw.Field) ([]sw.Field, error)) *ViewBuilder {
	v.steps = append(v.steps, fn)
	return v
}

func requireFields(fs []sw.Field, names []string) error {
	have := make(map[string]struct{}, len(fs))
	for _, f := range fs {
		have[f.Name] = struct{}{}
	}
	for _, n := range names {
		if _, ok := have[n]; !ok {
			return fmt.Errorf("unknown field %q", n)
		}
	}
	return nil
}

func forbidFields(fs, extra []sw.Field) error {
	have := make(map[string]struct{}, len(fs))
	for _, f := range fs {
		have[f.Name] = struct{}{}
	}
	for _, f := range extra {
		if _, ok := have[f.Name]; ok {
			return fmt.Errorf("field %q already exists", f.Name)
		}
		have[f.Name] = struct{}{}
	}
	return nil
}

func toSet(names []string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}
