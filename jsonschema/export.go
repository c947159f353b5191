package jsonschema

import (
	"fmt"
	"sort"

	sw "github.com/reoring/schemawire"
)

// DefsPrefix is the pointer prefix used for references between exported
// names.
const DefsPrefix = "#/$defs/"

// FromRegistry exports the named types and everything they reference. With
// no names every registered type is exported.
func FromRegistry(reg *sw.Registry, names ...string) (*Document, error) {
	if reg == nil {
		return nil, fmt.Errorf("jsonschema: nil registry")
	}
	queue := append([]string(nil), names...)
	if len(queue) == 0 {
		queue = reg.Names()
	}
	doc := &Document{Schema: Draft, Defs: map[string]*Schema{}}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if _, done := doc.Defs[n]; done {
			continue
		}
		t, err := reg.Resolve(n)
		if err != nil {
			return nil, err
		}
		doc.Defs[n] = fromType(t)
		queue = append(queue, refsOf(t, nil)...)
	}
	return doc, nil
}

// Marshal renders the document as indented JSON with $defs sorted by name.
func (d *Document) Marshal() ([]byte, error) { return render(d.tree(), "  ") }

// MarshalJSON is the compact form of Marshal.
func (d *Document) MarshalJSON() ([]byte, error) { return render(d.tree(), "") }

func (d *Document) tree() object {
	names := make([]string, 0, len(d.Defs))
	for n := range d.Defs {
		names = append(names, n)
	}
	sort.Strings(names)
	defs := make(object, 0, len(names))
	for _, n := range names {
		defs = append(defs, member{key: n, val: d.Defs[n].tree()})
	}
	return object{{key: "$schema", val: d.Schema}, {key: "$defs", val: defs}}
}

func fromType(t sw.Type) *Schema {
	switch tt := t.(type) {
	case *sw.RefType:
		return &Schema{Ref: DefsPrefix + tt.Name}
	case *sw.RecordType:
		s := &Schema{Type: "object", Properties: make(map[string]*Schema, len(tt.Fields))}
		for _, f := range tt.Fields {
			fs := fromType(f.Type)
			if f.Presence.AllowsNull() {
				fs = nullable(fs)
			}
			if f.Description != "" {
				fs.Description = f.Description
			}
			s.Properties[f.Name] = fs
			s.order = append(s.order, f.Name)
			if !f.Presence.AllowsAbsent() {
				s.Required = append(s.Required, f.Name)
			}
		}
		return s
	case *sw.UnionType:
		s := &Schema{OneOf: make([]*Schema, len(tt.Alternatives))}
		for i, alt := range tt.Alternatives {
			s.OneOf[i] = fromType(alt)
		}
		return s
	case *sw.ArrayType:
		return &Schema{Type: "array", Items: fromType(tt.Elem)}
	case *sw.MapType:
		return &Schema{Type: "object", AdditionalProperties: fromType(tt.Elem)}
	}
	switch t.Kind() {
	case sw.KindInteger:
		return &Schema{Type: "integer"}
	case sw.KindNumber:
		return &Schema{Type: "number"}
	case sw.KindString:
		return &Schema{Type: "string"}
	case sw.KindBoolean:
		return &Schema{Type: "boolean"}
	case sw.KindTimestamp:
		return &Schema{Type: "string", Format: "date-time"}
	case sw.KindEmpty:
		return &Schema{Type: "object"}
	case sw.KindFreeForm:
		return &Schema{Type: "object", AdditionalProperties: true}
	}
	return &Schema{}
}

// nullable widens s to admit null.
func nullable(s *Schema) *Schema {
	switch {
	case s.Ref == "" && s.OneOf == nil && s.Type == nil:
		return s // already admits everything
	case s.OneOf != nil:
		s.OneOf = append(s.OneOf, &Schema{Type: "null"})
		return s
	}
	if typ, ok := s.Type.(string); ok && s.Ref == "" {
		s.Type = []string{typ, "null"}
		return s
	}
	return &Schema{AnyOf: []*Schema{s, {Type: "null"}}}
}

func refsOf(t sw.Type, acc []string) []string {
	switch tt := t.(type) {
	case *sw.RefType:
		return append(acc, tt.Name)
	case *sw.RecordType:
		for _, f := range tt.Fields {
			acc = refsOf(f.Type, acc)
		}
	case *sw.UnionType:
		for _, alt := range tt.Alternatives {
			acc = refsOf(alt, acc)
		}
	case *sw.ArrayType:
		acc = refsOf(tt.Elem, acc)
	case *sw.MapType:
		acc = refsOf(tt.Elem, acc)
	}
	return acc
}
