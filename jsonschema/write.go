package jsonschema

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	sw "github.com/reoring/schemawire"
)

// object is an ordered JSON object; members are emitted in slice order.
type object []member

type member struct {
	key string
	val any
}

// tree converts s into writer nodes (string, bool, []any, object). Keys
// follow the JSON Schema reading order: $ref, type, then the keyword groups.
func (s *Schema) tree() object {
	var o object
	add := func(k string, v any) { o = append(o, member{key: k, val: v}) }
	if s.Ref != "" {
		add("$ref", s.Ref)
	}
	switch t := s.Type.(type) {
	case string:
		add("type", t)
	case []string:
		add("type", stringList(t))
	}
	if s.Format != "" {
		add("format", s.Format)
	}
	if s.Description != "" {
		add("description", s.Description)
	}
	if len(s.Properties) > 0 {
		props := make(object, 0, len(s.Properties))
		for _, k := range s.propertyNames() {
			props = append(props, member{key: k, val: s.Properties[k].tree()})
		}
		add("properties", props)
	}
	if len(s.Required) > 0 {
		add("required", stringList(s.Required))
	}
	switch ap := s.AdditionalProperties.(type) {
	case bool:
		add("additionalProperties", ap)
	case *Schema:
		if ap != nil {
			add("additionalProperties", ap.tree())
		}
	}
	if s.Items != nil {
		add("items", s.Items.tree())
	}
	if len(s.OneOf) > 0 {
		add("oneOf", schemas(s.OneOf))
	}
	if len(s.AnyOf) > 0 {
		add("anyOf", schemas(s.AnyOf))
	}
	return o
}

// propertyNames returns declaration order for exported records and sorted
// keys for hand-built schemas.
func (s *Schema) propertyNames() []string {
	if len(s.order) == len(s.Properties) {
		return s.order
	}
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func schemas(ss []*Schema) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s.tree()
	}
	return out
}

// writer renders nodes as JSON. Strings are marshaled through the active
// driver so escaping matches the codec's own output.
type writer struct {
	buf    bytes.Buffer
	drv    sw.JSONDriver
	indent string
}

func render(n any, indent string) ([]byte, error) {
	w := &writer{drv: sw.CurrentJSONDriver(), indent: indent}
	if err := w.write(n, 0); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

func (w *writer) write(n any, depth int) error {
	switch t := n.(type) {
	case string:
		b, err := w.drv.Marshal(t)
		if err != nil {
			return fmt.Errorf("jsonschema: marshal string: %w", err)
		}
		w.buf.Write(b)
	case bool:
		w.buf.WriteString(strconv.FormatBool(t))
	case []any:
		if len(t) == 0 {
			w.buf.WriteString("[]")
			return nil
		}
		w.buf.WriteByte('[')
		for i, el := range t {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			if err := w.write(el, depth+1); err != nil {
				return err
			}
		}
		w.newline(depth)
		w.buf.WriteByte(']')
	case object:
		if len(t) == 0 {
			w.buf.WriteString("{}")
			return nil
		}
		w.buf.WriteByte('{')
		for i, m := range t {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			if err := w.write(m.key, depth+1); err != nil {
				return err
			}
			w.buf.WriteByte(':')
			if w.indent != "" {
				w.buf.WriteByte(' ')
			}
			if err := w.write(m.val, depth+1); err != nil {
				return err
			}
		}
		w.newline(depth)
		w.buf.WriteByte('}')
	default:
		return fmt.Errorf("jsonschema: unexpected node %T", n)
	}
	return nil
}

func (w *writer) newline(depth int) {
	if w.indent == "" {
		return
	}
	w.buf.WriteByte('\n')
	for range depth {
		w.buf.WriteString(w.indent)
	}
}
