package schemawire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/reoring/schemawire/i18n"
)

// Encode renders v as compact JSON for the named type. Record keys follow
// field declaration order, Unset slots are omitted and Null slots emit null.
// Encoding fails only when v is not a valid instance of the type.
func (r *Registry) Encode(v any, typeName string) ([]byte, error) {
	n, err := r.encodeNamed(v, typeName)
	if err != nil {
		return nil, err
	}
	w := &jsonWriter{drv: CurrentJSONDriver()}
	if err := w.write(n); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// EncodeValue is like Encode but returns the JSON value tree
// (map[string]any, []any, int64, float64, string, bool, nil).
func (r *Registry) EncodeValue(v any, typeName string) (any, error) {
	n, err := r.encodeNamed(v, typeName)
	if err != nil {
		return nil, err
	}
	return toTree(n), nil
}

func (r *Registry) encodeNamed(v any, typeName string) (any, error) {
	t := r.mustResolve(typeName)
	if t == nil {
		return nil, Issues{bootstrapIssue(RootPath(typeName), CodeUnknownTypeReference, typeName, "")}
	}
	return r.encode(t, v, RootPath(typeName))
}

// orderedObject keeps members in emission order.
type orderedObject []member

type member struct {
	key string
	val any
}

func (r *Registry) encode(t Type, v any, at PathRef) (any, error) {
	switch tt := t.(type) {
	case *RefType:
		target, ok := r.defs[tt.Name]
		if !ok {
			return nil, Issues{bootstrapIssue(at, CodeUnknownTypeReference, tt.Name, "")}
		}
		return r.encode(target, v, at)
	case *RecordType:
		return r.encodeRecord(tt, v, at)
	case *UnionType:
		return r.encodeUnion(tt, v, at)
	case *ArrayType:
		items, ok := asSlice(v)
		if !ok {
			return nil, contract(at, t, v)
		}
		out := make([]any, len(items))
		for i, el := range items {
			n, err := r.encode(tt.Elem, el, at.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case *MapType:
		m, ok := asStringMap(v)
		if !ok {
			return nil, contract(at, t, v)
		}
		out := make(orderedObject, 0, len(m))
		for _, k := range sortedKeys(m) {
			n, err := r.encode(tt.Elem, m[k], at.Field(k))
			if err != nil {
				return nil, err
			}
			out = append(out, member{key: k, val: n})
		}
		return out, nil
	}

	switch t.Kind() {
	case KindInteger:
		if i, ok := encodeInteger(v); ok {
			return i, nil
		}
	case KindNumber:
		if f, ok := encodeNumber(v); ok {
			return f, nil
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindTimestamp:
		switch ts := v.(type) {
		case DateTime:
			return string(ts), nil
		case string:
			return ts, nil
		case time.Time:
			return string(DateTimeOf(ts)), nil
		}
	case KindEmpty:
		switch v.(type) {
		case Placeholder, *Placeholder, map[string]any:
			return orderedObject{}, nil
		}
	case KindFreeForm:
		if m, ok := v.(map[string]any); ok {
			return verbatim(m, at)
		}
	case KindAny:
		return verbatim(v, at)
	}
	return nil, contract(at, t, v)
}

func (r *Registry) encodeRecord(rt *RecordType, v any, at PathRef) (any, error) {
	var slot func(name string) Slot
	switch rec := v.(type) {
	case *Record:
		if rec == nil {
			return nil, contract(at, rt, v)
		}
		if rec.typ != rt && !TypesEqual(rec.typ, rt) {
			it := at.Issue(CodeInvalidValue, i18n.T(CodeInvalidValue, nil), "expected", rt.String(), "got", rec.typ.String())
			it.Hint = "record instance of a different type"
			return nil, Issues{it}
		}
		slot = rec.Slot
	case map[string]any:
		// hand-built objects: missing key is unset, nil is null
		slot = func(name string) Slot {
			fv, ok := rec[name]
			switch {
			case !ok:
				return Slot{}
			case fv == nil:
				return Slot{State: StateNull}
			}
			return Slot{State: StateSet, Value: fv}
		}
	default:
		return nil, contract(at, rt, v)
	}

	out := make(orderedObject, 0, len(rt.Fields))
	for _, f := range rt.Fields {
		fp := at.Field(f.Name)
		s := slot(f.Name)
		if !f.Presence.Permits(s.State) {
			it := fp.Issue(CodeInvalidValue, i18n.T(CodeInvalidValue, nil), "presence", f.Presence.String(), "state", s.State.String())
			it.Hint = fmt.Sprintf("%s slot not permitted by %s presence", s.State, f.Presence)
			return nil, Issues{it}
		}
		switch s.State {
		case StateUnset:
			continue
		case StateNull:
			out = append(out, member{key: f.Name})
		case StateSet:
			if s.Value == nil {
				it := fp.Issue(CodeInvalidValue, i18n.T(CodeInvalidValue, nil), "state", s.State.String())
				it.Hint = "set slot holds nil; use SetNull"
				return nil, Issues{it}
			}
			n, err := r.encode(f.Type, s.Value, fp)
			if err != nil {
				return nil, err
			}
			out = append(out, member{key: f.Name, val: n})
		}
	}
	return out, nil
}

func (r *Registry) encodeUnion(u *UnionType, v any, at PathRef) (any, error) {
	if vr, ok := v.(Variant); ok {
		if vr.Index < 0 || vr.Index >= len(u.Alternatives) {
			it := at.Issue(CodeInvalidValue, i18n.T(CodeInvalidValue, nil), "index", vr.Index)
			it.Hint = fmt.Sprintf("variant index %d out of range for %s", vr.Index, u)
			return nil, Issues{it}
		}
		return r.encode(u.Alternatives[vr.Index], vr.Value, at)
	}
	// untagged values: the earliest alternative that accepts v wins
	for _, alt := range u.Alternatives {
		if n, err := r.encode(alt, v, at); err == nil {
			return n, nil
		}
	}
	return nil, contract(at, u, v)
}

func contract(at PathRef, want Type, v any) Issues {
	got := fmt.Sprintf("%T", v)
	it := at.Issue(CodeInvalidValue, i18n.T(CodeInvalidValue, nil), "expected", typeString(want), "got", got)
	it.Hint = fmt.Sprintf("cannot encode %s as %s", got, typeString(want))
	return Issues{it}
}

func encodeInteger(v any) (int64, bool) {
	if i, ok := asInt64(v); ok {
		return i, true
	}
	switch n := v.(type) {
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint64:
		return int64(n), n <= math.MaxInt64
	case json.Number:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func encodeNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case json.Number:
		var err error
		if f, err = strconv.ParseFloat(string(n), 64); err != nil {
			return 0, false
		}
	default:
		i, ok := asInt64(v)
		if !ok {
			return 0, false
		}
		f = float64(i)
	}
	return f, !math.IsInf(f, 0) && !math.IsNaN(f)
}

// verbatim checks that v is a plain JSON tree and converts it into the
// writer's node form. Object keys are sorted.
func verbatim(v any, at PathRef) (any, error) {
	switch t := v.(type) {
	case nil, bool, string:
		return t, nil
	case json.Number:
		if !isJSONNumber(string(t)) {
			return nil, contract(at, Any(), v)
		}
		return t, nil
	case float64, float32:
		if f, ok := encodeNumber(t); ok {
			return f, nil
		}
		return nil, contract(at, Any(), v)
	case map[string]any:
		out := make(orderedObject, 0, len(t))
		for _, k := range sortedKeys(t) {
			n, err := verbatim(t[k], at.Field(k))
			if err != nil {
				return nil, err
			}
			out = append(out, member{key: k, val: n})
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			n, err := verbatim(el, at.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	if i, ok := encodeInteger(v); ok {
		return i, nil
	}
	return nil, contract(at, Any(), v)
}

func isJSONNumber(s string) bool {
	if s == "" {
		return false
	}
	return json.Valid([]byte(s)) && (s[0] == '-' || (s[0] >= '0' && s[0] <= '9'))
}

func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func asStringMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toTree(n any) any {
	switch t := n.(type) {
	case orderedObject:
		out := make(map[string]any, len(t))
		for _, m := range t {
			out[m.key] = toTree(m.val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = toTree(el)
		}
		return out
	}
	return n
}

// jsonWriter renders encoder nodes as compact JSON. Strings and floats are
// marshaled through the active driver so escaping matches it.
type jsonWriter struct {
	buf bytes.Buffer
	drv JSONDriver
}

func (w *jsonWriter) write(n any) error {
	switch t := n.(type) {
	case nil:
		w.buf.WriteString("null")
	case bool:
		w.buf.WriteString(strconv.FormatBool(t))
	case int64:
		w.buf.WriteString(strconv.FormatInt(t, 10))
	case json.Number:
		w.buf.WriteString(string(t))
	case string, float64:
		b, err := w.drv.Marshal(t)
		if err != nil {
			return fmt.Errorf("schemawire: marshal %T: %w", t, err)
		}
		w.buf.Write(b)
	case []any:
		w.buf.WriteByte('[')
		for i, el := range t {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			if err := w.write(el); err != nil {
				return err
			}
		}
		w.buf.WriteByte(']')
	case orderedObject:
		w.buf.WriteByte('{')
		for i, m := range t {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			if err := w.write(m.key); err != nil {
				return err
			}
			w.buf.WriteByte(':')
			if err := w.write(m.val); err != nil {
				return err
			}
		}
		w.buf.WriteByte('}')
	default:
		return fmt.Errorf("schemawire: unexpected node %T", n)
	}
	return nil
}
