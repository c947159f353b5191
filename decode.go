package schemawire

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/reoring/schemawire/i18n"
	eng "github.com/reoring/schemawire/internal/engine"
)

// Decode parses raw JSON and decodes it as the named type. The returned
// value follows the dynamic value model: *Record, Variant, []any, int64 and
// so on. Errors are Issues; decoding stops at the first failure.
func (r *Registry) Decode(raw []byte, typeName string, opts ...DecodeOpt) (any, error) {
	return r.DecodeFrom(JSONBytes(raw), typeName, opts...)
}

// DecodeFrom is like Decode but pulls tokens from src.
func (r *Registry) DecodeFrom(src Source, typeName string, opts ...DecodeOpt) (any, error) {
	t := r.mustResolve(typeName)
	if t == nil {
		return nil, Issues{bootstrapIssue(RootPath(typeName), CodeUnknownTypeReference, typeName, "")}
	}
	tree, err := readTree(src, resolveDecodeOpt(opts), RootPath(typeName))
	if err != nil {
		return nil, err
	}
	return r.decode(t, tree, RootPath(typeName))
}

// DecodeValue decodes an already parsed JSON tree (map[string]any, []any,
// json.Number, float64, Go integers, string, bool, nil).
func (r *Registry) DecodeValue(v any, typeName string) (any, error) {
	t := r.mustResolve(typeName)
	if t == nil {
		return nil, Issues{bootstrapIssue(RootPath(typeName), CodeUnknownTypeReference, typeName, "")}
	}
	return r.decode(t, v, RootPath(typeName))
}

// mustResolve panics on a nil registry: using the codec before bootstrap is
// a programming error.
func (r *Registry) mustResolve(name string) Type {
	if r == nil {
		panic("schemawire: codec used before registry bootstrap")
	}
	return r.defs[name]
}

func readTree(src Source, o DecodeOpt, at PathRef) (any, error) {
	tree, err := eng.DecodeAnyFromSource(eng.WrapWithEnforcement(src, enforceOptions(o, at)))
	if err != nil {
		return nil, streamIssue(err, at)
	}
	return tree, nil
}

func enforceOptions(o DecodeOpt, at PathRef) eng.EnforceOptions {
	maxDepth := o.MaxDepth
	if maxDepth < 0 {
		maxDepth = 0
	}
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(o.OnDuplicateKey),
		MaxDepth:    maxDepth,
		MaxBytes:    o.MaxBytes,
	}
	if o.OnWarning != nil {
		eo.Warn = func(si eng.SimpleIssue) {
			it := at.Issue(si.Code, i18n.T(si.Code, nil))
			it.Pointer, it.Hint = si.Path, si.Message
			o.OnWarning(it)
		}
	}
	return eo
}

// streamIssue converts a token stream failure into Issues.
func streamIssue(err error, at PathRef) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		it := at.Issue(ie.Code, i18n.T(ie.Code, nil))
		it.Pointer, it.Hint = ie.Path, ie.Message
		return Issues{it}
	}
	it := at.Issue(CodeParseError, i18n.T(CodeParseError, nil))
	it.Hint, it.Cause = err.Error(), err
	if errors.Is(err, io.ErrUnexpectedEOF) {
		it.Hint = "unexpected end of input"
	}
	return Issues{it}
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	}
	return eng.DupIgnore
}

func (r *Registry) decode(t Type, raw any, at PathRef) (any, error) {
	switch tt := t.(type) {
	case *RefType:
		target, ok := r.defs[tt.Name]
		if !ok {
			return nil, Issues{bootstrapIssue(at, CodeUnknownTypeReference, tt.Name, "")}
		}
		return r.decode(target, raw, at)
	case *RecordType:
		return r.decodeRecord(tt, raw, at)
	case *UnionType:
		return r.decodeUnion(tt, raw, at)
	case *ArrayType:
		arr, ok := raw.([]any)
		if !ok {
			return nil, mismatch(at, t, raw)
		}
		out := make([]any, len(arr))
		for i, el := range arr {
			v, err := r.decode(tt.Elem, el, at.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *MapType:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, mismatch(at, t, raw)
		}
		out := make(map[string]any, len(obj))
		for k, el := range obj {
			v, err := r.decode(tt.Elem, el, at.Field(k))
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}

	switch t.Kind() {
	case KindInteger:
		return decodeInteger(raw, at)
	case KindNumber:
		return decodeNumber(raw, at)
	case KindString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case KindBoolean:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case KindTimestamp:
		if s, ok := raw.(string); ok {
			return DateTime(s), nil
		}
	case KindEmpty:
		// members are not inspected: the shape is intentionally unspecified
		if _, ok := raw.(map[string]any); ok {
			return Placeholder{}, nil
		}
	case KindFreeForm:
		if obj, ok := raw.(map[string]any); ok {
			return cloneJSON(obj), nil
		}
	case KindAny:
		return cloneJSON(raw), nil
	}
	return nil, mismatch(at, t, raw)
}

func (r *Registry) decodeRecord(rt *RecordType, raw any, at PathRef) (any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, mismatch(at, rt, raw)
	}
	rec := MakeRecord(rt)
	for _, f := range rt.Fields {
		fp := at.Field(f.Name)
		state, fv, err := f.Presence.Classify(obj, f.Name, fp)
		if err != nil {
			return nil, err
		}
		switch state {
		case StateNull:
			rec.slots[f.Name] = Slot{State: StateNull}
		case StateSet:
			v, err := r.decode(f.Type, fv, fp)
			if err != nil {
				return nil, err
			}
			rec.slots[f.Name] = Slot{State: StateSet, Value: v}
		}
	}
	return rec, nil
}

func (r *Registry) decodeUnion(u *UnionType, raw any, at PathRef) (any, error) {
	attempted := make([]string, len(u.Alternatives))
	causes := make([]Issue, 0, len(u.Alternatives))
	for i, alt := range u.Alternatives {
		attempted[i] = typeString(alt)
		v, err := r.decode(alt, raw, at)
		if err == nil {
			return Variant{Index: i, Value: v}, nil
		}
		if iss, ok := AsIssues(err); ok && len(iss) > 0 {
			causes = append(causes, iss[0])
		}
	}
	it := at.Issue(CodeNoMatchingVariant, i18n.T(CodeNoMatchingVariant, nil),
		"attempted", attempted, "causes", causes, "got", jsonKind(raw))
	it.Hint = "tried " + strings.Join(attempted, ", ")
	return nil, Issues{it}
}

// maxExponent bounds the decimal exponent handed to big.Rat so hostile input
// like 1e999999999 cannot force huge allocations.
const maxExponent = 4096

var (
	minInt64 = big.NewInt(math.MinInt64)
	maxInt64 = big.NewInt(math.MaxInt64)
)

func decodeInteger(raw any, at PathRef) (any, error) {
	var text string
	switch n := raw.(type) {
	case json.Number:
		text = string(n)
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return nil, mismatch(at, Integer(), raw)
		}
		text = strconv.FormatFloat(n, 'g', -1, 64)
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint, uint64:
		u := toUint64(n)
		if u > math.MaxInt64 {
			return nil, Issues{overflow(at, strconv.FormatUint(u, 10))}
		}
		return int64(u), nil
	default:
		return nil, mismatch(at, Integer(), raw)
	}

	// fast path: plain integer literal
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, mismatch(at, Integer(), raw)
	}
	if math.IsInf(f, 0) || math.Abs(f) >= 1e19 {
		return nil, Issues{overflow(at, text)}
	}
	if exponentOf(text) > maxExponent || exponentOf(text) < -maxExponent {
		return nil, mismatch(at, Integer(), raw)
	}
	q, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, mismatch(at, Integer(), raw)
	}
	if !q.IsInt() {
		it := at.Issue(CodeInvalidType, i18n.T(CodeInvalidType, nil), "expected", "integer", "got", "number")
		it.Hint = text + " is not integral"
		return nil, Issues{it}
	}
	num := q.Num()
	if num.Cmp(minInt64) < 0 || num.Cmp(maxInt64) > 0 {
		return nil, Issues{overflow(at, text)}
	}
	return num.Int64(), nil
}

func exponentOf(text string) int {
	i := strings.IndexAny(text, "eE")
	if i < 0 {
		return 0
	}
	e, err := strconv.Atoi(strings.TrimPrefix(text[i+1:], "+"))
	if err != nil {
		return math.MaxInt32
	}
	return e
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint:
		return uint64(n)
	case uint64:
		return n
	}
	return 0
}

func decodeNumber(raw any, at PathRef) (any, error) {
	switch n := raw.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, Issues{overflow(at, string(n))}
			}
			return nil, mismatch(at, Number(), raw)
		}
		return f, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	}
	if i, ok := asInt64(raw); ok {
		return float64(i), nil
	}
	return nil, mismatch(at, Number(), raw)
}

func overflow(at PathRef, text string) Issue {
	it := at.Issue(CodeOverflow, i18n.T(CodeOverflow, nil), "value", text)
	it.Hint = "value does not fit a 64-bit signed integer"
	return it
}

func mismatch(at PathRef, want Type, raw any) Issues {
	got := jsonKind(raw)
	it := at.Issue(CodeInvalidType, i18n.T(CodeInvalidType, nil), "expected", typeString(want), "got", got)
	it.Hint = fmt.Sprintf("expected %s, got %s", typeString(want), got)
	return Issues{it}
}

// jsonKind names the JSON kind of a parsed value.
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, float32:
		return "number"
	}
	if _, ok := asInt64(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

// cloneJSON deep-copies a parsed JSON tree so decoded values never alias the
// caller's input.
func cloneJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, el := range t {
			out[k] = cloneJSON(el)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = cloneJSON(el)
		}
		return out
	}
	return v
}
