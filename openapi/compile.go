package openapi

import (
	"sort"

	sw "github.com/reoring/schemawire"
	"github.com/reoring/schemawire/dsl"
)

type compiler struct {
	table map[string]entry
	diag  *simpleDiag
	base  *sw.Registry
	// refs collects the names referenced by the schema being compiled.
	refs []string
}

// named compiles a top-level schema. A registered name must denote a shape,
// so aliases ({$ref: other}) are replaced by a copy of their target.
func (c *compiler) named(name string, e entry) sw.Type {
	t, nullable := c.compile(e.schema, e.pointer)
	if nullable {
		c.diag.warnf(e.pointer, "nullability of a named schema applies at each use site")
	}
	visited := map[string]bool{name: true}
	for {
		r, ok := t.(*sw.RefType)
		if !ok {
			return t
		}
		c.diag.warnf(e.pointer, "alias of %s registered as a copy", r.Name)
		if visited[r.Name] {
			c.diag.warnf(e.pointer, "alias cycle through %s treated as any", r.Name)
			return sw.Any()
		}
		visited[r.Name] = true
		if target, ok := c.table[r.Name]; ok {
			t, _ = c.compile(target.schema, target.pointer)
			continue
		}
		if c.base != nil {
			if bt, ok := c.base.Lookup(r.Name); ok {
				return anonymous(bt)
			}
		}
		c.diag.warnf(e.pointer, "alias of unknown schema %s treated as any", r.Name)
		return sw.Any()
	}
}

func anonymous(t sw.Type) sw.Type {
	switch tt := t.(type) {
	case *sw.RecordType:
		cp := *tt
		cp.Name = ""
		return &cp
	case *sw.UnionType:
		cp := *tt
		cp.Name = ""
		return &cp
	}
	return t
}

// compile maps one schema object. The second result reports whether the
// schema also admits null, which the caller folds into the field presence.
func (c *compiler) compile(s *object, at string) (sw.Type, bool) {
	if s == nil {
		return sw.Any(), false
	}
	nullable := s.boolean("nullable") || s.boolean("x-nullable")

	if ref := s.str("$ref"); ref != "" {
		name, ok := refName(ref)
		if !ok {
			c.diag.warnf(at, "unsupported $ref %q treated as any", ref)
			return sw.Any(), nullable
		}
		c.refs = append(c.refs, name)
		return sw.Ref(name), nullable || c.nullableName(name, map[string]bool{})
	}
	if all := schemaList(s, "allOf"); len(all) > 0 {
		t, n := c.compileAllOf(s, all, at)
		return t, n || nullable
	}
	for _, kw := range []string{"oneOf", "anyOf"} {
		if alts := schemaList(s, kw); len(alts) > 0 {
			t, n := c.compileUnion(alts, at+"/"+kw)
			return t, n || nullable
		}
	}

	types, hasNull := typeList(s)
	nullable = nullable || hasNull
	switch len(types) {
	case 0:
		if _, ok := s.get("properties"); ok {
			return c.compileObject(s, at), nullable
		}
		if _, ok := s.get("additionalProperties"); ok {
			return c.compileObject(s, at), nullable
		}
		if hasNull {
			c.diag.warnf(at, "null-only schema treated as any")
		}
		return sw.Any(), nullable
	case 1:
		return c.compileTyped(types[0], s, at), nullable
	}
	alts := make([]sw.Type, len(types))
	for i, typ := range types {
		alts[i] = c.compileTyped(typ, s, at)
	}
	return sw.OneOf(alts...), nullable
}

func (c *compiler) compileTyped(typ string, s *object, at string) sw.Type {
	switch typ {
	case "integer":
		return sw.Integer()
	case "number":
		return sw.Number()
	case "boolean":
		return sw.Boolean()
	case "string":
		if s.str("format") == "date-time" {
			return sw.Timestamp()
		}
		return sw.String()
	case "array":
		items := s.obj("items")
		if items == nil {
			c.diag.warnf(at, "array without items treated as array of any")
			return sw.ArrayOf(sw.Any())
		}
		elem, n := c.compile(items, at+"/items")
		if n {
			c.diag.warnf(at+"/items", "nullable array elements decoded as any")
			elem = sw.Any()
		}
		return sw.ArrayOf(elem)
	case "object":
		return c.compileObject(s, at)
	}
	c.diag.warnf(at, "unknown type %q treated as any", typ)
	return sw.Any()
}

func (c *compiler) compileObject(s *object, at string) sw.Type {
	ap, hasAP := s.get("additionalProperties")
	props := s.obj("properties")
	if props != nil && len(props.keys) > 0 {
		if v, ok := ap.(bool); hasAP && (!ok || v) {
			c.diag.warnf(at, "additionalProperties alongside properties ignored")
		}
		required := stringSet(s, "required")
		b := dsl.Object()
		for _, key := range props.keys {
			fp := at + "/properties/" + pointerEscaper.Replace(key)
			ps, ok := props.vals[key].(*object)
			if !ok {
				c.diag.warnf(fp, "non-object property schema treated as any")
			}
			t, n := c.compile(ps, fp)
			b.Field(key, t).As(presenceOf(required[key], n)).Describe(ps.str("description"))
			delete(required, key)
		}
		for _, key := range sortedKeys(required) {
			c.diag.warnf(at, "required property %q is not declared", key)
		}
		return b.MustBuild()
	}
	switch a := ap.(type) {
	case bool:
		if a {
			return sw.FreeForm()
		}
		return sw.Empty()
	case *object:
		if len(a.keys) == 0 {
			return sw.FreeForm()
		}
		elem, n := c.compile(a, at+"/additionalProperties")
		if n {
			c.diag.warnf(at+"/additionalProperties", "nullable map values decoded as any")
			elem = sw.Any()
		}
		return sw.MapOf(elem)
	}
	return sw.Empty()
}

func (c *compiler) compileUnion(alts []*object, at string) (sw.Type, bool) {
	nullable := false
	var types []sw.Type
	for _, a := range alts {
		if isNullOnly(a) {
			nullable = true
			continue
		}
		t, n := c.compile(a, at)
		nullable = nullable || n
		types = append(types, t)
	}
	switch len(types) {
	case 0:
		return sw.Any(), true
	case 1:
		return types[0], nullable
	}
	return sw.OneOf(types...), nullable
}

// compileAllOf merges object members into one record. Non-object members
// cannot be intersected, so the first member stands in for all of them.
func (c *compiler) compileAllOf(s *object, all []*object, at string) (sw.Type, bool) {
	if len(all) == 1 && s.obj("properties") == nil {
		return c.compile(all[0], at+"/allOf/0")
	}
	props, required, nullable, ok := c.flatten(s, map[string]bool{})
	if !ok {
		c.diag.warnf(at, "allOf over non-object schemas approximated by its first member")
		return c.compile(all[0], at+"/allOf/0")
	}
	merged := &object{vals: map[string]any{}}
	merged.set("properties", props)
	merged.set("required", required)
	return c.compileObject(merged, at), nullable
}

// flatten returns the properties and required list of an object-like schema,
// following local references and nested allOf.
func (c *compiler) flatten(s *object, visited map[string]bool) (*object, []any, bool, bool) {
	if ref := s.str("$ref"); ref != "" {
		name, ok := refName(ref)
		e, found := c.table[name]
		if !ok || !found || visited[name] {
			return nil, nil, false, false
		}
		visited[name] = true
		return c.flatten(e.schema, visited)
	}
	props := &object{vals: map[string]any{}}
	var required []any
	nullable := s.boolean("nullable") || s.boolean("x-nullable")
	for _, m := range schemaList(s, "allOf") {
		p, r, n, ok := c.flatten(m, visited)
		if !ok {
			return nil, nil, false, false
		}
		for _, k := range p.keys {
			props.set(k, p.vals[k])
		}
		required = append(required, r...)
		nullable = nullable || n
	}
	if own := s.obj("properties"); own != nil {
		for _, k := range own.keys {
			props.set(k, own.vals[k])
		}
	}
	if r, ok := s.vals["required"].([]any); ok {
		required = append(required, r...)
	}
	if typ := s.str("type"); typ != "" && typ != "object" {
		return nil, nil, false, false
	}
	if _, ok := s.get("oneOf"); ok {
		return nil, nil, false, false
	}
	return props, required, nullable, true
}

// nullableName reports whether a named schema admits null on its own.
func (c *compiler) nullableName(name string, visited map[string]bool) bool {
	e, ok := c.table[name]
	if !ok || visited[name] {
		return false
	}
	visited[name] = true
	s := e.schema
	if s.boolean("nullable") || s.boolean("x-nullable") {
		return true
	}
	if _, hasNull := typeList(s); hasNull {
		return true
	}
	for _, kw := range []string{"oneOf", "anyOf"} {
		for _, a := range schemaList(s, kw) {
			if isNullOnly(a) {
				return true
			}
		}
	}
	if ref := s.str("$ref"); ref != "" {
		if target, ok := refName(ref); ok {
			return c.nullableName(target, visited)
		}
	}
	return false
}

func presenceOf(required, nullable bool) sw.Presence {
	switch {
	case required && nullable:
		return sw.Nullable
	case required:
		return sw.Required
	case nullable:
		return sw.OptionalNullable
	}
	return sw.Optional
}

// typeList reads "type" as a string (3.0) or a list (3.1), splitting off
// "null".
func typeList(s *object) ([]string, bool) {
	v, _ := s.get("type")
	switch t := v.(type) {
	case string:
		if t == "null" {
			return nil, true
		}
		return []string{t}, false
	case []any:
		var out []string
		hasNull := false
		for _, e := range t {
			str, _ := e.(string)
			switch str {
			case "":
			case "null":
				hasNull = true
			default:
				out = append(out, str)
			}
		}
		return out, hasNull
	}
	return nil, false
}

func isNullOnly(s *object) bool {
	types, hasNull := typeList(s)
	return hasNull && len(types) == 0
}

func schemaList(s *object, kw string) []*object {
	v, _ := s.get(kw)
	arr, _ := v.([]any)
	out := make([]*object, 0, len(arr))
	for _, e := range arr {
		if o, ok := e.(*object); ok {
			out = append(out, o)
		}
	}
	return out
}

func stringSet(s *object, kw string) map[string]bool {
	v, _ := s.get(kw)
	arr, _ := v.([]any)
	out := make(map[string]bool, len(arr))
	for _, e := range arr {
		if str, ok := e.(string); ok {
			out[str] = true
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
