package schemawire

import (
	"fmt"
	"sort"

	"github.com/reoring/schemawire/i18n"
)

// Builder collects named types before any of them is resolved. Bodies may
// reference names that are registered later, or their own name; references
// are only checked in Build.
type Builder struct {
	defs   map[string]Type
	issues Issues
}

// NewBuilder returns an empty registry builder.
func NewBuilder() *Builder {
	return &Builder{defs: map[string]Type{}}
}

// Register declares a named type. Registering the same name twice is allowed
// only when both bodies are structurally equal. Bare references cannot be
// registered (a name must denote a shape, not an alias).
func (b *Builder) Register(name string, t Type) *Builder {
	at := RootPath(name)
	switch {
	case name == "":
		b.issues = append(b.issues, bootstrapIssue(at, CodeInvalidDefinition, "", "type name must not be empty"))
		return b
	case t == nil:
		b.issues = append(b.issues, bootstrapIssue(at, CodeInvalidDefinition, name, "nil type body"))
		return b
	}
	if rt, ok := t.(*RefType); ok {
		b.issues = append(b.issues, bootstrapIssue(at, CodeInvalidDefinition, name, "a registered name cannot be a bare reference to "+rt.Name))
		return b
	}
	// the registry owns its bodies: later edits to t do not reach it
	t = cloneType(t)
	switch tt := t.(type) {
	case *RecordType:
		if tt.Name != "" && tt.Name != name {
			b.issues = append(b.issues, bootstrapIssue(at, CodeInvalidDefinition, name, fmt.Sprintf("record is named %q", tt.Name)))
			return b
		}
		tt.Name = name
	case *UnionType:
		if tt.Name != "" && tt.Name != name {
			b.issues = append(b.issues, bootstrapIssue(at, CodeInvalidDefinition, name, fmt.Sprintf("union is named %q", tt.Name)))
			return b
		}
		tt.Name = name
	}
	if prev, ok := b.defs[name]; ok {
		if !TypesEqual(prev, t) {
			b.issues = append(b.issues, bootstrapIssue(at, CodeDuplicateTypeName, name, "registered twice with different bodies"))
		}
		return b
	}
	b.defs[name] = t
	return b
}

// Include copies every entry of an already built registry into the builder.
func (b *Builder) Include(r *Registry) *Builder {
	for _, n := range r.names {
		b.Register(n, r.defs[n])
	}
	return b
}

// Build validates all bodies and returns the immutable registry. Errors are
// bootstrap errors: the schema itself is malformed.
func (b *Builder) Build() (*Registry, error) {
	iss := append(Issues(nil), b.issues...)
	names := make([]string, 0, len(b.defs))
	for n := range b.defs {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		iss = append(iss, b.checkBody(n, b.defs[n])...)
	}
	iss = append(iss, b.checkUnguardedCycles(names)...)
	if len(iss) > 0 {
		sort.SliceStable(iss, func(i, j int) bool { return iss[i].Path < iss[j].Path })
		return nil, iss
	}

	defs := make(map[string]Type, len(b.defs))
	for n, t := range b.defs {
		defs[n] = t
	}
	return &Registry{defs: defs, names: names}, nil
}

// MustBuild is like Build but panics on bootstrap errors.
func (b *Builder) MustBuild() *Registry {
	r, err := b.Build()
	if err != nil {
		panic("schemawire: registry bootstrap failed: " + err.Error())
	}
	return r
}

func (b *Builder) checkBody(name string, body Type) Issues {
	var iss Issues
	walkType(body, RootPath(name), func(t Type, at PathRef) {
		switch tt := t.(type) {
		case nil:
			iss = append(iss, bootstrapIssue(at, CodeInvalidDefinition, name, "nil type"))
		case *RefType:
			if _, ok := b.defs[tt.Name]; !ok {
				iss = append(iss, bootstrapIssue(at, CodeUnknownTypeReference, tt.Name, "referenced from "+name))
			}
		case *RecordType:
			seen := make(map[string]struct{}, len(tt.Fields))
			for _, f := range tt.Fields {
				fp := at.Field(f.Name)
				if f.Name == "" {
					iss = append(iss, bootstrapIssue(fp, CodeInvalidDefinition, name, "field name must not be empty"))
				}
				if _, dup := seen[f.Name]; dup {
					iss = append(iss, bootstrapIssue(fp, CodeInvalidDefinition, name, "field declared twice"))
				}
				seen[f.Name] = struct{}{}
				if f.Presence > OptionalNullable {
					iss = append(iss, bootstrapIssue(fp, CodeInvalidDefinition, name, "invalid presence mode"))
				}
			}
		case *UnionType:
			if len(tt.Alternatives) == 0 {
				iss = append(iss, bootstrapIssue(at, CodeInvalidDefinition, name, "union without alternatives"))
			}
		case *ArrayType:
			if tt.Elem == nil {
				iss = append(iss, bootstrapIssue(at, CodeInvalidDefinition, name, "array without element type"))
			}
		case *MapType:
			if tt.Elem == nil {
				iss = append(iss, bootstrapIssue(at, CodeInvalidDefinition, name, "map without element type"))
			}
		}
	})
	return iss
}

// checkUnguardedCycles rejects names that can reach themselves through
// union alternatives alone. Records, arrays and maps consume one level of
// JSON nesting, so recursion through them is bounded by the input; a loop of
// unions and references is not.
func (b *Builder) checkUnguardedCycles(names []string) Issues {
	edges := make(map[string][]string, len(names))
	for _, n := range names {
		edges[n] = transparentRefs(b.defs[n], nil)
	}
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(names))
	var iss Issues
	var visit func(n string, stack []string)
	visit = func(n string, stack []string) {
		color[n] = grey
		stack = append(stack, n)
		for _, m := range edges[n] {
			switch color[m] {
			case grey:
				iss = append(iss, bootstrapIssue(RootPath(m), CodeCyclicUnion, m, fmt.Sprintf("cycle %v", append(stack, m))))
			case white:
				if _, ok := b.defs[m]; ok {
					visit(m, stack)
				}
			}
		}
		color[n] = black
	}
	for _, n := range names {
		if color[n] == white {
			visit(n, nil)
		}
	}
	return iss
}

func transparentRefs(t Type, acc []string) []string {
	switch tt := t.(type) {
	case *RefType:
		return append(acc, tt.Name)
	case *UnionType:
		for _, alt := range tt.Alternatives {
			acc = transparentRefs(alt, acc)
		}
	}
	return acc
}

// cloneType deep-copies composite descriptors. References are copied by
// name, so cyclic graphs terminate.
func cloneType(t Type) Type {
	switch tt := t.(type) {
	case *RecordType:
		if tt == nil {
			return tt
		}
		cp := *tt
		cp.Fields = make([]Field, len(tt.Fields))
		for i, f := range tt.Fields {
			f.Type = cloneType(f.Type)
			cp.Fields[i] = f
		}
		return &cp
	case *UnionType:
		if tt == nil {
			return tt
		}
		cp := *tt
		cp.Alternatives = make([]Type, len(tt.Alternatives))
		for i, alt := range tt.Alternatives {
			cp.Alternatives[i] = cloneType(alt)
		}
		return &cp
	case *ArrayType:
		return &ArrayType{Elem: cloneType(tt.Elem)}
	case *MapType:
		return &MapType{Elem: cloneType(tt.Elem)}
	case *RefType:
		return &RefType{Name: tt.Name}
	}
	return t
}

func bootstrapIssue(at PathRef, code, name, hint string) Issue {
	data := map[string]string(nil)
	if name != "" {
		data = map[string]string{"name": name}
	}
	it := at.Issue(code, i18n.T(code, data))
	it.Hint = hint
	return it
}

// Registry is the immutable set of named types. It is read-only after Build
// and safe for concurrent use.
type Registry struct {
	defs  map[string]Type
	names []string
}

// Lookup returns the named type. Descriptors are shared by every user of
// the registry and must not be modified.
func (r *Registry) Lookup(name string) (Type, bool) {
	t, ok := r.defs[name]
	return t, ok
}

// Resolve returns the named type or an UnknownTypeReference issue.
func (r *Registry) Resolve(name string) (Type, error) {
	if t, ok := r.defs[name]; ok {
		return t, nil
	}
	return nil, Issues{bootstrapIssue(RootPath(name), CodeUnknownTypeReference, name, "")}
}

// Record resolves a name that must denote a record. The result is shared
// like Lookup's.
func (r *Registry) Record(name string) (*RecordType, error) {
	t, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	rt, ok := t.(*RecordType)
	if !ok {
		return nil, Issues{bootstrapIssue(RootPath(name), CodeInvalidDefinition, name, "not a record: "+t.String())}
	}
	return rt, nil
}

// Names returns every registered name in ascending order.
func (r *Registry) Names() []string { return append([]string(nil), r.names...) }

// Len returns the number of registered names.
func (r *Registry) Len() int { return len(r.names) }
