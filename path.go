package schemawire

import (
	"strconv"
	"strings"
)

// PathRef is an immutable location inside a value being decoded or encoded.
// It renders both as a dotted path rooted at the type name
// (repository.owner.login, repository.topics[2]) and as a JSON Pointer
// (/owner/login, /topics/2).
type PathRef struct {
	root  string
	parts []pathPart
}

type pathPart struct {
	key   string
	index int
	isIdx bool
}

// RootPath returns a PathRef anchored at the named type.
func RootPath(typeName string) PathRef { return PathRef{root: typeName} }

// Field returns a child path for an object key. Keys are kept literally,
// including wire-mandated prefixes such as "@", "$" or "_".
func (p PathRef) Field(name string) PathRef {
	return PathRef{root: p.root, parts: append(append([]pathPart{}, p.parts...), pathPart{key: name})}
}

// Index returns a child path for an array element.
func (p PathRef) Index(i int) PathRef {
	return PathRef{root: p.root, parts: append(append([]pathPart{}, p.parts...), pathPart{index: i, isIdx: true})}
}

// Dotted renders the path as root.key[idx].key.
func (p PathRef) Dotted() string {
	b := &strings.Builder{}
	b.WriteString(p.root)
	for _, part := range p.parts {
		if part.isIdx {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(part.index))
			b.WriteByte(']')
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part.key)
	}
	return b.String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer renders the path as an RFC 6901 JSON Pointer.
func (p PathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, part := range p.parts {
		b.WriteByte('/')
		if part.isIdx {
			b.WriteString(strconv.Itoa(part.index))
			continue
		}
		b.WriteString(pointerEscaper.Replace(part.key))
	}
	return b.String()
}

func (p PathRef) String() string { return p.Dotted() }

// Issue creates an Issue at this path. kv is an alternating key/value list
// stored in Params.
func (p PathRef) Issue(code, msg string, kv ...any) Issue {
	var m map[string]any
	if len(kv) >= 2 {
		m = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			k, _ := kv[i].(string)
			m[k] = kv[i+1]
		}
	}
	return Issue{Path: p.Dotted(), Pointer: p.Pointer(), Code: code, Message: msg, Params: m}
}
