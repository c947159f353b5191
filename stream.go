package schemawire

import (
	"errors"

	"github.com/reoring/schemawire/i18n"
	eng "github.com/reoring/schemawire/internal/engine"
	"github.com/reoring/schemawire/internal/stream"
)

// DecodeEach decodes a top-level JSON array whose elements are the named
// type, calling fn with each element as soon as it is complete. Only one
// element tree is held at a time, which suits list endpoints. Element
// failures are rooted at typeName[i]. An error returned by fn stops the walk
// and is returned as is.
func (r *Registry) DecodeEach(src Source, typeName string, fn func(i int, v any) error, opts ...DecodeOpt) error {
	t := r.mustResolve(typeName)
	root := RootPath(typeName)
	if t == nil {
		return Issues{bootstrapIssue(root, CodeUnknownTypeReference, typeName, "")}
	}
	o := resolveDecodeOpt(opts)

	var stop error
	err := stream.Elements(eng.WrapWithEnforcement(src, enforceOptions(o, root)), func(i int, elem eng.TokenSource) error {
		at := root.Index(i)
		tree, err := eng.DecodeAnyFromSource(elem)
		if err != nil {
			return streamIssue(err, at)
		}
		v, err := r.decode(t, tree, at)
		if err != nil {
			return err
		}
		if err := fn(i, v); err != nil {
			stop = err
			return err
		}
		return nil
	})
	switch {
	case stop != nil:
		return stop
	case err == nil:
		return nil
	}
	if _, ok := AsIssues(err); ok {
		return err
	}
	if errors.Is(err, stream.ErrNotArray) {
		it := root.Issue(CodeInvalidType, i18n.T(CodeInvalidType, nil), "expected", "array")
		it.Hint = "expected a top-level array of " + typeName
		return Issues{it}
	}
	return streamIssue(err, root)
}
