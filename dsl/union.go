package dsl

import sw "github.com/reoring/schemawire"

// Union returns an anonymous ordered union. Declare narrower alternatives
// first: decoding picks the earliest one that succeeds.
func Union(alts ...sw.Type) *sw.UnionType { return sw.OneOf(alts...) }

// NamedUnion returns a union that is registered under name.
func NamedUnion(name string, alts ...sw.Type) *sw.UnionType {
	u := sw.OneOf(alts...)
	u.Name = name
	return u
}
