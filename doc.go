// Package schemawire maps JSON Schema style type descriptions onto dynamic,
// round-trip-safe values.
//
// Every field carries one of four presence modes (Required, Optional,
// Nullable, OptionalNullable) that is applied uniformly on decode and
// encode. Named record and union shapes live in an immutable Registry built
// in two phases, so bodies may reference themselves or each other by name.
// Unions decode by trying alternatives in declaration order; the earliest
// one that decodes wins and the value is tagged with its index.
//
// Design policy:
//   - Keep the descriptor, registry and codec in the root package; builders
//     live under dsl/, static wrappers under wire/, typed codecs under codec/,
//     importers and exporters under openapi/ and jsonschema/.
//   - Errors are Issues carrying a dotted path rooted at the type name and a
//     JSON Pointer. Decoding is fail-fast.
//   - Unknown input keys are ignored and never re-emitted.
//
// Typical usage:
//
//	b := schemawire.NewBuilder()
//	b.Register("simple-user", schemawire.NewRecord("",
//		schemawire.Field{Name: "id", Type: schemawire.Integer()},
//		schemawire.Field{Name: "login", Type: schemawire.String()},
//		schemawire.Field{Name: "name", Type: schemawire.String(), Presence: schemawire.Optional},
//	))
//	reg := b.MustBuild()
//
//	v, err := reg.Decode([]byte(`{"id":1,"login":"octocat"}`), "simple-user")
//	out, err := reg.Encode(v, "simple-user") // {"id":1,"login":"octocat"}
package schemawire
