// Package dsl provides fluent builders for schemawire records and unions.
//
// Entry points
//   - Object()/Record(name): declare fields in wire order with a presence
//     mode per field, then Build()/MustBuild().
//   - Union(alts...): an ordered union; the first alternative that decodes wins.
//   - View(base): derive a context-specific shape (Pick/Omit/Rename/
//     AllOptional/Presence) from one canonical record instead of copying
//     its field list.
//   - Req/Opt/Null/OptNull: one-line field helpers for NewRecord-style
//     declarations.
package dsl
