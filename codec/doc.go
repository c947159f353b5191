// Package codec binds registry types to Go structs.
//
// Typed[T] decodes through the registry first, so presence rules, unions and
// integer ranges are enforced exactly as for dynamic values, and only then
// unmarshals into T. Encoding goes the other way and re-validates the
// marshaled struct. Conform checks a struct's keys and presence wrappers
// against a record once, typically in a test.
package codec
