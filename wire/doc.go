// Package wire holds static Go types for the four presence modes and for
// unions, so typed structs can mirror registry records field by field.
//
// Presence mapping for struct fields:
//
//	Required          T
//	Optional          wire.Optional[T]          `json:"k,omitzero"`
//	Nullable          wire.Nullable[T]          `json:"k"`
//	OptionalNullable  wire.OptionalNullable[T]  `json:"k,omitzero"`
//
// The omitzero option relies on the IsZero methods defined here and on
// encoding/json (Go 1.24+) honoring them.
//
// encoding/json leaves a field untouched when its key is absent, so plain
// json.Unmarshal reads a missing Nullable key as null and a missing
// Required key as the zero value. Decode with Unmarshal, or through
// codec.Typed, to reject both.
package wire
