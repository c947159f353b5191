package codec

import (
	"encoding/json"
	"fmt"

	sw "github.com/reoring/schemawire"
)

// Codec converts between JSON text and T, validated by a registry type.
type Codec[T any] struct {
	reg  *sw.Registry
	name string
}

// Typed returns a codec for the named type.
func Typed[T any](reg *sw.Registry, typeName string) (*Codec[T], error) {
	if _, err := reg.Resolve(typeName); err != nil {
		return nil, err
	}
	return &Codec[T]{reg: reg, name: typeName}, nil
}

// MustTyped is like Typed but panics when the type is not registered.
func MustTyped[T any](reg *sw.Registry, typeName string) *Codec[T] {
	c, err := Typed[T](reg, typeName)
	if err != nil {
		panic(err)
	}
	return c
}

// TypeName returns the registry name the codec validates against.
func (c *Codec[T]) TypeName() string { return c.name }

// Decode validates raw against the registry type, then unmarshals it.
func (c *Codec[T]) Decode(raw []byte, opts ...sw.DecodeOpt) (T, error) {
	var out T
	if _, err := c.reg.Decode(raw, c.name, opts...); err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("codec: unmarshal %s into %T: %w", c.name, out, err)
	}
	return out, nil
}

// DecodeDynamic is like Decode but also returns the dynamic value.
func (c *Codec[T]) DecodeDynamic(raw []byte) (T, any, error) {
	var out T
	dv, err := c.reg.Decode(raw, c.name)
	if err != nil {
		return out, nil, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, nil, fmt.Errorf("codec: unmarshal %s into %T: %w", c.name, out, err)
	}
	return out, dv, nil
}

// Encode marshals v, re-validates the output against the registry type and
// returns it in canonical form (declaration key order, unknown keys
// dropped).
func (c *Codec[T]) Encode(v T) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal %T: %w", v, err)
	}
	dv, err := c.reg.Decode(raw, c.name)
	if err != nil {
		return nil, err
	}
	return c.reg.Encode(dv, c.name)
}
