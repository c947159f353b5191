package jsonschema

// Schema is the subset of JSON Schema (2020-12) the exporter emits.
type Schema struct {
	// Core
	Ref         string `json:"$ref,omitempty"`
	Type        any    `json:"type,omitempty"` // string, or []string when null is admitted
	Format      string `json:"format,omitempty"`
	Description string `json:"description,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`

	order []string // property declaration order
}

// MarshalJSON renders s compactly, properties in declaration order.
func (s *Schema) MarshalJSON() ([]byte, error) { return render(s.tree(), "") }

// Document is a self-contained schema document holding every exported name
// under $defs.
type Document struct {
	Schema string             `json:"$schema"`
	Defs   map[string]*Schema `json:"$defs"`
}

// Draft is the dialect URI written to $schema.
const Draft = "https://json-schema.org/draft/2020-12/schema"
