package openapi

import (
	"fmt"

	sw "github.com/reoring/schemawire"
)

// Options controls import behavior.
type Options struct {
	// Include restricts the import to these schema names and everything they
	// reference. Empty imports every schema.
	Include []string
	// StrictYAML rejects duplicate mapping keys instead of keeping the last.
	StrictYAML bool
	// Base is merged into the result so imported schemas may reference its
	// names and share one registry.
	Base *sw.Registry
}

// Diag carries non-fatal warnings produced during import.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool  { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(at, f string, a ...any) {
	d.ws = append(d.ws, at+": "+fmt.Sprintf(f, a...))
}
