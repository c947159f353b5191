package schemawire

// Severity expresses how a non-fatal input anomaly is treated.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DefaultMaxDepth bounds JSON nesting when DecodeOpt.MaxDepth is zero.
const DefaultMaxDepth = 10000

// DecodeOpt bundles input enforcement options for Decode and DecodeFrom.
type DecodeOpt struct {
	// MaxDepth limits container nesting. Zero means DefaultMaxDepth; a
	// negative value disables the limit.
	MaxDepth int
	// MaxBytes limits consumed input. Zero disables the limit.
	MaxBytes int64
	// OnDuplicateKey selects duplicate object key handling. The last value
	// wins when duplicates are not rejected.
	OnDuplicateKey Severity
	// OnWarning receives issues reported with Warn severity.
	OnWarning func(Issue)
}

func resolveDecodeOpt(opts []DecodeOpt) DecodeOpt {
	var o DecodeOpt
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}
