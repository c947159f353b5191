package schemawire

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Presence violations
	CodeRequired       = "required"
	CodeNullNotAllowed = "null_not_allowed"
	// Type mismatches
	CodeInvalidType = "invalid_type"
	CodeOverflow    = "overflow"
	// Unions
	CodeNoMatchingVariant = "no_matching_variant"
	// Registry bootstrap (fatal: the schema itself is malformed)
	CodeUnknownTypeReference = "unknown_type_reference"
	CodeDuplicateTypeName    = "duplicate_type_name"
	CodeCyclicUnion          = "cyclic_union"
	CodeInvalidDefinition    = "invalid_definition"
	// Encode contract violations
	CodeInvalidValue = "invalid_value"
	// Input stream
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// Category sentinels. Every Issues value answers errors.Is for the category
// of any of its entries, so callers can branch without inspecting codes.
var (
	ErrPresenceViolation    = errors.New("schemawire: presence violation")
	ErrTypeMismatch         = errors.New("schemawire: type mismatch")
	ErrNoMatchingVariant    = errors.New("schemawire: no matching variant")
	ErrUnknownTypeReference = errors.New("schemawire: unknown type reference")
	ErrDuplicateTypeName    = errors.New("schemawire: duplicate type name")
	ErrInvalidDefinition    = errors.New("schemawire: invalid definition")
	ErrInvalidValue         = errors.New("schemawire: invalid value")
	ErrMalformedInput       = errors.New("schemawire: malformed input")
)

// Issue represents a single decode, encode, or bootstrap failure.
type Issue struct {
	Path    string // Dotted path rooted at the type name (for example: repository.owner.login).
	Pointer string // JSON Pointer into the input (for example: /owner/login).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected kinds, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"expected":"integer","got":"string"})
	// for i18n and diagnostics.
	Params map[string]any
}

// Category returns the sentinel error for the issue code, or nil for unknown codes.
func (it Issue) Category() error {
	switch it.Code {
	case CodeRequired, CodeNullNotAllowed:
		return ErrPresenceViolation
	case CodeInvalidType, CodeOverflow:
		return ErrTypeMismatch
	case CodeNoMatchingVariant:
		return ErrNoMatchingVariant
	case CodeUnknownTypeReference:
		return ErrUnknownTypeReference
	case CodeDuplicateTypeName:
		return ErrDuplicateTypeName
	case CodeCyclicUnion, CodeInvalidDefinition:
		return ErrInvalidDefinition
	case CodeInvalidValue:
		return ErrInvalidValue
	case CodeParseError, CodeDuplicateKey, CodeTruncated:
		return ErrMalformedInput
	}
	return nil
}

func (it Issue) String() string {
	where := it.Path
	if where == "" {
		where = it.Pointer
	}
	if it.Message == "" {
		return fmt.Sprintf("%s at %s", it.Code, where)
	}
	return fmt.Sprintf("%s at %s: %s", it.Code, where, it.Message)
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].String())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any entry belongs to the target category.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		if c := it.Category(); c != nil && c == target {
			return true
		}
	}
	return false
}

// Unwrap exposes the causes so errors.Is/As can reach wrapped errors.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// First returns the first issue, or the zero Issue when empty.
func (iss Issues) First() Issue {
	if len(iss) == 0 {
		return Issue{}
	}
	return iss[0]
}

// Codes lists the code of every issue in order.
func (iss Issues) Codes() []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Code)
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
