package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// ErrNoAlternative is returned when a OneOf2 matches neither alternative.
var ErrNoAlternative = errors.New("wire: no matching alternative")

// OneOf2 holds exactly one of two alternative shapes. Decoding tries A
// first, so declare the narrower shape as A. A struct alternative matches
// only when every key it requires is present (see Unmarshal).
type OneOf2[A, B any] struct {
	a     A
	b     B
	which int // 0 unset, 1 A, 2 B
}

// First returns a OneOf2 holding the A alternative.
func First[A, B any](v A) OneOf2[A, B] { return OneOf2[A, B]{a: v, which: 1} }

// Second returns a OneOf2 holding the B alternative.
func Second[A, B any](v B) OneOf2[A, B] { return OneOf2[A, B]{b: v, which: 2} }

// Index returns 0 for A, 1 for B and -1 when unset.
func (u OneOf2[A, B]) Index() int { return u.which - 1 }

// A returns the first alternative.
func (u OneOf2[A, B]) A() (A, bool) { return u.a, u.which == 1 }

// B returns the second alternative.
func (u OneOf2[A, B]) B() (B, bool) { return u.b, u.which == 2 }

func (u OneOf2[A, B]) MarshalJSON() ([]byte, error) {
	switch u.which {
	case 1:
		return json.Marshal(u.a)
	case 2:
		return json.Marshal(u.b)
	}
	return nil, ErrNoAlternative
}

func (u *OneOf2[A, B]) UnmarshalJSON(b []byte) error {
	var a A
	errA := strictUnmarshal(b, &a)
	if errA == nil {
		*u = OneOf2[A, B]{a: a, which: 1}
		return nil
	}
	var bv B
	errB := strictUnmarshal(b, &bv)
	if errB == nil {
		*u = OneOf2[A, B]{b: bv, which: 2}
		return nil
	}
	return fmt.Errorf("%w: %w; %w", ErrNoAlternative, errA, errB)
}

// strictUnmarshal rejects null, which encoding/json would otherwise accept
// as a no-op for any target, and objects missing a key the alternative
// requires.
func strictUnmarshal(b []byte, dst any) error {
	if isNull(b) {
		return errors.New("wire: null is not an alternative")
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return requireKeys(b, reflect.TypeOf(dst), "")
}

// Empty is a placeholder object: any object decodes into it and it always
// encodes as {}.
type Empty struct{}

func (Empty) MarshalJSON() ([]byte, error) { return []byte("{}"), nil }

func (*Empty) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if isNull(b) {
		return errors.New("wire: null is not an object")
	}
	return json.Unmarshal(b, &m)
}

// Timestamp is a date-time kept as its wire text.
type Timestamp string

// TimestampOf formats t as RFC 3339 in UTC with second precision.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.UTC().Truncate(time.Second).Format(time.RFC3339))
}

// Time parses the text as RFC 3339.
func (ts Timestamp) Time() (time.Time, error) { return time.Parse(time.RFC3339Nano, string(ts)) }
