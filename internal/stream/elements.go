// Package stream walks top-level JSON arrays one element at a time so list
// payloads never have to be materialized as a whole.
package stream

import (
	"errors"
	"io"

	eng "github.com/reoring/schemawire/internal/engine"
)

// ErrNotArray reports a stream whose top-level value is not an array.
var ErrNotArray = errors.New("stream: top-level value is not an array")

// Elements hands each element of the top-level array in src to fn as a
// token source limited to that element. Elements that fn leaves partially
// read are drained before the walk continues. An error from fn stops the
// walk and is returned unchanged.
func Elements(src eng.TokenSource, fn func(i int, elem eng.TokenSource) error) error {
	tok, err := src.NextToken()
	if err != nil {
		return unexpectedEOF(err)
	}
	if tok.Kind != eng.KindBeginArray {
		return ErrNotArray
	}
	for i := 0; ; i++ {
		tok, err := src.NextToken()
		if err != nil {
			return unexpectedEOF(err)
		}
		if tok.Kind == eng.KindEndArray {
			break
		}
		elem := newElementSource(src, tok)
		if err := fn(i, elem); err != nil {
			return err
		}
		if err := elem.drain(); err != nil {
			return err
		}
	}
	if _, err := src.NextToken(); err == nil {
		return eng.ErrTrailingData
	} else if !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// elementSource first returns the already consumed opening token and then
// streams the rest of the same subtree, reporting io.EOF once the matching
// end token has been served.
type elementSource struct {
	inner  eng.TokenSource
	first  eng.Token
	served bool
	depth  int
	done   bool
}

func newElementSource(inner eng.TokenSource, first eng.Token) *elementSource {
	return &elementSource{inner: inner, first: first}
}

func (e *elementSource) NextToken() (eng.Token, error) {
	if e.done {
		return eng.Token{}, io.EOF
	}
	tok := e.first
	if e.served {
		var err error
		if tok, err = e.inner.NextToken(); err != nil {
			return eng.Token{}, unexpectedEOF(err)
		}
	}
	e.served = true
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		e.depth++
	case eng.KindEndObject, eng.KindEndArray:
		e.depth--
	}
	if e.depth <= 0 {
		e.done = true
	}
	return tok, nil
}

func (e *elementSource) Location() int64 { return e.inner.Location() }

func (e *elementSource) drain() error {
	for !e.done {
		if _, err := e.NextToken(); err != nil {
			return err
		}
	}
	return nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
