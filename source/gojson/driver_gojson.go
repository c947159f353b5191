// Package gojson provides a schemawire JSON driver backed by goccy/go-json.
package gojson

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	"github.com/reoring/schemawire"
	eng "github.com/reoring/schemawire/internal/engine"
)

// Name is the identifier reported by the driver and accepted in config.
const Name = "go-json"

// Driver returns a schemawire.JSONDriver backed by goccy/go-json.
func Driver() schemawire.JSONDriver { return driver{} }

type driver struct{}

func (driver) NewReader(r io.Reader) schemawire.Source { return NewReader(r) }
func (driver) NewBytes(b []byte) schemawire.Source     { return NewBytes(b) }
func (driver) Marshal(v any) ([]byte, error)           { return j.Marshal(v) }
func (driver) Name() string                            { return Name }

type source struct {
	dec    *j.Decoder
	framer eng.Framer
	off    int64
}

// NewReader wraps an io.Reader into an engine.TokenSource using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec, off: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}
	s.off = s.dec.InputOffset()

	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return eng.Token{Kind: s.framer.Open(true), Offset: s.off}, nil
		case '[':
			return eng.Token{Kind: s.framer.Open(false), Offset: s.off}, nil
		default:
			return eng.Token{Kind: s.framer.Close(), Offset: s.off}, nil
		}
	case string:
		return eng.Token{Kind: s.framer.StringKind(), String: v, Offset: s.off}, nil
	case bool:
		return eng.Token{Kind: s.framer.Scalar(eng.KindBool), Bool: v, Offset: s.off}, nil
	case j.Number:
		return eng.Token{Kind: s.framer.Scalar(eng.KindNumber), Number: string(v), Offset: s.off}, nil
	case float64:
		return eng.Token{Kind: s.framer.Scalar(eng.KindNumber), Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: s.off}, nil
	}
	return eng.Token{Kind: s.framer.Scalar(eng.KindNull), Offset: s.off}, nil
}

func (s *source) Location() int64 { return s.off }
