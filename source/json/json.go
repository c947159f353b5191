package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	eng "github.com/reoring/schemawire/internal/engine"
)

type jsonSource struct {
	dec        *json.Decoder
	framer     eng.Framer
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec, lastOffset: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return eng.Token{Kind: s.framer.Open(true), Offset: s.lastOffset}, nil
		case '[':
			return eng.Token{Kind: s.framer.Open(false), Offset: s.lastOffset}, nil
		default:
			return eng.Token{Kind: s.framer.Close(), Offset: s.lastOffset}, nil
		}
	case string:
		return eng.Token{Kind: s.framer.StringKind(), String: v, Offset: s.lastOffset}, nil
	case bool:
		return eng.Token{Kind: s.framer.Scalar(eng.KindBool), Bool: v, Offset: s.lastOffset}, nil
	case json.Number:
		return eng.Token{Kind: s.framer.Scalar(eng.KindNumber), Number: string(v), Offset: s.lastOffset}, nil
	case float64:
		return eng.Token{Kind: s.framer.Scalar(eng.KindNumber), Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: s.lastOffset}, nil
	}
	return eng.Token{Kind: s.framer.Scalar(eng.KindNull), Offset: s.lastOffset}, nil
}

func (s *jsonSource) Location() int64 { return s.lastOffset }

// Marshal encodes v with encoding/json.
func Marshal(v any) ([]byte, error) { return json.Marshal(v) }
