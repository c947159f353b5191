package engine_test

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eng "github.com/reoring/schemawire/internal/engine"
)

// sliceSource replays tokens; Location is the index of the last token.
type sliceSource struct {
	toks []eng.Token
	pos  int
}

func (s *sliceSource) NextToken() (eng.Token, error) {
	if s.pos >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.pos) }

func obj(kv ...eng.Token) []eng.Token {
	out := append([]eng.Token{{Kind: eng.KindBeginObject}}, kv...)
	return append(out, eng.Token{Kind: eng.KindEndObject})
}

func key(k string) eng.Token { return eng.Token{Kind: eng.KindKey, String: k} }
func str(s string) eng.Token { return eng.Token{Kind: eng.KindString, String: s} }
func num(n string) eng.Token { return eng.Token{Kind: eng.KindNumber, Number: n} }

func TestDecodeAnyFromSource_Tree(t *testing.T) {
	toks := obj(
		key("a"), num("12345678901234567890"),
		key("b"), eng.Token{Kind: eng.KindBeginArray}, eng.Token{Kind: eng.KindEndArray},
		key("c"), eng.Token{Kind: eng.KindNull},
		key("d"), eng.Token{Kind: eng.KindBool, Bool: true},
	)
	v, err := eng.DecodeAnyFromSource(&sliceSource{toks: toks})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": json.Number("12345678901234567890"),
		"b": []any{},
		"c": nil,
		"d": true,
	}, v)
}

func TestDecodeAnyFromSource_Errors(t *testing.T) {
	_, err := eng.DecodeAnyFromSource(&sliceSource{})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = eng.DecodeAnyFromSource(&sliceSource{toks: []eng.Token{{Kind: eng.KindBeginObject}, key("a")}})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = eng.DecodeAnyFromSource(&sliceSource{toks: []eng.Token{str("x"), str("y")}})
	assert.ErrorIs(t, err, eng.ErrTrailingData)
}

func TestEnforcement_Passthrough(t *testing.T) {
	src := &sliceSource{}
	assert.Same(t, src, eng.WrapWithEnforcement(src, eng.EnforceOptions{}))
}

func TestEnforcement_DuplicateKeys(t *testing.T) {
	toks := obj(key("x"), str("1"), key("x"), str("2"))

	var warned []eng.SimpleIssue
	src := eng.WrapWithEnforcement(&sliceSource{toks: toks}, eng.EnforceOptions{
		OnDuplicate: eng.DupWarn,
		Warn:        func(si eng.SimpleIssue) { warned = append(warned, si) },
	})
	v, err := eng.DecodeAnyFromSource(src)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": "2"}, v)
	require.Len(t, warned, 1)
	assert.Equal(t, "/x", warned[0].Path)

	src = eng.WrapWithEnforcement(&sliceSource{toks: toks}, eng.EnforceOptions{OnDuplicate: eng.DupError})
	_, err = eng.DecodeAnyFromSource(src)
	var ie eng.IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "duplicate_key", ie.Code)
}

func TestEnforcement_SameKeyInSiblingsIsNotDuplicate(t *testing.T) {
	inner := obj(key("k"), str("v"))
	toks := []eng.Token{{Kind: eng.KindBeginArray}}
	toks = append(toks, inner...)
	toks = append(toks, inner...)
	toks = append(toks, eng.Token{Kind: eng.KindEndArray})

	src := eng.WrapWithEnforcement(&sliceSource{toks: toks}, eng.EnforceOptions{OnDuplicate: eng.DupError})
	_, err := eng.DecodeAnyFromSource(src)
	assert.NoError(t, err)
}

func TestEnforcement_DepthAndBytes(t *testing.T) {
	nested := []eng.Token{
		{Kind: eng.KindBeginArray}, {Kind: eng.KindBeginArray}, {Kind: eng.KindBeginArray},
		{Kind: eng.KindEndArray}, {Kind: eng.KindEndArray}, {Kind: eng.KindEndArray},
	}
	_, err := eng.DecodeAnyFromSource(eng.WrapWithEnforcement(&sliceSource{toks: nested}, eng.EnforceOptions{MaxDepth: 2}))
	var ie eng.IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "parse_error", ie.Code)
	assert.Equal(t, "/0/0", ie.Path)

	_, err = eng.DecodeAnyFromSource(eng.WrapWithEnforcement(&sliceSource{toks: nested}, eng.EnforceOptions{MaxDepth: 3}))
	assert.NoError(t, err)

	_, err = eng.DecodeAnyFromSource(eng.WrapWithEnforcement(&sliceSource{toks: nested}, eng.EnforceOptions{MaxBytes: 4}))
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "truncated", ie.Code)
}

func TestFramer(t *testing.T) {
	var f eng.Framer
	got := []eng.Kind{
		f.Open(true),
		f.StringKind(), // key
		f.StringKind(), // value
		f.StringKind(), // key
		f.Open(false),
		f.StringKind(),
		f.Scalar(eng.KindNumber),
		f.Close(),
		f.StringKind(), // key after nested array
		f.Scalar(eng.KindNull),
		f.Close(),
	}
	assert.Equal(t, []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindString,
		eng.KindKey,
		eng.KindBeginArray, eng.KindString, eng.KindNumber, eng.KindEndArray,
		eng.KindKey, eng.KindNull,
		eng.KindEndObject,
	}, got)
}
