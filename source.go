package schemawire

import (
	"io"
	"sync"

	eng "github.com/reoring/schemawire/internal/engine"
	jsonsrc "github.com/reoring/schemawire/source/json"
)

// TokenKind enumerates JSON token kinds.
type TokenKind = eng.Kind

const (
	TokenBeginObject TokenKind = eng.KindBeginObject
	TokenEndObject   TokenKind = eng.KindEndObject
	TokenBeginArray  TokenKind = eng.KindBeginArray
	TokenEndArray    TokenKind = eng.KindEndArray
	TokenKey         TokenKind = eng.KindKey
	TokenString      TokenKind = eng.KindString
	TokenNumber      TokenKind = eng.KindNumber
	TokenBool        TokenKind = eng.KindBool
	TokenNull        TokenKind = eng.KindNull
)

// Token describes a token in the input stream. Offset records the byte
// position when known (-1 otherwise). Numbers are kept as text.
type Token = eng.Token

// Source is a pull-based JSON token stream.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// JSONDriver converts JSON input into a Source and marshals scalar output.
// The default implementation is based on encoding/json and may be swapped
// with SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Marshal(v any) ([]byte, error)
	Name() string
}

// DefaultDriverName is the name reported by the encoding/json driver.
const DefaultDriverName = "encoding/json"

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default encoding/json-backed driver.
func UseDefaultJSONDriver() { SetJSONDriver(DefaultJSONDriver()) }

// DefaultJSONDriver returns the encoding/json-backed driver.
func DefaultJSONDriver() JSONDriver { return defaultJSONDriver{} }

// CurrentJSONDriver returns the driver used by Decode, Encode and JSONBytes.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source  { return jsonsrc.NewReader(r) }
func (defaultJSONDriver) NewBytes(b []byte) Source      { return jsonsrc.NewBytes(b) }
func (defaultJSONDriver) Marshal(v any) ([]byte, error) { return jsonsrc.Marshal(v) }
func (defaultJSONDriver) Name() string                  { return DefaultDriverName }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return CurrentJSONDriver().NewBytes(b) }
