package engine

// Framer tracks object/array nesting for token drivers whose underlying
// decoders do not distinguish object keys from string values.
type Framer struct {
	stack []framerFrame
}

type framerFrame struct {
	object       bool
	expectingKey bool
}

// Open records the start of an object or array.
func (f *Framer) Open(object bool) Kind {
	f.stack = append(f.stack, framerFrame{object: object, expectingKey: object})
	if object {
		return KindBeginObject
	}
	return KindBeginArray
}

// Close records the end of the innermost container.
func (f *Framer) Close() Kind {
	object := false
	if n := len(f.stack); n > 0 {
		object = f.stack[n-1].object
		f.stack = f.stack[:n-1]
	}
	f.valueDone()
	if object {
		return KindEndObject
	}
	return KindEndArray
}

// StringKind classifies a string token as a key or a value.
func (f *Framer) StringKind() Kind {
	if n := len(f.stack); n > 0 {
		top := &f.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return KindKey
		}
	}
	f.valueDone()
	return KindString
}

// Scalar records a non-string scalar value.
func (f *Framer) Scalar(k Kind) Kind {
	f.valueDone()
	return k
}

func (f *Framer) valueDone() {
	if n := len(f.stack); n > 0 {
		top := &f.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
