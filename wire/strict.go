package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ErrMissingKey is returned when a JSON object lacks a key that the decode
// target requires.
var ErrMissingKey = errors.New("wire: required key absent")

// Unmarshal is json.Unmarshal plus key presence checks. encoding/json never
// calls UnmarshalJSON for an absent key, so a missing Nullable key or a
// missing plain field would otherwise decode silently as null or zero.
// A struct field's key is required unless its json tag carries omitzero or
// omitempty; nested structs, slices and maps are checked the same way.
func Unmarshal(b []byte, v any) error {
	if err := json.Unmarshal(b, v); err != nil {
		return err
	}
	return requireKeys(b, reflect.TypeOf(v), "")
}

// wrapper is implemented by the presence wrappers so key checks can descend
// into the wrapped type.
type wrapper interface{ wrappedType() reflect.Type }

func (Optional[T]) wrappedType() reflect.Type         { return reflect.TypeFor[T]() }
func (Nullable[T]) wrappedType() reflect.Type         { return reflect.TypeFor[T]() }
func (OptionalNullable[T]) wrappedType() reflect.Type { return reflect.TypeFor[T]() }

var unmarshalerType = reflect.TypeFor[json.Unmarshaler]()

func requireKeys(b []byte, t reflect.Type, path string) error {
	if t == nil || isNull(b) {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if w, ok := reflect.Zero(t).Interface().(wrapper); ok {
		return requireKeys(b, w.wrappedType(), path)
	}
	// OneOf2, Empty and other custom decoders check their own input
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		var obj map[string]json.RawMessage
		if json.Unmarshal(b, &obj) != nil {
			return nil
		}
		return requireFields(obj, t, path)
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil
		}
		var arr []json.RawMessage
		if json.Unmarshal(b, &arr) != nil {
			return nil
		}
		for i, el := range arr {
			if err := requireKeys(el, t.Elem(), path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil
		}
		var obj map[string]json.RawMessage
		if json.Unmarshal(b, &obj) != nil {
			return nil
		}
		for k, el := range obj {
			if err := requireKeys(el, t.Elem(), joinKey(path, k)); err != nil {
				return err
			}
		}
	}
	return nil
}

func requireFields(obj map[string]json.RawMessage, t reflect.Type, path string) error {
	for i := range t.NumField() {
		sf := t.Field(i)
		name, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" && opts == "" {
			continue
		}
		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if err := requireFields(obj, ft, path); err != nil {
					return err
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		raw, ok := obj[name]
		if !ok {
			if hasOption(opts, "omitzero") || hasOption(opts, "omitempty") {
				continue
			}
			return fmt.Errorf("%w: %s", ErrMissingKey, joinKey(path, name))
		}
		if err := requireKeys(raw, sf.Type, joinKey(path, name)); err != nil {
			return err
		}
	}
	return nil
}

func hasOption(opts, opt string) bool {
	for _, o := range strings.Split(opts, ",") {
		if o == opt {
			return true
		}
	}
	return false
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
