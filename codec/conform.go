package codec

import (
	"fmt"
	"reflect"
	"strings"

	sw "github.com/reoring/schemawire"
)

const wirePkg = "github.com/reoring/schemawire/wire"

// Conform checks that T's exported fields line up with the named record:
// every record field has a struct field with the same JSON key, the
// presence wrapper matches the presence mode, omittable wrappers carry
// omitzero, and no struct field maps to an undeclared key.
func Conform[T any](reg *sw.Registry, typeName string) error {
	rt, err := reg.Record(typeName)
	if err != nil {
		return err
	}
	st := reflect.TypeFor[T]()
	for st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	at := sw.RootPath(typeName)
	if st.Kind() != reflect.Struct {
		return sw.Issues{at.Issue(sw.CodeInvalidDefinition, fmt.Sprintf("%s is not a struct", st))}
	}

	byKey := map[string]reflect.StructField{}
	for i := range st.NumField() {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}
		if key := StructKey(sf); key != "-" {
			byKey[key] = sf
		}
	}

	var iss sw.Issues
	for _, f := range rt.Fields {
		fp := at.Field(f.Name)
		sf, ok := byKey[f.Name]
		if !ok {
			iss = append(iss, fp.Issue(sw.CodeInvalidDefinition, "no struct field for key", "struct", st.String()))
			continue
		}
		delete(byKey, f.Name)
		want := wrapperFor(f.Presence)
		if got := wrapperOf(sf.Type); got != want {
			iss = append(iss, fp.Issue(sw.CodeInvalidDefinition,
				fmt.Sprintf("%s presence needs %s, struct field %s is %s", f.Presence, want, sf.Name, got),
				"presence", f.Presence.String(), "got", got))
			continue
		}
		if f.Presence.AllowsAbsent() && !hasTagOption(sf, "omitzero") {
			iss = append(iss, fp.Issue(sw.CodeInvalidDefinition, "omittable field "+sf.Name+" lacks omitzero"))
		}
	}
	for key, sf := range byKey {
		iss = append(iss, at.Field(key).Issue(sw.CodeInvalidDefinition, "struct field "+sf.Name+" has no schema field"))
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// StructKey resolves a struct field's wire key.
// Priority: schemawire:"name=..." > json tag name > field name; "-" disables the field.
func StructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("schemawire"); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			if name, ok := strings.CutPrefix(p, "name="); ok {
				return name
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		name, _, _ := strings.Cut(jt, ",")
		if name != "" {
			return name
		}
	}
	return sf.Name
}

func hasTagOption(sf reflect.StructField, opt string) bool {
	_, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
	for _, o := range strings.Split(opts, ",") {
		if o == opt {
			return true
		}
	}
	return false
}

func wrapperFor(p sw.Presence) string {
	switch p {
	case sw.Optional:
		return "Optional"
	case sw.Nullable:
		return "Nullable"
	case sw.OptionalNullable:
		return "OptionalNullable"
	}
	return "plain"
}

func wrapperOf(t reflect.Type) string {
	if t.PkgPath() != wirePkg {
		return "plain"
	}
	name := t.Name()
	for _, w := range []string{"OptionalNullable", "Optional", "Nullable"} {
		if strings.HasPrefix(name, w+"[") {
			return w
		}
	}
	return "plain"
}
