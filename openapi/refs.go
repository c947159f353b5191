package openapi

import "strings"

// refPrefixes are the local pointer prefixes under which named schemas live.
var refPrefixes = []string{"#/components/schemas/", "#/$defs/", "#/definitions/"}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// refName maps a local $ref to the schema name. External or nested pointers
// report ok=false.
func refName(ref string) (string, bool) {
	for _, p := range refPrefixes {
		if strings.HasPrefix(ref, p) {
			name := strings.TrimPrefix(ref, p)
			if name == "" || strings.Contains(name, "/") {
				return "", false
			}
			return pointerUnescaper.Replace(name), true
		}
	}
	return "", false
}

type entry struct {
	pointer string
	schema  *object
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// collectSchemas returns the named schema table of a document in document
// order: components.schemas, then $defs, then definitions. A name defined
// in more than one section keeps its first definition.
func collectSchemas(root *object) ([]string, map[string]entry) {
	var names []string
	table := map[string]entry{}
	add := func(prefix string, o *object) {
		if o == nil {
			return
		}
		for _, k := range o.keys {
			s, ok := o.vals[k].(*object)
			if !ok {
				continue
			}
			if _, seen := table[k]; seen {
				continue
			}
			names = append(names, k)
			table[k] = entry{pointer: prefix + pointerEscaper.Replace(k), schema: s}
		}
	}
	add(refPrefixes[0], root.obj("components").obj("schemas"))
	add(refPrefixes[1], root.obj("$defs"))
	add(refPrefixes[2], root.obj("definitions"))
	return names, table
}
