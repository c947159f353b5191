package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sw "github.com/reoring/schemawire"
)

// Import compiles the named schemas of doc into a registry. doc may be JSON
// or YAML text ([]byte or string), a decoded map[string]any, or any value
// that marshals to a JSON object.
func Import(doc any, opts Options) (*sw.Registry, Diag, error) {
	d := &simpleDiag{}
	root, err := loadRoot(doc, opts)
	if err != nil {
		return nil, d, err
	}
	reg, err := importRoot(root, opts, d)
	return reg, d, err
}

// ImportFile reads a .json, .yaml or .yml document and imports it.
func ImportFile(path string, opts Options) (*sw.Registry, Diag, error) {
	d := &simpleDiag{}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, d, fmt.Errorf("openapi: unsupported file extension %q", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, d, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	var root *object
	if ext == ".json" {
		root, err = parseJSON(data, opts.StrictYAML)
	} else {
		root, err = parseDocument(data, opts.StrictYAML)
	}
	if err != nil {
		return nil, d, err
	}
	reg, err := importRoot(root, opts, d)
	return reg, d, err
}

func loadRoot(doc any, opts Options) (*object, error) {
	switch t := doc.(type) {
	case nil:
		return nil, errors.New("openapi: nil document")
	case []byte:
		return parseDocument(t, opts.StrictYAML)
	case string:
		return parseDocument([]byte(t), opts.StrictYAML)
	case map[string]any:
		return fromTree(t).(*object), nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: cannot marshal input: %w", err)
	}
	return parseJSON(b, opts.StrictYAML)
}

func importRoot(root *object, opts Options, d *simpleDiag) (*sw.Registry, error) {
	names, table := collectSchemas(root)
	if len(names) == 0 {
		return nil, errors.New("openapi: document defines no schemas")
	}

	queue := names
	if len(opts.Include) > 0 {
		queue = append([]string(nil), opts.Include...)
		for _, n := range queue {
			if _, ok := table[n]; !ok {
				return nil, fmt.Errorf("openapi: included schema %q not found", n)
			}
		}
	}

	c := &compiler{table: table, diag: d, base: opts.Base}
	b := sw.NewBuilder()
	if opts.Base != nil {
		b.Include(opts.Base)
	}
	seen := map[string]bool{}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n] {
			continue
		}
		seen[n] = true
		e, ok := table[n]
		if !ok {
			// provided by Base, or left for Build to report
			continue
		}
		c.refs = c.refs[:0]
		b.Register(n, c.named(n, e))
		queue = append(queue, c.refs...)
	}
	return b.Build()
}
