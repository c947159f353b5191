package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"

	sw "github.com/reoring/schemawire"
	"github.com/reoring/schemawire/config"
	"github.com/reoring/schemawire/github"
	"github.com/reoring/schemawire/jsonschema"
)

func checkCmd(e *env, args []string) error {
	fs := newFlagSet(e, "check")
	var cf commonFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := e.setup(cf); err != nil {
		return err
	}
	if e.cfg.Schema.Source == config.SourceGitHub || e.cfg.Schema.Merge {
		if err := github.CheckBindings(e.reg); err != nil {
			return fmt.Errorf("typed structs drifted from the registry: %w", err)
		}
		e.log.Debug().Int("structs", len(github.BoundNames())).Msg("typed structs conform")
	}
	e.log.Info().Str("source", e.cfg.Schema.Source).Int("types", e.reg.Len()).Msg("registry ok")
	return nil
}

func typesCmd(e *env, args []string) error {
	fs := newFlagSet(e, "types")
	var cf commonFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := e.setup(cf); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tFIELDS")
	for _, n := range e.reg.Names() {
		t, _ := e.reg.Lookup(n)
		fields := "-"
		if rt, ok := t.(*sw.RecordType); ok {
			fields = fmt.Sprint(len(rt.Fields))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n, t.Kind(), fields)
	}
	return tw.Flush()
}

func decodeCmd(e *env, args []string) error {
	fs := newFlagSet(e, "decode")
	var cf commonFlags
	cf.register(fs)
	typeName := fs.String("type", "", "registered type name (required)")
	in := fs.String("in", "-", "input file, - for stdin")
	each := fs.Bool("each", false, "input is a JSON array; decode element by element")
	dump := fs.Bool("dump", false, "print the decoded value tree instead of re-encoded JSON")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *typeName == "" {
		fs.Usage()
		return errUsage
	}
	if err := e.setup(cf); err != nil {
		return err
	}

	r := e.stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	opt := e.cfg.DecodeOpt()
	opt.OnWarning = func(it sw.Issue) {
		e.log.Warn().Str("pointer", it.Pointer).Str("code", it.Code).Msg(it.Hint)
	}

	out := bufio.NewWriter(e.stdout)
	defer out.Flush()
	emit := func(v any) error { return e.emit(out, v, *typeName, *dump) }

	src := sw.JSONReader(r)
	var err error
	if *each {
		n := 0
		err = e.reg.DecodeEach(src, *typeName, func(_ int, v any) error {
			n++
			return emit(v)
		}, opt)
		e.log.Debug().Int("elements", n).Msg("decoded")
	} else {
		var v any
		if v, err = e.reg.DecodeFrom(src, *typeName, opt); err == nil {
			err = emit(v)
		}
	}
	if err != nil {
		logIssues(e.log, err)
		return err
	}
	return nil
}

var dumper = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true, DisableCapacities: true}

func (e *env) emit(w io.Writer, v any, typeName string, dump bool) error {
	if dump {
		dumper.Fdump(w, v)
		return nil
	}
	b, err := e.reg.Encode(v, typeName)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

func exportCmd(e *env, args []string) error {
	fs := newFlagSet(e, "export")
	var cf commonFlags
	cf.register(fs)
	types := fs.String("type", "", "comma-separated type names (default: all)")
	outPath := fs.String("o", "", "output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := e.setup(cf); err != nil {
		return err
	}
	doc, err := jsonschema.FromRegistry(e.reg, splitCSV(*types)...)
	if err != nil {
		logIssues(e.log, err)
		return err
	}
	b, err := doc.Marshal()
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if *outPath == "" {
		_, err = e.stdout.Write(b)
		return err
	}
	if err := os.WriteFile(*outPath, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *outPath, err)
	}
	e.log.Info().Str("path", *outPath).Int("defs", len(doc.Defs)).Msg("exported")
	return nil
}
