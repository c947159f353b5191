package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	sw "github.com/reoring/schemawire"
	"github.com/reoring/schemawire/config"
	"github.com/reoring/schemawire/github"
	"github.com/reoring/schemawire/i18n"
	"github.com/reoring/schemawire/openapi"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// errUsage marks argument errors; the flag set already printed its usage.
var errUsage = errors.New("usage")

type command struct {
	name  string
	short string
	run   func(e *env, args []string) error
}

var commands = []command{
	{"check", "bootstrap the registry and report problems", checkCmd},
	{"types", "list registered type names", typesCmd},
	{"decode", "decode JSON input as a named type", decodeCmd},
	{"export", "write the registry as a JSON Schema document", exportCmd},
}

// env is the per-invocation state shared by subcommands.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    zerolog.Logger
	cfg    *config.Config
	reg    *sw.Registry
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		e := &env{stdin: stdin, stdout: stdout, stderr: stderr, log: newLogger(stderr, config.LoggingConfig{Level: "info", Format: "console"})}
		err := c.run(e, args[1:])
		switch {
		case err == nil:
			return 0
		case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
			return 2
		}
		e.log.Error().Err(err).Str("command", c.name).Msg("failed")
		return 1
	}
	usage(stderr)
	return 2
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "schemawire CLI\n\nUsage:\n  schemawire <command> [flags]\n\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.short)
	}
	fmt.Fprintln(w, "\nRun 'schemawire <command> -h' for command flags.")
}

// commonFlags are accepted by every subcommand and override the config file.
type commonFlags struct {
	config   string
	schema   string
	driver   string
	logLevel string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", os.Getenv("SCHEMAWIRE_CONFIG"), "path to a YAML config file")
	fs.StringVar(&c.schema, "schema", "", `"github" or an OpenAPI document path`)
	fs.StringVar(&c.driver, "driver", "", "JSON driver: encoding/json or go-json")
	fs.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error")
}

func newFlagSet(e *env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// setup loads configuration, configures logging, language and driver, and
// bootstraps the registry.
func (e *env) setup(cf commonFlags) error {
	cfg, err := config.Load(cf.config)
	if err != nil {
		return err
	}
	if cf.schema != "" {
		cfg.Schema.Source = cf.schema
	}
	if cf.driver != "" {
		cfg.Decode.Driver = cf.driver
	}
	if cf.logLevel != "" {
		cfg.Logging.Level = cf.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	e.log = newLogger(e.stderr, cfg.Logging)

	i18n.SetLanguage(cfg.Lang)
	sw.SetJSONDriver(cfg.JSONDriver())

	start := time.Now()
	reg, err := loadRegistry(cfg, e.log)
	if err != nil {
		return err
	}
	e.reg = reg
	e.log.Debug().
		Str("source", cfg.Schema.Source).
		Str("driver", sw.CurrentJSONDriver().Name()).
		Int("types", reg.Len()).
		Dur("took", time.Since(start)).
		Msg("registry ready")
	return nil
}

func newLogger(w io.Writer, lc config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if lc.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func loadRegistry(cfg *config.Config, log zerolog.Logger) (*sw.Registry, error) {
	if cfg.Schema.Source == config.SourceGitHub {
		return github.Registry(), nil
	}
	opts := openapi.Options{Include: cfg.Schema.Include, StrictYAML: cfg.Schema.Strict}
	if cfg.Schema.Merge {
		opts.Base = github.Registry()
	}
	reg, diag, err := openapi.ImportFile(cfg.Schema.Source, opts)
	if diag != nil {
		for _, w := range diag.Warnings() {
			log.Warn().Str("source", cfg.Schema.Source).Msg(w)
		}
	}
	if err != nil {
		logIssues(log, err)
		return nil, fmt.Errorf("import %s: %w", cfg.Schema.Source, err)
	}
	return reg, nil
}

// logIssues logs each issue with its path and code as separate fields.
func logIssues(log zerolog.Logger, err error) {
	iss, ok := sw.AsIssues(err)
	if !ok {
		return
	}
	for _, it := range iss {
		log.Error().
			Str("path", it.Path).
			Str("pointer", it.Pointer).
			Str("code", it.Code).
			Str("hint", it.Hint).
			Msg(it.Message)
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
