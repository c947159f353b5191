package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sw "github.com/reoring/schemawire"
	"github.com/reoring/schemawire/i18n"
	"github.com/reoring/schemawire/source/gojson"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Cleanup(sw.UseDefaultJSONDriver)
	t.Cleanup(func() { i18n.SetLanguage("en") })
	var out, errb bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errb)
	return code, out.String(), errb.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t, "")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Commands:")

	code, _, _ = runCLI(t, "", "bogus")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "", "decode")
	assert.Equal(t, 2, code, "missing -type")
}

func TestRun_Check(t *testing.T) {
	code, _, stderr := runCLI(t, "", "check", "-log-level", "info")
	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "registry ok")
}

func TestRun_Types(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "types")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "NAME")
	assert.Regexp(t, `(?m)^issue-label\s+union\s+-$`, stdout)
	assert.Regexp(t, `(?m)^empty-object\s+empty\s+-$`, stdout)
}

func TestRun_DecodeCanonical(t *testing.T) {
	code, stdout, stderr := runCLI(t, `{"color":"f29513","id":1,"node_id":"n","url":"u","name":"bug","description":null,"default":true,"extra":1}`,
		"decode", "-type", "label")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, `{"id":1,"node_id":"n","url":"u","name":"bug","description":null,"color":"f29513","default":true}`+"\n", stdout)
}

func TestRun_DecodeFailureLogsPath(t *testing.T) {
	code, _, stderr := runCLI(t, `{"id":1}`, "decode", "-type", "label", "-driver", gojson.Name)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "label.node_id")
	assert.Contains(t, stderr, "required")
}

func TestRun_DecodeEachAndDump(t *testing.T) {
	in := `["bug", {"id":2,"node_id":"n","url":"u","name":"docs","description":"d","color":"c","default":false}]`
	code, stdout, stderr := runCLI(t, in, "decode", "-type", "issue-label", "-each")
	require.Equal(t, 0, code, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"bug"`, lines[0])

	code, stdout, _ = runCLI(t, `"bug"`, "decode", "-type", "issue-label", "-dump")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Variant")
	assert.Contains(t, stdout, `"bug"`)
}

func TestRun_ExportAndImport(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "schema.json")
	code, _, stderr := runCLI(t, "", "export", "-type", "issue", "-o", out)
	require.Equal(t, 0, code, stderr)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"$defs"`)
	assert.Contains(t, string(raw), `"nullable-simple-user"`)

	// the exported document is itself a usable schema source
	code, stdout, stderr := runCLI(t, "", "types", "-schema", out)
	require.Equal(t, 0, code, stderr)
	assert.Regexp(t, `(?m)^issue\s+record\s+\d+$`, stdout)
	assert.Regexp(t, `(?m)^simple-user\s+record\s+\d+$`, stdout)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "schemawire.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("decode:\n  duplicate_keys: error\nlang: ja\n"), 0o600))

	code, _, stderr := runCLI(t, `{"x":1,"x":2}`, "decode", "-config", cfg, "-type", "empty-object")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "duplicate_key")

	code, _, stderr = runCLI(t, "", "check", "-config", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "read config")
}

func TestRun_DecodeFile(t *testing.T) {
	in := filepath.Join("..", "..", "github", "testdata", "issue.json")
	code, stdout, stderr := runCLI(t, "", "decode", "-type", "issue", "-in", in)
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, `{"id":`), stdout)
	assert.Contains(t, stdout, `"labels":[`)

	code, _, _ = runCLI(t, "", "decode", "-type", "issue", "-in", filepath.Join(t.TempDir(), "none.json"))
	assert.Equal(t, 1, code)
}
