package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/acornjs/acorn-async-iteration/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runWith(t *testing.T, args cliArgs, stdin string) (string, string, error) {
	t.Helper()
	if args.Ecma == 0 {
		args.Ecma = 9
	}
	var stdout, stderr bytes.Buffer
	err := run(args, zap.NewNop(), strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunJSON(t *testing.T) {
	stdout, stderr, err := runWith(t, cliArgs{Module: true, Compact: true}, "for await (const x of xs) {}")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var program map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &program))
	assert.Equal(t, "Program", program["type"])
	assert.Equal(t, "module", program["sourceType"])
	body := program["body"].([]any)
	require.Len(t, body, 1)
	assert.Equal(t, true, body[0].(map[string]any)["await"])
	assert.Equal(t, 1, strings.Count(stdout, "\n"))
}

func TestRunGenerate(t *testing.T) {
	stdout, _, err := runWith(t, cliArgs{Generate: true}, "async  function *g ( ) { yield 1 }")
	require.NoError(t, err)
	assert.Equal(t, "async function* g() {\n    yield 1;\n}\n", stdout)
}

func TestRunDump(t *testing.T) {
	stdout, _, err := runWith(t, cliArgs{Dump: true}, "a;")
	require.NoError(t, err)
	assert.Contains(t, stdout, "parser.Node")
}

func TestRunOutline(t *testing.T) {
	stdout, _, err := runWith(t, cliArgs{Outline: true, Module: true}, "for await (x of y) ;")
	require.NoError(t, err)
	assert.Equal(t, "Program [0, 20]\n"+
		"  ForOfStatement [0, 20] await\n"+
		"    Identifier [11, 12] x\n"+
		"    Identifier [16, 17] y\n"+
		"    EmptyStatement [19, 20]\n", stdout)
}

func TestRunDiagnostics(t *testing.T) {
	stdout, stderr, err := runWith(t, cliArgs{Silent: true}, "let a; let a;")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, "warning: Identifier 'a' has already been declared (1:11)\n", stderr)
}

func TestRunErrors(t *testing.T) {
	_, _, err := runWith(t, cliArgs{NoAsyncIteration: true}, "async function* g() {}")
	require.Error(t, err)
	_, ok := parser.AsSyntaxError(err)
	assert.True(t, ok)

	_, _, err = runWith(t, cliArgs{Plugin: []string{"missing"}}, "a;")
	assert.EqualError(t, err, "Plugin 'missing' not found")

	_, _, err = runWith(t, cliArgs{Files: []string{filepath.Join(t.TempDir(), "none.js")}}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading ")
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.js")
	second := filepath.Join(dir, "b.js")
	require.NoError(t, os.WriteFile(first, []byte("var a = 1;"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("async function* b() {}"), 0o644))

	stdout, _, err := runWith(t, cliArgs{Generate: true, Files: []string{first, second}}, "")
	require.NoError(t, err)
	assert.Equal(t, "var a = 1;\nasync function* b() {}\n", stdout)
}

func TestOptions(t *testing.T) {
	logger := zap.NewNop()
	opts := options(cliArgs{Ecma: 2018, Module: true, Locations: true, Plugin: []string{"other"}}, logger, "x.js")
	assert.Equal(t, 2018, opts.EcmaVersion)
	assert.Equal(t, "module", opts.SourceType)
	assert.True(t, opts.Locations)
	assert.Equal(t, "x.js", opts.SourceFile)
	assert.Equal(t, map[string]bool{"asyncIteration": true, "other": true}, opts.Plugins)

	opts = options(cliArgs{NoAsyncIteration: true}, logger, "")
	assert.Empty(t, opts.Plugins)
	assert.Equal(t, "script", opts.SourceType)
}
