package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args and returns stdout, stderr and the error.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCleanCode(t *testing.T) {
	stdout, stderr, err := run(t, "", "parse", "--code", "let x = 1;")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, "1 file(s): 0 error(s), 0 warning(s)\n", stderr)
}

func TestParseReportsDiagnostics(t *testing.T) {
	_, stderr, err := run(t, "", "parse", "--code", "let = 1;")

	var exit *exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.code)
	assert.Contains(t, stderr, "<code>:1:5: error[E2001]")
	assert.Contains(t, stderr, "let = 1;")
	assert.Contains(t, stderr, "1 file(s): 1 error(s), 0 warning(s)")
}

func TestParseASTOutput(t *testing.T) {
	stdout, _, err := run(t, "", "parse", "--code", "namespace A.B {}", "--output", "ast")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Program script @1:1 [0,16)\n"), stdout)
	assert.Contains(t, stdout, "ModuleDeclaration Namespace")
}

func TestParseJSONOutput(t *testing.T) {
	stdout, _, err := run(t, "", "parse", "--no-color", "-o", "json",
		"--code", `import a from "./a"; const s = "\xZZ";`)
	require.NoError(t, err, "warnings alone do not fail the run")

	var reports []fileReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 1)
	r := reports[0]
	assert.Equal(t, "<code>", r.File)
	assert.True(t, r.Module)
	assert.Equal(t, []string{"./a"}, r.Imports)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "warning", r.Diagnostics[0].Severity)
	assert.Equal(t, "E1003", r.Diagnostics[0].Code)
	require.NotNil(t, r.AST)
	assert.Equal(t, "Program", r.AST.Kind)
	assert.Len(t, r.AST.Children, 2)
}

func TestParseCommentsInOutput(t *testing.T) {
	code := "// greet\nhello();"
	stdout, _, err := run(t, "", "parse", "--no-color", "-o", "json", "--comments", "--code", code)
	require.NoError(t, err)
	var reports []fileReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports[0].AST.Children, 1)
	assert.Equal(t, []string{"// greet"}, reports[0].AST.Children[0].Comments)

	stdout, _, err = run(t, "", "parse", "-o", "ast", "--comments", "--code", code)
	require.NoError(t, err)
	assert.Contains(t, stdout, `Comment "// greet"`)

	stdout, _, err = run(t, "", "parse", "-o", "ast", "--code", code)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Comment")
}

func TestParseWorkersZeroMeansPerCPU(t *testing.T) {
	_, stderr, err := run(t, "", "parse", "--workers", "0", "--code", "x;")
	require.NoError(t, err)
	assert.Equal(t, "1 file(s): 0 error(s), 0 warning(s)\n", stderr)

	v := viper.New()
	v.Set("workers", 0)
	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), cfg.Batch.Workers)
}

func TestParseFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ts", "declare global { }")
	b := writeFile(t, dir, "b.ts", "type T = typeof x;")

	stdout, _, err := run(t, "", "parse", "--workers", "2", "--output", "ast", a, b)
	require.NoError(t, err)
	ia := strings.Index(stdout, "== "+a+" ==")
	ib := strings.Index(stdout, "== "+b+" ==")
	require.GreaterOrEqual(t, ia, 0)
	require.Greater(t, ib, ia)
	assert.Contains(t, stdout, "ModuleDeclaration declare GlobalAugmentation")
	assert.Contains(t, stdout, "TypeQuery")
}

func TestParseStdin(t *testing.T) {
	_, stderr, err := run(t, "switch (x) { default: default: }", "parse", "--stdin")
	require.Error(t, err)
	assert.Contains(t, stderr, "<stdin>:1:23: error[E2005]")
}

func TestParseInputErrors(t *testing.T) {
	_, _, err := run(t, "", "parse")
	assert.ErrorContains(t, err, "no input")

	_, _, err = run(t, "", "parse", "--code", "x;", "file.ts")
	assert.ErrorContains(t, err, "multiple input sources")

	_, _, err = run(t, "", "parse", filepath.Join(t.TempDir(), "missing.ts"))
	assert.ErrorContains(t, err, "failed to read")

	_, _, err = run(t, "", "parse", "--code", "x;", "--output", "xml")
	assert.ErrorContains(t, err, "output.format")
}

func TestParseConfigAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "tsparse.toml", "[output]\nformat = \"ast\"\n")

	stdout, _, err := run(t, "", "parse", "--config", cfgPath, "--code", "x;")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ExpressionStatement")

	stdout, _, err = run(t, "", "parse", "--config", cfgPath, "--output", "text", "--code", "x;")
	require.NoError(t, err)
	assert.Empty(t, stdout, "flags override the config file")

	t.Setenv("TSPARSE_OUTPUT", "ast")
	stdout, _, err = run(t, "", "parse", "--code", "x;")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Program script")
}

func TestParseMaxErrors(t *testing.T) {
	_, stderr, err := run(t, "", "parse", "--max-errors", "1", "--code", "let = 1;\nlet = 2;\nlet = 3;")
	require.Error(t, err)
	assert.Contains(t, stderr, "error[E2007]")
	assert.Contains(t, stderr, "2 error(s)")
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "tsparse dev (commit unknown, built unknown)\n", stdout)

	stdout, _, err = run(t, "", "version", "-o", "json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, "dev", info["version"])
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchReparsesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "w.ts", "let a = 1;")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stderr syncBuffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"watch", "--no-color", path})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), path+": ok")
	}, 5*time.Second, 20*time.Millisecond)

	// Keep writing until the watcher is registered and picks one up.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("let = 1;"), 0o644)
		return strings.Contains(stderr.String(), abs+":1:5: error[E2001]")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
