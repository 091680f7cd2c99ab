package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func workspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "caret.yaml"), "classpath: []\nsourcepath: [src]\nwatch: false\n")
	writeFile(t, filepath.Join(root, "src", "p", "Base.java"), "package p; public class Base { protected long total; }")
	writeFile(t, filepath.Join(root, "src", "p", "X.java"), "package p;\nclass X extends Base { void f() { ZZZZ } }\n")
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var flags globalFlags
	cmd := newCompleteCmd(&flags)
	switch args[0] {
	case "parse":
		cmd = newParseCmd()
	case "complete":
	default:
		t.Fatalf("unknown command %s", args[0])
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args[1:])
	err := cmd.Execute()
	return out.String(), err
}

func TestCompleteMarker(t *testing.T) {
	root := workspace(t)
	file := filepath.Join(root, "src", "p", "X.java")

	out, err := run(t, "complete", file, "--marker", "ZZZZ")
	require.NoError(t, err)
	assert.Equal(t, "token: Name [45, 48] \"ZZZZ\"\nlocation: StatementStart\nexpected: none\n", out)

	out, err = run(t, "complete", file, "--marker", "ZZZZ", "--extended", "--visible", "--enclosing")
	require.NoError(t, err)
	assert.Contains(t, out, "enclosing: method ")
	assert.Contains(t, out, "field\ttotal\tlong\t")
	assert.Contains(t, out, "method\ttoString\tjava.lang.String\t")
}

func TestCompleteOffsetJSON(t *testing.T) {
	root := workspace(t)
	file := filepath.Join(root, "src", "p", "X.java")

	out, err := run(t, "complete", file, "--offset", "49", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"location": "StatementStart"`)
	assert.Contains(t, out, `"text": "ZZZZ"`)
}

func TestCompleteErrors(t *testing.T) {
	root := workspace(t)
	file := filepath.Join(root, "src", "p", "X.java")

	_, err := run(t, "complete", file)
	assert.ErrorContains(t, err, "--offset or --marker")

	_, err = run(t, "complete", file, "--marker", "nope")
	assert.ErrorContains(t, err, "not found")

	_, err = run(t, "complete", file, "--marker", "ZZZZ", "--offset", "3")
	assert.ErrorContains(t, err, "mutually exclusive")

	_, err = run(t, "complete", file, "--marker", "ZZZZ", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "complete", filepath.Join(root, "missing.java"), "--offset", "0")
	assert.Error(t, err)
}

func TestParseTree(t *testing.T) {
	root := workspace(t)

	out, err := run(t, "parse", filepath.Join(root, "src", "p", "Base.java"))
	require.NoError(t, err)
	assert.Contains(t, out, "CompilationUnit")
	assert.Contains(t, out, "ClassDecl")

	out, err = run(t, "parse", filepath.Join(root, "src", "p", "Base.java"), "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "CompilationUnit"`)
}
