package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/caret/classpath"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	c, err := Load(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, Default(dir), c)
	assert.Equal(t, classpath.StaleBlock, c.StaleMode)
	assert.True(t, c.Watch)
	assert.Equal(t, 64, c.ArchiveCacheSize)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `
classpath: ["deps/*.jar"]
stale_mode: fail
watch: false
log:
  verbosity: 2
  file: caret.log
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"deps/*.jar"}, c.Classpath)
	assert.Equal(t, []string{"src/main/java"}, c.Sourcepath)
	assert.Equal(t, classpath.StaleFail, c.StaleMode)
	assert.False(t, c.Watch)
	assert.Equal(t, 64, c.ArchiveCacheSize)
	assert.Equal(t, Log{Verbosity: 2, File: "caret.log"}, c.Log)
	assert.Equal(t, dir, c.Root)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"stale mode", "stale_mode: sometimes\n"},
		{"cache size", "archive_cache_size: -1\n"},
		{"verbosity", "log: {verbosity: -3}\n"},
		{"syntax", "classpath: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "sourcepath: [src]\n")
	nested := filepath.Join(root, "src", "p", "q")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	c, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, []string{"src"}, c.Sourcepath)
	assert.Equal(t, root, c.Root)
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib", "b.jar"), "")
	writeFile(t, filepath.Join(root, "lib", "a.jar"), "")
	writeFile(t, filepath.Join(root, "lib", "nested", "c.jar"), "")
	writeFile(t, filepath.Join(root, "lib", "notes.txt"), "")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "build", "classes"), 0o755))

	got := Expand(root, []string{"lib/**/*.jar", "build/classes", "missing", "lib/a.jar"})
	assert.Equal(t, []string{
		filepath.Join(root, "lib", "a.jar"),
		filepath.Join(root, "lib", "b.jar"),
		filepath.Join(root, "lib", "nested", "c.jar"),
		filepath.Join(root, "build", "classes"),
	}, got)
}

func TestClassPathAndSourcePath(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "main", "java"), 0o755))

	c := Default(root)
	assert.Empty(t, c.ClassPath())
	assert.Equal(t, []string{filepath.Join(root, "src", "main", "java")}, c.SourcePath())
}
