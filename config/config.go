// Package config reads caret.yaml, the project file naming the class path
// and source roots completion queries are resolved against.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/caret/classpath"
)

// FileName is the name Find looks for.
const FileName = "caret.yaml"

var log = commonlog.GetLogger("caret.config")

type Config struct {
	// Classpath lists jars, class directories and .class files. Entries
	// may be doublestar globs.
	Classpath []string `yaml:"classpath"`

	// Sourcepath lists roots of .java sources.
	Sourcepath []string `yaml:"sourcepath"`

	StaleMode        classpath.StaleMode `yaml:"stale_mode"`
	ArchiveCacheSize int                 `yaml:"archive_cache_size"`

	// Watch rebuilds the class index when files below the class path or
	// source path change.
	Watch bool `yaml:"watch"`

	Log Log `yaml:"log"`

	// Root is the directory relative entries are resolved against. It is
	// the directory holding the config file.
	Root string `yaml:"-"`
}

type Log struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"`
}

// Default returns the configuration used when root has no caret.yaml.
func Default(root string) *Config {
	return &Config{
		Classpath:        []string{"lib/**/*.jar", "build/classes"},
		Sourcepath:       []string{"src/main/java"},
		StaleMode:        classpath.StaleBlock,
		ArchiveCacheSize: classpath.DefaultArchiveCacheSize,
		Watch:            true,
		Root:             root,
	}
}

// Load reads the config file at path. Keys missing from the file keep
// their default values. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default(filepath.Dir(path))
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debugf("no %s, using defaults", path)
		return c, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if err := Parse(data, c); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return c, nil
}

// Parse decodes data over c and validates the result.
func Parse(data []byte, c *Config) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	mode, err := classpath.ParseStaleMode(string(c.StaleMode))
	if err != nil {
		return err
	}
	c.StaleMode = mode
	if c.ArchiveCacheSize < 0 {
		return errors.Errorf("archive_cache_size must not be negative, got %d", c.ArchiveCacheSize)
	}
	if c.Log.Verbosity < 0 {
		return errors.Errorf("log.verbosity must not be negative, got %d", c.Log.Verbosity)
	}
	return nil
}

// Find looks for caret.yaml in dir and its parents and loads the first
// one found. When there is none the defaults for dir are returned.
func Find(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", dir)
	}
	for d := abs; ; {
		path := filepath.Join(d, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return Default(abs), nil
}

// ClassPath returns the expanded class path entries.
func (c *Config) ClassPath() []string {
	return Expand(c.Root, c.Classpath)
}

// SourcePath returns the expanded source roots.
func (c *Config) SourcePath() []string {
	return Expand(c.Root, c.Sourcepath)
}

// Expand resolves patterns against root. Globs are matched with
// doublestar and their matches sorted; plain entries are kept when they
// exist. The result holds every path once, in pattern order.
func Expand(root string, patterns []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		if !isGlob(pattern) {
			if _, err := os.Stat(pattern); err != nil {
				log.Debugf("skipping %s: %s", pattern, err)
				continue
			}
			add(pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			log.Warningf("bad pattern %s: %s", pattern, err)
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
