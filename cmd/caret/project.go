package main

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/dhamidi/caret/classpath"
	"github.com/dhamidi/caret/config"
)

// loadConfig reads the config named by --config, or the caret.yaml found
// from dir, and applies the path flags on top.
func loadConfig(flags *globalFlags, dir string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flags.configPath != "" {
		cfg, err = config.Load(flags.configPath)
	} else {
		cfg, err = config.Find(dir)
	}
	if err != nil {
		return nil, err
	}

	if len(flags.classpath) > 0 {
		cfg.Classpath = absolute(flags.classpath)
	}
	if len(flags.sourcepath) > 0 {
		cfg.Sourcepath = absolute(flags.sourcepath)
	}
	return cfg, nil
}

// absolute makes flag values independent of the config root.
func absolute(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out[i] = p
	}
	return out
}

// loadStore builds a class index from cfg once.
func loadStore(ctx context.Context, cfg *config.Config) (*classpath.Store, error) {
	store := classpath.NewStore(cfg.StaleMode)
	loader := classpath.NewLoader(cfg.ArchiveCacheSize)
	err := store.Reindex(func(b *classpath.Builder) error {
		return loader.Load(ctx, b, cfg.ClassPath(), cfg.SourcePath())
	})
	if err != nil {
		return nil, errors.Wrap(err, "load class path")
	}
	return store, nil
}
