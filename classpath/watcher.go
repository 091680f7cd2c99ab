package classpath

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

const DefaultDebounce = 250 * time.Millisecond

// Watcher rebuilds a store whenever a file below the class path or
// source path changes. Bursts of events within the debounce interval
// cause a single rebuild.
type Watcher struct {
	store      *Store
	loader     *Loader
	classpath  []string
	sourcepath []string
	debounce   time.Duration

	fs      *fsnotify.Watcher
	watched map[string]bool
}

func NewWatcher(store *Store, loader *Loader, classpath, sourcepath []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	w := &Watcher{
		store:      store,
		loader:     loader,
		classpath:  classpath,
		sourcepath: sourcepath,
		debounce:   DefaultDebounce,
		fs:         fsw,
		watched:    make(map[string]bool),
	}
	for _, entry := range append(append([]string(nil), classpath...), sourcepath...) {
		info, err := os.Stat(entry)
		switch {
		case err != nil:
			log.Warningf("not watching %s: %s", entry, err)
		case info.IsDir():
			w.addTree(entry)
		default:
			w.add(filepath.Dir(entry))
		}
	}
	return w, nil
}

func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Reindex rebuilds the store from the watched entries.
func (w *Watcher) Reindex(ctx context.Context) error {
	return w.store.Reindex(func(b *Builder) error {
		return w.loader.Load(ctx, b, w.classpath, w.sourcepath)
	})
}

// Run handles file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			log.Debugf("%s %s", event.Op, event.Name)
			fire = time.After(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch: %s", err)
		case <-fire:
			fire = nil
			if err := w.Reindex(ctx); err != nil {
				log.Errorf("%s", err)
			}
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}

// relevant reports whether event can change the index. New directories
// are watched as they appear.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addTree(event.Name)
			return true
		}
	}
	if event.Has(fsnotify.Remove) && w.watched[event.Name] {
		delete(w.watched, event.Name)
		return true
	}
	if event.Op == fsnotify.Chmod {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".class", ".java", ".jar", ".zip":
		return true
	}
	return false
}

func (w *Watcher) addTree(root string) {
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			w.add(path)
		}
		return nil
	})
}

func (w *Watcher) add(dir string) {
	if w.watched[dir] {
		return
	}
	if err := w.fs.Add(dir); err != nil {
		log.Warningf("not watching %s: %s", dir, err)
		return
	}
	w.watched[dir] = true
}
