package classpath

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/tidwall/tinylru"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/caret/java"
	"github.com/dhamidi/caret/java/parser"
)

const DefaultArchiveCacheSize = 64

// Loader reads class path entries into models. Decoded archives are kept
// in an LRU keyed by path, modification time and size, so unchanged jars
// are not decoded again on reindex.
type Loader struct {
	parallel int
	archives tinylru.LRU
}

func NewLoader(archiveCacheSize int) *Loader {
	if archiveCacheSize <= 0 {
		archiveCacheSize = DefaultArchiveCacheSize
	}
	l := &Loader{parallel: runtime.GOMAXPROCS(0)}
	l.archives.Resize(archiveCacheSize)
	return l
}

type archiveKey struct {
	path  string
	mtime int64
	size  int64
}

type loadResult struct {
	classes []*java.ClassModel
	sources []*java.SourceFile
}

func (r *loadResult) merge(other loadResult) {
	r.classes = append(r.classes, other.classes...)
	r.sources = append(r.sources, other.sources...)
}

// Load reads the class path and source path entries into b. Entries are
// read in parallel. An entry that cannot be read is logged and skipped;
// only cancellation of ctx fails the load.
//
// Source types shadow binary types of the same name. Otherwise the first
// entry that declares a class wins. Sources are resolved against the
// complete set of loaded types, so supertypes may live in any entry.
func (l *Loader) Load(ctx context.Context, b *Builder, classpath, sourcepath []string) error {
	entries := append(append([]string(nil), sourcepath...), classpath...)
	results := make([]loadResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallel)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := l.loadEntry(gctx, entry)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				log.Warningf("skipping %s: %s", entry, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "load class path")
	}

	var all loadResult
	for _, res := range results {
		all.merge(res)
	}

	var declared []*java.ClassModel
	for _, f := range all.sources {
		declared = append(declared, f.Types...)
		declared = append(declared, f.Local...)
	}
	models := firstByName(declared, all.classes)
	index := java.NewIndex(models...)
	for _, f := range all.sources {
		f.Resolve(index)
	}

	log.Infof("loaded %d classes from %d entries (%d source files)", len(models), len(entries), len(all.sources))
	b.Add(models...)
	return nil
}

// firstByName keeps the first model of every name across the lists.
func firstByName(lists ...[]*java.ClassModel) []*java.ClassModel {
	seen := make(map[string]bool)
	var out []*java.ClassModel
	for _, list := range lists {
		for _, m := range list {
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			out = append(out, m)
		}
	}
	return out
}

func (l *Loader) loadEntry(ctx context.Context, path string) (loadResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return loadResult{}, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return l.loadDirectory(ctx, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jar", ".zip":
		classes, err := l.loadArchive(path, info)
		return loadResult{classes: classes}, err
	case ".class":
		class, err := java.ClassModelFromFile(path)
		if err != nil {
			return loadResult{}, err
		}
		return loadResult{classes: []*java.ClassModel{class}}, nil
	case ".java":
		f, err := loadSource(path)
		if err != nil {
			return loadResult{}, err
		}
		return loadResult{sources: []*java.SourceFile{f}}, nil
	}
	return loadResult{}, errors.Errorf("unsupported class path entry %s", path)
}

// loadDirectory reads every .class and .java file below root. Files that
// fail to load are logged and skipped.
func (l *Loader) loadDirectory(ctx context.Context, root string) (loadResult, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/*.{class,java}", doublestar.WithFilesOnly())
	if err != nil {
		return loadResult{}, errors.Wrapf(err, "walk %s", root)
	}

	var res loadResult
	for _, name := range matches {
		if err := ctx.Err(); err != nil {
			return loadResult{}, err
		}
		path := filepath.Join(root, filepath.FromSlash(name))
		switch filepath.Ext(name) {
		case ".class":
			class, err := java.ClassModelFromFile(path)
			if err != nil {
				log.Warningf("skipping %s: %s", path, err)
				continue
			}
			res.classes = append(res.classes, class)
		case ".java":
			if isInfoFile(name) {
				continue
			}
			f, err := loadSource(path)
			if err != nil {
				log.Warningf("skipping %s: %s", path, err)
				continue
			}
			res.sources = append(res.sources, f)
		}
	}
	return res, nil
}

func isInfoFile(name string) bool {
	base := filepath.Base(name)
	return base == "module-info.java" || base == "package-info.java" || base == "module-info.class" || base == "package-info.class"
}

// loadSource parses a source file and declares its types. Resolution
// happens once every entry is loaded.
func loadSource(path string) (*java.SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	p := parser.ParseCompilationUnit(bytes.NewReader(data), parser.WithFile(path))
	return java.DeclareSource(p.Finish(), java.SourceOrigin(path)), nil
}

func (l *Loader) loadArchive(path string, info os.FileInfo) ([]*java.ClassModel, error) {
	key := archiveKey{path: path, mtime: info.ModTime().UnixNano(), size: info.Size()}
	if cached, ok := l.archives.Get(key); ok {
		return cached.([]*java.ClassModel), nil
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open archive %s", path)
	}
	defer r.Close()

	classes := readArchive(&r.Reader, path, "")
	l.archives.Set(key, classes)
	return classes, nil
}

// readArchive decodes the class files of an archive. Jars nested inside
// the archive are read as well; prefix is the name of the enclosing jar
// entry, if any. Entries that fail to decode are logged and skipped.
func readArchive(r *zip.Reader, path, prefix string) []*java.ClassModel {
	var classes []*java.ClassModel
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entry := f.Name
		if prefix != "" {
			entry = prefix + "!/" + f.Name
		}

		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".class":
			if isInfoFile(f.Name) {
				continue
			}
			class, err := readArchiveClass(f, java.ArchiveOrigin(path, entry))
			if err != nil {
				log.Warningf("skipping %s!/%s: %s", path, entry, err)
				continue
			}
			classes = append(classes, class)
		case ".jar":
			data, err := readZipFile(f)
			if err != nil {
				log.Warningf("skipping %s!/%s: %s", path, entry, err)
				continue
			}
			nested, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				log.Warningf("skipping %s!/%s: %s", path, entry, err)
				continue
			}
			classes = append(classes, readArchive(nested, path, entry)...)
		}
	}
	return classes
}

func readArchiveClass(f *zip.File, origin java.Origin) (*java.ClassModel, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open entry")
	}
	defer rc.Close()
	return java.ClassModelFromReader(rc, origin)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open entry")
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
