package java

import "sort"

// ClassIndex is a read-only view of the classes known to a query.
// Implementations must be safe for concurrent use.
type ClassIndex interface {
	FindClass(name string) *ClassModel
	PackageClasses(pkg string) []*ClassModel
	Packages() []string
}

// ClassLookup hands out consistent snapshots of a class index. View may
// block while the backing store is rebuilt or fail with a retryable
// error, but never returns a partially built index.
type ClassLookup interface {
	View() (ClassIndex, error)
}

// Index is an immutable ClassIndex over a fixed set of models.
type Index struct {
	classes  map[string]*ClassModel
	packages map[string][]*ClassModel
	names    []string
}

// NewIndex indexes models by binary name. A later model replaces an
// earlier one with the same name.
func NewIndex(models ...*ClassModel) *Index {
	idx := &Index{
		classes:  make(map[string]*ClassModel, len(models)),
		packages: make(map[string][]*ClassModel),
	}
	for _, m := range models {
		if m == nil || m.Name == "" {
			continue
		}
		idx.classes[m.Name] = m
	}
	for _, m := range idx.classes {
		idx.packages[m.Package] = append(idx.packages[m.Package], m)
	}
	for pkg, classes := range idx.packages {
		sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
		idx.names = append(idx.names, pkg)
	}
	sort.Strings(idx.names)
	return idx
}

func (idx *Index) FindClass(name string) *ClassModel {
	if idx == nil {
		return nil
	}
	return idx.classes[name]
}

func (idx *Index) PackageClasses(pkg string) []*ClassModel {
	if idx == nil {
		return nil
	}
	return idx.packages[pkg]
}

func (idx *Index) Packages() []string {
	if idx == nil {
		return nil
	}
	return idx.names
}

// Len returns the number of indexed classes.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.classes)
}

// Classes returns every indexed class ordered by name.
func (idx *Index) Classes() []*ClassModel {
	var all []*ClassModel
	for _, pkg := range idx.Packages() {
		all = append(all, idx.packages[pkg]...)
	}
	return all
}

type overlay struct {
	top  *Index
	base ClassIndex
}

// Overlay returns an index in which models shadow classes of the same
// name in base. base may be nil.
func Overlay(base ClassIndex, models ...*ClassModel) ClassIndex {
	return &overlay{top: NewIndex(models...), base: base}
}

func (o *overlay) FindClass(name string) *ClassModel {
	if c := o.top.FindClass(name); c != nil {
		return c
	}
	if o.base == nil {
		return nil
	}
	return o.base.FindClass(name)
}

func (o *overlay) PackageClasses(pkg string) []*ClassModel {
	top := o.top.PackageClasses(pkg)
	if o.base == nil {
		return top
	}
	result := append([]*ClassModel(nil), top...)
	for _, c := range o.base.PackageClasses(pkg) {
		if o.top.FindClass(c.Name) == nil {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (o *overlay) Packages() []string {
	if o.base == nil {
		return o.top.Packages()
	}
	seen := make(map[string]bool)
	var pkgs []string
	for _, list := range [][]string{o.top.Packages(), o.base.Packages()} {
		for _, pkg := range list {
			if !seen[pkg] {
				seen[pkg] = true
				pkgs = append(pkgs, pkg)
			}
		}
	}
	sort.Strings(pkgs)
	return pkgs
}
