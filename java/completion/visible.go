package completion

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/dhamidi/caret/java"
	"github.com/dhamidi/caret/java/parser"
)

// ErrUnsupported is returned in place of the visible symbols when they
// were requested without the extended context that computes them.
var ErrUnsupported = errors.New("visible symbols require extended context")

type EntryKind int

const (
	EntryLocal EntryKind = iota
	EntryField
	EntryMethod
	EntryType
	EntryPackage
)

var entryKindNames = map[EntryKind]string{
	EntryLocal:   "local",
	EntryField:   "field",
	EntryMethod:  "method",
	EntryType:    "type",
	EntryPackage: "package",
}

func (k EntryKind) String() string {
	return entryKindNames[k]
}

func (k EntryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entry is one visible symbol.
type Entry struct {
	Handle java.Handle
	Kind   EntryKind
}

func entryKind(h java.Handle) EntryKind {
	switch h.Kind {
	case java.HandleLocal, java.HandleParameter:
		return EntryLocal
	case java.HandleField:
		return EntryField
	case java.HandleMethod, java.HandleConstructor, java.HandleInitializer:
		return EntryMethod
	case java.HandlePackage:
		return EntryPackage
	}
	return EntryType
}

// VisibleSymbols lists what is in scope at pos, nearest first. The result
// is never nil. When filter is set only locals, fields and methods whose
// type is assignable to it are kept.
func VisibleSymbols(file *java.SourceFile, tokens []parser.Token, pos int, filter java.Signature) []Entry {
	return newEnv(file, tokens).visible(pos, filter)
}

// visibleSet collects entries, dropping names hidden by an earlier one.
type visibleSet struct {
	entries []Entry
	locals  map[string]bool
	fields  map[string]bool
	methods map[string]bool
	types   map[string]bool
}

func newVisibleSet() *visibleSet {
	return &visibleSet{
		entries: []Entry{},
		locals:  make(map[string]bool),
		fields:  make(map[string]bool),
		methods: make(map[string]bool),
		types:   make(map[string]bool),
	}
}

// methodShape identifies a method by name and parameter types, which is
// what overriding compares.
func methodShape(h java.Handle) string {
	var sb strings.Builder
	sb.WriteString(h.Name)
	sb.WriteByte('(')
	for i, p := range h.Parameters {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(string(p))
	}
	sb.WriteByte(')')
	return sb.String()
}

func (s *visibleSet) add(h java.Handle) {
	kind := entryKind(h)
	switch kind {
	case EntryLocal:
		if s.locals[h.Name] {
			return
		}
		// a variable hides every outer variable of the same name
		s.locals[h.Name] = true
		s.fields[h.Name] = true
	case EntryField:
		if s.fields[h.Name] {
			return
		}
		s.locals[h.Name] = true
		s.fields[h.Name] = true
	case EntryMethod:
		if h.Kind == java.HandleMethod {
			shape := methodShape(h)
			if s.methods[shape] {
				return
			}
			s.methods[shape] = true
		}
	case EntryType:
		if s.types[h.Name] {
			return
		}
		s.types[h.Name] = true
	}
	s.entries = append(s.entries, Entry{Handle: h, Kind: kind})
}

func (e *env) visible(pos int, filter java.Signature) []Entry {
	set := newVisibleSet()
	sawClass := false

	for _, sc := range e.scopes(e.path(pos), pos) {
		container := ""
		if owner, ok := e.ownerHandle(sc.frame); ok {
			container = owner.Key
		}
		for _, l := range sc.locals {
			set.add(e.localHandle(l, sc.frame, container))
		}
		if sc.member != nil {
			set.add(*sc.member)
		}
		if sc.class != nil {
			sawClass = true
			e.addClassChain(set, sc.class)
		}
	}

	if sawClass {
		e.addUnitTypes(set)
		object := e.index.FindClass(java.ObjectClassName)
		if object == nil {
			object = java.BuiltinObject()
		}
		for _, h := range object.InheritedMembers() {
			set.add(h)
		}
	}

	if filter == "" {
		return set.entries
	}
	kept := []Entry{}
	for _, entry := range set.entries {
		switch entry.Kind {
		case EntryLocal, EntryField, EntryMethod:
			if java.Assignable(e.index, entry.Handle.Type, filter) {
				kept = append(kept, entry)
			}
		}
	}
	return kept
}

func (e *env) localHandle(l local, f frame, container string) java.Handle {
	if l.class != nil {
		return l.class.TypeHandle()
	}
	kind := java.HandleLocal
	if l.param {
		kind = java.HandleParameter
	}
	return java.Handle{
		Name:       l.name,
		Key:        java.LocalKey(container, l.name),
		Kind:       kind,
		Container:  container,
		Origin:     e.file.Origin,
		Occurrence: e.occurrence(l, f),
		Type:       e.localType(l, f),
	}
}

// addClassChain adds the members of c followed by what it inherits, in
// breadth-first ancestor order. Object is left for the very end.
func (e *env) addClassChain(set *visibleSet, c *java.ClassModel) {
	for i, a := range java.NewHierarchy(e.index, c).All() {
		if a.Name == java.ObjectClassName {
			continue
		}
		members := a.InheritedMembers()
		if i == 0 {
			members = a.Members()
		}
		for _, h := range members {
			set.add(h)
		}
	}
}

// addUnitTypes adds the top level types of the file and the single type
// imports.
func (e *env) addUnitTypes(set *visibleSet) {
	for _, c := range e.file.Types {
		if c.Outer == "" {
			set.add(c.TypeHandle())
		}
	}
	for _, imp := range e.file.Imports {
		if imp.Static || imp.OnDemand {
			continue
		}
		if sig, ok := e.typeName(imp.Name, frame{}); ok {
			set.add(e.classOf(sig).TypeHandle())
		}
	}
}
