package java

import (
	"strings"
	"unicode"

	"github.com/dhamidi/caret/java/parser"
)

// Import is one import declaration of a compilation unit. Name excludes
// the trailing ".*" of on-demand imports.
type Import struct {
	Name     string
	Static   bool
	OnDemand bool
}

// PackageOf returns the declared package of a compilation unit.
func PackageOf(unit *parser.Node) string {
	if unit == nil {
		return ""
	}
	if decl := unit.FirstChildOfKind(parser.KindPackageDecl); decl != nil {
		if qn := decl.FirstChildOfKind(parser.KindQualifiedName); qn != nil {
			return qn.QualifiedName()
		}
	}
	return ""
}

// ImportsOf returns the import declarations of a compilation unit in
// source order.
func ImportsOf(unit *parser.Node) []Import {
	if unit == nil {
		return nil
	}
	var imports []Import
	for _, decl := range unit.ChildrenOfKind(parser.KindImportDecl) {
		imp := Import{}
		for _, child := range decl.Children {
			switch child.Kind {
			case parser.KindIdentifier:
				if child.TokenLiteral() == "static" {
					imp.Static = true
				}
			case parser.KindQualifiedName:
				imp.Name = child.QualifiedName()
			}
		}
		if strings.HasSuffix(imp.Name, ".*") {
			imp.Name = strings.TrimSuffix(imp.Name, ".*")
			imp.OnDemand = true
		}
		if imp.Name != "" {
			imports = append(imports, imp)
		}
	}
	return imports
}

// TypeResolver turns type names as written in a compilation unit into
// signatures.
type TypeResolver struct {
	index   ClassIndex
	pkg     string
	imports []Import
	unit    map[string]string
}

// NewTypeResolver creates a resolver for a compilation unit in package
// pkg. unitTypes are the top-level types declared in the same file.
func NewTypeResolver(index ClassIndex, pkg string, imports []Import, unitTypes ...*ClassModel) *TypeResolver {
	r := &TypeResolver{
		index:   index,
		pkg:     pkg,
		imports: imports,
		unit:    make(map[string]string, len(unitTypes)),
	}
	for _, c := range unitTypes {
		r.unit[c.SimpleName] = c.Name
	}
	return r
}

var javaLangTypes = map[string]bool{
	"Object": true, "String": true, "Class": true, "System": true,
	"Throwable": true, "Exception": true, "RuntimeException": true, "Error": true,
	"Integer": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Character": true, "Boolean": true,
	"Number": true, "Comparable": true, "CharSequence": true,
	"Iterable": true, "Cloneable": true, "Runnable": true,
	"Thread": true, "StringBuilder": true, "StringBuffer": true,
	"Math": true, "Enum": true, "Record": true, "Void": true,
	"Override": true, "Deprecated": true, "SuppressWarnings": true, "FunctionalInterface": true,
	"IllegalArgumentException": true, "IllegalStateException": true,
	"NullPointerException": true, "UnsupportedOperationException": true,
	"AutoCloseable": true, "InterruptedException": true,
}

func (r *TypeResolver) find(name string) *ClassModel {
	if r.index == nil {
		return nil
	}
	return r.index.FindClass(name)
}

// Resolve resolves a simple or qualified type name seen inside scope, the
// innermost enclosing type, where typeVars are the type parameters of the
// enclosing method. The lookup order is type variables, member types of
// the enclosing types and their supertypes, types of the same file,
// single-type imports, the same package, on-demand imports and finally
// java.lang. Names that cannot be found come back unresolved.
func (r *TypeResolver) Resolve(name string, scope *ClassModel, typeVars []string) Signature {
	if name == "" {
		return ""
	}
	if sig, ok := PrimitiveSignature(name); ok {
		return sig
	}
	if strings.Contains(name, ".") {
		return r.resolveQualified(name, scope, typeVars)
	}
	if sig := r.resolveSimple(name, scope, typeVars); sig != "" {
		return sig
	}
	return UnresolvedSignature(name)
}

func (r *TypeResolver) resolveSimple(name string, scope *ClassModel, typeVars []string) Signature {
	for _, tv := range typeVars {
		if tv == name {
			return TypeVarSignature(name)
		}
	}

	for c := scope; c != nil; c = r.find(c.Outer) {
		for _, tv := range c.TypeParameters {
			if tv == name {
				return TypeVarSignature(name)
			}
		}
		if c.SimpleName == name && !c.IsAnonymous {
			return c.Signature()
		}
		for _, class := range NewHierarchy(r.index, c).All() {
			if t := class.MemberType(name); t != nil {
				return ClassSignature(t.Name)
			}
		}
	}

	if binary, ok := r.unit[name]; ok {
		return ClassSignature(binary)
	}

	for _, imp := range r.imports {
		if imp.OnDemand || imp.Static {
			continue
		}
		if imp.Name == name || strings.HasSuffix(imp.Name, "."+name) {
			return r.resolveCanonical(imp.Name)
		}
	}

	samePackage := name
	if r.pkg != "" {
		samePackage = r.pkg + "." + name
	}
	if r.find(samePackage) != nil {
		return ClassSignature(samePackage)
	}

	for _, imp := range r.imports {
		if !imp.OnDemand || imp.Static {
			continue
		}
		if c := r.find(imp.Name + "." + name); c != nil {
			return c.Signature()
		}
		// on-demand import of the member types of a type
		if owner := r.resolveCanonical(imp.Name); r.find(owner.ClassName()) != nil {
			if c := r.find(owner.ClassName() + "$" + name); c != nil {
				return c.Signature()
			}
		}
	}

	if r.find("java.lang."+name) != nil || javaLangTypes[name] {
		return ClassSignature("java.lang." + name)
	}
	return ""
}

// resolveQualified resolves a dotted name, which may be a fully
// qualified name, a member type of a simple name (Map.Entry) or a package
// followed by a chain of member types.
func (r *TypeResolver) resolveQualified(name string, scope *ClassModel, typeVars []string) Signature {
	if r.find(name) != nil {
		return ClassSignature(name)
	}
	segments := strings.Split(name, ".")

	if head := r.resolveSimple(segments[0], scope, typeVars); head.IsClass() {
		binary := head.ClassName()
		for _, seg := range segments[1:] {
			binary += "$" + seg
		}
		return ClassSignature(binary)
	}

	if startsLower(segments[0]) {
		return r.resolveCanonical(name)
	}
	return UnresolvedSignature(name)
}

// resolveCanonical resolves a name that starts with a package, such as
// the name of an import, splitting it into package and member types.
func (r *TypeResolver) resolveCanonical(name string) Signature {
	if r.find(name) != nil {
		return ClassSignature(name)
	}
	segments := strings.Split(name, ".")
	for i := len(segments) - 1; i > 0; i-- {
		candidate := strings.Join(segments[:i], ".") + "." + strings.Join(segments[i:], "$")
		if r.find(candidate) != nil {
			return ClassSignature(candidate)
		}
	}
	return ClassSignature(name)
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}

// ResolveType resolves a Type node. Type arguments are erased. It returns
// an empty signature for var and for nodes without a name.
func (r *TypeResolver) ResolveType(node *parser.Node, scope *ClassModel, typeVars []string) Signature {
	if node == nil || node.Kind != parser.KindType {
		return ""
	}
	name := node.QualifiedName()
	if name == "" || name == "var" {
		return ""
	}
	return r.Resolve(name, scope, typeVars).ArrayOf(dimsOf(node))
}

// dimsOf counts the array dimensions written directly on a node.
func dimsOf(node *parser.Node) int {
	if node == nil {
		return 0
	}
	if dims := node.FirstChildOfKind(parser.KindDims); dims != nil {
		return len(dims.Children)
	}
	return 0
}
