package java

import (
	"strconv"
	"strings"
)

type HandleKind int

const (
	HandleType HandleKind = iota
	HandleField
	HandleMethod
	HandleConstructor
	HandleInitializer
	HandleLocal
	HandleParameter
	HandlePackage
	HandleCompilationUnit
)

var handleKindNames = map[HandleKind]string{
	HandleType:            "type",
	HandleField:           "field",
	HandleMethod:          "method",
	HandleConstructor:     "constructor",
	HandleInitializer:     "initializer",
	HandleLocal:           "local",
	HandleParameter:       "parameter",
	HandlePackage:         "package",
	HandleCompilationUnit: "compilation-unit",
}

func (k HandleKind) String() string {
	if name, ok := handleKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Handle is a reference to a declared entity. Key is a hierarchy
// qualified string such as "Lp/X;.foo(I)V"; siblings that share a key
// inside one container are told apart by Occurrence, starting at 1.
//
// Type is the declared type of fields, locals and parameters, the return
// type of methods and the signature of the type itself for types.
type Handle struct {
	Name       string
	Key        string
	Kind       HandleKind
	Container  string
	Origin     Origin
	Occurrence int
	Type       Signature
	Parameters []Signature
	IsStatic   bool
	IsVarargs  bool
}

// HandleID is the comparable identity of a handle.
type HandleID struct {
	Key        string
	Occurrence int
}

func (h Handle) ID() HandleID {
	return HandleID{Key: h.Key, Occurrence: h.Occurrence}
}

func (h Handle) String() string {
	if h.Occurrence > 1 {
		return h.Key + "~" + strconv.Itoa(h.Occurrence)
	}
	return h.Key
}

func TypeKey(binaryName string) string {
	return ClassSignature(binaryName).Descriptor()
}

func FieldKey(owner, name string, typ Signature) string {
	return owner + "." + name + ")" + typ.Descriptor()
}

func MethodKey(owner, name string, params []Signature, ret Signature) string {
	return owner + "." + name + methodDescriptor(params, ret)
}

func ConstructorKey(owner string, params []Signature) string {
	return owner + "." + methodDescriptor(params, SigVoid)
}

func InitializerKey(owner string, n int) string {
	return owner + "|" + strconv.Itoa(n)
}

// LocalKey names a local variable or parameter inside the method,
// constructor or initializer whose key is container.
func LocalKey(container, name string) string {
	return container + "#" + name
}

func PackageKey(pkg string) string {
	return pkg
}

// CompilationUnitKey is the package path followed by the file name.
func CompilationUnitKey(pkg, file string) string {
	path := strings.ReplaceAll(pkg, ".", "/")
	switch {
	case path == "":
		return file
	case file == "":
		return path
	}
	return path + "/" + file
}

func methodDescriptor(params []Signature, ret Signature) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range params {
		sb.WriteString(p.Descriptor())
	}
	sb.WriteByte(')')
	if ret == "" {
		ret = SigVoid
	}
	sb.WriteString(ret.Descriptor())
	return sb.String()
}

func (c *ClassModel) TypeHandle() Handle {
	return Handle{
		Name:       c.SimpleName,
		Key:        c.Key(),
		Kind:       HandleType,
		Container:  c.containerKey(),
		Origin:     c.Origin,
		Occurrence: 1,
		Type:       c.Signature(),
		IsStatic:   c.IsStatic,
	}
}

func (c *ClassModel) containerKey() string {
	if c.Outer != "" {
		return TypeKey(c.Outer)
	}
	return PackageKey(c.Package)
}

func (c *ClassModel) FieldHandle(f FieldModel) Handle {
	return Handle{
		Name:       f.Name,
		Key:        FieldKey(c.Key(), f.Name, f.Type),
		Kind:       HandleField,
		Container:  c.Key(),
		Origin:     c.Origin,
		Occurrence: 1,
		Type:       f.Type,
		IsStatic:   f.IsStatic,
	}
}

func (c *ClassModel) MethodHandle(m MethodModel) Handle {
	params := m.ParameterTypes()
	h := Handle{
		Name:       m.Name,
		Kind:       HandleMethod,
		Container:  c.Key(),
		Origin:     c.Origin,
		Occurrence: 1,
		Type:       m.ReturnType,
		Parameters: params,
		IsStatic:   m.IsStatic,
		IsVarargs:  m.IsVarargs,
	}
	if m.IsConstructor() {
		h.Name = c.SimpleName
		h.Kind = HandleConstructor
		h.Key = ConstructorKey(c.Key(), params)
		h.Type = c.Signature()
	} else {
		h.Key = MethodKey(c.Key(), m.Name, params, m.ReturnType)
	}
	return h
}

// MethodHandleAt returns the handle of c.Methods[i], numbering methods
// that share its key in the order they were declared.
func (c *ClassModel) MethodHandleAt(i int) Handle {
	h := c.MethodHandle(c.Methods[i])
	for j := 0; j < i; j++ {
		if c.MethodHandle(c.Methods[j]).Key == h.Key {
			h.Occurrence++
		}
	}
	return h
}

func (c *ClassModel) InitializerHandle(n int) Handle {
	h := Handle{
		Key:        InitializerKey(c.Key(), n),
		Kind:       HandleInitializer,
		Container:  c.Key(),
		Origin:     c.Origin,
		Occurrence: 1,
	}
	if n > 0 && n <= len(c.Initializers) {
		h.IsStatic = c.Initializers[n-1].IsStatic
	}
	return h
}

// MemberTypeHandle builds the handle of a member type declared in c
// without requiring its own model.
func MemberTypeHandle(c *ClassModel, t MemberTypeModel) Handle {
	return Handle{
		Name:       t.SimpleName,
		Key:        TypeKey(t.Name),
		Kind:       HandleType,
		Container:  c.Key(),
		Origin:     c.Origin,
		Occurrence: 1,
		Type:       ClassSignature(t.Name),
		IsStatic:   t.IsStatic,
	}
}

func PackageHandle(pkg string) Handle {
	return Handle{
		Name:       pkg,
		Key:        PackageKey(pkg),
		Kind:       HandlePackage,
		Occurrence: 1,
	}
}
