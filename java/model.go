package java

import (
	"sort"
	"strings"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
)

// ClassModel describes a type as far as completion needs it. Name is the
// binary name with dots between packages and '$' before nested types.
// Members carry a Pos that orders them as they were declared; for source
// types it is the byte offset of the declaration.
type ClassModel struct {
	Name           string
	SimpleName     string
	Package        string
	Outer          string
	Kind           ClassKind
	Visibility     Visibility
	IsStatic       bool
	IsAbstract     bool
	IsFinal        bool
	IsLocal        bool
	IsAnonymous    bool
	SuperClass     Signature
	Interfaces     []Signature
	TypeParameters []string
	Fields         []FieldModel
	Methods        []MethodModel
	MemberTypes    []MemberTypeModel
	Initializers   []InitializerModel
	Origin         Origin
}

type FieldModel struct {
	Name           string
	Type           Signature
	Visibility     Visibility
	IsStatic       bool
	IsFinal        bool
	IsEnumConstant bool
	Pos            int
}

// MethodModel describes a method or, when Name is "<init>", a
// constructor.
type MethodModel struct {
	Name           string
	ReturnType     Signature
	Parameters     []ParameterModel
	TypeParameters []string
	Visibility     Visibility
	IsStatic       bool
	IsAbstract     bool
	IsVarargs      bool
	Pos            int
}

type ParameterModel struct {
	Name string
	Type Signature
}

type MemberTypeModel struct {
	SimpleName string
	Name       string
	Visibility Visibility
	IsStatic   bool
	Pos        int
}

type InitializerModel struct {
	IsStatic bool
	Pos      int
}

const ConstructorName = "<init>"

func (c *ClassModel) Signature() Signature {
	return ClassSignature(c.Name)
}

func (c *ClassModel) Key() string {
	return TypeKey(c.Name)
}

func (c *ClassModel) IsInterface() bool {
	return c.Kind == ClassKindInterface || c.Kind == ClassKindAnnotation
}

// Supertypes lists the direct supertypes, superclass first.
func (c *ClassModel) Supertypes() []Signature {
	var supers []Signature
	if c.SuperClass != "" {
		supers = append(supers, c.SuperClass)
	}
	return append(supers, c.Interfaces...)
}

func (c *ClassModel) Constructors() []MethodModel {
	var ctors []MethodModel
	for _, m := range c.Methods {
		if m.IsConstructor() {
			ctors = append(ctors, m)
		}
	}
	return ctors
}

// MethodsNamed returns the methods with the given name, constructors
// excluded unless name is ConstructorName.
func (c *ClassModel) MethodsNamed(name string) []MethodModel {
	var methods []MethodModel
	for _, m := range c.Methods {
		if m.Name == name {
			methods = append(methods, m)
		}
	}
	return methods
}

func (c *ClassModel) Field(name string) *FieldModel {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

func (c *ClassModel) MemberType(simpleName string) *MemberTypeModel {
	for i := range c.MemberTypes {
		if c.MemberTypes[i].SimpleName == simpleName {
			return &c.MemberTypes[i]
		}
	}
	return nil
}

// Members returns handles for the fields, methods and member types of c in
// declaration order. Constructors and initializers are left out.
func (c *ClassModel) Members() []Handle {
	members := c.members()
	handles := make([]Handle, len(members))
	for i, m := range members {
		handles[i] = m.handle
	}
	return handles
}

// InheritedMembers is Members without the private members, which
// subtypes do not inherit.
func (c *ClassModel) InheritedMembers() []Handle {
	var handles []Handle
	for _, m := range c.members() {
		if m.visibility != VisibilityPrivate {
			handles = append(handles, m.handle)
		}
	}
	return handles
}

type member struct {
	pos        int
	visibility Visibility
	handle     Handle
}

func (c *ClassModel) members() []member {
	var members []member
	for _, f := range c.Fields {
		members = append(members, member{f.Pos, f.Visibility, c.FieldHandle(f)})
	}
	for _, m := range c.Methods {
		if m.IsConstructor() {
			continue
		}
		members = append(members, member{m.Pos, m.Visibility, c.MethodHandle(m)})
	}
	for _, t := range c.MemberTypes {
		members = append(members, member{t.Pos, t.Visibility, MemberTypeHandle(c, t)})
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].pos < members[j].pos
	})

	seen := make(map[string]int, len(members))
	for i := range members {
		key := members[i].handle.Key
		seen[key]++
		members[i].handle.Occurrence = seen[key]
	}
	return members
}

// declares reports whether c already has a method of the same shape.
func (c *ClassModel) declares(method MethodModel) bool {
	for _, m := range c.Methods {
		if m.SameShape(method) {
			return true
		}
	}
	return false
}

func (m MethodModel) IsConstructor() bool {
	return m.Name == ConstructorName
}

// ParameterTypes returns the declared parameter signatures in order.
func (m MethodModel) ParameterTypes() []Signature {
	types := make([]Signature, len(m.Parameters))
	for i, p := range m.Parameters {
		types[i] = p.Type
	}
	return types
}

// Admits reports whether a call with an argument at the zero based slot
// index can target m.
func (m MethodModel) Admits(slot int) bool {
	if slot < len(m.Parameters) {
		return true
	}
	return m.IsVarargs && len(m.Parameters) > 0
}

// ParameterAt returns the type an argument in the given slot must have.
// Slots from the varargs parameter on take its element type.
func (m MethodModel) ParameterAt(slot int) Signature {
	n := len(m.Parameters)
	if n == 0 {
		return ""
	}
	if m.IsVarargs && slot >= n-1 {
		return m.Parameters[n-1].Type.Elem()
	}
	if slot < n {
		return m.Parameters[slot].Type
	}
	return ""
}

// SameShape reports whether m and other have the same name and parameter
// types, which makes one override or hide the other.
func (m MethodModel) SameShape(other MethodModel) bool {
	if m.Name != other.Name || len(m.Parameters) != len(other.Parameters) {
		return false
	}
	for i := range m.Parameters {
		if m.Parameters[i].Type != other.Parameters[i].Type {
			return false
		}
	}
	return true
}

// splitClassName splits a binary name into package and simple name.
func splitClassName(fullName string) (pkg, simpleName string) {
	lastDot := strings.LastIndex(fullName, ".")
	if lastDot == -1 {
		pkg, simpleName = "", fullName
	} else {
		pkg, simpleName = fullName[:lastDot], fullName[lastDot+1:]
	}
	if i := strings.LastIndex(simpleName, "$"); i >= 0 {
		simpleName = simpleName[i+1:]
	}
	return pkg, simpleName
}

// outerName returns the binary name of the type enclosing a nested type.
func outerName(binaryName string) string {
	_, local := splitPackage(binaryName)
	if i := strings.LastIndex(local, "$"); i > 0 {
		return binaryName[:len(binaryName)-len(local)+i]
	}
	return ""
}

func splitPackage(binaryName string) (pkg, rest string) {
	if i := strings.LastIndex(binaryName, "."); i >= 0 {
		return binaryName[:i], binaryName[i+1:]
	}
	return "", binaryName
}
