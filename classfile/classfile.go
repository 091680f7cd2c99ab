// Package classfile decodes the declaration part of JVM class files:
// names, flags, members and the attributes that describe nesting.
// Method bodies, annotations and generic signatures are skipped.
package classfile

// Magic starts every class file.
const Magic = 0xCAFEBABE

type AccessFlags uint16

const (
	AccPublic     AccessFlags = 0x0001
	AccPrivate    AccessFlags = 0x0002
	AccProtected  AccessFlags = 0x0004
	AccStatic     AccessFlags = 0x0008
	AccFinal      AccessFlags = 0x0010
	AccSuper      AccessFlags = 0x0020
	AccBridge     AccessFlags = 0x0040
	AccVarargs    AccessFlags = 0x0080
	AccInterface  AccessFlags = 0x0200
	AccAbstract   AccessFlags = 0x0400
	AccSynthetic  AccessFlags = 0x1000
	AccAnnotation AccessFlags = 0x2000
	AccEnum       AccessFlags = 0x4000
	AccModule     AccessFlags = 0x8000
)

// Has reports whether all bits of mask are set.
func (f AccessFlags) Has(mask AccessFlags) bool {
	return f&mask == mask
}

// ClassFile holds the declarations of one class file with every constant
// pool reference already resolved. Class names are in internal form
// (java/util/Map$Entry).
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	Flags        AccessFlags
	Name         string
	// Super is empty for java/lang/Object and module-info.
	Super        string
	Interfaces   []string
	Fields       []Member
	Methods      []Member
	InnerClasses []InnerClass

	// EnclosingClass is set for local and anonymous classes.
	EnclosingClass string
	Record         bool
}

// Member is a field or a method.
type Member struct {
	Flags      AccessFlags
	Name       string
	Descriptor string

	// ParameterNames is only present for classes compiled with -parameters.
	// Unnamed parameters are "".
	ParameterNames []string
	// Constant is the ConstantValue of a field: int32, int64, float32,
	// float64 or string.
	Constant       any
}

// InnerClass is one InnerClasses entry. Outer is empty for local and
// anonymous classes, SimpleName for anonymous ones.
type InnerClass struct {
	Inner      string
	Outer      string
	SimpleName string
	Flags      AccessFlags
}

func (cf *ClassFile) IsInterface() bool {
	return cf.Flags.Has(AccInterface) && !cf.Flags.Has(AccAnnotation)
}

func (cf *ClassFile) IsAnnotation() bool {
	return cf.Flags.Has(AccAnnotation)
}

func (cf *ClassFile) IsEnum() bool {
	return cf.Flags.Has(AccEnum)
}

func (cf *ClassFile) IsModule() bool {
	return cf.Flags.Has(AccModule)
}
