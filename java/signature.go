package java

import (
	"strings"

	"github.com/dhamidi/caret/classfile"
)

// Signature is a JVM-flavoured structural type string. Primitives use
// their descriptor letter, resolved references are written with dots
// (Ljava.lang.String;), nested types keep their binary '$' separator,
// arrays are prefixed with '[', type variables are TT; and references
// that could not be resolved are QName; with the name as written.
type Signature string

const (
	SigBoolean Signature = "Z"
	SigByte    Signature = "B"
	SigChar    Signature = "C"
	SigShort   Signature = "S"
	SigInt     Signature = "I"
	SigLong    Signature = "J"
	SigFloat   Signature = "F"
	SigDouble  Signature = "D"
	SigVoid    Signature = "V"

	SigObject Signature = "Ljava.lang.Object;"
	SigString Signature = "Ljava.lang.String;"
)

var primitiveSignatures = map[string]Signature{
	"boolean": SigBoolean,
	"byte":    SigByte,
	"char":    SigChar,
	"short":   SigShort,
	"int":     SigInt,
	"long":    SigLong,
	"float":   SigFloat,
	"double":  SigDouble,
	"void":    SigVoid,
}

// PrimitiveSignature maps a primitive keyword, including void, to its
// signature.
func PrimitiveSignature(keyword string) (Signature, bool) {
	sig, ok := primitiveSignatures[keyword]
	return sig, ok
}

// ClassSignature returns the signature of a class given its binary name,
// for example "java.util.Map$Entry".
func ClassSignature(binaryName string) Signature {
	return Signature("L" + binaryName + ";")
}

// UnresolvedSignature records a type name that could not be resolved.
func UnresolvedSignature(name string) Signature {
	return Signature("Q" + name + ";")
}

func TypeVarSignature(name string) Signature {
	return Signature("T" + name + ";")
}

// SignatureFromDescriptor converts a class file field descriptor such as
// "[Ljava/lang/String;" into a signature.
func SignatureFromDescriptor(desc string) Signature {
	return Signature(classfile.InternalToSourceName(desc))
}

func (s Signature) ArrayOf(depth int) Signature {
	if depth <= 0 || s == "" {
		return s
	}
	return Signature(strings.Repeat("[", depth)) + s
}

func (s Signature) IsPrimitive() bool {
	return len(s) == 1 && s != SigVoid
}

func (s Signature) IsVoid() bool {
	return s == SigVoid
}

func (s Signature) IsArray() bool {
	return strings.HasPrefix(string(s), "[")
}

// Elem strips one array dimension.
func (s Signature) Elem() Signature {
	if !s.IsArray() {
		return s
	}
	return s[1:]
}

func (s Signature) IsClass() bool {
	return strings.HasPrefix(string(s), "L") && strings.HasSuffix(string(s), ";")
}

func (s Signature) IsUnresolved() bool {
	return strings.HasPrefix(string(s), "Q") && strings.HasSuffix(string(s), ";")
}

func (s Signature) IsTypeVar() bool {
	return strings.HasPrefix(string(s), "T") && strings.HasSuffix(string(s), ";")
}

func (s Signature) IsReference() bool {
	return s.IsArray() || s.IsClass() || s.IsUnresolved() || s.IsTypeVar()
}

// ClassName returns the binary name of a class signature, or the name as
// written for an unresolved one.
func (s Signature) ClassName() string {
	if s.IsClass() || s.IsUnresolved() || s.IsTypeVar() {
		return string(s[1 : len(s)-1])
	}
	return ""
}

// SimpleName is the last segment of the name, after any package and
// enclosing type.
func (s Signature) SimpleName() string {
	name := s.ClassName()
	if i := strings.LastIndexAny(name, ".$"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Descriptor returns the slash separated form used in declaration keys.
func (s Signature) Descriptor() string {
	if s.IsClass() {
		return classfile.SourceToInternalName(string(s))
	}
	if s.IsArray() {
		return "[" + s.Elem().Descriptor()
	}
	return string(s)
}

// Display renders the signature as Java source would write it.
func (s Signature) Display() string {
	switch {
	case s == "":
		return ""
	case s.IsArray():
		return s.Elem().Display() + "[]"
	case s.IsClass():
		return strings.ReplaceAll(s.ClassName(), "$", ".")
	case s.IsUnresolved(), s.IsTypeVar():
		return s.ClassName()
	}
	for keyword, sig := range primitiveSignatures {
		if sig == s {
			return keyword
		}
	}
	return string(s)
}

func (s Signature) String() string {
	return string(s)
}
