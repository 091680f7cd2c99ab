package java

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/dhamidi/caret/classfile"
)

func ClassModelFromFile(path string) (*ClassModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ClassModelFromReader(f, BinaryOrigin(path))
}

func ClassModelFromReader(r io.Reader, origin Origin) (*ClassModel, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", origin)
	}
	return ClassModelFromClassFile(cf, origin), nil
}

// ClassModelFromClassFile converts a decoded class file. Synthetic and
// bridge members and static initializers are dropped. Pos numbers the
// remaining fields, methods and member types in class file order.
func ClassModelFromClassFile(cf *classfile.ClassFile, origin Origin) *ClassModel {
	className := classfile.InternalToSourceName(cf.Name)
	pkg, simpleName := splitClassName(className)

	model := &ClassModel{
		Name:       className,
		SimpleName: simpleName,
		Package:    pkg,
		Outer:      outerName(className),
		Visibility: visibilityFromAccessFlags(cf.Flags),
		Kind:       classKindFromClassFile(cf),
		IsFinal:    cf.Flags.Has(classfile.AccFinal),
		IsAbstract: cf.Flags.Has(classfile.AccAbstract),
		Origin:     origin,
	}

	if cf.Super != "" {
		model.SuperClass = ClassSignature(classfile.InternalToSourceName(cf.Super))
	}
	for _, iface := range cf.Interfaces {
		model.Interfaces = append(model.Interfaces, ClassSignature(classfile.InternalToSourceName(iface)))
	}

	pos := 0
	for _, field := range cf.Fields {
		if field.Flags.Has(classfile.AccSynthetic) {
			continue
		}
		f := fieldModelFromMember(field)
		f.Pos = pos
		pos++
		model.Fields = append(model.Fields, f)
	}

	for _, method := range cf.Methods {
		if method.Flags.Has(classfile.AccSynthetic) || method.Flags.Has(classfile.AccBridge) || method.Name == "<clinit>" {
			continue
		}
		m := methodModelFromMember(method)
		m.Pos = pos
		pos++
		model.Methods = append(model.Methods, m)
	}

	applyInnerClasses(model, cf.InnerClasses, &pos)
	if cf.EnclosingClass != "" {
		model.Outer = classfile.InternalToSourceName(cf.EnclosingClass)
		model.IsLocal = true
	}
	return model
}

// applyInnerClasses records the member types declared by model and, when
// model is itself nested, its simple name, modifiers and outer type.
func applyInnerClasses(model *ClassModel, entries []classfile.InnerClass, pos *int) {
	for _, entry := range entries {
		flags := entry.Flags
		if flags.Has(classfile.AccSynthetic) {
			continue
		}
		inner := classfile.InternalToSourceName(entry.Inner)
		outer := classfile.InternalToSourceName(entry.Outer)
		isStatic := flags.Has(classfile.AccStatic) || flags.Has(classfile.AccInterface) || flags.Has(classfile.AccEnum)

		if inner == model.Name {
			model.Visibility = visibilityFromAccessFlags(flags)
			model.IsStatic = isStatic
			model.IsAbstract = flags.Has(classfile.AccAbstract)
			model.IsFinal = flags.Has(classfile.AccFinal)
			if outer != "" {
				model.Outer = outer
			}
			switch {
			case entry.SimpleName == "":
				model.IsAnonymous = true
				model.IsLocal = true
				model.SimpleName = ""
			case outer == "":
				model.IsLocal = true
				model.SimpleName = entry.SimpleName
			default:
				model.SimpleName = entry.SimpleName
			}
			continue
		}

		if outer != model.Name || entry.SimpleName == "" {
			continue
		}
		model.MemberTypes = append(model.MemberTypes, MemberTypeModel{
			SimpleName: entry.SimpleName,
			Name:       inner,
			Visibility: visibilityFromAccessFlags(flags),
			IsStatic:   isStatic,
			Pos:        *pos,
		})
		*pos++
	}
}

func visibilityFromAccessFlags(flags classfile.AccessFlags) Visibility {
	switch {
	case flags.Has(classfile.AccPublic):
		return VisibilityPublic
	case flags.Has(classfile.AccProtected):
		return VisibilityProtected
	case flags.Has(classfile.AccPrivate):
		return VisibilityPrivate
	}
	return VisibilityPackage
}

func classKindFromClassFile(cf *classfile.ClassFile) ClassKind {
	switch {
	case cf.IsAnnotation():
		return ClassKindAnnotation
	case cf.IsEnum():
		return ClassKindEnum
	case cf.IsInterface():
		return ClassKindInterface
	case cf.Record:
		return ClassKindRecord
	}
	return ClassKindClass
}

func fieldModelFromMember(f classfile.Member) FieldModel {
	return FieldModel{
		Name:           f.Name,
		Type:           descriptorSignature(f.Descriptor),
		Visibility:     visibilityFromAccessFlags(f.Flags),
		IsStatic:       f.Flags.Has(classfile.AccStatic),
		IsFinal:        f.Flags.Has(classfile.AccFinal),
		IsEnumConstant: f.Flags.Has(classfile.AccEnum),
	}
}

func methodModelFromMember(m classfile.Member) MethodModel {
	model := MethodModel{
		Name:       m.Name,
		Visibility: visibilityFromAccessFlags(m.Flags),
		IsStatic:   m.Flags.Has(classfile.AccStatic),
		IsAbstract: m.Flags.Has(classfile.AccAbstract),
		IsVarargs:  m.Flags.Has(classfile.AccVarargs),
		ReturnType: SigVoid,
	}

	params, ret, ok := classfile.SplitMethodDescriptor(m.Descriptor)
	if !ok {
		model.IsVarargs = false
		return model
	}
	model.ReturnType = SignatureFromDescriptor(ret)
	for i, p := range params {
		param := ParameterModel{Type: SignatureFromDescriptor(p)}
		if i < len(m.ParameterNames) {
			param.Name = m.ParameterNames[i]
		}
		model.Parameters = append(model.Parameters, param)
	}
	if model.IsVarargs && (len(model.Parameters) == 0 || !model.Parameters[len(model.Parameters)-1].Type.IsArray()) {
		model.IsVarargs = false
	}
	return model
}

// descriptorSignature is SignatureFromDescriptor for field descriptors
// that may be malformed.
func descriptorSignature(desc string) Signature {
	if !classfile.IsFieldDescriptor(desc) {
		return SigVoid
	}
	return SignatureFromDescriptor(desc)
}
