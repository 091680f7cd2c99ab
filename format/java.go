package format

import (
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/caret/java"
)

// JavaEncoder writes a class as a Java declaration with empty bodies.
type JavaEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewJavaEncoder(w io.Writer) *JavaEncoder {
	return &JavaEncoder{w: w}
}

func (e *JavaEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JavaEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	if c.Package != "" {
		sb.WriteString("package ")
		sb.WriteString(c.Package)
		sb.WriteString(";\n\n")
	}

	e.writeClassDeclaration(&sb)
	sb.WriteString(" {\n")

	e.writeFields(&sb)
	e.writeMethods(&sb)

	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func (e *JavaEncoder) writeClassDeclaration(sb *strings.Builder) {
	c := e.class

	for _, mod := range classModifiers(c) {
		sb.WriteString(mod)
		sb.WriteByte(' ')
	}

	switch c.Kind {
	case java.ClassKindAnnotation:
		sb.WriteString("@interface ")
	case java.ClassKindEnum:
		sb.WriteString("enum ")
	case java.ClassKindRecord:
		sb.WriteString("record ")
	case java.ClassKindInterface:
		sb.WriteString("interface ")
	default:
		sb.WriteString("class ")
	}

	sb.WriteString(c.SimpleName)
	if len(c.TypeParameters) > 0 {
		sb.WriteString("<" + strings.Join(c.TypeParameters, ", ") + ">")
	}

	if super := c.SuperClass; super != "" && super != java.SigObject && c.Kind == java.ClassKindClass {
		sb.WriteString(" extends ")
		sb.WriteString(super.Display())
	}

	if len(c.Interfaces) > 0 {
		if c.IsInterface() {
			sb.WriteString(" extends ")
		} else {
			sb.WriteString(" implements ")
		}
		names := make([]string, len(c.Interfaces))
		for i, iface := range c.Interfaces {
			names[i] = iface.Display()
		}
		sb.WriteString(strings.Join(names, ", "))
	}
}

func (e *JavaEncoder) writeFields(sb *strings.Builder) {
	fields := e.class.Fields
	for _, f := range fields {
		sb.WriteString("    ")
		for _, mod := range fieldModifiers(f) {
			sb.WriteString(mod)
			sb.WriteByte(' ')
		}
		sb.WriteString(f.Type.Display())
		sb.WriteByte(' ')
		sb.WriteString(f.Name)
		sb.WriteString(";\n")
	}
	if len(fields) > 0 && len(e.class.Methods) > 0 {
		sb.WriteString("\n")
	}
}

func (e *JavaEncoder) writeMethods(sb *strings.Builder) {
	c := e.class
	for _, m := range c.Methods {
		sb.WriteString("    ")
		for _, mod := range methodModifiers(m) {
			sb.WriteString(mod)
			sb.WriteByte(' ')
		}
		if len(m.TypeParameters) > 0 {
			sb.WriteString("<" + strings.Join(m.TypeParameters, ", ") + "> ")
		}
		if m.IsConstructor() {
			sb.WriteString(c.SimpleName)
		} else {
			ret := m.ReturnType
			if ret == "" {
				ret = java.SigVoid
			}
			sb.WriteString(ret.Display())
			sb.WriteByte(' ')
			sb.WriteString(m.Name)
		}
		sb.WriteByte('(')
		for i, p := range m.Parameters {
			if i > 0 {
				sb.WriteString(", ")
			}
			typ := p.Type.Display()
			if m.IsVarargs && i == len(m.Parameters)-1 {
				typ = strings.TrimSuffix(typ, "[]") + "..."
			}
			sb.WriteString(typ)
			name := p.Name
			if name == "" {
				name = "arg" + strconv.Itoa(i)
			}
			sb.WriteByte(' ')
			sb.WriteString(name)
		}
		sb.WriteByte(')')
		if m.IsAbstract || (c.IsInterface() && !m.IsStatic) {
			sb.WriteString(";\n")
		} else {
			sb.WriteString(" {}\n")
		}
	}
}
