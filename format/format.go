// Package format renders skeletons, class models and completion contexts
// for the command line.
package format

import (
	"encoding"
	"io"

	"github.com/pkg/errors"

	"github.com/dhamidi/caret/java"
)

// Encoder writes one class model at a time.
type Encoder interface {
	encoding.TextMarshaler
	Encode(class *java.ClassModel) error
}

// NewEncoder returns the class model encoder for name: json, line or java.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "line", "":
		return NewLineEncoder(w), nil
	case "java":
		return NewJavaEncoder(w), nil
	}
	return nil, errors.Errorf("unknown format: %s", name)
}

func visibilityModifier(v java.Visibility) []string {
	if v == "" || v == java.VisibilityPackage {
		return nil
	}
	return []string{string(v)}
}

func classModifiers(c *java.ClassModel) []string {
	mods := visibilityModifier(c.Visibility)
	if c.IsStatic {
		mods = append(mods, "static")
	}
	if c.IsAbstract && !c.IsInterface() {
		mods = append(mods, "abstract")
	}
	if c.IsFinal && c.Kind != java.ClassKindRecord && c.Kind != java.ClassKindEnum {
		mods = append(mods, "final")
	}
	return mods
}

func fieldModifiers(f java.FieldModel) []string {
	mods := visibilityModifier(f.Visibility)
	if f.IsStatic {
		mods = append(mods, "static")
	}
	if f.IsFinal {
		mods = append(mods, "final")
	}
	return mods
}

func methodModifiers(m java.MethodModel) []string {
	mods := visibilityModifier(m.Visibility)
	if m.IsStatic {
		mods = append(mods, "static")
	}
	if m.IsAbstract {
		mods = append(mods, "abstract")
	}
	return mods
}
