package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/caret/java"
)

// LineEncoder writes a class as tab separated lines: the class itself,
// then one line per field and method. Empty columns hold "-".
type LineEncoder struct {
	w     io.Writer
	class *java.ClassModel

	// HeaderOnly leaves out the member lines.
	HeaderOnly bool
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n", c.Kind, c.Name, column(classModifiers(c)), c.Origin)
	if e.HeaderOnly {
		return []byte(sb.String()), nil
	}

	for _, f := range c.Fields {
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\n",
			f.Name,
			f.Type,
			column(fieldModifiers(f)),
		)
	}

	for _, m := range c.Methods {
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\n",
			m.Name,
			column([]string{string(m.ReturnType)}),
			column(signatures(m.ParameterTypes())),
			column(methodModifiers(m)),
		)
	}

	return []byte(sb.String()), nil
}

func signatures(sigs []java.Signature) []string {
	out := make([]string, len(sigs))
	for i, s := range sigs {
		out[i] = string(s)
	}
	return out
}

func column(values []string) string {
	s := strings.Join(values, ",")
	if s == "" {
		return "-"
	}
	return s
}
