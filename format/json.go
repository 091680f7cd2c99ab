package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/caret/java"
)

type JSONEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildClassData(), "", "  ")
}

type jsonClass struct {
	Name        string       `json:"name"`
	SimpleName  string       `json:"simpleName"`
	Package     string       `json:"package"`
	Outer       string       `json:"outer,omitempty"`
	Kind        string       `json:"kind"`
	Modifiers   []string     `json:"modifiers,omitempty"`
	SuperClass  string       `json:"superClass,omitempty"`
	Interfaces  []string     `json:"interfaces,omitempty"`
	Origin      jsonOrigin   `json:"origin"`
	Fields      []jsonField  `json:"fields,omitempty"`
	Methods     []jsonMethod `json:"methods,omitempty"`
	MemberTypes []string     `json:"memberTypes,omitempty"`
}

type jsonOrigin struct {
	Kind  string `json:"kind"`
	Path  string `json:"path"`
	Entry string `json:"entry,omitempty"`
}

type jsonField struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Modifiers []string `json:"modifiers,omitempty"`
}

type jsonMethod struct {
	Name       string          `json:"name"`
	ReturnType string          `json:"returnType,omitempty"`
	Parameters []jsonParameter `json:"parameters,omitempty"`
	Modifiers  []string        `json:"modifiers,omitempty"`
	Varargs    bool            `json:"varargs,omitempty"`
}

type jsonParameter struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

func originToJSON(o java.Origin) jsonOrigin {
	return jsonOrigin{Kind: o.Kind.String(), Path: o.Path, Entry: o.Entry}
}

func (e *JSONEncoder) buildClassData() jsonClass {
	c := e.class
	data := jsonClass{
		Name:       c.Name,
		SimpleName: c.SimpleName,
		Package:    c.Package,
		Outer:      c.Outer,
		Kind:       string(c.Kind),
		Modifiers:  classModifiers(c),
		SuperClass: c.SuperClass.ClassName(),
		Origin:     originToJSON(c.Origin),
	}
	for _, i := range c.Interfaces {
		data.Interfaces = append(data.Interfaces, i.ClassName())
	}
	for _, f := range c.Fields {
		data.Fields = append(data.Fields, jsonField{
			Name:      f.Name,
			Type:      string(f.Type),
			Modifiers: fieldModifiers(f),
		})
	}
	for _, m := range c.Methods {
		jm := jsonMethod{
			Name:       m.Name,
			ReturnType: string(m.ReturnType),
			Modifiers:  methodModifiers(m),
			Varargs:    m.IsVarargs,
		}
		for _, p := range m.Parameters {
			jm.Parameters = append(jm.Parameters, jsonParameter{Name: p.Name, Type: string(p.Type)})
		}
		data.Methods = append(data.Methods, jm)
	}
	for _, t := range c.MemberTypes {
		data.MemberTypes = append(data.MemberTypes, t.Name)
	}
	return data
}
