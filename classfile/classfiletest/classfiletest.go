// Package classfiletest writes minimal class files for tests. Only the
// structure the reader consumes is emitted; methods carry no code.
package classfiletest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"math"

	"github.com/dhamidi/caret/classfile"
)

// Class describes a class file. Names use the internal slash form
// (java/lang/String, p/Outer$Inner).
type Class struct {
	Name       string
	Super      string
	Interfaces []string
	Flags      classfile.AccessFlags
	Fields     []Field
	Methods    []Method
	Inner      []InnerClass
	// EnclosingClass is set for local and anonymous classes.
	EnclosingClass string
	Record         bool
}

type Field struct {
	Name       string
	Descriptor string
	Flags      classfile.AccessFlags
	// Constant is an int32, int64, float64 or string and becomes the
	// field's ConstantValue attribute.
	Constant interface{}
}

type Method struct {
	Name           string
	Descriptor     string
	Flags          classfile.AccessFlags
	ParameterNames []string
}

// InnerClass is one InnerClasses entry. An empty Outer marks a local or
// anonymous class, an empty SimpleName an anonymous one.
type InnerClass struct {
	Inner      string
	Outer      string
	SimpleName string
	Flags      classfile.AccessFlags
}

type pool struct {
	entries [][]byte
	count   uint16
	index   map[string]uint16
}

func newPool() *pool {
	return &pool{count: 1, index: make(map[string]uint16)}
}

func (p *pool) add(key string, entry []byte, slots uint16) uint16 {
	if i, ok := p.index[key]; ok {
		return i
	}
	i := p.count
	p.entries = append(p.entries, entry)
	p.count += slots
	p.index[key] = i
	return i
}

func (p *pool) utf8(s string) uint16 {
	b := []byte{1}
	b = binary.BigEndian.AppendUint16(b, uint16(len(s)))
	return p.add("u:"+s, append(b, s...), 1)
}

func (p *pool) class(name string) uint16 {
	if name == "" {
		return 0
	}
	nameIndex := p.utf8(name)
	return p.add("c:"+name, binary.BigEndian.AppendUint16([]byte{7}, nameIndex), 1)
}

func (p *pool) constant(v interface{}) uint16 {
	switch v := v.(type) {
	case int32:
		b := binary.BigEndian.AppendUint32([]byte{3}, uint32(v))
		return p.add("i:"+string(b), b, 1)
	case int64:
		b := binary.BigEndian.AppendUint64([]byte{5}, uint64(v))
		return p.add("j:"+string(b), b, 2)
	case float64:
		b := binary.BigEndian.AppendUint64([]byte{6}, math.Float64bits(v))
		return p.add("d:"+string(b), b, 2)
	case string:
		s := p.utf8(v)
		return p.add("s:"+v, binary.BigEndian.AppendUint16([]byte{8}, s), 1)
	}
	return 0
}

type attribute struct {
	name uint16
	info []byte
}

func writeAttributes(buf *bytes.Buffer, attrs []attribute) {
	binary.Write(buf, binary.BigEndian, uint16(len(attrs)))
	for _, a := range attrs {
		binary.Write(buf, binary.BigEndian, a.name)
		binary.Write(buf, binary.BigEndian, uint32(len(a.info)))
		buf.Write(a.info)
	}
}

// Bytes encodes c as a class file.
func (c Class) Bytes() []byte {
	p := newPool()
	this := p.class(c.Name)
	super := p.class(c.Super)
	if c.Super == "" && c.Name != "java/lang/Object" {
		super = p.class("java/lang/Object")
	}

	var body bytes.Buffer
	flags := c.Flags
	if flags == 0 {
		flags = classfile.AccPublic | classfile.AccSuper
	}
	binary.Write(&body, binary.BigEndian, uint16(flags))
	binary.Write(&body, binary.BigEndian, this)
	binary.Write(&body, binary.BigEndian, super)
	binary.Write(&body, binary.BigEndian, uint16(len(c.Interfaces)))
	for _, iface := range c.Interfaces {
		binary.Write(&body, binary.BigEndian, p.class(iface))
	}

	binary.Write(&body, binary.BigEndian, uint16(len(c.Fields)))
	for _, f := range c.Fields {
		binary.Write(&body, binary.BigEndian, uint16(f.Flags))
		binary.Write(&body, binary.BigEndian, p.utf8(f.Name))
		binary.Write(&body, binary.BigEndian, p.utf8(f.Descriptor))
		var attrs []attribute
		if f.Constant != nil {
			attrs = append(attrs, attribute{
				name: p.utf8("ConstantValue"),
				info: binary.BigEndian.AppendUint16(nil, p.constant(f.Constant)),
			})
		}
		writeAttributes(&body, attrs)
	}

	binary.Write(&body, binary.BigEndian, uint16(len(c.Methods)))
	for _, m := range c.Methods {
		binary.Write(&body, binary.BigEndian, uint16(m.Flags))
		binary.Write(&body, binary.BigEndian, p.utf8(m.Name))
		binary.Write(&body, binary.BigEndian, p.utf8(m.Descriptor))
		var attrs []attribute
		if len(m.ParameterNames) > 0 {
			info := []byte{byte(len(m.ParameterNames))}
			for _, name := range m.ParameterNames {
				info = binary.BigEndian.AppendUint16(info, p.utf8(name))
				info = binary.BigEndian.AppendUint16(info, 0)
			}
			attrs = append(attrs, attribute{name: p.utf8("MethodParameters"), info: info})
		}
		writeAttributes(&body, attrs)
	}

	var attrs []attribute
	if len(c.Inner) > 0 {
		info := binary.BigEndian.AppendUint16(nil, uint16(len(c.Inner)))
		for _, ic := range c.Inner {
			var nameIndex uint16
			if ic.SimpleName != "" {
				nameIndex = p.utf8(ic.SimpleName)
			}
			info = binary.BigEndian.AppendUint16(info, p.class(ic.Inner))
			info = binary.BigEndian.AppendUint16(info, p.class(ic.Outer))
			info = binary.BigEndian.AppendUint16(info, nameIndex)
			info = binary.BigEndian.AppendUint16(info, uint16(ic.Flags))
		}
		attrs = append(attrs, attribute{name: p.utf8("InnerClasses"), info: info})
	}
	if c.EnclosingClass != "" {
		info := binary.BigEndian.AppendUint16(nil, p.class(c.EnclosingClass))
		info = binary.BigEndian.AppendUint16(info, 0)
		attrs = append(attrs, attribute{name: p.utf8("EnclosingMethod"), info: info})
	}
	if c.Record {
		attrs = append(attrs, attribute{name: p.utf8("Record"), info: []byte{0, 0}})
	}
	writeAttributes(&body, attrs)

	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(classfile.Magic))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(61))
	binary.Write(&out, binary.BigEndian, p.count)
	for _, e := range p.entries {
		out.Write(e)
	}
	out.Write(body.Bytes())
	return out.Bytes()
}

// Jar zips the classes under their internal names. Extra maps entry
// names to raw contents and is written after the classes.
func Jar(classes []Class, extra map[string][]byte) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, c := range classes {
		w, _ := zw.Create(c.Name + ".class")
		w.Write(c.Bytes())
	}
	for name, data := range extra {
		w, _ := zw.Create(name)
		w.Write(data)
	}
	zw.Close()
	return buf.Bytes()
}
