package classfile

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ErrBadMagic is returned for input that does not start with 0xCAFEBABE.
var ErrBadMagic = errors.New("not a class file")

// decoder reads big-endian values from a buffer. The first failure
// sticks; later reads return zero values.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > len(d.buf)-d.off {
		d.fail(errors.Wrapf(io.ErrUnexpectedEOF, "%d bytes at offset %d", n, d.off))
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u1() uint8 {
	if b := d.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) u2() uint16 {
	if b := d.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (d *decoder) u4() uint32 {
	if b := d.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) u8() uint64 {
	if b := d.take(8); b != nil {
		return binary.BigEndian.Uint64(b)
	}
	return 0
}

func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open class file")
	}
	return Decode(data)
}

func Parse(r io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read class file")
	}
	return Decode(data)
}

// Decode reads the class file in data. Bytes after the last attribute
// are ignored.
func Decode(data []byte) (*ClassFile, error) {
	d := &decoder{buf: data}

	magic := d.u4()
	if d.err != nil {
		return nil, errors.Wrap(d.err, "read magic")
	}
	if magic != Magic {
		return nil, errors.Wrapf(ErrBadMagic, "0x%X", magic)
	}

	cf := &ClassFile{
		MinorVersion: d.u2(),
		MajorVersion: d.u2(),
	}
	cp := readPool(d)
	if d.err != nil {
		return nil, errors.Wrap(d.err, "read constant pool")
	}

	cf.Flags = AccessFlags(d.u2())
	cf.Name = cp.class(d.u2())
	cf.Super = cp.class(d.u2())
	for n := int(d.u2()); n > 0 && d.err == nil; n-- {
		cf.Interfaces = append(cf.Interfaces, cp.class(d.u2()))
	}
	if d.err != nil {
		return nil, errors.Wrap(d.err, "read class header")
	}

	if cf.Fields = readMembers(d, cp); d.err != nil {
		return nil, errors.Wrap(d.err, "read fields")
	}
	if cf.Methods = readMembers(d, cp); d.err != nil {
		return nil, errors.Wrap(d.err, "read methods")
	}

	readAttributes(d, cp, func(name string, info []byte) {
		switch name {
		case "InnerClasses":
			cf.InnerClasses = decodeInnerClasses(info, cp)
		case "EnclosingMethod":
			if len(info) >= 4 {
				cf.EnclosingClass = cp.class(u2(info))
			}
		case "Record":
			cf.Record = true
		}
	})
	if d.err != nil {
		return nil, errors.Wrap(d.err, "read class attributes")
	}
	return cf, nil
}

func readMembers(d *decoder, cp pool) []Member {
	n := int(d.u2())
	members := make([]Member, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		m := Member{
			Flags:      AccessFlags(d.u2()),
			Name:       cp.utf8(d.u2()),
			Descriptor: cp.utf8(d.u2()),
		}
		readAttributes(d, cp, func(name string, info []byte) {
			switch name {
			case "ConstantValue":
				if len(info) >= 2 {
					m.Constant = cp.constant(u2(info))
				}
			case "MethodParameters":
				m.ParameterNames = decodeParameterNames(info, cp)
			}
		})
		members = append(members, m)
	}
	return members
}

// readAttributes calls visit with the name and body of every attribute
// in a table.
func readAttributes(d *decoder, cp pool, visit func(name string, info []byte)) {
	for n := int(d.u2()); n > 0 && d.err == nil; n-- {
		name := cp.utf8(d.u2())
		info := d.take(int(d.u4()))
		if d.err == nil {
			visit(name, info)
		}
	}
}

func decodeInnerClasses(info []byte, cp pool) []InnerClass {
	if len(info) < 2 {
		return nil
	}
	n := int(u2(info))
	if len(info) < 2+n*8 {
		return nil
	}
	classes := make([]InnerClass, n)
	for i := range classes {
		b := info[2+i*8:]
		classes[i] = InnerClass{
			Inner:      cp.class(u2(b)),
			Outer:      cp.class(u2(b[2:])),
			SimpleName: cp.utf8(u2(b[4:])),
			Flags:      AccessFlags(u2(b[6:])),
		}
	}
	return classes
}

func decodeParameterNames(info []byte, cp pool) []string {
	if len(info) < 1 {
		return nil
	}
	n := int(info[0])
	if len(info) < 1+n*4 {
		return nil
	}
	names := make([]string, n)
	for i := range names {
		names[i] = cp.utf8(u2(info[1+i*4:]))
	}
	return names
}
