package classfile

import (
	"encoding/binary"
	"math"
	"unicode/utf16"

	"github.com/pkg/errors"
)

type tag uint8

const (
	tagUtf8               tag = 1
	tagInteger            tag = 3
	tagFloat              tag = 4
	tagLong               tag = 5
	tagDouble             tag = 6
	tagClass              tag = 7
	tagString             tag = 8
	tagFieldref           tag = 9
	tagMethodref          tag = 10
	tagInterfaceMethodref tag = 11
	tagNameAndType        tag = 12
	tagMethodHandle       tag = 15
	tagMethodType         tag = 16
	tagDynamic            tag = 17
	tagInvokeDynamic      tag = 18
	tagModule             tag = 19
	tagPackage            tag = 20
)

// entry keeps what the decoder resolves from a constant pool slot.
// Member references are skipped.
type entry struct {
	tag   tag
	text  string
	ref   uint16
	value any
}

// pool is indexed like the class file: slot 0 and the slot after a long
// or double stay empty.
type pool []entry

func readPool(d *decoder) pool {
	n := int(d.u2())
	p := make(pool, n)
	for i := 1; i < n && d.err == nil; i++ {
		e := entry{tag: tag(d.u1())}
		switch e.tag {
		case tagUtf8:
			e.text = decodeModifiedUTF8(d.take(int(d.u2())))
		case tagInteger:
			e.value = int32(d.u4())
		case tagFloat:
			e.value = math.Float32frombits(d.u4())
		case tagLong:
			e.value = int64(d.u8())
		case tagDouble:
			e.value = math.Float64frombits(d.u8())
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			e.ref = d.u2()
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			d.take(4)
		case tagMethodHandle:
			d.take(3)
		default:
			d.fail(errors.Errorf("unknown constant pool tag %d in slot %d", e.tag, i))
		}
		p[i] = e
		if e.tag == tagLong || e.tag == tagDouble {
			i++
		}
	}
	return p
}

func (p pool) at(i uint16, t tag) (entry, bool) {
	if int(i) >= len(p) || p[i].tag != t {
		return entry{}, false
	}
	return p[i], true
}

func (p pool) utf8(i uint16) string {
	e, _ := p.at(i, tagUtf8)
	return e.text
}

func (p pool) class(i uint16) string {
	if e, ok := p.at(i, tagClass); ok {
		return p.utf8(e.ref)
	}
	return ""
}

func (p pool) constant(i uint16) any {
	if int(i) >= len(p) {
		return nil
	}
	switch e := p[i]; e.tag {
	case tagInteger, tagFloat, tagLong, tagDouble:
		return e.value
	case tagString:
		return p.utf8(e.ref)
	}
	return nil
}

func u2(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// decodeModifiedUTF8 decodes the JVM string encoding: NUL takes two bytes
// and supplementary characters are written as surrogate pairs of three
// bytes each.
func decodeModifiedUTF8(b []byte) string {
	ascii := true
	for _, c := range b {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b)
	}

	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, 0xFFFD)
			i++
		}
	}
	return string(utf16.Decode(units))
}
