// Package classfiletest assembles class file bytes for tests.
package classfiletest

import (
	"encoding/binary"
	"math"
)

// Builder accumulates a constant pool, members and attributes and encodes
// them as a class file. Utf8 and Class constants are interned.
type Builder struct {
	Minor, Major uint16
	AccessFlags  uint16

	pool    []byte
	next    uint16
	utf8    map[string]uint16
	classes map[string]uint16

	this, super uint16
	noSuper     bool
	interfaces  []uint16
	fields      [][]byte
	methods     [][]byte
	attrs       [][]byte
	trailing    []byte
}

// New returns a Builder for a public class compiled for Java 8.
func New() *Builder {
	return &Builder{
		Major:       52,
		AccessFlags: 0x0021,
		next:        1,
		utf8:        make(map[string]uint16),
		classes:     make(map[string]uint16),
	}
}

func u2(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }

func (b *Builder) add(tag byte, body []byte, slots uint16) uint16 {
	idx := b.next
	b.pool = append(b.pool, tag)
	b.pool = append(b.pool, body...)
	b.next += slots
	return idx
}

// Raw appends an entry with an arbitrary tag and body.
func (b *Builder) Raw(tag byte, body []byte) uint16 { return b.add(tag, body, 1) }

// UTF8 interns a Utf8 constant.
func (b *Builder) UTF8(s string) uint16 {
	if idx, ok := b.utf8[s]; ok {
		return idx
	}
	body := append(u2(uint16(len(s))), s...)
	idx := b.add(1, body, 1)
	b.utf8[s] = idx
	return idx
}

// Class interns a Class constant for an internal name.
func (b *Builder) Class(name string) uint16 {
	if idx, ok := b.classes[name]; ok {
		return idx
	}
	nameIdx := b.UTF8(name)
	idx := b.add(7, u2(nameIdx), 1)
	b.classes[name] = idx
	return idx
}

func (b *Builder) Integer(v int32) uint16 {
	return b.add(3, binary.BigEndian.AppendUint32(nil, uint32(v)), 1)
}

// Long takes two pool slots.
func (b *Builder) Long(v int64) uint16 {
	return b.add(5, binary.BigEndian.AppendUint64(nil, uint64(v)), 2)
}

// Double takes two pool slots.
func (b *Builder) Double(v float64) uint16 {
	return b.add(6, binary.BigEndian.AppendUint64(nil, math.Float64bits(v)), 2)
}

func (b *Builder) StringConst(s string) uint16 {
	return b.add(8, u2(b.UTF8(s)), 1)
}

func (b *Builder) NameAndType(name, desc string) uint16 {
	n, d := b.UTF8(name), b.UTF8(desc)
	return b.add(12, append(u2(n), u2(d)...), 1)
}

func (b *Builder) Methodref(owner, name, desc string) uint16 {
	c, nt := b.Class(owner), b.NameAndType(name, desc)
	return b.add(10, append(u2(c), u2(nt)...), 1)
}

func (b *Builder) InterfaceMethodref(owner, name, desc string) uint16 {
	c, nt := b.Class(owner), b.NameAndType(name, desc)
	return b.add(11, append(u2(c), u2(nt)...), 1)
}

func (b *Builder) Fieldref(owner, name, desc string) uint16 {
	c, nt := b.Class(owner), b.NameAndType(name, desc)
	return b.add(9, append(u2(c), u2(nt)...), 1)
}

// This sets this_class.
func (b *Builder) This(name string) *Builder {
	b.this = b.Class(name)
	return b
}

// Super sets super_class.
func (b *Builder) Super(name string) *Builder {
	b.super = b.Class(name)
	return b
}

// NoSuper leaves super_class at 0, as in java/lang/Object.
func (b *Builder) NoSuper() *Builder {
	b.noSuper = true
	return b
}

func (b *Builder) Interface(name string) *Builder {
	b.interfaces = append(b.interfaces, b.Class(name))
	return b
}

// attribute encodes one attribute_info.
func (b *Builder) attribute(name string, body []byte) []byte {
	out := u2(b.UTF8(name))
	out = binary.BigEndian.AppendUint32(out, uint32(len(body)))
	return append(out, body...)
}

// Field appends a private field carrying an empty Synthetic attribute.
func (b *Builder) Field(name, desc string) *Builder {
	f := append(u2(0x0002), u2(b.UTF8(name))...)
	f = append(f, u2(b.UTF8(desc))...)
	f = append(f, u2(1)...)
	f = append(f, b.attribute("Synthetic", nil)...)
	b.fields = append(b.fields, f)
	return b
}

// Method appends a public method with a small Code attribute.
func (b *Builder) Method(name, desc string) *Builder {
	return b.MethodIndices(0x0001, b.UTF8(name), b.UTF8(desc))
}

// MethodIndices appends a method referencing arbitrary pool indices, for
// tests of resolution failures.
func (b *Builder) MethodIndices(access, nameIdx, descIdx uint16) *Builder {
	m := append(u2(access), u2(nameIdx)...)
	m = append(m, u2(descIdx)...)
	m = append(m, u2(1)...)
	// max_stack, max_locals, code_length=1, return, no exceptions, no attributes
	code := []byte{0, 1, 0, 1, 0, 0, 0, 1, 0xb1, 0, 0, 0, 0}
	m = append(m, b.attribute("Code", code)...)
	b.methods = append(b.methods, m)
	return b
}

// Attribute appends a class-level attribute.
func (b *Builder) Attribute(name string, body []byte) *Builder {
	b.attrs = append(b.attrs, b.attribute(name, body))
	return b
}

// Trailing appends bytes after the class attributes.
func (b *Builder) Trailing(data []byte) *Builder {
	b.trailing = append(b.trailing, data...)
	return b
}

// Bytes encodes the class file. This and Super default to "Test" and
// "java/lang/Object" when unset.
func (b *Builder) Bytes() []byte {
	if b.this == 0 {
		b.This("Test")
	}
	if b.super == 0 && !b.noSuper {
		b.Super("java/lang/Object")
	}
	out := binary.BigEndian.AppendUint32(nil, 0xCAFEBABE)
	out = append(out, u2(b.Minor)...)
	out = append(out, u2(b.Major)...)
	out = append(out, u2(b.next)...)
	out = append(out, b.pool...)
	out = append(out, u2(b.AccessFlags)...)
	out = append(out, u2(b.this)...)
	out = append(out, u2(b.super)...)
	out = append(out, u2(uint16(len(b.interfaces)))...)
	for _, i := range b.interfaces {
		out = append(out, u2(i)...)
	}
	out = appendTable(out, b.fields)
	out = appendTable(out, b.methods)
	out = appendTable(out, b.attrs)
	return append(out, b.trailing...)
}

func appendTable(out []byte, items [][]byte) []byte {
	out = append(out, u2(uint16(len(items)))...)
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}
