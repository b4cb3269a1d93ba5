// Package classfile decodes JVM class files into a read-only model.
//
// Only the method table is interpreted. Fields and attributes are skipped
// by their declared lengths; the constant pool is decoded in full so that
// names and descriptors can be resolved by index.
package classfile

import (
	"fmt"

	"classlint/internal/jvmfmt"
)

// Magic is the first u4 of every class file.
const Magic = 0xCAFEBABE

// Access flags shared by classes and methods (JVMS tables 4.1-B, 4.6-A).
const (
	AccPublic       = 0x0001
	AccPrivate      = 0x0002
	AccProtected    = 0x0004
	AccStatic       = 0x0008
	AccFinal        = 0x0010
	AccSynchronized = 0x0020
	AccSuper        = 0x0020
	AccBridge       = 0x0040
	AccVarargs      = 0x0080
	AccNative       = 0x0100
	AccInterface    = 0x0200
	AccAbstract     = 0x0400
	AccSynthetic    = 0x1000
	AccAnnotation   = 0x2000
	AccEnum         = 0x4000
	AccModule       = 0x8000
)

// Special method names.
const (
	InitName   = "<init>"
	ClinitName = "<clinit>"
	MainName   = "main"
)

// ClassFile is a decoded class file. It is never mutated after Decode
// returns and may be shared between goroutines.
type ClassFile struct {
	Magic          uint32        `json:"magic"`
	MinorVersion   uint16        `json:"minor_version"`
	MajorVersion   uint16        `json:"major_version"`
	Pool           ConstantPool  `json:"-"`
	AccessFlags    uint16        `json:"access_flags"`
	ThisClass      uint16        `json:"this_class"`
	SuperClass     uint16        `json:"super_class"`
	Interfaces     []uint16      `json:"interfaces,omitempty"`
	FieldCount     int           `json:"field_count"`
	Methods        []MethodInfo  `json:"methods"`
	AttributeCount int           `json:"attribute_count"`
	Diags          []jvmfmt.Diag `json:"diagnostics,omitempty"`
}

// MethodInfo is one entry of the method table. Name and descriptor are
// 1-based constant pool indices.
type MethodInfo struct {
	Offset          int    `json:"offset"` // file offset of the method_info
	AccessFlags     uint16 `json:"access_flags"`
	NameIndex       uint16 `json:"name_index"`
	DescriptorIndex uint16 `json:"descriptor_index"`
	AttributeCount  int    `json:"attribute_count"`
}

// Is reports whether every bit of flag is set.
func (m MethodInfo) Is(flag uint16) bool { return m.AccessFlags&flag == flag }

// IsInterface reports whether the class is an interface.
func (cf *ClassFile) IsInterface() bool { return cf.AccessFlags&AccInterface != 0 }

// Version returns "major.minor".
func (cf *ClassFile) Version() string {
	return fmt.Sprintf("%d.%d", cf.MajorVersion, cf.MinorVersion)
}
