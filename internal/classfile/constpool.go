package classfile

import "fmt"

// Tag identifies the kind of a constant pool entry.
type Tag uint8

const (
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
	TagMethodHandle       Tag = 15
	TagMethodType         Tag = 16
	TagDynamic            Tag = 17
	TagInvokeDynamic      Tag = 18
	TagModule             Tag = 19
	TagPackage            Tag = 20
)

func (t Tag) String() string {
	switch t {
	case TagUtf8:
		return "Utf8"
	case TagInteger:
		return "Integer"
	case TagFloat:
		return "Float"
	case TagLong:
		return "Long"
	case TagDouble:
		return "Double"
	case TagClass:
		return "Class"
	case TagString:
		return "String"
	case TagFieldref:
		return "Fieldref"
	case TagMethodref:
		return "Methodref"
	case TagInterfaceMethodref:
		return "InterfaceMethodref"
	case TagNameAndType:
		return "NameAndType"
	case TagMethodHandle:
		return "MethodHandle"
	case TagMethodType:
		return "MethodType"
	case TagDynamic:
		return "Dynamic"
	case TagInvokeDynamic:
		return "InvokeDynamic"
	case TagModule:
		return "Module"
	case TagPackage:
		return "Package"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// Wide reports whether entries of this kind take two pool slots.
func (t Tag) Wide() bool { return t == TagLong || t == TagDouble }

// Constant is one constant pool entry.
type Constant interface {
	Tag() Tag
}

type Utf8 struct{ Value string }

type Integer struct{ Value int32 }

type Float struct{ Bits uint32 }

type Long struct{ Value int64 }

type Double struct{ Bits uint64 }

type ClassRef struct{ NameIndex uint16 }

type StringRef struct{ StringIndex uint16 }

// MemberRef is a Fieldref, Methodref or InterfaceMethodref.
type MemberRef struct {
	Kind             Tag
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

type NameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

type MethodHandle struct {
	RefKind  uint8
	RefIndex uint16
}

type MethodType struct{ DescriptorIndex uint16 }

// DynamicRef is a Dynamic or InvokeDynamic entry.
type DynamicRef struct {
	Kind             Tag
	BootstrapIndex   uint16
	NameAndTypeIndex uint16
}

// NamedRef is a Module or Package entry.
type NamedRef struct {
	Kind      Tag
	NameIndex uint16
}

// unusable occupies the slot following a Long or Double.
type unusable struct{}

func (Utf8) Tag() Tag         { return TagUtf8 }
func (Integer) Tag() Tag      { return TagInteger }
func (Float) Tag() Tag        { return TagFloat }
func (Long) Tag() Tag         { return TagLong }
func (Double) Tag() Tag       { return TagDouble }
func (ClassRef) Tag() Tag     { return TagClass }
func (StringRef) Tag() Tag    { return TagString }
func (r MemberRef) Tag() Tag  { return r.Kind }
func (NameAndType) Tag() Tag  { return TagNameAndType }
func (MethodHandle) Tag() Tag { return TagMethodHandle }
func (MethodType) Tag() Tag   { return TagMethodType }
func (r DynamicRef) Tag() Tag { return r.Kind }
func (r NamedRef) Tag() Tag   { return r.Kind }
func (unusable) Tag() Tag     { return 0 }

// ConstantPool holds entries by 1-based index: entries[i-1] is index i.
// The slot after a Long or Double is present but unusable.
type ConstantPool struct {
	entries []Constant
}

// Count returns constant_pool_count as declared in the file (one more than
// the highest valid index).
func (p ConstantPool) Count() int { return len(p.entries) + 1 }

// Each calls fn for every addressable entry in index order.
func (p ConstantPool) Each(fn func(index uint16, c Constant)) {
	for i, c := range p.entries {
		if _, skip := c.(unusable); skip {
			continue
		}
		fn(uint16(i+1), c)
	}
}
