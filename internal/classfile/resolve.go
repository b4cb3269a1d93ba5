package classfile

import (
	"errors"
	"fmt"

	"classlint/internal/jvmfmt"
)

var (
	ErrNotFound  = errors.New("classfile: constant pool index out of range")
	ErrWrongKind = errors.New("classfile: wrong constant kind")
)

// NoMethod identifies a method whose name could not be resolved.
const NoMethod = "N/A"

// Entry returns the constant at a 1-based index. Index 0, indices past the
// end, and the second slot of a Long or Double are all NotFound.
func (p ConstantPool) Entry(index uint16) (Constant, error) {
	if index == 0 || int(index) > len(p.entries) {
		return nil, jvmfmt.Errorf(jvmfmt.KindNotFound, ErrNotFound,
			"index %d out of range for constant pool of %d entries", index, p.Count())
	}
	c := p.entries[index-1]
	if _, bad := c.(unusable); bad {
		return nil, jvmfmt.Errorf(jvmfmt.KindNotFound, ErrNotFound,
			"index %d is the second slot of a %s constant", index, p.entries[index-2].Tag())
	}
	return c, nil
}

// UTF8 returns the text of the Utf8 constant at index.
func (p ConstantPool) UTF8(index uint16) (string, error) {
	c, err := p.Entry(index)
	if err != nil {
		return "", err
	}
	u, ok := c.(Utf8)
	if !ok {
		return "", wrongKind(index, c, TagUtf8)
	}
	return u.Value, nil
}

// ClassName returns the internal name of the Class constant at index,
// e.g. "java/lang/Object".
func (p ConstantPool) ClassName(index uint16) (string, error) {
	c, err := p.Entry(index)
	if err != nil {
		return "", err
	}
	cr, ok := c.(ClassRef)
	if !ok {
		return "", wrongKind(index, c, TagClass)
	}
	return p.UTF8(cr.NameIndex)
}

// NameAndType resolves the NameAndType constant at index.
func (p ConstantPool) NameAndType(index uint16) (name, desc string, err error) {
	c, err := p.Entry(index)
	if err != nil {
		return "", "", err
	}
	nt, ok := c.(NameAndType)
	if !ok {
		return "", "", wrongKind(index, c, TagNameAndType)
	}
	if name, err = p.UTF8(nt.NameIndex); err != nil {
		return "", "", err
	}
	if desc, err = p.UTF8(nt.DescriptorIndex); err != nil {
		return "", "", err
	}
	return name, desc, nil
}

// ResolvedRef is a resolved Fieldref, Methodref or InterfaceMethodref.
type ResolvedRef struct {
	Kind       Tag
	Owner      string
	Name       string
	Descriptor string
}

// Ref resolves the member reference at index.
func (p ConstantPool) Ref(index uint16) (ResolvedRef, error) {
	c, err := p.Entry(index)
	if err != nil {
		return ResolvedRef{}, err
	}
	mr, ok := c.(MemberRef)
	if !ok {
		return ResolvedRef{}, wrongKind(index, c, TagMethodref)
	}
	owner, err := p.ClassName(mr.ClassIndex)
	if err != nil {
		return ResolvedRef{}, err
	}
	name, desc, err := p.NameAndType(mr.NameAndTypeIndex)
	if err != nil {
		return ResolvedRef{}, err
	}
	return ResolvedRef{Kind: mr.Kind, Owner: owner, Name: name, Descriptor: desc}, nil
}

func wrongKind(index uint16, got Constant, want Tag) error {
	return jvmfmt.Errorf(jvmfmt.KindInvalidFormat, ErrWrongKind,
		"constant #%d is %s, not %s", index, got.Tag(), want)
}

// MethodError is a resolution failure attributed to a method. Method is
// NoMethod when the name itself could not be resolved.
type MethodError struct {
	Method string
	Err    error
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("method %s: %v", e.Method, e.Err)
}

func (e *MethodError) Unwrap() error { return e.Err }

// MethodName resolves a method's name.
func (cf *ClassFile) MethodName(m MethodInfo) (string, error) {
	name, err := cf.Pool.UTF8(m.NameIndex)
	if err != nil {
		return "", &MethodError{Method: NoMethod, Err: err}
	}
	return name, nil
}

// ResolveMethod resolves a method's name, then its descriptor. A failure
// on the name carries NoMethod; a failure on the descriptor carries the
// name already resolved.
func (cf *ClassFile) ResolveMethod(m MethodInfo) (name, desc string, err error) {
	name, err = cf.MethodName(m)
	if err != nil {
		return "", "", err
	}
	desc, err = cf.Pool.UTF8(m.DescriptorIndex)
	if err != nil {
		return name, "", &MethodError{Method: name, Err: err}
	}
	return name, desc, nil
}

// Name returns the internal name of this class.
func (cf *ClassFile) Name() (string, error) {
	return cf.Pool.ClassName(cf.ThisClass)
}

// SuperName returns the internal name of the superclass, or "" for
// java/lang/Object and module-info, whose super_class is 0.
func (cf *ClassFile) SuperName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.Pool.ClassName(cf.SuperClass)
}
