// Package descriptor parses JVM method and field type descriptors.
//
// Grammar (JVMS §4.3):
//
//	MethodDescriptor: ( ParameterDescriptor* ) ReturnDescriptor
//	FieldType:        BaseType | L ClassName ; | [ FieldType
//	ReturnDescriptor: FieldType | V
//
// A run of '[' belongs to the type it prefixes, so "[[I" is a single
// parameter.
package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSyntax reports a descriptor that does not follow the grammar.
var ErrInvalidSyntax = errors.New("descriptor: invalid syntax")

// Void is the return discriminator of a method that returns nothing.
const Void = 'V'

// Type is one field type: a primitive, a class reference, or an array of
// either.
type Type struct {
	Dims  int    // number of leading '['
	Base  byte   // primitive letter, 'L' for class types, or 'V'
	Class string // internal class name for Base == 'L', e.g. "java/lang/String"
}

var primitiveNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

func isPrimitive(c byte) bool {
	_, ok := primitiveNames[c]
	return ok && c != Void
}

// String renders the type in Java source form: "int[][]", "java.lang.String".
func (t Type) String() string {
	var base string
	if t.Base == 'L' {
		base = strings.ReplaceAll(t.Class, "/", ".")
	} else {
		base = primitiveNames[t.Base]
	}
	return base + strings.Repeat("[]", t.Dims)
}

// IsVoid reports whether the type is the void return type.
func (t Type) IsVoid() bool { return t.Base == Void && t.Dims == 0 }

// Method is a parsed method descriptor.
type Method struct {
	Params []Type
	Return Type
}

// ParseMethod parses a method descriptor such as "(I[[JLjava/lang/String;)V".
func ParseMethod(desc string) (*Method, error) {
	if len(desc) == 0 || desc[0] != '(' {
		return nil, fmt.Errorf("%w: %q does not start with '('", ErrInvalidSyntax, desc)
	}
	m := &Method{}
	i := 1
	for {
		if i >= len(desc) {
			return nil, fmt.Errorf("%w: %q has no closing ')'", ErrInvalidSyntax, desc)
		}
		if desc[i] == ')' {
			i++
			break
		}
		t, next, err := parseFieldType(desc, i)
		if err != nil {
			return nil, err
		}
		m.Params = append(m.Params, t)
		i = next
	}

	if i >= len(desc) {
		return nil, fmt.Errorf("%w: %q is missing a return type", ErrInvalidSyntax, desc)
	}
	if desc[i] == Void {
		m.Return = Type{Base: Void}
		i++
	} else {
		t, next, err := parseFieldType(desc, i)
		if err != nil {
			return nil, err
		}
		m.Return = t
		i = next
	}
	if i != len(desc) {
		return nil, fmt.Errorf("%w: %q has trailing data at %d", ErrInvalidSyntax, desc, i)
	}
	return m, nil
}

// ParseField parses a field descriptor such as "[Ljava/lang/Object;".
func ParseField(desc string) (Type, error) {
	t, next, err := parseFieldType(desc, 0)
	if err != nil {
		return Type{}, err
	}
	if next != len(desc) {
		return Type{}, fmt.Errorf("%w: %q has trailing data at %d", ErrInvalidSyntax, desc, next)
	}
	return t, nil
}

// parseFieldType reads one FieldType starting at desc[i] and returns the
// index just past it.
func parseFieldType(desc string, i int) (Type, int, error) {
	var t Type
	for i < len(desc) && desc[i] == '[' {
		t.Dims++
		i++
	}
	if i >= len(desc) {
		return Type{}, 0, fmt.Errorf("%w: %q ends inside an array type", ErrInvalidSyntax, desc)
	}
	c := desc[i]
	switch {
	case isPrimitive(c):
		t.Base = c
		return t, i + 1, nil
	case c == 'L':
		// Consume through the terminating ';', whatever the name contains.
		end := strings.IndexByte(desc[i+1:], ';')
		if end < 0 {
			return Type{}, 0, fmt.Errorf("%w: %q has an unterminated class type at %d", ErrInvalidSyntax, desc, i)
		}
		if end == 0 {
			return Type{}, 0, fmt.Errorf("%w: %q has an empty class name at %d", ErrInvalidSyntax, desc, i)
		}
		t.Base = 'L'
		t.Class = desc[i+1 : i+1+end]
		return t, i + 1 + end + 1, nil
	default:
		return Type{}, 0, fmt.Errorf("%w: %q has unexpected %q at %d", ErrInvalidSyntax, desc, c, i)
	}
}

// ParamCount returns the number of parameters declared by a method
// descriptor.
func ParamCount(desc string) (int, error) {
	m, err := ParseMethod(desc)
	if err != nil {
		return 0, err
	}
	return len(m.Params), nil
}

// ReturnsVoid reports whether the descriptor's return discriminator, its
// last character, is 'V'.
func ReturnsVoid(desc string) bool {
	return len(desc) > 0 && desc[len(desc)-1] == Void
}
