package classfile

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"classlint/internal/descriptor"
	"classlint/internal/jvmfmt"
)

var (
	ErrMalformedHeader    = errors.New("classfile: malformed header")
	ErrUnexpectedEOF      = errors.New("classfile: unexpected end of input")
	ErrUnknownConstantTag = errors.New("classfile: unknown constant tag")
	ErrTrailingData       = errors.New("classfile: trailing data after attributes")
)

// headerSize covers magic, minor, major and constant_pool_count.
const headerSize = 10

// Decode parses a class file in a single forward pass.
//
// Layout (JVMS §4.1):
//
//	u4 magic; u2 minor_version; u2 major_version
//	u2 constant_pool_count; cp_info constant_pool[count-1]
//	u2 access_flags; u2 this_class; u2 super_class
//	u2 interfaces_count; u2 interfaces[]
//	u2 fields_count; field_info fields[]
//	u2 methods_count; method_info methods[]
//	u2 attributes_count; attribute_info attributes[]
func Decode(data []byte, opts jvmfmt.Options) (*ClassFile, error) {
	if len(data) < headerSize {
		return nil, jvmfmt.Errorf(jvmfmt.KindParseError, ErrMalformedHeader,
			"%d bytes is shorter than the %d-byte header", len(data), headerSize)
	}

	var diags jvmfmt.Diags
	s := jvmfmt.NewStream(data)
	cf := &ClassFile{}

	cf.Magic, _ = s.ReadU4()
	if cf.Magic != Magic {
		return nil, jvmfmt.Errorf(jvmfmt.KindParseError, ErrMalformedHeader,
			"bad magic 0x%08x", cf.Magic)
	}
	cf.MinorVersion, _ = s.ReadU2()
	cf.MajorVersion, _ = s.ReadU2()
	if JavaRelease(cf.MajorVersion) == "" {
		diags.Classf(6, jvmfmt.DiagVersion, "unknown major version %d", cf.MajorVersion)
	}

	count, _ := s.ReadU2()
	if count == 0 {
		return nil, jvmfmt.Errorf(jvmfmt.KindParseError, ErrMalformedHeader,
			"constant_pool_count is 0")
	}
	pool, err := decodePool(s, count)
	if err != nil {
		return nil, err
	}
	cf.Pool = pool

	if cf.AccessFlags, err = readU2(s, "access_flags"); err != nil {
		return nil, err
	}
	if cf.ThisClass, err = readU2(s, "this_class"); err != nil {
		return nil, err
	}
	if cf.SuperClass, err = readU2(s, "super_class"); err != nil {
		return nil, err
	}

	n, err := readU2(s, "interfaces_count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(n); i++ {
		idx, err := readU2(s, "interface index")
		if err != nil {
			return nil, err
		}
		cf.Interfaces = append(cf.Interfaces, idx)
	}

	n, err = readU2(s, "fields_count")
	if err != nil {
		return nil, err
	}
	cf.FieldCount = int(n)
	for i := 0; i < cf.FieldCount; i++ {
		// access_flags, name_index, descriptor_index
		if err := s.Skip(6); err != nil {
			return nil, truncated(fmt.Sprintf("field %d", i), s.Position(), err)
		}
		if _, err := skipAttributes(s, fmt.Sprintf("field %d", i)); err != nil {
			return nil, err
		}
	}

	n, err = readU2(s, "methods_count")
	if err != nil {
		return nil, err
	}
	cf.Methods = make([]MethodInfo, 0, n)
	for i := 0; i < int(n); i++ {
		m, err := decodeMethod(s, i)
		if err != nil {
			return nil, err
		}
		cf.Methods = append(cf.Methods, m)
	}

	if cf.AttributeCount, err = skipAttributes(s, "class"); err != nil {
		return nil, err
	}

	if s.Remaining() > 0 {
		if opts.Mode == jvmfmt.ModeStrict {
			return nil, jvmfmt.Errorf(jvmfmt.KindParseError, ErrTrailingData,
				"%d bytes after offset %d", s.Remaining(), s.Position())
		}
		diags.Classf(s.Position(), jvmfmt.DiagTrailing, "%d trailing bytes ignored", s.Remaining())
	}

	if err := checkDescriptors(cf, opts, &diags); err != nil {
		return nil, err
	}

	cf.Diags = diags
	return cf, nil
}

func decodeMethod(s *jvmfmt.Stream, i int) (MethodInfo, error) {
	m := MethodInfo{Offset: s.Position()}
	what := fmt.Sprintf("method %d", i)
	var err error
	if m.AccessFlags, err = readU2(s, what+" access_flags"); err != nil {
		return m, err
	}
	if m.NameIndex, err = readU2(s, what+" name_index"); err != nil {
		return m, err
	}
	if m.DescriptorIndex, err = readU2(s, what+" descriptor_index"); err != nil {
		return m, err
	}
	if m.AttributeCount, err = skipAttributes(s, what); err != nil {
		return m, err
	}
	return m, nil
}

// decodePool reads count-1 slots. Long and Double take two slots; the
// second is filled with an unusable placeholder so that indices line up
// with the references made elsewhere in the file.
func decodePool(s *jvmfmt.Stream, count uint16) (ConstantPool, error) {
	entries := make([]Constant, 0, int(count)-1)
	for idx := 1; idx < int(count); idx++ {
		at := s.Position()
		b, err := s.ReadU1()
		if err != nil {
			return ConstantPool{}, truncated(fmt.Sprintf("constant #%d tag", idx), at, err)
		}
		tag := Tag(b)
		c, err := decodeConstant(s, tag)
		if err != nil {
			if errors.Is(err, ErrUnknownConstantTag) {
				return ConstantPool{}, jvmfmt.Errorf(jvmfmt.KindParseError, ErrUnknownConstantTag,
					"constant #%d at offset %d has tag %d", idx, at, b)
			}
			return ConstantPool{}, truncated(fmt.Sprintf("constant #%d (%s)", idx, tag), at, err)
		}
		entries = append(entries, c)
		if tag.Wide() {
			idx++
			if idx < int(count) {
				entries = append(entries, unusable{})
			}
		}
	}
	return ConstantPool{entries: entries}, nil
}

func decodeConstant(s *jvmfmt.Stream, tag Tag) (Constant, error) {
	switch tag {
	case TagUtf8:
		n, err := s.ReadU2()
		if err != nil {
			return nil, err
		}
		raw, err := s.ReadBytes(int(n))
		if err != nil {
			return nil, err
		}
		return Utf8{Value: decodeModifiedUTF8(raw)}, nil
	case TagInteger:
		v, err := s.ReadU4()
		return Integer{Value: int32(v)}, err
	case TagFloat:
		v, err := s.ReadU4()
		return Float{Bits: v}, err
	case TagLong:
		v, err := s.ReadU8()
		return Long{Value: int64(v)}, err
	case TagDouble:
		v, err := s.ReadU8()
		return Double{Bits: v}, err
	case TagClass:
		v, err := s.ReadU2()
		return ClassRef{NameIndex: v}, err
	case TagString:
		v, err := s.ReadU2()
		return StringRef{StringIndex: v}, err
	case TagMethodType:
		v, err := s.ReadU2()
		return MethodType{DescriptorIndex: v}, err
	case TagModule, TagPackage:
		v, err := s.ReadU2()
		return NamedRef{Kind: tag, NameIndex: v}, err
	case TagFieldref, TagMethodref, TagInterfaceMethodref:
		a, b, err := readU2Pair(s)
		return MemberRef{Kind: tag, ClassIndex: a, NameAndTypeIndex: b}, err
	case TagNameAndType:
		a, b, err := readU2Pair(s)
		return NameAndType{NameIndex: a, DescriptorIndex: b}, err
	case TagDynamic, TagInvokeDynamic:
		a, b, err := readU2Pair(s)
		return DynamicRef{Kind: tag, BootstrapIndex: a, NameAndTypeIndex: b}, err
	case TagMethodHandle:
		k, err := s.ReadU1()
		if err != nil {
			return nil, err
		}
		v, err := s.ReadU2()
		return MethodHandle{RefKind: k, RefIndex: v}, err
	default:
		return nil, ErrUnknownConstantTag
	}
}

// checkDescriptors validates the descriptor of every method whose
// descriptor index resolves. Unresolvable indices are left to the rules,
// which report them per method.
func checkDescriptors(cf *ClassFile, opts jvmfmt.Options, diags *jvmfmt.Diags) error {
	for i, m := range cf.Methods {
		desc, err := cf.Pool.UTF8(m.DescriptorIndex)
		if err != nil {
			diags.Methodf(m.Offset, i, jvmfmt.DiagUnresolved, "descriptor: %s", jvmfmt.Message(err))
			continue
		}
		if _, err := descriptor.ParseMethod(desc); err != nil {
			if opts.Mode == jvmfmt.ModeStrict {
				return jvmfmt.Errorf(jvmfmt.KindInvalidDescriptor, err, "method %d at offset %d", i, m.Offset)
			}
			diags.Methodf(m.Offset, i, jvmfmt.DiagDescriptor, "%v", err)
		}
	}
	return nil
}

// skipAttributes reads attributes_count and skips each attribute_info by
// its u4 length. It returns the count.
func skipAttributes(s *jvmfmt.Stream, owner string) (int, error) {
	n, err := readU2(s, owner+" attributes_count")
	if err != nil {
		return 0, err
	}
	for i := 0; i < int(n); i++ {
		at := s.Position()
		// attribute_name_index
		if err := s.Skip(2); err != nil {
			return 0, truncated(fmt.Sprintf("%s attribute %d", owner, i), at, err)
		}
		if err := s.SkipU4Blob(); err != nil {
			return 0, truncated(fmt.Sprintf("%s attribute %d", owner, i), at, err)
		}
	}
	return int(n), nil
}

func readU2(s *jvmfmt.Stream, what string) (uint16, error) {
	at := s.Position()
	v, err := s.ReadU2()
	if err != nil {
		return 0, truncated(what, at, err)
	}
	return v, nil
}

func readU2Pair(s *jvmfmt.Stream) (uint16, uint16, error) {
	a, err := s.ReadU2()
	if err != nil {
		return 0, 0, err
	}
	b, err := s.ReadU2()
	return a, b, err
}

func truncated(what string, offset int, err error) error {
	return &jvmfmt.Error{
		Kind: jvmfmt.KindParseError,
		Msg:  fmt.Sprintf("%s at offset %d", what, offset),
		Err:  fmt.Errorf("%w: %w", ErrUnexpectedEOF, err),
	}
}

// decodeModifiedUTF8 converts the class file's modified UTF-8 (JVMS
// §4.4.7) to a Go string. NUL is encoded as C0 80 and supplementary
// characters as surrogate pairs. Input that is not valid modified UTF-8
// is returned as-is.
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
		case c&0xE0 == 0xC0 && i+1 < len(b) && b[i+1]&0xC0 == 0x80:
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b) && b[i+1]&0xC0 == 0x80 && b[i+2]&0xC0 == 0x80:
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return string(b)
		}
	}
	out := string(utf16.Decode(units))
	if !utf8.ValidString(out) {
		return string(b)
	}
	return out
}
