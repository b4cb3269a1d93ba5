package classfile_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classlint/internal/classfile"
	"classlint/internal/classfile/classfiletest"
	"classlint/internal/descriptor"
	"classlint/internal/jvmfmt"
)

func sample() *classfiletest.Builder {
	b := classfiletest.New().This("com/example/Widget").Super("java/lang/Object")
	b.Interface("java/lang/Runnable")
	b.Field("count", "I").Field("label", "Ljava/lang/String;")
	b.Method("<init>", "()V").
		Method("run", "()V").
		Method("size", "()I").
		Method("resize", "(II[[JLjava/lang/String;)Z")
	b.Attribute("SourceFile", []byte{0, 1})
	return b
}

func TestDecode_Sample(t *testing.T) {
	cf, err := classfile.Decode(sample().Bytes(), jvmfmt.Options{})
	require.NoError(t, err)

	assert.Equal(t, uint32(classfile.Magic), cf.Magic)
	assert.Equal(t, uint16(52), cf.MajorVersion)
	assert.Equal(t, "8", cf.Release())
	assert.Equal(t, 2, cf.FieldCount)
	assert.Len(t, cf.Interfaces, 1)
	assert.Equal(t, 1, cf.AttributeCount)
	assert.Empty(t, cf.Diags)

	name, err := cf.Name()
	require.NoError(t, err)
	assert.Equal(t, "com/example/Widget", name)
	super, err := cf.SuperName()
	require.NoError(t, err)
	assert.Equal(t, "java/lang/Object", super)

	require.Len(t, cf.Methods, 4)
	var names []string
	for _, m := range cf.Methods {
		n, d, err := cf.ResolveMethod(m)
		require.NoError(t, err)
		_, err = descriptor.ParseMethod(d)
		require.NoError(t, err)
		assert.Equal(t, 1, m.AttributeCount)
		assert.True(t, m.Is(classfile.AccPublic))
		names = append(names, n)
	}
	assert.Equal(t, []string{"<init>", "run", "size", "resize"}, names)
}

func TestDecode_MethodCountMatchesHeader(t *testing.T) {
	for _, n := range []int{0, 1, 7, 40} {
		b := classfiletest.New()
		for i := 0; i < n; i++ {
			b.Method("m"+string(rune('a'+i%26))+string(rune('a'+i/26)), "()V")
		}
		data := b.Bytes()
		cf, err := classfile.Decode(data, jvmfmt.Options{})
		require.NoError(t, err)
		assert.Len(t, cf.Methods, n)
	}
}

func TestDecode_WideConstantsKeepIndicesAligned(t *testing.T) {
	b := classfiletest.New()
	longIdx := b.Long(1 << 40)
	doubleIdx := b.Double(3.5)
	after := b.UTF8("afterWide")
	b.Method("afterWide", "()I")
	cf, err := classfile.Decode(b.Bytes(), jvmfmt.Options{})
	require.NoError(t, err)

	assert.Equal(t, longIdx+2, doubleIdx)
	assert.Equal(t, doubleIdx+2, after)

	c, err := cf.Pool.Entry(longIdx)
	require.NoError(t, err)
	assert.Equal(t, classfile.Long{Value: 1 << 40}, c)

	s, err := cf.Pool.UTF8(after)
	require.NoError(t, err)
	assert.Equal(t, "afterWide", s)

	// The second slot of a wide constant is not addressable.
	_, err = cf.Pool.Entry(longIdx + 1)
	assert.ErrorIs(t, err, classfile.ErrNotFound)
	assert.Equal(t, jvmfmt.KindNotFound, jvmfmt.KindOf(err))
	_, err = cf.Pool.UTF8(doubleIdx + 1)
	assert.ErrorIs(t, err, classfile.ErrNotFound)

	name, _, err := cf.ResolveMethod(cf.Methods[0])
	require.NoError(t, err)
	assert.Equal(t, "afterWide", name)
}

func TestDecode_AllConstantKinds(t *testing.T) {
	b := classfiletest.New()
	b.Integer(-7)
	b.StringConst("hello")
	b.Fieldref("com/example/A", "f", "I")
	b.Methodref("com/example/A", "m", "()V")
	b.InterfaceMethodref("java/util/List", "size", "()I")
	b.Raw(4, []byte{0x3f, 0x80, 0, 0})            // Float 1.0
	b.Raw(15, []byte{6, 0, 1})                      // MethodHandle
	b.Raw(16, []byte{0, 1})                         // MethodType
	b.Raw(17, []byte{0, 0, 0, 1})                   // Dynamic
	b.Raw(18, []byte{0, 0, 0, 1})                   // InvokeDynamic
	b.Raw(19, []byte{0, 1})                         // Module
	b.Raw(20, []byte{0, 1})                         // Package
	b.Method("run", "()V")

	cf, err := classfile.Decode(b.Bytes(), jvmfmt.Options{})
	require.NoError(t, err)

	seen := map[classfile.Tag]bool{}
	cf.Pool.Each(func(_ uint16, c classfile.Constant) { seen[c.Tag()] = true })
	for _, tag := range []classfile.Tag{
		classfile.TagUtf8, classfile.TagInteger, classfile.TagFloat, classfile.TagClass,
		classfile.TagString, classfile.TagFieldref, classfile.TagMethodref,
		classfile.TagInterfaceMethodref, classfile.TagNameAndType, classfile.TagMethodHandle,
		classfile.TagMethodType, classfile.TagDynamic, classfile.TagInvokeDynamic,
		classfile.TagModule, classfile.TagPackage,
	} {
		assert.True(t, seen[tag], "missing %s", tag)
	}
}

func TestDecode_Failures(t *testing.T) {
	valid := sample().Bytes()

	badMagic := append([]byte{}, valid...)
	binary.BigEndian.PutUint32(badMagic, 0xCAFED00D)

	zeroPool := append([]byte{}, valid[:8]...)
	zeroPool = append(zeroPool, 0, 0)

	unknownTag := classfiletest.New()
	unknownTag.Raw(2, nil)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, classfile.ErrMalformedHeader},
		{"short header", valid[:9], classfile.ErrMalformedHeader},
		{"bad magic", badMagic, classfile.ErrMalformedHeader},
		{"zero pool count", zeroPool, classfile.ErrMalformedHeader},
		{"truncated pool", valid[:14], classfile.ErrUnexpectedEOF},
		{"truncated methods", valid[:len(valid)-12], classfile.ErrUnexpectedEOF},
		{"missing class attributes", valid[:len(valid)-8], classfile.ErrUnexpectedEOF},
		{"unknown tag", unknownTag.Bytes(), classfile.ErrUnknownConstantTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf, err := classfile.Decode(tt.data, jvmfmt.Options{})
			assert.Nil(t, cf)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, jvmfmt.KindParseError, jvmfmt.KindOf(err))
		})
	}
}

func TestDecode_AttributeLengthOverrun(t *testing.T) {
	b := classfiletest.New()
	b.Method("run", "()V")
	b.Attribute("Bogus", []byte{1, 2, 3, 4})
	data := b.Bytes()
	// Inflate the last attribute's declared length past the end of the data.
	binary.BigEndian.PutUint32(data[len(data)-8:], 1000)

	_, err := classfile.Decode(data, jvmfmt.Options{})
	assert.ErrorIs(t, err, classfile.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, jvmfmt.ErrStreamOverrun)
}

func TestDecode_TrailingData(t *testing.T) {
	data := classfiletest.New().Method("run", "()V").Trailing([]byte{0xde, 0xad}).Bytes()

	cf, err := classfile.Decode(data, jvmfmt.Options{Mode: jvmfmt.ModeBestEffort})
	require.NoError(t, err)
	require.Len(t, cf.Diags, 1)
	assert.Equal(t, jvmfmt.DiagTrailing, cf.Diags[0].Kind)
	assert.Equal(t, jvmfmt.NoMethodIndex, cf.Diags[0].Method)
	assert.Equal(t, len(data)-2, cf.Diags[0].Offset)

	_, err = classfile.Decode(data, jvmfmt.Options{Mode: jvmfmt.ModeStrict})
	assert.ErrorIs(t, err, classfile.ErrTrailingData)
}

func TestDecode_InvalidDescriptor(t *testing.T) {
	data := classfiletest.New().Method("broken", "(I").Method("fine", "()I").Bytes()

	cf, err := classfile.Decode(data, jvmfmt.Options{})
	require.NoError(t, err)
	require.Len(t, cf.Diags, 1)
	assert.Equal(t, jvmfmt.DiagDescriptor, cf.Diags[0].Kind)
	assert.Equal(t, 0, cf.Diags[0].Method)
	assert.Equal(t, cf.Methods[0].Offset, cf.Diags[0].Offset)
	assert.Len(t, cf.Methods, 2)

	_, err = classfile.Decode(data, jvmfmt.Options{Mode: jvmfmt.ModeStrict})
	assert.ErrorIs(t, err, descriptor.ErrInvalidSyntax)
	assert.Equal(t, jvmfmt.KindInvalidDescriptor, jvmfmt.KindOf(err))
}

func TestDecode_UnknownVersionIsDiag(t *testing.T) {
	b := classfiletest.New()
	b.Major = 200
	cf, err := classfile.Decode(b.Bytes(), jvmfmt.Options{Mode: jvmfmt.ModeStrict})
	require.NoError(t, err)
	require.Len(t, cf.Diags, 1)
	assert.Equal(t, jvmfmt.DiagVersion, cf.Diags[0].Kind)
	assert.Equal(t, "", cf.Release())
}

func TestDecode_ModifiedUTF8(t *testing.T) {
	b := classfiletest.New()
	// "a\u0000b" in modified UTF-8 and U+1F600 as a surrogate pair.
	nul := b.Raw(1, []byte{0, 4, 'a', 0xC0, 0x80, 'b'})
	emoji := b.Raw(1, []byte{0, 6, 0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80})
	plain := b.UTF8("café")
	cf, err := classfile.Decode(b.Bytes(), jvmfmt.Options{})
	require.NoError(t, err)

	s, err := cf.Pool.UTF8(nul)
	require.NoError(t, err)
	assert.Equal(t, "a\x00b", s)

	s, err = cf.Pool.UTF8(emoji)
	require.NoError(t, err)
	assert.Equal(t, "\U0001F600", s)

	s, err = cf.Pool.UTF8(plain)
	require.NoError(t, err)
	assert.Equal(t, "café", s)
}

func TestJavaRelease(t *testing.T) {
	tests := map[uint16]string{
		44: "",
		45: "1.1",
		48: "1.4",
		49: "5",
		52: "8",
		61: "17",
		65: "21",
		69: "25",
		70: "",
	}
	for major, want := range tests {
		assert.Equal(t, want, classfile.JavaRelease(major), "major %d", major)
	}
}

func TestPreview(t *testing.T) {
	b := classfiletest.New()
	b.Major, b.Minor = 61, 0xFFFF
	cf, err := classfile.Decode(b.Bytes(), jvmfmt.Options{})
	require.NoError(t, err)
	assert.True(t, cf.Preview())
	assert.Equal(t, "61.65535", cf.Version())
}
