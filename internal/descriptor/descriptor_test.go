package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamCount(t *testing.T) {
	tests := []struct {
		desc string
		want int
	}{
		{"()V", 0},
		{"(I)V", 1},
		{"(IJ)I", 2},
		{"([I)V", 1},
		{"([[[I)V", 1},
		{"([[Ljava/lang/String;I)V", 2},
		{"(Ljava/lang/String;)V", 1},
		// Primitive letters inside a class name must not be counted.
		{"(LIJZ/BCD;)V", 1},
		{"(Ljava/util/Map;[JLjava/lang/Object;DZ)Ljava/lang/String;", 5},
		{"(BCDFIJSZ)[Z", 8},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := ParamCount(tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMethod_Invalid(t *testing.T) {
	for _, desc := range []string{
		"",
		"V",
		"I)V",
		"(I",
		"(IV",
		"(I)",
		"([)V",
		"(Ljava/lang/String)V",
		"(L;)V",
		"(Q)V",
		"(V)V",
		"(I)VV",
		"(I)[",
	} {
		t.Run(desc, func(t *testing.T) {
			_, err := ParseMethod(desc)
			assert.ErrorIs(t, err, ErrInvalidSyntax)
		})
	}
}

func TestParseMethod_Types(t *testing.T) {
	m, err := ParseMethod("([[ILjava/lang/String;J)[Ljava/lang/Object;")
	require.NoError(t, err)
	require.Len(t, m.Params, 3)

	assert.Equal(t, Type{Dims: 2, Base: 'I'}, m.Params[0])
	assert.Equal(t, "int[][]", m.Params[0].String())
	assert.Equal(t, "java.lang.String", m.Params[1].String())
	assert.Equal(t, "long", m.Params[2].String())
	assert.Equal(t, "java.lang.Object[]", m.Return.String())
	assert.False(t, m.Return.IsVoid())

	m, err = ParseMethod("()V")
	require.NoError(t, err)
	assert.Empty(t, m.Params)
	assert.True(t, m.Return.IsVoid())
}

func TestParseField(t *testing.T) {
	ft, err := ParseField("[Ljava/util/List;")
	require.NoError(t, err)
	assert.Equal(t, "java.util.List[]", ft.String())

	_, err = ParseField("II")
	assert.ErrorIs(t, err, ErrInvalidSyntax)
	_, err = ParseField("V")
	assert.ErrorIs(t, err, ErrInvalidSyntax)
}

func TestReturnsVoid(t *testing.T) {
	assert.True(t, ReturnsVoid("()V"))
	assert.True(t, ReturnsVoid("(IJ)V"))
	assert.False(t, ReturnsVoid("()I"))
	assert.False(t, ReturnsVoid("()Ljava/lang/Void;"))
	assert.False(t, ReturnsVoid(""))
}
