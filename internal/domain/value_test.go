package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/flowsim/internal/domain"
)

func TestVariant_AsDouble(t *testing.T) {
	v, err := domain.NewDoubleVariant(3.5).AsDouble()
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	v, err = domain.NewIntVariant(4).AsDouble()
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	v, err = domain.NewBoolVariant(true).AsDouble()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	_, err = domain.NewStringVariant("x").AsDouble()
	assert.Error(t, err)
}

func TestVariant_AsInt(t *testing.T) {
	i, err := domain.NewDoubleVariant(3.9).AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(3), i)

	i, err = domain.NewDoubleVariant(-3.9).AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(-3), i)

	i, err = domain.NewBoolVariant(false).AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(0), i)

	_, err = domain.NewPointVariant(domain.Point{X: 1, Y: 2}).AsInt()
	assert.Error(t, err)
}

func TestVariant_AsBool(t *testing.T) {
	b, err := domain.NewIntVariant(0).AsBool()
	require.NoError(t, err)
	assert.False(t, b)

	b, err = domain.NewDoubleVariant(-1).AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	_, err = domain.NewStringVariant("x").AsBool()
	assert.Error(t, err)
}

func TestVariant_AsStringAndAsPoint(t *testing.T) {
	s, err := domain.NewStringVariant("hi").AsString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	_, err = domain.NewIntVariant(1).AsString()
	assert.Error(t, err)

	p, err := domain.NewPointVariant(domain.Point{X: 1, Y: 2}).AsPoint()
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 1, Y: 2}, p)

	_, err = domain.NewDoubleVariant(1).AsPoint()
	assert.Error(t, err)
}

func TestVariant_ArrayRoundTrip(t *testing.T) {
	arr := domain.NewArrayVariant(domain.AtomDouble, []domain.Variant{
		domain.NewDoubleVariant(1),
		domain.NewDoubleVariant(2),
	})
	assert.Equal(t, 2, arr.Len())

	elems, err := arr.AsArray()
	require.NoError(t, err)
	assert.Len(t, elems, 2)

	_, err = domain.NewDoubleVariant(1).AsArray()
	assert.Error(t, err)
	assert.Equal(t, 0, domain.NewDoubleVariant(1).Len())
}

func TestVariant_Pushed(t *testing.T) {
	arr := domain.NewArrayVariant(domain.AtomDouble, nil)
	next := arr.Pushed(domain.NewDoubleVariant(5))

	assert.Equal(t, 0, arr.Len(), "Pushed must not mutate the receiver")
	assert.Equal(t, 1, next.Len())

	elems, err := next.AsArray()
	require.NoError(t, err)
	v, err := elems[0].AsDouble()
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestVariant_PoppedFront(t *testing.T) {
	arr := domain.NewArrayVariant(domain.AtomDouble, []domain.Variant{
		domain.NewDoubleVariant(1),
		domain.NewDoubleVariant(2),
		domain.NewDoubleVariant(3),
	})
	front, rest, err := arr.PoppedFront()
	require.NoError(t, err)

	fv, err := front.AsDouble()
	require.NoError(t, err)
	assert.Equal(t, 1.0, fv)
	assert.Equal(t, 2, rest.Len())
	assert.Equal(t, 3, arr.Len(), "PoppedFront must not mutate the receiver")

	_, _, err = domain.NewArrayVariant(domain.AtomDouble, nil).PoppedFront()
	assert.Error(t, err)

	_, _, err = domain.NewDoubleVariant(1).PoppedFront()
	assert.Error(t, err)
}

func TestZeroVariant(t *testing.T) {
	tests := []struct {
		vt   domain.ValueType
		want any
	}{
		{domain.ScalarType(domain.AtomInt), int64(0)},
		{domain.ScalarType(domain.AtomBool), false},
		{domain.ScalarType(domain.AtomString), ""},
		{domain.ScalarType(domain.AtomDouble), 0.0},
	}
	for _, tt := range tests {
		z := domain.ZeroVariant(tt.vt)
		assert.Equal(t, tt.vt, z.Type())
	}

	z := domain.ZeroVariant(domain.ArrayType(domain.AtomDouble))
	assert.Equal(t, 0, z.Len())
}

func TestVariantFromDouble(t *testing.T) {
	v := domain.VariantFromDouble(domain.AtomInt, 4.8)
	i, err := v.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(4), i)

	v = domain.VariantFromDouble(domain.AtomBool, 0)
	b, err := v.AsBool()
	require.NoError(t, err)
	assert.False(t, b)

	v = domain.VariantFromDouble(domain.AtomDouble, 2.5)
	d, err := v.AsDouble()
	require.NoError(t, err)
	assert.Equal(t, 2.5, d)
}

func TestInferValueType(t *testing.T) {
	tests := []struct {
		in   any
		want domain.AtomType
		ok   bool
	}{
		{1, domain.AtomInt, true},
		{int64(1), domain.AtomInt, true},
		{1.5, domain.AtomDouble, true},
		{true, domain.AtomBool, true},
		{"x", domain.AtomString, true},
		{domain.Point{X: 1, Y: 2}, domain.AtomPoint, true},
		{struct{}{}, domain.AtomType(""), false},
	}
	for _, tt := range tests {
		atom, ok := domain.InferValueType(tt.in)
		assert.Equal(t, tt.ok, ok)
		if tt.ok {
			assert.Equal(t, tt.want, atom)
		}
	}
}

func TestValueType_String(t *testing.T) {
	assert.Equal(t, "double", domain.ScalarType(domain.AtomDouble).String())
	assert.Equal(t, "array(int)", domain.ArrayType(domain.AtomInt).String())
}

func TestValueType_Equal(t *testing.T) {
	a := domain.ScalarType(domain.AtomDouble)
	b := domain.ScalarType(domain.AtomDouble)
	c := domain.ArrayType(domain.AtomDouble)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
