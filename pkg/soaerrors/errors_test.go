package soaerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, "noop"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeIndex, "inner")
	require.NotEmpty(t, inner.Stack)

	outer := Wrap(inner, ErrorTypeRecord, "outer")
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, IsType(outer, ErrorTypeRecord))
	assert.True(t, IsType(outer, ErrorTypeIndex))
	assert.False(t, IsType(outer, ErrorTypeArity))
}

func TestDetailOf(t *testing.T) {
	inner := Wrap(errSentinel, ErrorTypeIndex, "read").WithDetail("index", 4)
	outer := Wrap(inner, ErrorTypeRecord, "construct").WithDetail("row", "r1")

	v, ok := DetailOf(outer, "index")
	require.True(t, ok)
	assert.Equal(t, 4, v)

	v, ok = DetailOf(outer, "row")
	require.True(t, ok)
	assert.Equal(t, "r1", v)

	_, ok = DetailOf(outer, "missing")
	assert.False(t, ok)
	_, ok = DetailOf(errSentinel, "index")
	assert.False(t, ok)

	assert.ErrorIs(t, outer, errSentinel)
}

func TestErrorString(t *testing.T) {
	err := New(ErrorTypeValidation, "empty column name")
	assert.Equal(t, "validation: empty column name", err.Error())

	err = Wrap(errSentinel, ErrorTypeColumn, "lookup").WithDetail("column", "score")
	assert.Equal(t, "column: lookup: sentinel (column=score)", err.Error())
}
