package pool

import (
	"bytes"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestPoolResetsOnPut(t *testing.T) {
	p := New(
		func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, 64)) },
		func(b *bytes.Buffer) { b.Reset() },
	)

	buf := p.Get()
	buf.WriteString("payload")
	p.Put(buf)

	allocated, inUse, _, _ := p.Stats()
	assert.Equal(t, int64(1), allocated)
	assert.Equal(t, int64(0), inUse)
	assert.Equal(t, 0, buf.Len())
}

func TestPoolStats(t *testing.T) {
	p := New(func() *int { return new(int) }, nil)

	a := p.Get()
	b := p.Get()
	_, inUse, _, misses := p.Stats()
	assert.Equal(t, int64(2), inUse)
	assert.Equal(t, int64(2), misses)

	p.Put(a)
	p.Put(b)
	_, inUse, hits, misses := p.Stats()
	assert.Equal(t, int64(0), inUse)
	assert.Equal(t, int64(2), hits+misses)
}

func TestInternerSharesRepeatedStrings(t *testing.T) {
	in := NewInterner(0)

	line := "red,green,red"
	first := in.Intern(line[0:3])
	again := in.Intern(line[10:13])
	assert.Equal(t, "red", again)
	assert.Same(t, unsafe.StringData(first), unsafe.StringData(again))

	size, hits, misses := in.Stats()
	assert.Equal(t, int64(1), size)
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestInternerStopsGrowingWhenFull(t *testing.T) {
	in := NewInterner(2)
	in.Intern("a")
	in.Intern("b")
	assert.Equal(t, "c", in.Intern("c"))

	size, _, misses := in.Stats()
	assert.Equal(t, int64(2), size)
	assert.Equal(t, int64(3), misses)
}
