package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferBasics(t *testing.T) {
	bb := NewByteBuffer(16)
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 16, bb.Cap())

	bb.MustWrite([]byte{1, 2, 3})
	require.Equal(t, 3, bb.Len())
	require.Equal(t, []byte{1, 2, 3}, bb.Bytes())

	require.NoError(t, bb.WriteByte(4))
	require.Equal(t, []byte{1, 2, 3, 4}, bb.Bytes())

	bb.Truncate(2)
	require.Equal(t, []byte{1, 2}, bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
}

func TestByteBufferTruncatePanics(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte{1})

	require.Panics(t, func() { bb.Truncate(2) })
	require.Panics(t, func() { bb.Truncate(-1) })
}

func TestByteBufferGrow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte{1, 2, 3, 4})

	bb.Grow(100)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 100)
	require.Equal(t, []byte{1, 2, 3, 4}, bb.Bytes())
}

func TestByteBufferPoolReuse(t *testing.T) {
	p := NewByteBufferPool(8, 64)

	bb := p.Get()
	bb.MustWrite([]byte{1, 2, 3})
	p.Put(bb)

	again := p.Get()
	require.Equal(t, 0, again.Len(), "pooled buffers come back reset")
}

func TestByteBufferPoolDropsOversized(t *testing.T) {
	p := NewByteBufferPool(8, 16)

	bb := p.Get()
	bb.Grow(1024)
	p.Put(bb) // silently dropped; next Get must still work

	require.NotNil(t, p.Get())
}
