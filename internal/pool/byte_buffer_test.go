package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_Basics(t *testing.T) {
	bb := NewByteBuffer(16)

	require.Equal(t, 0, bb.Len())
	bb.AppendByte(0x01)
	bb.AppendByte(0x02)
	bb.MustWrite([]byte{0x03, 0x04})

	require.Equal(t, 4, bb.Len())
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
}

func TestByteBuffer_GrowsBeyondCapacity(t *testing.T) {
	bb := NewByteBuffer(2)

	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i)
	}
	bb.MustWrite(data)
	require.Equal(t, data, bb.Bytes())
}

func TestByteBufferPool_Reuse(t *testing.T) {
	p := NewByteBufferPool(64, 1024)

	bb := p.Get()
	require.NotNil(t, bb)
	bb.AppendByte(0xAA)
	p.Put(bb)

	// A pooled buffer comes back reset.
	bb2 := p.Get()
	require.Equal(t, 0, bb2.Len())
	p.Put(bb2)
}

func TestByteBufferPool_DiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(16, 32)

	bb := p.Get()
	bb.MustWrite(make([]byte, 128))
	require.Greater(t, cap(bb.B), 32)

	// Put must not panic and must not hand the oversized buffer back out
	// still holding data.
	p.Put(bb)
	bb2 := p.Get()
	require.Equal(t, 0, bb2.Len())
}

func TestByteBufferPool_PutNil(t *testing.T) {
	p := NewByteBufferPool(16, 32)
	require.NotPanics(t, func() {
		p.Put(nil)
	})
}

func TestPayloadBufferPool(t *testing.T) {
	bb := GetPayloadBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())
	bb.AppendByte(0x01)
	PutPayloadBuffer(bb)
}
